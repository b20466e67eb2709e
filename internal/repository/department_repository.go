package repository

import (
	"context"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// DepartmentRepository manages the departments collection.
type DepartmentRepository interface {
	LoadAll(ctx context.Context) ([]domain.Department, error)
	ReplaceAll(ctx context.Context, items []domain.Department) error
	View(ctx context.Context, fn func([]domain.Department) error) error
	Update(ctx context.Context, fn func([]domain.Department) ([]domain.Department, error)) error
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(store persistence.DocumentStore) DepartmentRepository {
	return NewCollection[domain.Department](persistence.CollectionDepartments, store)
}

// FindDepartment returns the index of the department with id, or -1.
func FindDepartment(depts []domain.Department, id int64) int {
	for i := range depts {
		if depts[i].ID == id {
			return i
		}
	}
	return -1
}
