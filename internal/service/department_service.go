package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/events"
	"github.com/spec-kit/feedback-portal/internal/repository"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// DepartmentService is the department registry. It owns the
// single-active-department invariant.
type DepartmentService struct {
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
	// newest id issued by this process, guarded by the departments write lock
	lastID int64
}

// DepartmentDependencies encapsulates what the registry needs.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies) *DepartmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns every department in insertion order.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.departments.LoadAll(ctx)
}

// ListActive returns the departments flagged active. Uniqueness is not
// checked here; SetActive and ClearActive restore it on every call.
func (s *DepartmentService) ListActive(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Department, 0, 1)
	for _, d := range depts {
		if d.Active {
			active = append(active, d)
		}
	}
	return active, nil
}

// Create registers a new, inactive department.
func (s *DepartmentService) Create(ctx context.Context, name string) (*domain.Department, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var created domain.Department
	err = s.departments.Update(ctx, func(depts []domain.Department) ([]domain.Department, error) {
		created = domain.Department{
			ID:   domain.NextID(s.now(), append(departmentIDs(depts), s.lastID)),
			Name: name,
		}
		s.lastID = created.ID
		return append(depts, created), nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventDepartmentCreated, created.ID,
		events.DepartmentPayload{Name: created.Name, Active: created.Active}))
	return &created, nil
}

// Rename changes a department name, keeping its active flag.
func (s *DepartmentService) Rename(ctx context.Context, id int64, name string) (*domain.Department, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var renamed domain.Department
	err = s.departments.Update(ctx, func(depts []domain.Department) ([]domain.Department, error) {
		idx := repository.FindDepartment(depts, id)
		if idx < 0 {
			return nil, departmentNotFound(id)
		}
		depts[idx].Name = name
		renamed = depts[idx]
		return depts, nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventDepartmentRenamed, renamed.ID,
		events.DepartmentPayload{Name: renamed.Name, Active: renamed.Active}))
	return &renamed, nil
}

// SetActive makes id the only active department. Every record is rewritten,
// so any prior state (none, one or several active) ends with exactly one.
func (s *DepartmentService) SetActive(ctx context.Context, id int64) (*domain.Department, error) {
	var activated domain.Department
	err := s.departments.Update(ctx, func(depts []domain.Department) ([]domain.Department, error) {
		idx := repository.FindDepartment(depts, id)
		if idx < 0 {
			return nil, departmentNotFound(id)
		}
		next := make([]domain.Department, len(depts))
		for i, d := range depts {
			d.Active = i == idx
			next[i] = d
		}
		activated = next[idx]
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventDepartmentActivated, activated.ID,
		events.DepartmentPayload{Name: activated.Name, Active: true}))
	return &activated, nil
}

// ClearActive deactivates every department.
func (s *DepartmentService) ClearActive(ctx context.Context) error {
	deactivated := 0
	err := s.departments.Update(ctx, func(depts []domain.Department) ([]domain.Department, error) {
		next := make([]domain.Department, len(depts))
		for i, d := range depts {
			if d.Active {
				deactivated++
			}
			d.Active = false
			next[i] = d
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventDepartmentActiveCleared, 0,
		events.ActiveClearedPayload{Deactivated: deactivated}))
	return nil
}

// Delete removes a department. Feedback that references it is kept.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	var removed domain.Department
	err := s.departments.Update(ctx, func(depts []domain.Department) ([]domain.Department, error) {
		idx := repository.FindDepartment(depts, id)
		if idx < 0 {
			return nil, departmentNotFound(id)
		}
		removed = depts[idx]
		next := make([]domain.Department, 0, len(depts)-1)
		next = append(next, depts[:idx]...)
		return append(next, depts[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventDepartmentDeleted, removed.ID,
		events.DepartmentDeletedPayload{Name: removed.Name, WasActive: removed.Active}))
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}
	return name, nil
}

func departmentNotFound(id int64) error {
	return apperrors.NewNotFound("department", map[string]any{"id": id})
}

func departmentIDs(depts []domain.Department) []int64 {
	ids := make([]int64, len(depts))
	for i, d := range depts {
		ids[i] = d.ID
	}
	return ids
}
