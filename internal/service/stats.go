package service

import (
	"context"
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/repository"
)

// RatingDistribution counts feedback per rating. All five ratings are always present.
type RatingDistribution map[domain.Rating]int

func newRatingDistribution() RatingDistribution {
	dist := make(RatingDistribution, len(domain.Ratings))
	for _, r := range domain.Ratings {
		dist[r] = 0
	}
	return dist
}

// DepartmentStats aggregates one department's feedback.
type DepartmentStats struct {
	DepartmentID       int64              `json:"departmentId"`
	Name               string             `json:"name"`
	Active             bool               `json:"active"`
	FeedbackCount      int                `json:"feedbackCount"`
	AverageScore       *float64           `json:"averageScore"`
	RatingDistribution RatingDistribution `json:"ratingDistribution"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalFeedbacks     int                `json:"totalFeedbacks"`
	LastSubmission     *time.Time         `json:"lastSubmission"`
	RatingDistribution RatingDistribution `json:"ratingDistribution"`
	Departments        []DepartmentStats  `json:"departments"`
}

// ComputeStats aggregates feedback per department in a single pass.
//
// Feedback whose department no longer exists counts toward TotalFeedbacks and
// the global distribution only, so totals do not shrink when a department is
// deleted. AverageScore is nil for departments without feedback.
func ComputeStats(departments []domain.Department, feedback []domain.Feedback) Stats {
	stats := Stats{
		TotalFeedbacks:     len(feedback),
		RatingDistribution: newRatingDistribution(),
		Departments:        make([]DepartmentStats, len(departments)),
	}

	index := make(map[int64]int, len(departments))
	weightSums := make([]int, len(departments))
	for i, d := range departments {
		stats.Departments[i] = DepartmentStats{
			DepartmentID:       d.ID,
			Name:               d.Name,
			Active:             d.Active,
			RatingDistribution: newRatingDistribution(),
		}
		index[d.ID] = i
	}

	for _, f := range feedback {
		if stats.LastSubmission == nil || f.CreatedAt.After(*stats.LastSubmission) {
			created := f.CreatedAt
			stats.LastSubmission = &created
		}
		// A stored rating outside the five values is left out of feedbackCount
		// as well as the distributions, so the distribution always sums to it.
		if !f.Rating.Valid() {
			continue
		}
		stats.RatingDistribution[f.Rating]++

		i, ok := index[f.DepartmentID]
		if !ok {
			continue
		}
		stats.Departments[i].FeedbackCount++
		stats.Departments[i].RatingDistribution[f.Rating]++
		weightSums[i] += f.Rating.Weight()
	}

	for i := range stats.Departments {
		if n := stats.Departments[i].FeedbackCount; n > 0 {
			avg := float64(weightSums[i]) / float64(n)
			stats.Departments[i].AverageScore = &avg
		}
	}
	return stats
}

// StatsService computes statistics from the current collections.
type StatsService struct {
	departments repository.DepartmentRepository
	feedback    repository.FeedbackRepository
}

// NewStatsService constructs the service.
func NewStatsService(departments repository.DepartmentRepository, feedback repository.FeedbackRepository) *StatsService {
	return &StatsService{departments: departments, feedback: feedback}
}

// Compute loads a consistent snapshot and aggregates it.
func (s *StatsService) Compute(ctx context.Context) (*Stats, error) {
	depts, items, err := loadSnapshot(ctx, s.departments, s.feedback)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(depts, items)
	return &stats, nil
}

// loadSnapshot reads both collections under their read locks, departments
// first, matching the lock order used by feedback intake.
func loadSnapshot(ctx context.Context, departments repository.DepartmentRepository, feedback repository.FeedbackRepository) ([]domain.Department, []domain.Feedback, error) {
	var (
		depts []domain.Department
		items []domain.Feedback
	)
	err := departments.View(ctx, func(d []domain.Department) error {
		depts = d
		var err error
		items, err = feedback.LoadAll(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return depts, items, nil
}
