package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

func feedbackAt(id, dept int64, rating domain.Rating, at time.Time) domain.Feedback {
	return domain.Feedback{ID: id, DepartmentID: dept, Rating: rating, CreatedAt: at}
}

func TestComputeStatsPerDepartment(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	depts := []domain.Department{
		{ID: 1, Name: "Library", Active: true},
		{ID: 2, Name: "Registrar"},
	}
	items := []domain.Feedback{
		feedbackAt(10, 1, domain.RatingExcellent, base),
		feedbackAt(11, 1, domain.RatingGood, base.Add(time.Minute)),
		feedbackAt(12, 1, domain.RatingUnsatisfying, base.Add(2*time.Minute)),
	}

	stats := ComputeStats(depts, items)

	assert.Equal(t, 3, stats.TotalFeedbacks)
	require.NotNil(t, stats.LastSubmission)
	assert.True(t, base.Add(2*time.Minute).Equal(*stats.LastSubmission))
	require.Len(t, stats.Departments, 2)

	lib := stats.Departments[0]
	assert.Equal(t, int64(1), lib.DepartmentID)
	assert.Equal(t, "Library", lib.Name)
	assert.True(t, lib.Active)
	assert.Equal(t, 3, lib.FeedbackCount)
	require.NotNil(t, lib.AverageScore)
	assert.InDelta(t, 10.0/3.0, *lib.AverageScore, 1e-9)
	assert.Equal(t, RatingDistribution{
		domain.RatingExcellent:    1,
		domain.RatingGood:         1,
		domain.RatingNeutral:      0,
		domain.RatingSatisfying:   0,
		domain.RatingUnsatisfying: 1,
	}, lib.RatingDistribution)

	reg := stats.Departments[1]
	assert.Equal(t, 0, reg.FeedbackCount)
	assert.Nil(t, reg.AverageScore)
	assert.Len(t, reg.RatingDistribution, len(domain.Ratings))
	for _, r := range domain.Ratings {
		assert.Equal(t, 0, reg.RatingDistribution[r])
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	assert.Equal(t, 0, stats.TotalFeedbacks)
	assert.Nil(t, stats.LastSubmission)
	assert.NotNil(t, stats.Departments)
	assert.Empty(t, stats.Departments)
	assert.Len(t, stats.RatingDistribution, len(domain.Ratings))
}

func TestComputeStatsOrphanedFeedback(t *testing.T) {
	now := time.Now().UTC()
	depts := []domain.Department{{ID: 1, Name: "Library"}}
	items := []domain.Feedback{
		feedbackAt(10, 1, domain.RatingGood, now),
		feedbackAt(11, 99, domain.RatingExcellent, now),
		feedbackAt(12, 99, domain.RatingNeutral, now),
	}

	stats := ComputeStats(depts, items)

	assert.Equal(t, 3, stats.TotalFeedbacks)
	assert.Equal(t, 1, stats.Departments[0].FeedbackCount)
	assert.Equal(t, 1, stats.RatingDistribution[domain.RatingExcellent])
	assert.Equal(t, 1, stats.RatingDistribution[domain.RatingNeutral])
	assert.Equal(t, 1, stats.RatingDistribution[domain.RatingGood])
}

func TestComputeStatsDistributionSums(t *testing.T) {
	now := time.Now().UTC()
	depts := []domain.Department{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	var items []domain.Feedback
	for i := 0; i < 37; i++ {
		dept := int64(i%3 + 1)
		rating := domain.Ratings[i%len(domain.Ratings)]
		items = append(items, feedbackAt(int64(100+i), dept, rating, now))
	}

	stats := ComputeStats(depts, items)

	countSum := 0
	globalSum := 0
	for _, n := range stats.RatingDistribution {
		globalSum += n
	}
	for _, d := range stats.Departments {
		distSum := 0
		for _, n := range d.RatingDistribution {
			distSum += n
		}
		assert.Equal(t, d.FeedbackCount, distSum, d.Name)
		countSum += d.FeedbackCount
		if d.AverageScore != nil {
			assert.GreaterOrEqual(t, *d.AverageScore, 1.0)
			assert.LessOrEqual(t, *d.AverageScore, 5.0)
		}
	}
	assert.Equal(t, stats.TotalFeedbacks, countSum)
	assert.Equal(t, stats.TotalFeedbacks, globalSum)
}

func TestComputeStatsSkipsInvalidRatings(t *testing.T) {
	now := time.Now().UTC()
	depts := []domain.Department{{ID: 1, Name: "A"}}
	items := []domain.Feedback{
		feedbackAt(1, 1, "Meh", now),
		feedbackAt(2, 1, domain.RatingNeutral, now),
	}

	stats := ComputeStats(depts, items)

	assert.Equal(t, 2, stats.TotalFeedbacks)
	assert.Equal(t, 1, stats.Departments[0].FeedbackCount)
	sum := 0
	for _, n := range stats.Departments[0].RatingDistribution {
		sum += n
	}
	assert.Equal(t, stats.Departments[0].FeedbackCount, sum)
	require.NotNil(t, stats.Departments[0].AverageScore)
	assert.Equal(t, 3.0, *stats.Departments[0].AverageScore)
}

func TestStatsServiceCompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lib := f.mustCreate(t, "Library")
	f.mustCreate(t, "Cafeteria")
	for _, r := range []domain.Rating{domain.RatingExcellent, domain.RatingGood, domain.RatingUnsatisfying} {
		_, err := f.intake.Submit(ctx, SubmitFeedbackInput{DepartmentID: lib.ID, Rating: r})
		require.NoError(t, err)
	}

	stats, err := NewStatsService(f.departments, f.feedback).Compute(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalFeedbacks)
	require.Len(t, stats.Departments, 2)
	assert.Equal(t, 3, stats.Departments[0].FeedbackCount)
	assert.InDelta(t, 3.333, *stats.Departments[0].AverageScore, 0.001)
	assert.Nil(t, stats.Departments[1].AverageScore)
}
