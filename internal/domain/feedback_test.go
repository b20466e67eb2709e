package domain

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRatingWeights(t *testing.T) {
	expected := map[Rating]int{
		RatingExcellent:    5,
		RatingGood:         4,
		RatingNeutral:      3,
		RatingSatisfying:   2,
		RatingUnsatisfying: 1,
	}
	for rating, weight := range expected {
		assert.True(t, rating.Valid(), rating)
		assert.Equal(t, weight, rating.Weight(), rating)
	}
	assert.Len(t, Ratings, 5)

	assert.False(t, Rating("excellent").Valid())
	assert.False(t, Rating("").Valid())
	assert.Equal(t, 0, Rating("Bad").Weight())
}

func TestTruncateComment(t *testing.T) {
	assert.Equal(t, "", TruncateComment(""))
	assert.Equal(t, "short", TruncateComment("short"))

	long := strings.Repeat("a", 650)
	assert.Len(t, TruncateComment(long), MaxCommentLength)

	multibyte := strings.Repeat("é", 600)
	cut := TruncateComment(multibyte)
	assert.Equal(t, MaxCommentLength, utf8.RuneCountInString(cut))
	assert.True(t, utf8.ValidString(cut))
}

func TestNextID(t *testing.T) {
	now := time.UnixMilli(1_000)

	assert.Equal(t, int64(1_000), NextID(now, nil))
	assert.Equal(t, int64(1_000), NextID(now, []int64{10, 999}))
	assert.Equal(t, int64(1_001), NextID(now, []int64{1_000}))
	assert.Equal(t, int64(5_001), NextID(now, []int64{5_000, 20}))
}
