package domain

import (
	"time"
	"unicode/utf8"
)

// MaxCommentLength is the comment limit in characters.
const MaxCommentLength = 500

// Rating is the five-level satisfaction scale of the feedback form.
type Rating string

const (
	RatingExcellent    Rating = "Excellent"
	RatingGood         Rating = "Good"
	RatingNeutral      Rating = "Neutral"
	RatingSatisfying   Rating = "Satisfying"
	RatingUnsatisfying Rating = "Unsatisfying"
)

// Ratings lists every rating, best first. Distributions and exports follow this order.
var Ratings = []Rating{
	RatingExcellent,
	RatingGood,
	RatingNeutral,
	RatingSatisfying,
	RatingUnsatisfying,
}

var ratingWeights = map[Rating]int{
	RatingExcellent:    5,
	RatingGood:         4,
	RatingNeutral:      3,
	RatingSatisfying:   2,
	RatingUnsatisfying: 1,
}

// Valid reports whether r is one of the enumerated ratings.
func (r Rating) Valid() bool {
	_, ok := ratingWeights[r]
	return ok
}

// Weight returns the 1..5 score used for averages, or 0 for unknown ratings.
func (r Rating) Weight() int {
	return ratingWeights[r]
}

// Feedback is an anonymous, immutable rating and comment tied to a department.
type Feedback struct {
	ID           int64     `json:"id"`
	DepartmentID int64     `json:"departmentId"`
	Rating       Rating    `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TruncateComment cuts s to MaxCommentLength characters.
func TruncateComment(s string) string {
	if utf8.RuneCountInString(s) <= MaxCommentLength {
		return s
	}
	return string([]rune(s)[:MaxCommentLength])
}
