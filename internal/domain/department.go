package domain

// Department is an organizational unit that can receive feedback.
// At most one department is active at a time.
type Department struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
