package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated       EventType = "department_created"
	EventDepartmentRenamed       EventType = "department_renamed"
	EventDepartmentActivated     EventType = "department_activated"
	EventDepartmentActiveCleared EventType = "department_active_cleared"
	EventDepartmentDeleted       EventType = "department_deleted"
	EventFeedbackSubmitted       EventType = "feedback_submitted"
)

// DepartmentEventTypes lists the registry events.
var DepartmentEventTypes = []EventType{
	EventDepartmentCreated,
	EventDepartmentRenamed,
	EventDepartmentActivated,
	EventDepartmentActiveCleared,
	EventDepartmentDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	DepartmentID int64       `json:"department_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, departmentID int64, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		DepartmentID: departmentID,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// DepartmentPayload carries the department state after the mutation.
type DepartmentPayload struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// DepartmentDeletedPayload payload.
type DepartmentDeletedPayload struct {
	Name      string `json:"name"`
	WasActive bool   `json:"was_active"`
}

// ActiveClearedPayload payload.
type ActiveClearedPayload struct {
	Deactivated int `json:"deactivated"`
}

// FeedbackSubmittedPayload payload. Comment text is deliberately absent.
type FeedbackSubmittedPayload struct {
	FeedbackID    int64         `json:"feedback_id"`
	Rating        domain.Rating `json:"rating"`
	CommentLength int           `json:"comment_length"`
}
