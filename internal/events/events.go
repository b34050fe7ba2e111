package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "coaching-service"
	EventVersion = "1.0"

	EventStudentsAssigned = "student.assigned"
)

// Event is the envelope published on the event bus
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// StudentsAssignedEvent is emitted after a professor claimed students
type StudentsAssignedEvent struct {
	ProfessorID   string   `json:"professor_id"`
	ProfessorName string   `json:"professor_name"`
	StudentIDs    []string `json:"student_ids"`
	AssignedCount int64    `json:"assigned_count"`
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
