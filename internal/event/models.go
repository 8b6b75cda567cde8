// Package event manages event registrations, their lifecycle status, task
// assignments, and post-event feedback.
package event

import (
	"context"
	"strings"
	"time"

	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
)

// EventStatus is the closed set of lifecycle states. The lifecycle mirrors
// the venue booking: an event is drafted, requests a venue, and is approved
// or rejected with the booking; approved events complete.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusRequested EventStatus = "requested"
	StatusApproved  EventStatus = "approved"
	StatusRejected  EventStatus = "rejected"
	StatusCompleted EventStatus = "completed"
)

// allowedTransitions is the single source of truth for lifecycle legality.
// A rejected event may request again (new booking attempt); a completed
// event is immutable.
var allowedTransitions = map[EventStatus][]EventStatus{
	StatusDraft:     {StatusRequested},
	StatusRequested: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted},
	StatusRejected:  {StatusRequested},
	StatusCompleted: {},
}

// ParseEventStatus validates a raw status value.
func ParseEventStatus(raw string) (EventStatus, error) {
	status := EventStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := allowedTransitions[status]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown event status")
	}
	return status, nil
}

// CanTransitionTo reports whether moving to next is legal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Event is the aggregate root for a college event.
//
// Invariants:
//   - All descriptive fields are non-empty at creation
//   - Status follows allowedTransitions; completed is terminal
//   - Organiser is immutable after construction
type Event struct {
	ID              id.EventID  `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Caption         string      `json:"caption"`
	Status          EventStatus `json:"status"`
	FromDate        string      `json:"from_date"`
	ToDate          string      `json:"to_date"`
	Time            string      `json:"time"`
	Image           string      `json:"image"`
	Venue           id.VenueID  `json:"venue_id,omitzero"`
	Organiser       id.UserID   `json:"organiser"`
	FoodRequirement string      `json:"food_req"`
	ExpectedCount   int         `json:"expected_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewEvent validates required fields and constructs a draft event.
func NewEvent(eventID id.EventID, e Event, now time.Time) (*Event, error) {
	e.Name = strings.TrimSpace(e.Name)
	required := map[string]string{
		"name":        e.Name,
		"description": e.Description,
		"caption":     e.Caption,
		"from_date":   e.FromDate,
		"to_date":     e.ToDate,
		"time":        e.Time,
		"image":       e.Image,
		"food_req":    e.FoodRequirement,
	}
	for field, value := range required {
		if value == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, field+" is required")
		}
	}
	if e.Organiser.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organiser is required")
	}
	if e.ExpectedCount <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "expected_count must be positive")
	}

	e.ID = eventID
	e.Status = StatusDraft
	e.CreatedAt = now
	e.UpdatedAt = now
	return &e, nil
}

// ApplyStatus validates and applies a lifecycle transition.
func (e *Event) ApplyStatus(next EventStatus, now time.Time) error {
	if e.Status == next {
		// Idempotent re-apply; nothing to do.
		return nil
	}
	if !e.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"event cannot move from "+string(e.Status)+" to "+string(next))
	}
	e.Status = next
	e.UpdatedAt = now
	return nil
}

// Task is one assigned responsibility for an event.
type Task struct {
	ID        string     `json:"id"`
	EventID   id.EventID `json:"event_id"`
	UserID    id.UserID  `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserEmail string     `json:"user_email"`
	Task      string     `json:"task"`
	CreatedAt time.Time  `json:"created_at"`
}

// Feedback is one attendee's post-event feedback.
type Feedback struct {
	ID           string     `json:"id"`
	EventID      id.EventID `json:"event_id"`
	UserID       id.UserID  `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	Overall      int        `json:"overall"`
	Venue        int        `json:"venue"`
	Coordination int        `json:"coordination"`
	Canteen      int        `json:"canteen"`
	Suggestion   string     `json:"suggestion"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Store persists events.
type Store interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, eventID id.EventID) error
	FindByID(ctx context.Context, eventID id.EventID) (*Event, error)
	List(ctx context.Context) ([]Event, error)
}

// TaskStore persists task assignments. CreateAll writes all rows or none
// when running under a transaction runner.
type TaskStore interface {
	CreateAll(ctx context.Context, tasks []Task) error
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Task, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]Task, error)
}

// FeedbackStore persists feedback.
type FeedbackStore interface {
	Create(ctx context.Context, f *Feedback) error
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Feedback, error)
}

// StoreTx runs fn atomically. The Postgres implementation opens a SQL
// transaction and threads it through the context; the in-memory fallback
// just calls fn.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
