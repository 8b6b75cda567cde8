// Package booking implements venue booking requests and their one-shot
// approval state machine.
package booking

import (
	"context"
	"strings"
	"time"

	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
)

// BookingStatus is the closed set of booking states. A booking starts as
// requested and moves exactly once to approved or rejected.
type BookingStatus string

const (
	StatusRequested BookingStatus = "requested"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
)

var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested: {StatusApproved, StatusRejected},
	StatusApproved:  {},
	StatusRejected:  {},
}

// ParseBookingStatus validates a raw transition target. Unknown values are
// an invalid transition, not a bad request: the caller named a state the
// machine does not have.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := allowedTransitions[status]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidTransition, "unknown booking status "+raw)
	}
	return status, nil
}

// CanTransitionTo reports whether moving to next is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking is one venue booking request. The requested window and the
// organiser's contact details are snapshotted at request time so that
// later transition alerts can be delivered without extra lookups.
type Booking struct {
	ID             id.BookingID  `json:"id"`
	EventID        id.EventID    `json:"event_id"`
	VenueID        id.VenueID    `json:"venue_id"`
	VenueHead      id.UserID     `json:"venue_head"`
	Organiser      id.UserID     `json:"organiser"`
	OrganiserName  string        `json:"organiser_name"`
	OrganiserEmail string        `json:"organiser_email"`
	FromDate       string        `json:"from_date"`
	ToDate         string        `json:"to_date"`
	Time           string        `json:"time"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BookingInput carries the construction parameters for a booking.
type BookingInput struct {
	EventID        id.EventID
	VenueID        id.VenueID
	VenueHead      id.UserID
	Organiser      id.UserID
	OrganiserName  string
	OrganiserEmail string
	FromDate       string
	ToDate         string
	Time           string
}

// NewBooking constructs a requested booking.
func NewBooking(bookingID id.BookingID, in BookingInput, now time.Time) (*Booking, error) {
	if in.EventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "event_id is required")
	}
	if in.VenueID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "venue_id is required")
	}
	if in.Organiser.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organiser is required")
	}
	if in.FromDate == "" || in.ToDate == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "booking window is required")
	}
	return &Booking{
		ID:             bookingID,
		EventID:        in.EventID,
		VenueID:        in.VenueID,
		VenueHead:      in.VenueHead,
		Organiser:      in.Organiser,
		OrganiserName:  in.OrganiserName,
		OrganiserEmail: in.OrganiserEmail,
		FromDate:       in.FromDate,
		ToDate:         in.ToDate,
		Time:           in.Time,
		Status:         StatusRequested,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CanApprove reports whether approval is currently legal.
func (b *Booking) CanApprove() bool {
	return b.Status.CanTransitionTo(StatusApproved)
}

// ApplyApproval moves the booking to approved.
func (b *Booking) ApplyApproval(now time.Time) error {
	if !b.CanApprove() {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"booking cannot move from "+string(b.Status)+" to "+string(StatusApproved))
	}
	b.Status = StatusApproved
	b.UpdatedAt = now
	return nil
}

// CanReject reports whether rejection is currently legal.
func (b *Booking) CanReject() bool {
	return b.Status.CanTransitionTo(StatusRejected)
}

// ApplyRejection moves the booking to rejected.
func (b *Booking) ApplyRejection(now time.Time) error {
	if !b.CanReject() {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"booking cannot move from "+string(b.Status)+" to "+string(StatusRejected))
	}
	b.Status = StatusRejected
	b.UpdatedAt = now
	return nil
}

// Store persists bookings.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, bookingID id.BookingID) (*Booking, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Booking, error)
	ListByVenue(ctx context.Context, venueID id.VenueID) ([]Booking, error)
}
