package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusevents/internal/activity"
	"campusevents/internal/booking/metrics"
	"campusevents/internal/event"
	"campusevents/internal/venue"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/requestcontext"
)

// EventFinder resolves the event a booking belongs to.
type EventFinder interface {
	FindByID(ctx context.Context, eventID id.EventID) (*event.Event, error)
}

// VenueFinder resolves the venue a booking targets.
type VenueFinder interface {
	FindByID(ctx context.Context, venueID id.VenueID) (*venue.Venue, error)
}

// Notifier delivers transition-conditional alerts.
type Notifier interface {
	Alert(ctx context.Context, email, subject, text string) error
}

// Service drives the booking lifecycle. State writes commit before any
// notification goes out; a failed publish never rolls a transition back.
type Service struct {
	store    Store
	events   EventFinder
	venues   VenueFinder
	notifier Notifier
	recorder *activity.Recorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithActivityRecorder attaches the activity log recorder.
func WithActivityRecorder(r *activity.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(
	store Store,
	events EventFinder,
	venues VenueFinder,
	notifier Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:    store,
		events:   events,
		venues:   venues,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request opens a booking in the requested state and alerts the venue's
// contact address.
func (s *Service) Request(ctx context.Context, eventID id.EventID, venueID id.VenueID) (*Booking, error) {
	e, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}
	v, err := s.venues.FindByID(ctx, venueID)
	if err != nil {
		return nil, storeErr("venue", err)
	}

	actor := requestcontext.Actor(ctx)
	organiser := e.Organiser
	if organiser.IsNil() {
		organiser = actor.ID
	}
	b, err := NewBooking(id.NewBookingID(), BookingInput{
		EventID:        eventID,
		VenueID:        venueID,
		VenueHead:      v.VenueHead,
		Organiser:      organiser,
		OrganiserName:  actor.Name,
		OrganiserEmail: actor.Email,
		FromDate:       e.FromDate,
		ToDate:         e.ToDate,
		Time:           e.Time,
	}, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeWriteFailed, "could not record booking")
	}
	s.metrics.IncrementTransition(string(StatusRequested))

	subject := "Booking request for " + v.Name
	text := fmt.Sprintf("%s has been requested for %s from %s to %s.",
		v.Name, e.Name, e.FromDate, e.ToDate)
	if err := s.notifier.Alert(ctx, v.Email, subject, text); err != nil {
		s.logger.Warn("booking request alert failed",
			"booking_id", b.ID.String(), "venue_id", venueID.String(), "error", err)
	}
	s.recorder.Record(ctx, activity.KindVenueBook, "requested booking of "+v.Name+" for "+e.Name)
	return b, nil
}

// UpdateStatus applies a transition to a booking.
//
// Re-applying the booking's current terminal status is an idempotent no-op
// with no notification. Any other illegal move fails with an invalid
// transition error before touching the store.
func (s *Service) UpdateStatus(ctx context.Context, bookingID id.BookingID, rawStatus string) (*Booking, error) {
	next, err := ParseBookingStatus(rawStatus)
	if err != nil {
		s.metrics.IncrementRejected()
		return nil, err
	}

	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}

	if b.Status == next && b.Status.IsTerminal() {
		s.metrics.IncrementIdempotentRepeat()
		s.logger.Debug("terminal status re-applied",
			"booking_id", bookingID.String(), "status", string(next))
		return b, nil
	}

	now := requestcontext.Now(ctx)
	switch next {
	case StatusApproved:
		err = b.ApplyApproval(now)
	case StatusRejected:
		err = b.ApplyRejection(now)
	default:
		err = dErrors.New(dErrors.CodeInvalidTransition,
			"booking cannot move from "+string(b.Status)+" to "+string(next))
	}
	if err != nil {
		s.metrics.IncrementRejected()
		return nil, err
	}

	if err := s.store.Update(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeWriteFailed, "could not update booking")
	}
	s.metrics.IncrementTransition(string(next))

	switch next {
	case StatusApproved:
		s.alertCanteen(ctx, b)
	case StatusRejected:
		s.alertOrganiser(ctx, b)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, bookingID id.BookingID) (*Booking, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	return b, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID id.EventID) ([]Booking, error) {
	out, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	return out, nil
}

func (s *Service) ListByVenue(ctx context.Context, venueID id.VenueID) ([]Booking, error) {
	out, err := s.store.ListByVenue(ctx, venueID)
	if err != nil {
		return nil, storeErr("booking", err)
	}
	return out, nil
}

// alertCanteen tells the venue's canteen contact what to prepare. The
// transition has already committed; failures are logged only.
func (s *Service) alertCanteen(ctx context.Context, b *Booking) {
	e, err := s.events.FindByID(ctx, b.EventID)
	if err != nil {
		s.logger.Warn("canteen alert skipped, event lookup failed",
			"booking_id", b.ID.String(), "error", err)
		return
	}
	v, err := s.venues.FindByID(ctx, b.VenueID)
	if err != nil {
		s.logger.Warn("canteen alert skipped, venue lookup failed",
			"booking_id", b.ID.String(), "error", err)
		return
	}

	subject := "Food requirements for " + e.Name
	text := fmt.Sprintf("Here is the food menu need to prepared for %s at %s. The menu is %s",
		e.Name, v.Name, e.FoodRequirement)
	if err := s.notifier.Alert(ctx, v.CanteenContact, subject, text); err != nil {
		s.logger.Warn("canteen alert failed", "booking_id", b.ID.String(), "error", err)
	}
}

// alertOrganiser tells the organiser the booking was turned down.
func (s *Service) alertOrganiser(ctx context.Context, b *Booking) {
	if b.OrganiserEmail == "" {
		s.logger.Warn("rejection alert skipped, no organiser email", "booking_id", b.ID.String())
		return
	}
	v, err := s.venues.FindByID(ctx, b.VenueID)
	if err != nil {
		s.logger.Warn("rejection alert skipped, venue lookup failed",
			"booking_id", b.ID.String(), "error", err)
		return
	}

	subject := "Your request to book " + v.Name + " has been rejected"
	text := fmt.Sprintf("Your request to book %s from %s to %s has been rejected.",
		v.Name, b.FromDate, b.ToDate)
	if err := s.notifier.Alert(ctx, b.OrganiserEmail, subject, text); err != nil {
		s.logger.Warn("rejection alert failed", "booking_id", b.ID.String(), "error", err)
	}
}

func storeErr(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, entity+" already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, entity+" store unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeWriteFailed, entity+" store error")
	}
}
