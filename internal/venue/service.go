package venue

import (
	"context"
	"errors"
	"log/slog"

	"campusevents/internal/activity"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/requestcontext"
)

// Notifier delivers registration confirmations.
type Notifier interface {
	Alert(ctx context.Context, email, subject, text string) error
}

// Service coordinates venue persistence with confirmation alerts and the
// activity log.
type Service struct {
	store    Store
	notifier Notifier
	recorder *activity.Recorder
	logger   *slog.Logger
}

type Option func(*Service)

// WithActivityRecorder attaches the activity log recorder.
func WithActivityRecorder(r *activity.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(store Store, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, notifier: notifier, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and stores a new venue, confirming to the venue's
// contact address.
func (s *Service) Register(ctx context.Context, input Venue) (*Venue, error) {
	v, err := NewVenue(id.NewVenueID(), input, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, storeErr("venue", err)
	}

	if err := s.notifier.Alert(ctx, v.Email, "Registered Venue "+v.Name,
		"You have successfully registered the venue "+v.Name+" at "+v.City); err != nil {
		s.logger.Warn("venue registration alert failed", "venue_id", v.ID.String(), "error", err)
	}
	s.recorder.Record(ctx, activity.KindVenueRegister, "registered venue "+v.Name)
	return v, nil
}

// Update replaces the mutable fields of a venue.
func (s *Service) Update(ctx context.Context, venueID id.VenueID, input Venue) (*Venue, error) {
	existing, err := s.store.FindByID(ctx, venueID)
	if err != nil {
		return nil, storeErr("venue", err)
	}

	updated, err := NewVenue(venueID, input, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, updated); err != nil {
		return nil, storeErr("venue", err)
	}
	s.recorder.Record(ctx, activity.KindVenueUpdate, "updated venue "+updated.Name)
	return updated, nil
}

// Delete removes a venue.
func (s *Service) Delete(ctx context.Context, venueID id.VenueID) error {
	v, err := s.store.FindByID(ctx, venueID)
	if err != nil {
		return storeErr("venue", err)
	}
	if err := s.store.Delete(ctx, venueID); err != nil {
		return storeErr("venue", err)
	}
	s.recorder.Record(ctx, activity.KindVenueDelete, "deleted venue "+v.Name)
	return nil
}

func (s *Service) Get(ctx context.Context, venueID id.VenueID) (*Venue, error) {
	v, err := s.store.FindByID(ctx, venueID)
	if err != nil {
		return nil, storeErr("venue", err)
	}
	return v, nil
}

// List returns venues, optionally filtered by city.
func (s *Service) List(ctx context.Context, city string) ([]Venue, error) {
	venues, err := s.store.List(ctx, city)
	if err != nil {
		return nil, storeErr("venue", err)
	}
	return venues, nil
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
