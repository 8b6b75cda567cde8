package invite

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"campusevents/internal/activity"
	"campusevents/internal/event"
	"campusevents/internal/invite/metrics"
	"campusevents/internal/notification"
	"campusevents/internal/venue"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/email"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/requestcontext"
)

// EventFinder resolves the event being invited to.
type EventFinder interface {
	FindByID(ctx context.Context, eventID id.EventID) (*event.Event, error)
}

// VenueFinder resolves the venue named in the invitation templates.
type VenueFinder interface {
	FindByID(ctx context.Context, venueID id.VenueID) (*venue.Venue, error)
}

// Dispatcher fans one recipient batch out across the notification
// channels and blocks until every publish has been attempted.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []notification.Recipient, tmpl notification.Templates) notification.Report
}

// Request is one invite call.
type Request struct {
	EventID     id.EventID
	Departments []string
	UserIDs     []id.UserID
}

// Result summarizes one pipeline run. The call succeeds when the core
// write path ran; channel failures live in Report, resolve failures in
// Failed.
type Result struct {
	Invited int
	Skipped int
	Dropped int
	Failed  []SourceFailure
	Report  notification.Report
}

// Service runs the invitation pipeline: resolve the audience, filter
// against prior invitations, record the accepted ones, then dispatch
// notifications. Per recipient the order is fixed (filter, record, only
// then join the dispatch set); dispatch itself fans out concurrently.
type Service struct {
	store      Store
	events     EventFinder
	venues     VenueFinder
	resolver   *Resolver
	dispatcher Dispatcher
	recorder   *activity.Recorder
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Service)

// WithMetrics attaches pipeline metrics.
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
	resolver *Resolver,
	dispatcher Dispatcher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:      store,
		events:     events,
		venues:     venues,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     otel.Tracer("campusevents/invite"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invite runs the full pipeline for one request.
func (s *Service) Invite(ctx context.Context, req Request) (*Result, error) {
	if req.EventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "event_id is required")
	}
	if len(req.Departments) == 0 && len(req.UserIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one department or user is required")
	}

	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "invite.pipeline",
		trace.WithAttributes(
			attribute.String("event_id", req.EventID.String()),
			attribute.Int("departments", len(req.Departments)),
			attribute.Int("users", len(req.UserIDs)),
		))
	defer span.End()

	e, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, storeErr("event", err)
	}
	tmpl, err := s.renderTemplates(ctx, e)
	if err != nil {
		return nil, err
	}

	audience, err := s.resolver.Resolve(ctx, req.Departments, req.UserIDs)
	s.metrics.AddResolveFailures(len(audience.Failed))
	if err != nil {
		return nil, err
	}

	result := &Result{Failed: audience.Failed}
	recipients := s.filterAndRecord(ctx, e.ID, audience, result)

	result.Report = s.dispatcher.Dispatch(ctx, recipients, tmpl)
	span.SetAttributes(
		attribute.Int("invited", result.Invited),
		attribute.Int("skipped", result.Skipped),
		attribute.Int("dropped", result.Dropped),
	)

	s.recorder.Record(ctx, activity.KindEventInvite, "invited "+e.Name+" audience")
	s.metrics.AddInvited(result.Invited)
	s.metrics.AddSkipped(result.Skipped)
	s.metrics.ObservePipelineLatency(time.Since(start))
	return result, nil
}

// filterAndRecord runs the per-candidate filter and write phase. Only
// candidates whose invitation committed join the returned dispatch set;
// already-invited candidates are skipped silently and a failed write drops
// just that candidate.
func (s *Service) filterAndRecord(ctx context.Context, eventID id.EventID, audience Audience, result *Result) []notification.Recipient {
	ctx, span := s.tracer.Start(ctx, "invite.record")
	defer span.End()

	now := requestcontext.Now(ctx)
	recipients := make([]notification.Recipient, 0, len(audience.Members))
	for _, m := range audience.Members {
		if m.Name == "" {
			// Legacy membership rows imported without a display name.
			first, last := email.DeriveNameFromEmail(m.Email)
			m.Name = first + " " + last
		}
		exists, err := s.store.Exists(ctx, eventID, m.ID)
		if err != nil {
			s.logger.Warn("invitation check failed",
				"event_id", eventID.String(), "user_id", m.ID.String(), "error", err)
			result.Dropped++
			s.metrics.IncrementDropped()
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		inv := &Invitation{
			ID:        id.NewInvitationID(),
			EventID:   eventID,
			UserID:    m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Phone:     m.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Record(ctx, inv); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				// Lost a race with a concurrent invite for the same pair.
				result.Skipped++
				continue
			}
			s.logger.Warn("invitation write failed",
				"event_id", eventID.String(), "user_id", m.ID.String(), "error", err)
			result.Dropped++
			s.metrics.IncrementDropped()
			continue
		}

		result.Invited++
		recipients = append(recipients, notification.Recipient{
			UserID: m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Phone:  m.Phone,
		})
	}
	return recipients
}

// renderTemplates builds the channel templates from the event and, when
// the event references one, its venue.
func (s *Service) renderTemplates(ctx context.Context, e *event.Event) (notification.Templates, error) {
	details := notification.EventDetails{
		Name:     e.Name,
		FromDate: e.FromDate,
		ToDate:   e.ToDate,
		Time:     e.Time,
	}
	var venueDetails notification.VenueDetails
	if !e.Venue.IsNil() {
		v, err := s.venues.FindByID(ctx, e.Venue)
		if err != nil {
			return notification.Templates{}, storeErr("venue", err)
		}
		venueDetails = notification.VenueDetails{
			Name:    v.Name,
			Address: v.Address,
			City:    v.City,
			State:   v.State,
			Pincode: v.Pincode,
			Website: v.Website,
		}
	}
	return notification.RenderInvite(details, venueDetails), nil
}

// ListByEvent returns the invitations recorded for an event.
func (s *Service) ListByEvent(ctx context.Context, eventID id.EventID) ([]Invitation, error) {
	out, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("invitations", err)
	}
	return out, nil
}

// InvitedEvents returns the events a user is invited to. Events deleted
// since the invite was recorded are skipped.
func (s *Service) InvitedEvents(ctx context.Context, userID id.UserID) ([]event.Event, error) {
	eventIDs, err := s.store.ListEventIDsByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("invitations", err)
	}
	out := make([]event.Event, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		e, err := s.events.FindByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, storeErr("event", err)
		}
		out = append(out, *e)
	}
	return out, nil
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
