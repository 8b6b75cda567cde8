package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"campusevents/internal/activity"
	"campusevents/internal/membership"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/requestcontext"
)

// Notifier delivers out-of-band confirmations for event mutations.
type Notifier interface {
	Alert(ctx context.Context, email, subject, text string) error
	Notify(ctx context.Context, userID id.UserID, message string) error
}

// Service coordinates event persistence with confirmation notifications
// and the activity log.
type Service struct {
	store    Store
	tasks    TaskStore
	feedback FeedbackStore
	txRunner StoreTx
	members  membership.Store
	notifier Notifier
	recorder *activity.Recorder
	logger   *slog.Logger
}

type Option func(*Service)

// WithActivityRecorder attaches the activity log recorder.
func WithActivityRecorder(r *activity.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(
	store Store,
	tasks TaskStore,
	feedback FeedbackStore,
	txRunner StoreTx,
	members membership.Store,
	notifier Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:    store,
		tasks:    tasks,
		feedback: feedback,
		txRunner: txRunner,
		members:  members,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new event and confirms it to the organiser. The
// confirmation is best-effort; a publish failure does not undo the write.
func (s *Service) Create(ctx context.Context, input Event) (*Event, error) {
	actor := requestcontext.Actor(ctx)
	if input.Organiser.IsNil() {
		input.Organiser = actor.ID
	}

	e, err := NewEvent(id.NewEventID(), input, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeWriteFailed, "could not register event")
	}

	s.confirm(ctx, actor, e.Organiser,
		"Created Event "+e.Name,
		"You have successfully created the event "+e.Name+" from "+e.FromDate+" to "+e.ToDate)
	s.recorder.Record(ctx, activity.KindEventRegister, "registered event "+e.Name)
	return e, nil
}

// Update replaces the mutable fields of an event.
func (s *Service) Update(ctx context.Context, eventID id.EventID, input Event) (*Event, error) {
	existing, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}

	input.Organiser = existing.Organiser
	updated, err := NewEvent(eventID, input, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, updated); err != nil {
		return nil, storeErr("event", err)
	}

	actor := requestcontext.Actor(ctx)
	s.confirm(ctx, actor, updated.Organiser,
		"Updated Event "+updated.Name,
		"You have successfully updated the event "+updated.Name)
	s.recorder.Record(ctx, activity.KindEventUpdate, "updated event "+updated.Name)
	return updated, nil
}

// UpdateStatus applies a lifecycle transition.
func (s *Service) UpdateStatus(ctx context.Context, eventID id.EventID, rawStatus string) (*Event, error) {
	next, err := ParseEventStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}
	if err := e.ApplyStatus(next, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return nil, storeErr("event", err)
	}
	return e, nil
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, eventID id.EventID) error {
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return storeErr("event", err)
	}
	if err := s.store.Delete(ctx, eventID); err != nil {
		return storeErr("event", err)
	}

	actor := requestcontext.Actor(ctx)
	s.confirm(ctx, actor, e.Organiser,
		"Deleted Event "+e.Name,
		"You have successfully deleted the event "+e.Name)
	s.recorder.Record(ctx, activity.KindEventDelete, "deleted event "+e.Name)
	return nil
}

func (s *Service) Get(ctx context.Context, eventID id.EventID) (*Event, error) {
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, storeErr("event", err)
	}
	return events, nil
}

// TaskAssignment pairs a member with a responsibility.
type TaskAssignment struct {
	UserID id.UserID
	Task   string
}

// AssignTasks records responsibilities for an event atomically and then
// informs each assignee. All rows are written or none; notifications are
// sent only after the batch commits.
func (s *Service) AssignTasks(ctx context.Context, eventID id.EventID, assignments []TaskAssignment) ([]Task, error) {
	if len(assignments) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one assignment is required")
	}
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}

	now := requestcontext.Now(ctx)
	tasks := make([]Task, 0, len(assignments))
	for _, a := range assignments {
		if a.Task == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "task description is required")
		}
		member, err := s.members.FindByID(ctx, a.UserID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeBadRequest, "unknown assignee "+a.UserID.String())
			}
			return nil, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "could not resolve assignee")
		}
		tasks = append(tasks, Task{
			ID:        uuid.NewString(),
			EventID:   eventID,
			UserID:    member.ID,
			UserName:  member.Name,
			UserEmail: member.Email,
			Task:      a.Task,
			CreatedAt: now,
		})
	}

	err = s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		return s.tasks.CreateAll(ctx, tasks)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeWriteFailed, "could not record tasks")
	}

	for _, t := range tasks {
		subject := "Task assigned for " + e.Name
		text := fmt.Sprintf("You have been assigned the following task for %s: %s", e.Name, t.Task)
		if err := s.notifier.Alert(ctx, t.UserEmail, subject, text); err != nil {
			s.logger.Warn("task alert failed", "event_id", eventID.String(), "user_id", t.UserID.String(), "error", err)
		}
		if err := s.notifier.Notify(ctx, t.UserID, text); err != nil {
			s.logger.Warn("task notify failed", "event_id", eventID.String(), "user_id", t.UserID.String(), "error", err)
		}
	}
	return tasks, nil
}

func (s *Service) TasksByEvent(ctx context.Context, eventID id.EventID) ([]Task, error) {
	tasks, err := s.tasks.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("tasks", err)
	}
	return tasks, nil
}

func (s *Service) TasksByUser(ctx context.Context, userID id.UserID) ([]Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("tasks", err)
	}
	return tasks, nil
}

// SubmitFeedback stores attendee feedback and thanks the submitter.
func (s *Service) SubmitFeedback(ctx context.Context, eventID id.EventID, f Feedback) (*Feedback, error) {
	for name, rating := range map[string]int{
		"overall":      f.Overall,
		"venue":        f.Venue,
		"coordination": f.Coordination,
		"canteen":      f.Canteen,
	} {
		if rating < 1 || rating > 5 {
			return nil, dErrors.New(dErrors.CodeBadRequest, name+" rating must be between 1 and 5")
		}
	}
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr("event", err)
	}

	actor := requestcontext.Actor(ctx)
	f.ID = uuid.NewString()
	f.EventID = eventID
	f.UserID = actor.ID
	f.UserName = actor.Name
	f.UserEmail = actor.Email
	f.CreatedAt = requestcontext.Now(ctx)

	if err := s.feedback.Create(ctx, &f); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeWriteFailed, "could not record feedback")
	}

	if actor.Email != "" {
		subject := "Feedback received for " + e.Name
		text := "Thank you for sharing your feedback on " + e.Name + "."
		if err := s.notifier.Alert(ctx, actor.Email, subject, text); err != nil {
			s.logger.Warn("feedback alert failed", "event_id", eventID.String(), "error", err)
		}
	}
	return &f, nil
}

func (s *Service) ListFeedback(ctx context.Context, eventID id.EventID) ([]Feedback, error) {
	out, err := s.feedback.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("feedback", err)
	}
	return out, nil
}

// confirm sends the organiser a mail alert and an in-app notification.
// Failures are logged and swallowed; the mutation has already committed.
func (s *Service) confirm(ctx context.Context, actor requestcontext.ActorInfo, organiser id.UserID, subject, text string) {
	if actor.Email != "" {
		if err := s.notifier.Alert(ctx, actor.Email, subject, text); err != nil {
			s.logger.Warn("confirmation alert failed", "subject", subject, "error", err)
		}
	}
	if !organiser.IsNil() {
		if err := s.notifier.Notify(ctx, organiser, subject); err != nil {
			s.logger.Warn("confirmation notify failed", "subject", subject, "error", err)
		}
	}
}

// storeErr translates infrastructure sentinels into coded domain errors.
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
