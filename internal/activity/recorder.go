// Package activity captures who-did-what records for portal mutations.
// Records go to the log topic; a separate consumer persists them. Recording
// is best-effort: a broker failure is logged and the triggering request
// still succeeds.
package activity

import (
	"context"
	"encoding/json"
	"log/slog"

	"campusevents/internal/notification"
	"campusevents/pkg/requestcontext"
)

// Activity kinds, one per mutating operation.
const (
	KindEventRegister = "event_register"
	KindEventUpdate   = "event_update"
	KindEventDelete   = "event_delete"
	KindEventInvite   = "event_invite"
	KindVenueRegister = "venue_register"
	KindVenueUpdate   = "venue_update"
	KindVenueDelete   = "venue_delete"
	KindVenueBook     = "venue_book"
)

// Recorder publishes activity records through the injected broker
// capability.
type Recorder struct {
	publisher notification.Publisher
	logger    *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(publisher notification.Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{publisher: publisher, logger: logger}
}

// Record publishes one activity record attributed to the request's actor.
// A nil Recorder is a no-op so tests can skip wiring it.
func (r *Recorder) Record(ctx context.Context, kind, message string) {
	if r == nil {
		return
	}
	actor := requestcontext.Actor(ctx)
	payload := notification.LogPayload{
		Type:     kind,
		Message:  message,
		UserName: actor.Name,
	}
	if !actor.ID.IsNil() {
		payload.UserID = actor.ID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to marshal activity record", "kind", kind, "error", err)
		return
	}
	if err := r.publisher.Publish(ctx, notification.TopicLog, value); err != nil {
		r.logger.WarnContext(ctx, "failed to publish activity record", "kind", kind, "error", err)
	}
}
