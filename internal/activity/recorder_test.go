package activity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/notification"
	id "campusevents/pkg/domain"
	"campusevents/pkg/requestcontext"
)

type stubPublisher struct {
	mu       sync.Mutex
	topic    string
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(_ context.Context, topic string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.topic = topic
	s.payloads = append(s.payloads, value)
	return nil
}

func TestRecord(t *testing.T) {
	t.Run("publishes actor-attributed record on log topic", func(t *testing.T) {
		pub := &stubPublisher{}
		recorder := NewRecorder(pub, slog.New(slog.DiscardHandler))

		actorID := id.UserID(uuid.New())
		ctx := requestcontext.WithActor(context.Background(), requestcontext.ActorInfo{
			ID:   actorID,
			Name: "Dean Office",
		})

		recorder.Record(ctx, KindEventRegister, "created event TechFest")

		require.Len(t, pub.payloads, 1)
		assert.Equal(t, notification.TopicLog, pub.topic)

		var payload notification.LogPayload
		require.NoError(t, json.Unmarshal(pub.payloads[0], &payload))
		assert.Equal(t, KindEventRegister, payload.Type)
		assert.Equal(t, "created event TechFest", payload.Message)
		assert.Equal(t, actorID.String(), payload.UserID)
		assert.Equal(t, "Dean Office", payload.UserName)
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		pub := &stubPublisher{err: errors.New("broker down")}
		recorder := NewRecorder(pub, slog.New(slog.DiscardHandler))

		recorder.Record(context.Background(), KindVenueBook, "booked venue")
		// No panic, no error surfaced; the request that triggered the
		// record must not fail because logging did.
	})

	t.Run("nil recorder is a no-op", func(t *testing.T) {
		var recorder *Recorder
		recorder.Record(context.Background(), KindEventDelete, "deleted event")
	})
}
