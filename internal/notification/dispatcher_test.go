package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "campusevents/pkg/domain"
)

// capturePublisher records every published message, optionally failing
// whole topics to simulate broker rejections.
type capturePublisher struct {
	mu         sync.Mutex
	messages   map[string][][]byte
	failTopics map[string]error
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{messages: make(map[string][][]byte)}
}

func (p *capturePublisher) failTopic(topic string, err error) {
	if p.failTopics == nil {
		p.failTopics = make(map[string]error)
	}
	p.failTopics[topic] = err
}

func (p *capturePublisher) Publish(_ context.Context, topic string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failTopics[topic]; ok {
		return err
	}
	p.messages[topic] = append(p.messages[topic], value)
	return nil
}

func (p *capturePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[topic])
}

func (p *capturePublisher) massMailPayloads(t *testing.T) []MassMailPayload {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	payloads := make([]MassMailPayload, 0, len(p.messages[TopicMassMail]))
	for _, raw := range p.messages[TopicMassMail] {
		var payload MassMailPayload
		require.NoError(t, json.Unmarshal(raw, &payload))
		payloads = append(payloads, payload)
	}
	return payloads
}

func testRecipients(n int, withPhone func(i int) bool) []Recipient {
	recipients := make([]Recipient, 0, n)
	for i := 0; i < n; i++ {
		r := Recipient{
			UserID: id.UserID(uuid.New()),
			Name:   fmt.Sprintf("User %d", i),
			Email:  fmt.Sprintf("user%03d@college.edu", i),
		}
		if withPhone(i) {
			r.Phone = fmt.Sprintf("+91900000%04d", i)
		}
		recipients = append(recipients, r)
	}
	return recipients
}

func testTemplates() Templates {
	return RenderInvite(
		EventDetails{Name: "TechFest", FromDate: "2026-10-01", ToDate: "2026-10-02", Time: "10:00"},
		VenueDetails{Name: "Main Hall", Address: "1 College Rd", City: "Pune", State: "MH", Pincode: "411001", Website: "https://mainhall.example"},
	)
}

func newTestDispatcher(pub Publisher, opts ...Option) *Dispatcher {
	logger := slog.New(slog.DiscardHandler)
	return NewDispatcher(pub, logger, opts...)
}

func TestDispatchEmailBatching(t *testing.T) {
	t.Run("120 recipients produce chunks of 50 50 20", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub)
		recipients := testRecipients(120, func(i int) bool { return i%2 == 0 })

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		require.True(t, report.Ok())
		assert.Equal(t, 120, report.Notified)
		assert.Equal(t, 60, report.SMSSent)
		assert.Equal(t, 3, report.MailBatches)

		payloads := pub.massMailPayloads(t)
		require.Len(t, payloads, 3)

		sizes := map[int]int{}
		seen := map[string]int{}
		for _, payload := range payloads {
			sizes[len(payload.Email)]++
			for _, addr := range payload.Email {
				seen[addr]++
			}
		}
		// Two full chunks plus the remainder.
		assert.Equal(t, 2, sizes[50])
		assert.Equal(t, 1, sizes[20])

		// Chunks partition the recipient list exactly: every address once.
		require.Len(t, seen, 120)
		for addr, n := range seen {
			assert.Equalf(t, 1, n, "address %s appears %d times", addr, n)
		}
	})

	t.Run("50 or fewer recipients produce a single message", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub)
		recipients := testRecipients(50, func(int) bool { return false })

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		require.True(t, report.Ok())
		assert.Equal(t, 1, report.MailBatches)
		payloads := pub.massMailPayloads(t)
		require.Len(t, payloads, 1)
		assert.Len(t, payloads[0].Email, 50)
	})

	t.Run("recipients without email are excluded from mail", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub)
		recipients := testRecipients(3, func(int) bool { return false })
		recipients[1].Email = ""

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		require.True(t, report.Ok())
		payloads := pub.massMailPayloads(t)
		require.Len(t, payloads, 1)
		assert.Len(t, payloads[0].Email, 2)
		// In-app notifications are independent of contact details.
		assert.Equal(t, 3, report.Notified)
	})

	t.Run("no recipients publishes nothing", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub)

		report := d.Dispatch(context.Background(), nil, testTemplates())

		assert.True(t, report.Ok())
		assert.Zero(t, report.Notified)
		assert.Zero(t, report.SMSSent)
		assert.Zero(t, report.MailBatches)
	})

	t.Run("custom batch size respected", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub, WithBatchSize(10))
		recipients := testRecipients(25, func(int) bool { return false })

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		require.True(t, report.Ok())
		assert.Equal(t, 3, report.MailBatches)
		payloads := pub.massMailPayloads(t)
		require.Len(t, payloads, 3)
		total := 0
		for _, payload := range payloads {
			assert.LessOrEqual(t, len(payload.Email), 10)
			total += len(payload.Email)
		}
		assert.Equal(t, 25, total)
	})
}

func TestDispatchChannelIndependence(t *testing.T) {
	t.Run("sms failure does not block notify or mail", func(t *testing.T) {
		pub := newCapturePublisher()
		pub.failTopic(TopicSMS, errors.New("broker unavailable"))
		d := newTestDispatcher(pub)
		recipients := testRecipients(10, func(int) bool { return true })

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		assert.False(t, report.Ok())
		assert.Len(t, report.Failures, 10)
		for _, failure := range report.Failures {
			assert.Equal(t, TopicSMS, failure.Topic)
		}
		assert.Equal(t, 10, report.Notified)
		assert.Equal(t, 0, report.SMSSent)
		assert.Equal(t, 1, report.MailBatches)
		assert.Equal(t, 10, pub.count(TopicNotify))
		assert.Equal(t, 1, pub.count(TopicMassMail))
	})

	t.Run("mail failure does not block notify or sms", func(t *testing.T) {
		pub := newCapturePublisher()
		pub.failTopic(TopicMassMail, errors.New("broker unavailable"))
		d := newTestDispatcher(pub)
		recipients := testRecipients(60, func(int) bool { return true })

		report := d.Dispatch(context.Background(), recipients, testTemplates())

		assert.False(t, report.Ok())
		assert.Len(t, report.Failures, 2) // two rejected chunks
		assert.Equal(t, 60, report.Notified)
		assert.Equal(t, 60, report.SMSSent)
		assert.Equal(t, 0, report.MailBatches)
	})
}

func TestNotifyPayloadShape(t *testing.T) {
	pub := newCapturePublisher()
	d := newTestDispatcher(pub)
	recipients := testRecipients(1, func(int) bool { return true })

	d.Dispatch(context.Background(), recipients, testTemplates())

	require.Equal(t, 1, pub.count(TopicNotify))
	var payload NotifyPayload
	require.NoError(t, json.Unmarshal(pub.messages[TopicNotify][0], &payload))
	assert.Equal(t, recipients[0].UserID.String(), payload.UserID)
	assert.Contains(t, payload.Message, "TechFest")

	var sms SMSPayload
	require.Equal(t, 1, pub.count(TopicSMS))
	require.NoError(t, json.Unmarshal(pub.messages[TopicSMS][0], &sms))
	assert.Equal(t, recipients[0].Phone, sms.Phone)
	assert.Contains(t, sms.Text, "Main Hall")
}

func TestAlert(t *testing.T) {
	t.Run("publishes single alert payload", func(t *testing.T) {
		pub := newCapturePublisher()
		d := newTestDispatcher(pub)

		err := d.Alert(context.Background(), "canteen@mainhall.example", "Food requirements for TechFest", "menu text")
		require.NoError(t, err)

		require.Equal(t, 1, pub.count(TopicAlert))
		var payload AlertPayload
		require.NoError(t, json.Unmarshal(pub.messages[TopicAlert][0], &payload))
		assert.Equal(t, "canteen@mainhall.example", payload.Email)
		assert.Equal(t, "Food requirements for TechFest", payload.Subject)
	})

	t.Run("broker rejection surfaces as publish_failed", func(t *testing.T) {
		pub := newCapturePublisher()
		pub.failTopic(TopicAlert, errors.New("connection reset"))
		d := newTestDispatcher(pub)

		err := d.Alert(context.Background(), "canteen@mainhall.example", "subject", "text")
		require.Error(t, err)
	})
}

func TestChunkAddresses(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{"empty", 0, 50, nil},
		{"single partial chunk", 7, 50, []int{7}},
		{"exact boundary", 50, 50, []int{50}},
		{"boundary plus one", 51, 50, []int{50, 1}},
		{"multiple full chunks", 150, 50, []int{50, 50, 50}},
		{"remainder chunk", 120, 50, []int{50, 50, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addresses := make([]string, tt.n)
			for i := range addresses {
				addresses[i] = fmt.Sprintf("a%d@x", i)
			}
			chunks := chunkAddresses(addresses, tt.size)
			require.Len(t, chunks, len(tt.wantSizes))
			flat := make([]string, 0, tt.n)
			for i, chunk := range chunks {
				assert.Len(t, chunk, tt.wantSizes[i])
				flat = append(flat, chunk...)
			}
			assert.Equal(t, addresses, flat)
		})
	}
}
