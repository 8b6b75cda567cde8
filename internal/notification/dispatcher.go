package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"

	"campusevents/internal/notification/metrics"
)

const (
	defaultBatchSize = 50
	defaultWorkers   = 8
)

// Dispatcher fans a recipient set out across the notify, sms, and mass_mail
// channels. Channels are independent: a publish failure on one never blocks
// the others, and no failure aborts dispatch to remaining recipients.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
	workers   int
	tracer    trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics attaches dispatcher metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithBatchSize overrides the mass_mail chunk size.
func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithWorkers bounds concurrent publishes during one dispatch.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// NewDispatcher constructs a dispatcher publishing through the given broker
// capability.
func NewDispatcher(publisher Publisher, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		logger:    logger,
		batchSize: defaultBatchSize,
		workers:   defaultWorkers,
		tracer:    otel.Tracer("campusevents/notification"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Failure records one rejected publish. Target names the recipient, phone,
// or chunk the message addressed.
type Failure struct {
	Topic  string
	Target string
	Err    error
}

// Report summarizes one dispatch. Dispatch always runs to completion;
// callers decide what to do with partial failure (the invite pipeline logs
// it and still reports the invite as submitted).
type Report struct {
	Notified    int
	SMSSent     int
	MailBatches int
	Failures    []Failure
}

// Ok reports whether every publish was accepted.
func (r Report) Ok() bool { return len(r.Failures) == 0 }

// Dispatch publishes the full channel fan-out for one recipient batch and
// blocks until every publish has been attempted (explicit join point).
// Recipient order is preserved when building mail chunks, so batch
// numbering is deterministic for a given input sequence.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []Recipient, tmpl Templates) Report {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "notification.dispatch",
		trace.WithAttributes(attribute.Int("recipients", len(recipients))))
	defer span.End()

	var (
		mu     sync.Mutex
		report Report
	)
	record := func(topic, target string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failures = append(report.Failures, Failure{Topic: topic, Target: target, Err: err})
			return
		}
		switch topic {
		case TopicNotify:
			report.Notified++
		case TopicSMS:
			report.SMSSent++
		case TopicMassMail:
			report.MailBatches++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	// In-app notify: one message per recipient, never batched.
	for _, recipient := range recipients {
		g.Go(func() error {
			err := d.publish(gctx, TopicNotify, NotifyPayload{
				UserID:  recipient.UserID.String(),
				Message: tmpl.NotifyText,
			})
			record(TopicNotify, recipient.UserID.String(), err)
			return nil
		})
	}

	// SMS: one message per recipient with a phone number.
	for _, recipient := range recipients {
		if recipient.Phone == "" {
			continue
		}
		g.Go(func() error {
			err := d.publish(gctx, TopicSMS, SMSPayload{
				Phone: recipient.Phone,
				Text:  tmpl.SMSText,
			})
			record(TopicSMS, recipient.Phone, err)
			return nil
		})
	}

	// Email: positional chunks of batchSize addresses per mass_mail message.
	emails := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		if recipient.Email != "" {
			emails = append(emails, recipient.Email)
		}
	}
	for chunkNo, chunk := range chunkAddresses(emails, d.batchSize) {
		g.Go(func() error {
			err := d.publish(gctx, TopicMassMail, MassMailPayload{
				Email:   chunk,
				Subject: tmpl.EmailSubject,
				Text:    tmpl.EmailText,
			})
			record(TopicMassMail, fmt.Sprintf("batch %d (%d addresses)", chunkNo, len(chunk)), err)
			return nil
		})
	}

	// Goroutines above never return errors; Wait is purely the join point.
	_ = g.Wait()

	for _, failure := range report.Failures {
		d.logger.WarnContext(ctx, "notification publish failed",
			"topic", failure.Topic,
			"target", failure.Target,
			"error", failure.Err,
		)
	}
	d.metrics.ObserveDispatchLatency(time.Since(start))
	span.SetAttributes(
		attribute.Int("notified", report.Notified),
		attribute.Int("sms_sent", report.SMSSent),
		attribute.Int("mail_batches", report.MailBatches),
		attribute.Int("failures", len(report.Failures)),
	)
	return report
}

// Alert publishes a single-recipient mail on the alert topic. Used by the
// booking state machine and the task/feedback flows.
func (d *Dispatcher) Alert(ctx context.Context, email, subject, text string) error {
	return d.publish(ctx, TopicAlert, AlertPayload{Email: email, Subject: subject, Text: text})
}

// Notify publishes a single in-app notification.
func (d *Dispatcher) Notify(ctx context.Context, userID id.UserID, message string) error {
	return d.publish(ctx, TopicNotify, NotifyPayload{UserID: userID.String(), Message: message})
}

func (d *Dispatcher) publish(ctx context.Context, topic string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		d.metrics.IncrementFailure(topic)
		return dErrors.Wrap(err, dErrors.CodePublishFailed, "marshal "+topic+" payload")
	}
	if err := d.publisher.Publish(ctx, topic, value); err != nil {
		d.metrics.IncrementFailure(topic)
		return dErrors.Wrap(err, dErrors.CodePublishFailed, "publish to "+topic)
	}
	d.metrics.IncrementPublished(topic)
	return nil
}

// chunkAddresses splits addresses into consecutive chunks of size. Chunk
// boundaries are purely positional: chunk k covers [k*size, min((k+1)*size, N)).
func chunkAddresses(addresses []string, size int) [][]string {
	if len(addresses) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(addresses)+size-1)/size)
	for start := 0; start < len(addresses); start += size {
		end := min(start+size, len(addresses))
		chunks = append(chunks, addresses[start:end])
	}
	return chunks
}
