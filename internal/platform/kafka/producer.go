// Package kafka wraps the franz-go client behind the narrow publish
// contract the notification pipeline depends on. The producer is an
// injected capability owned by cmd/server: acquired at startup, closed at
// shutdown, never a package-level global.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"campusevents/internal/platform/config"
)

// Producer publishes notification payloads to the broker. Delivery is
// at-least-once: Publish waits for broker acknowledgment of the record but
// the broker may redeliver downstream.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewProducer connects to the broker and verifies reachability.
func NewProducer(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return &Producer{client: client, logger: logger}, nil
}

// Publish sends value on topic and waits for the broker to accept it.
func (p *Producer) Publish(ctx context.Context, topic string, value []byte) error {
	record := &kgo.Record{Topic: topic, Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and tears down the connection.
func (p *Producer) Close() {
	if err := p.client.Flush(context.Background()); err != nil {
		p.logger.Warn("kafka flush on close failed", "error", err)
	}
	p.client.Close()
}
