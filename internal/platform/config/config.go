// Package config builds service configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything cmd/server needs to wire the service.
type Config struct {
	Addr string

	// PostgresDSN is the connection string for the portal database. Empty
	// means run on in-memory stores (development mode).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig

	// GatewaySigningKey verifies the identity tokens the API gateway
	// attaches to forwarded requests.
	GatewaySigningKey string

	// EmailBatchSize is the mass_mail chunk size. The mail worker consuming
	// the topic expects at most this many addresses per message.
	EmailBatchSize int

	// DispatchWorkers bounds concurrent broker publishes during fan-out.
	DispatchWorkers int
}

// RedisConfig configures the optional membership roster cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RosterTTL bounds staleness of cached department rosters.
	RosterTTL time.Duration
}

// KafkaConfig configures the notification broker connection.
type KafkaConfig struct {
	Brokers  []string
	ClientID string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envOr("CAMPUSEVENTS_ADDR", ":8080"),
		PostgresDSN: os.Getenv("CAMPUSEVENTS_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("CAMPUSEVENTS_REDIS_URL"),
			PoolSize:     envIntOr("CAMPUSEVENTS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("CAMPUSEVENTS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDurationOr("CAMPUSEVENTS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("CAMPUSEVENTS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("CAMPUSEVENTS_REDIS_WRITE_TIMEOUT", 3*time.Second),
			RosterTTL:    envDurationOr("CAMPUSEVENTS_ROSTER_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(envOr("CAMPUSEVENTS_KAFKA_BROKERS", "localhost:9092")),
			ClientID: envOr("CAMPUSEVENTS_KAFKA_CLIENT_ID", "campusevents"),
		},
		GatewaySigningKey: envOr("CAMPUSEVENTS_GATEWAY_SIGNING_KEY", "dev-secret-key-change-in-production"),
		EmailBatchSize:    envIntOr("CAMPUSEVENTS_EMAIL_BATCH_SIZE", 50),
		DispatchWorkers:   envIntOr("CAMPUSEVENTS_DISPATCH_WORKERS", 8),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
