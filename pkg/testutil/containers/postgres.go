//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the production migrations closely enough for store tests.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS venues (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	phone           TEXT NOT NULL DEFAULT '',
	venue_head      UUID NOT NULL,
	state           TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	address         TEXT NOT NULL DEFAULT '',
	pincode         TEXT NOT NULL DEFAULT '',
	capacity        INTEGER NOT NULL DEFAULT 0,
	website         TEXT NOT NULL DEFAULT '',
	canteen_menu    TEXT NOT NULL DEFAULT '',
	canteen_contact TEXT NOT NULL DEFAULT '',
	image           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	caption        TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	from_date      TEXT NOT NULL,
	to_date        TEXT NOT NULL,
	event_time     TEXT NOT NULL DEFAULT '',
	image          TEXT NOT NULL DEFAULT '',
	venue_id       UUID,
	organiser      UUID NOT NULL,
	food_req       TEXT NOT NULL DEFAULT '',
	expected_count INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS event_tasks (
	id         UUID PRIMARY KEY,
	event_id   UUID NOT NULL,
	user_id    UUID NOT NULL,
	user_name  TEXT NOT NULL,
	user_email TEXT NOT NULL,
	task       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS event_feedback (
	id           UUID PRIMARY KEY,
	event_id     UUID NOT NULL,
	user_id      UUID NOT NULL,
	user_name    TEXT NOT NULL,
	user_email   TEXT NOT NULL,
	overall      INTEGER NOT NULL,
	venue        INTEGER NOT NULL,
	coordination INTEGER NOT NULL,
	canteen      INTEGER NOT NULL,
	suggestion   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id              UUID PRIMARY KEY,
	event_id        UUID NOT NULL,
	venue_id        UUID NOT NULL,
	venue_head      UUID NOT NULL,
	organiser       UUID NOT NULL,
	organiser_name  TEXT NOT NULL,
	organiser_email TEXT NOT NULL,
	from_date       TEXT NOT NULL,
	to_date         TEXT NOT NULL,
	booking_time    TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invitations (
	id         UUID PRIMARY KEY,
	event_id   UUID NOT NULL,
	user_id    UUID NOT NULL,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, user_id)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the
// portal schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("campusevents"),
		tcpostgres.WithUsername("campusevents"),
		tcpostgres.WithPassword("campusevents"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Not registered with t.Cleanup: the container is shared across suites
	// through the Manager and reaped by Ryuk.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the given tables. Use between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	_, err := p.DB.ExecContext(ctx, query)
	return err
}

// Exec runs an arbitrary statement, for test fixtures.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}
