package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/platform/tx"
)

const eventColumns = `id, name, description, caption, status, from_date, to_date, event_time,
	image, venue_id, organiser, food_req, expected_count, created_at, updated_at`

// PostgresStore persists events in Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// execer resolves to the ambient transaction when one is present so that
// task batches and status writes can share atomicity with callers.
func (s *PostgresStore) execer(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		e.ID.String(), e.Name, e.Description, e.Caption, string(e.Status),
		e.FromDate, e.ToDate, e.Time, e.Image, nullableID(e.Venue),
		e.Organiser.String(), e.FoodRequirement, e.ExpectedCount, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("insert event: %w", err))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, caption = $4, status = $5, from_date = $6,
		    to_date = $7, event_time = $8, image = $9, venue_id = $10, food_req = $11,
		    expected_count = $12, updated_at = $13
		WHERE id = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		e.ID.String(), e.Name, e.Description, e.Caption, string(e.Status),
		e.FromDate, e.ToDate, e.Time, e.Image, nullableID(e.Venue),
		e.FoodRequirement, e.ExpectedCount, e.UpdatedAt,
	)
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("update event: %w", err))
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, eventID id.EventID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID.String())
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("delete event: %w", err))
	}
	return requireRow(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, eventID id.EventID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, eventID.String())
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("select event: %w", err))
	}
	return e, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list events: %w", err))
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan event: %w", err))
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list events: %w", err))
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*Event, error) {
	var (
		e               Event
		rawID, rawOwner string
		rawVenue        sql.NullString
		rawStatus       string
	)
	err := row.Scan(&rawID, &e.Name, &e.Description, &e.Caption, &rawStatus,
		&e.FromDate, &e.ToDate, &e.Time, &e.Image, &rawVenue, &rawOwner,
		&e.FoodRequirement, &e.ExpectedCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.ID, err = id.ParseEventID(rawID); err != nil {
		return nil, err
	}
	if rawVenue.Valid {
		if e.Venue, err = id.ParseVenueID(rawVenue.String); err != nil {
			return nil, err
		}
	}
	if e.Organiser, err = id.ParseUserID(rawOwner); err != nil {
		return nil, err
	}
	e.Status = EventStatus(rawStatus)
	return &e, nil
}

// nullableID maps a nil venue reference to SQL NULL.
func nullableID(venueID id.VenueID) any {
	if venueID.IsNil() {
		return nil
	}
	return venueID.String()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PostgresTaskStore persists task assignments.
type PostgresTaskStore struct {
	db *sql.DB
}

func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) CreateAll(ctx context.Context, tasks []Task) error {
	var exec interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	} = s.db
	if t, ok := tx.From(ctx); ok {
		exec = t
	}
	query := `
		INSERT INTO event_tasks (id, event_id, user_id, user_name, user_email, task, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, task := range tasks {
		_, err := exec.ExecContext(ctx, query,
			task.ID, task.EventID.String(), task.UserID.String(),
			task.UserName, task.UserEmail, task.Task, task.CreatedAt)
		if err != nil {
			return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("insert task: %w", err))
		}
	}
	return nil
}

func (s *PostgresTaskStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]Task, error) {
	return s.listTasks(ctx, `event_id`, eventID.String())
}

func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID id.UserID) ([]Task, error) {
	return s.listTasks(ctx, `user_id`, userID.String())
}

func (s *PostgresTaskStore) listTasks(ctx context.Context, column, value string) ([]Task, error) {
	query := `
		SELECT id, event_id, user_id, user_name, user_email, task, created_at
		FROM event_tasks WHERE ` + column + ` = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list tasks: %w", err))
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var (
			t                 Task
			rawEvent, rawUser string
		)
		if err := rows.Scan(&t.ID, &rawEvent, &rawUser, &t.UserName, &t.UserEmail, &t.Task, &t.CreatedAt); err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan task: %w", err))
		}
		if t.EventID, err = id.ParseEventID(rawEvent); err != nil {
			return nil, err
		}
		if t.UserID, err = id.ParseUserID(rawUser); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list tasks: %w", err))
	}
	return out, nil
}

// PostgresFeedbackStore persists feedback.
type PostgresFeedbackStore struct {
	db *sql.DB
}

func NewPostgresFeedbackStore(db *sql.DB) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{db: db}
}

func (s *PostgresFeedbackStore) Create(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO event_feedback
			(id, event_id, user_id, user_name, user_email, overall, venue, coordination, canteen, suggestion, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.db.ExecContext(ctx, query,
		f.ID, f.EventID.String(), f.UserID.String(), f.UserName, f.UserEmail,
		f.Overall, f.Venue, f.Coordination, f.Canteen, f.Suggestion, f.CreatedAt)
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("insert feedback: %w", err))
	}
	return nil
}

func (s *PostgresFeedbackStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]Feedback, error) {
	query := `
		SELECT id, event_id, user_id, user_name, user_email, overall, venue, coordination, canteen, suggestion, created_at
		FROM event_feedback WHERE event_id = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, eventID.String())
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list feedback: %w", err))
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var (
			f                 Feedback
			rawEvent, rawUser string
		)
		if err := rows.Scan(&f.ID, &rawEvent, &rawUser, &f.UserName, &f.UserEmail,
			&f.Overall, &f.Venue, &f.Coordination, &f.Canteen, &f.Suggestion, &f.CreatedAt); err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan feedback: %w", err))
		}
		if f.EventID, err = id.ParseEventID(rawEvent); err != nil {
			return nil, err
		}
		if f.UserID, err = id.ParseUserID(rawUser); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list feedback: %w", err))
	}
	return out, nil
}

// SQLTx runs callbacks inside a database transaction. Stores participating
// in the callback pick the transaction up from context via the tx package.
type SQLTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLTx(db *sql.DB) *SQLTx {
	return &SQLTx{db: db, timeout: 10 * time.Second}
}

func (r *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("begin tx: %w", err))
	}
	defer sqlTx.Rollback() //nolint:errcheck

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
