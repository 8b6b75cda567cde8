package invite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// PostgresStore persists invitations in Postgres. The invitations table
// carries a unique index on (event_id, user_id); Record inserts with
// ON CONFLICT DO NOTHING so a racing duplicate surfaces as ErrConflict
// instead of corrupting the at-most-one invariant.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Exists(ctx context.Context, eventID id.EventID, userID id.UserID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invitations WHERE event_id = $1 AND user_id = $2)`,
		eventID.String(), userID.String(),
	).Scan(&exists)
	if err != nil {
		return false, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("check invitation: %w", err))
	}
	return exists, nil
}

func (s *PostgresStore) Record(ctx context.Context, invitation *Invitation) error {
	query := `
		INSERT INTO invitations (id, event_id, user_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query,
		invitation.ID.String(), invitation.EventID.String(), invitation.UserID.String(),
		invitation.Name, invitation.Email, invitation.Phone,
		invitation.CreatedAt, invitation.UpdatedAt,
	)
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("insert invitation: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]Invitation, error) {
	query := `
		SELECT id, event_id, user_id, name, email, phone, created_at, updated_at
		FROM invitations WHERE event_id = $1 ORDER BY created_at, name`
	rows, err := s.db.QueryContext(ctx, query, eventID.String())
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list invitations: %w", err))
	}
	defer rows.Close()

	var out []Invitation
	for rows.Next() {
		var (
			inv                      Invitation
			rawID, rawEvent, rawUser string
		)
		if err := rows.Scan(&rawID, &rawEvent, &rawUser, &inv.Name, &inv.Email,
			&inv.Phone, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan invitation: %w", err))
		}
		if inv.ID, err = id.ParseInvitationID(rawID); err != nil {
			return nil, err
		}
		if inv.EventID, err = id.ParseEventID(rawEvent); err != nil {
			return nil, err
		}
		if inv.UserID, err = id.ParseUserID(rawUser); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list invitations: %w", err))
	}
	return out, nil
}

func (s *PostgresStore) ListEventIDsByUser(ctx context.Context, userID id.UserID) ([]id.EventID, error) {
	query := `SELECT event_id FROM invitations WHERE user_id = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list invited events: %w", err))
	}
	defer rows.Close()

	var out []id.EventID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan invited event: %w", err))
		}
		eventID, err := id.ParseEventID(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, eventID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list invited events: %w", err))
	}
	return out, nil
}
