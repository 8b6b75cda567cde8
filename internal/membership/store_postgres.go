package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// PostgresStore reads members from the users table the identity service
// maintains.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByDepartment(ctx context.Context, department string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, department
		FROM users
		WHERE department = $1
		ORDER BY name, id
	`, department)
	if err != nil {
		return nil, fmt.Errorf("query members by department: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var (
			m   Member
			raw uuid.UUID
		)
		if err := rows.Scan(&raw, &m.Name, &m.Email, &m.Phone, &m.Department); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.ID = id.UserID(raw)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return members, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*Member, error) {
	var (
		m   Member
		raw uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, department
		FROM users
		WHERE id = $1
	`, uuid.UUID(userID)).Scan(&raw, &m.Name, &m.Email, &m.Phone, &m.Department)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query member by id: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	m.ID = id.UserID(raw)
	return &m, nil
}
