package venue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// PostgresStore persists venues in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const venueColumns = `id, name, email, phone, venue_head, state, city, address, pincode,
	capacity, website, canteen_menu, canteen_contact, image, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, v *Venue) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO venues (`+venueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, uuid.UUID(v.ID), v.Name, v.Email, v.Phone, uuid.UUID(v.VenueHead), v.State, v.City,
		v.Address, v.Pincode, v.Capacity, v.Website, v.CanteenMenu, v.CanteenContact,
		v.Image, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, v *Venue) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE venues
		SET name = $2, email = $3, phone = $4, venue_head = $5, state = $6, city = $7,
			address = $8, pincode = $9, capacity = $10, website = $11, canteen_menu = $12,
			canteen_contact = $13, image = $14, updated_at = $15
		WHERE id = $1
	`, uuid.UUID(v.ID), v.Name, v.Email, v.Phone, uuid.UUID(v.VenueHead), v.State, v.City,
		v.Address, v.Pincode, v.Capacity, v.Website, v.CanteenMenu, v.CanteenContact,
		v.Image, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) Delete(ctx context.Context, venueID id.VenueID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, uuid.UUID(venueID))
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) FindByID(ctx context.Context, venueID id.VenueID) (*Venue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+venueColumns+` FROM venues WHERE id = $1
	`, uuid.UUID(venueID))
	v, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query venue: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context, city string) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY name`
	args := []any{}
	if city != "" {
		query = `SELECT ` + venueColumns + ` FROM venues WHERE city = $1 ORDER BY name`
		args = append(args, city)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query venues: %w", err)
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVenue(row scanner) (*Venue, error) {
	var (
		v            Venue
		rawID, rawVH uuid.UUID
	)
	err := row.Scan(&rawID, &v.Name, &v.Email, &v.Phone, &rawVH, &v.State, &v.City,
		&v.Address, &v.Pincode, &v.Capacity, &v.Website, &v.CanteenMenu,
		&v.CanteenContact, &v.Image, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = id.VenueID(rawID)
	v.VenueHead = id.UserID(rawVH)
	return &v, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
