package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

const bookingColumns = `id, event_id, venue_id, venue_head, organiser, organiser_name,
	organiser_email, from_date, to_date, booking_time, status, created_at, updated_at`

// PostgresStore persists bookings in Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.db.ExecContext(ctx, query,
		b.ID.String(), b.EventID.String(), b.VenueID.String(), b.VenueHead.String(),
		b.Organiser.String(), b.OrganiserName, b.OrganiserEmail,
		b.FromDate, b.ToDate, b.Time,
		string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("insert booking: %w", err))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, b *Booking) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, b.ID.String(), string(b.Status), b.UpdatedAt)
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, fmt.Errorf("update booking: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, bookingID id.BookingID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(s.db.QueryRowContext(ctx, query, bookingID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("select booking: %w", err))
	}
	return b, nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]Booking, error) {
	return s.listBy(ctx, `event_id`, eventID.String())
}

func (s *PostgresStore) ListByVenue(ctx context.Context, venueID id.VenueID) ([]Booking, error) {
	return s.listBy(ctx, `venue_id`, venueID.String())
}

func (s *PostgresStore) listBy(ctx context.Context, column, value string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list bookings: %w", err))
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("scan booking: %w", err))
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(sentinel.ErrUnavailable, fmt.Errorf("list bookings: %w", err))
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*Booking, error) {
	var (
		b                                           Booking
		rawID, rawEvent, rawVenue, rawHead, rawUser string
		rawStatus                                   string
	)
	err := row.Scan(&rawID, &rawEvent, &rawVenue, &rawHead, &rawUser,
		&b.OrganiserName, &b.OrganiserEmail, &b.FromDate, &b.ToDate, &b.Time,
		&rawStatus, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if b.ID, err = id.ParseBookingID(rawID); err != nil {
		return nil, err
	}
	if b.EventID, err = id.ParseEventID(rawEvent); err != nil {
		return nil, err
	}
	if b.VenueID, err = id.ParseVenueID(rawVenue); err != nil {
		return nil, err
	}
	if b.VenueHead, err = id.ParseUserID(rawHead); err != nil {
		return nil, err
	}
	if b.Organiser, err = id.ParseUserID(rawUser); err != nil {
		return nil, err
	}
	b.Status = BookingStatus(rawStatus)
	return &b, nil
}
