// Package invite implements the invitation pipeline: audience resolution,
// dedup against prior invitations, persistence, and notification dispatch.
package invite

import (
	"context"
	"time"

	id "campusevents/pkg/domain"
)

// Invitation records that a user has been invited to an event. Contact
// details are snapshotted at invite time.
//
// Invariant: at most one invitation per (EventID, UserID). The stores
// enforce it with a uniqueness check plus an idempotent insert.
type Invitation struct {
	ID        id.InvitationID `json:"id"`
	EventID   id.EventID      `json:"event_id"`
	UserID    id.UserID       `json:"user_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store persists invitations.
//
//go:generate mockgen -source=models.go -destination=mocks/store.go -package=mocks
type Store interface {
	// Exists reports whether the (event, user) pair is already invited.
	Exists(ctx context.Context, eventID id.EventID, userID id.UserID) (bool, error)

	// Record writes one invitation. Two racing writes for the same pair
	// both pass Exists; Record resolves the race by treating the losing
	// insert as sentinel.ErrConflict, which callers absorb as a skip.
	Record(ctx context.Context, invitation *Invitation) error

	// ListByEvent returns all invitations for an event.
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Invitation, error)

	// ListEventIDsByUser returns the events a user is invited to.
	ListEventIDsByUser(ctx context.Context, userID id.UserID) ([]id.EventID, error)
}
