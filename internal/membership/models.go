// Package membership provides read access to portal users. The membership
// records themselves are owned by the identity service; this package only
// looks them up for audience resolution and contact snapshotting.
package membership

import (
	"context"

	id "campusevents/pkg/domain"
)

// Member is a portal user as the membership store exposes it.
type Member struct {
	ID         id.UserID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
}

// Store looks up members. Implementations return sentinel.ErrNotFound for
// unknown ids and sentinel.ErrUnavailable (wrapped) when the backing store
// cannot be reached.
type Store interface {
	// FindByDepartment returns every member tagged with the department.
	// An unknown department is an empty result, not an error.
	FindByDepartment(ctx context.Context, department string) ([]Member, error)

	// FindByID returns a single member.
	FindByID(ctx context.Context, userID id.UserID) (*Member, error)
}
