// Package venue manages venue registrations. Venue contact details feed the
// booking notifications: the venue email receives booking requests and the
// canteen contact receives food requirements on approval.
package venue

import (
	"context"
	"strings"
	"time"

	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
)

// Venue is the aggregate root for a bookable venue.
type Venue struct {
	ID             id.VenueID `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	VenueHead      id.UserID  `json:"venue_head"`
	State          string     `json:"state"`
	City           string     `json:"city"`
	Address        string     `json:"address"`
	Pincode        string     `json:"pincode"`
	Capacity       int        `json:"capacity"`
	Website        string     `json:"website"`
	CanteenMenu    string     `json:"canteen_menu"`
	CanteenContact string     `json:"canteen_contact"`
	Image          string     `json:"image"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewVenue validates required fields and constructs a venue. Website is the
// only optional field, matching the registration form.
func NewVenue(venueID id.VenueID, v Venue, now time.Time) (*Venue, error) {
	v.Name = strings.TrimSpace(v.Name)
	required := map[string]string{
		"name":            v.Name,
		"email":           v.Email,
		"phone":           v.Phone,
		"state":           v.State,
		"city":            v.City,
		"address":         v.Address,
		"pincode":         v.Pincode,
		"canteen_menu":    v.CanteenMenu,
		"canteen_contact": v.CanteenContact,
		"image":           v.Image,
	}
	for field, value := range required {
		if value == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, field+" is required")
		}
	}
	if v.VenueHead.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "venue_head is required")
	}
	if v.Capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "capacity must be positive")
	}

	v.ID = venueID
	v.CreatedAt = now
	v.UpdatedAt = now
	return &v, nil
}

// Store persists venues.
type Store interface {
	Create(ctx context.Context, v *Venue) error
	Update(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, venueID id.VenueID) error
	FindByID(ctx context.Context, venueID id.VenueID) (*Venue, error)
	// List returns all venues; a non-empty city narrows the result.
	List(ctx context.Context, city string) ([]Venue, error)
}
