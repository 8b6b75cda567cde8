// Package domain holds shared domain primitives: typed identifiers used
// across services and stores. Typed IDs prevent cross-entity assignment
// mistakes at compile time (an EventID can never be passed where a UserID
// is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "campusevents/pkg/domain-errors"
)

type (
	// UserID identifies a portal user (organiser, invitee, venue head).
	UserID uuid.UUID

	// EventID identifies an event.
	EventID uuid.UUID

	// VenueID identifies a venue.
	VenueID uuid.UUID

	// BookingID identifies a venue booking.
	BookingID uuid.UUID

	// InvitationID identifies an invitation record.
	InvitationID uuid.UUID
)

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id EventID) String() string      { return uuid.UUID(id).String() }
func (id VenueID) String() string      { return uuid.UUID(id).String() }
func (id BookingID) String() string    { return uuid.UUID(id).String() }
func (id InvitationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id VenueID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id BookingID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id InvitationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewVenueID returns a fresh random VenueID.
func NewVenueID() VenueID { return VenueID(uuid.New()) }

// NewBookingID returns a fresh random BookingID.
func NewBookingID() BookingID { return BookingID(uuid.New()) }

// NewInvitationID returns a fresh random InvitationID.
func NewInvitationID() InvitationID { return InvitationID(uuid.New()) }

// The text marshalers keep IDs as canonical UUID strings in JSON bodies and
// cache entries instead of raw byte arrays.

func (id UserID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id VenueID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id BookingID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id InvitationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// Unmarshaling accepts any well-formed UUID including the nil value; the
// Parse functions remain the place where request input is validated.

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}

func (id *EventID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = EventID(parsed)
	return nil
}

func (id *VenueID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = VenueID(parsed)
	return nil
}

func (id *BookingID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = BookingID(parsed)
	return nil
}

func (id *InvitationID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = InvitationID(parsed)
	return nil
}

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is not a valid uuid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be nil")
	}
	return parsed, nil
}

// ParseUserID validates raw and returns a typed UserID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseEventID validates raw and returns a typed EventID.
func ParseEventID(raw string) (EventID, error) {
	parsed, err := parseUUID(raw, "event")
	if err != nil {
		return EventID{}, err
	}
	return EventID(parsed), nil
}

// ParseVenueID validates raw and returns a typed VenueID.
func ParseVenueID(raw string) (VenueID, error) {
	parsed, err := parseUUID(raw, "venue")
	if err != nil {
		return VenueID{}, err
	}
	return VenueID(parsed), nil
}

// ParseBookingID validates raw and returns a typed BookingID.
func ParseBookingID(raw string) (BookingID, error) {
	parsed, err := parseUUID(raw, "booking")
	if err != nil {
		return BookingID{}, err
	}
	return BookingID(parsed), nil
}

// ParseInvitationID validates raw and returns a typed InvitationID.
func ParseInvitationID(raw string) (InvitationID, error) {
	parsed, err := parseUUID(raw, "invitation")
	if err != nil {
		return InvitationID{}, err
	}
	return InvitationID(parsed), nil
}
