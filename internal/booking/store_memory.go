package booking

import (
	"context"
	"sort"
	"sync"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// InMemoryStore keeps bookings in a map. Used in tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	bookings map[id.BookingID]Booking
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bookings: make(map[id.BookingID]Booking)}
}

func (s *InMemoryStore) Create(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[b.ID]; exists {
		return sentinel.ErrConflict
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[b.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, bookingID id.BookingID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Booking, error) {
	return s.list(func(b Booking) bool { return b.EventID == eventID }), nil
}

func (s *InMemoryStore) ListByVenue(_ context.Context, venueID id.VenueID) ([]Booking, error) {
	return s.list(func(b Booking) bool { return b.VenueID == venueID }), nil
}

func (s *InMemoryStore) list(match func(Booking) bool) []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Booking
	for _, b := range s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
