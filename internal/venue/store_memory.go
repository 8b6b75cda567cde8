package venue

import (
	"context"
	"sort"
	"sync"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// InMemoryStore keeps venues in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	venues map[id.VenueID]Venue
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{venues: make(map[id.VenueID]Venue)}
}

func (s *InMemoryStore) Create(_ context.Context, v *Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.venues[v.ID]; exists {
		return sentinel.ErrConflict
	}
	s.venues[v.ID] = *v
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, v *Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.venues[v.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.venues[v.ID] = *v
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, venueID id.VenueID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.venues[venueID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.venues, venueID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, venueID id.VenueID) (*Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues[venueID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}

func (s *InMemoryStore) List(_ context.Context, city string) ([]Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Venue
	for _, v := range s.venues {
		if city == "" || v.City == city {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
