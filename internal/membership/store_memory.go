package membership

import (
	"context"
	"sync"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// InMemoryStore keeps members in process memory. Used in development mode
// and as the reference implementation for store tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.UserID]Member
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{members: make(map[id.UserID]Member)}
}

// Seed adds members. Intended for development wiring and tests.
func (s *InMemoryStore) Seed(members ...Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		s.members[m.ID] = m
	}
}

func (s *InMemoryStore) FindByDepartment(_ context.Context, department string) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Member
	for _, m := range s.members {
		if m.Department == department {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &m, nil
}
