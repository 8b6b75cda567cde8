package invite

import (
	"context"
	"sort"
	"sync"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// InMemoryStore keeps invitations in nested maps keyed by event then user.
// It mirrors the Postgres store's uniqueness behavior: a second Record for
// the same pair returns sentinel.ErrConflict.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEvent map[id.EventID]map[id.UserID]Invitation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byEvent: make(map[id.EventID]map[id.UserID]Invitation)}
}

func (s *InMemoryStore) Exists(_ context.Context, eventID id.EventID, userID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEvent[eventID][userID]
	return ok, nil
}

func (s *InMemoryStore) Record(_ context.Context, invitation *Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, ok := s.byEvent[invitation.EventID]
	if !ok {
		users = make(map[id.UserID]Invitation)
		s.byEvent[invitation.EventID] = users
	}
	if _, exists := users[invitation.UserID]; exists {
		return sentinel.ErrConflict
	}
	users[invitation.UserID] = *invitation
	return nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := s.byEvent[eventID]
	out := make([]Invitation, 0, len(users))
	for _, inv := range users {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *InMemoryStore) ListEventIDsByUser(_ context.Context, userID id.UserID) ([]id.EventID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.EventID
	for eventID, users := range s.byEvent {
		if _, ok := users[userID]; ok {
			out = append(out, eventID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
