package event

import (
	"context"
	"sort"
	"sync"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

// InMemoryStore keeps events in a map. Used in tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.EventID]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.EventID]Event)}
}

func (s *InMemoryStore) Create(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.events[e.ID] = *e
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[e.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.events[e.ID] = *e
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, eventID id.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[eventID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.events, eventID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, eventID id.EventID) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := e
	return &copied, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// InMemoryTaskStore keeps task assignments in a slice.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks []Task
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{}
}

func (s *InMemoryTaskStore) CreateAll(_ context.Context, tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, tasks...)
	return nil
}

func (s *InMemoryTaskStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, t := range s.tasks {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *InMemoryTaskStore) ListByUser(_ context.Context, userID id.UserID) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// InMemoryFeedbackStore keeps feedback in a slice.
type InMemoryFeedbackStore struct {
	mu       sync.RWMutex
	feedback []Feedback
}

func NewInMemoryFeedbackStore() *InMemoryFeedbackStore {
	return &InMemoryFeedbackStore{}
}

func (s *InMemoryFeedbackStore) Create(_ context.Context, f *Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *InMemoryFeedbackStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Feedback
	for _, f := range s.feedback {
		if f.EventID == eventID {
			out = append(out, f)
		}
	}
	return out, nil
}

// NoopTx satisfies StoreTx for stores without transactional semantics.
type NoopTx struct{}

func (NoopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
