package calendar

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("calendar event not found")

type Store interface {
	Create(ctx context.Context, e *Event) error
	List(ctx context.Context, userID string, f Filter) ([]*Event, error)
	GetByID(ctx context.Context, userID, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, userID, id string) error
}

// InMemoryStore is a threadsafe in-memory store for tests
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Event
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byUser: make(map[string][]*Event),
		now:    time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Type == "" {
		e.Type = TypePersonal
	}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	clone := *e
	s.byUser[e.UserID] = append(s.byUser[e.UserID], &clone)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, userID string, f Filter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Event
	for _, e := range s.byUser[userID] {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Date != "" && e.Date != f.Date {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, userID, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.byUser[userID] {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Update(ctx context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.byUser[e.UserID] {
		if existing.ID == e.ID {
			e.CreatedAt = existing.CreatedAt
			e.UpdatedAt = s.now()
			clone := *e
			s.byUser[e.UserID][i] = &clone
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byUser[userID]
	for i, e := range list {
		if e.ID == id {
			s.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
