package mood

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("mood entry not found")

type Store interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, userID string, f Filter) ([]*Entry, error)
	GetByID(ctx context.Context, userID, id string) (*Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

// InMemoryStore is a threadsafe in-memory store for tests
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Entry
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byUser: make(map[string][]*Entry),
		now:    time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	clone := *e
	s.byUser[e.UserID] = append(s.byUser[e.UserID], &clone)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, userID string, f Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Entry
	for _, e := range s.byUser[userID] {
		if f.Mood != "" && e.Mood != f.Mood {
			continue
		}
		if !f.Since.IsZero() && e.Date.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && e.Date.After(f.Until) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, userID, id string) (*Entry, error) {
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
