package goals

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("goal not found")

type Store interface {
	Create(ctx context.Context, g *Goal) error
	List(ctx context.Context, userID string, f Filter) ([]*Goal, error)
	GetByID(ctx context.Context, userID, id string) (*Goal, error)
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, userID, id string) error
}

// InMemoryStore is a threadsafe in-memory store for tests
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Goal
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byUser: make(map[string][]*Goal),
		now:    time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, g *Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Category == "" {
		g.Category = CategoryPersonal
	}
	if g.Status == "" {
		g.Status = StatusNotStarted
	}
	g.CreatedAt = s.now()
	g.UpdatedAt = g.CreatedAt
	clone := *g
	s.byUser[g.UserID] = append(s.byUser[g.UserID], &clone)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, userID string, f Filter) ([]*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Goal
	for _, g := range s.byUser[userID] {
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if f.Category != "" && g.Category != f.Category {
			continue
		}
		clone := *g
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, userID, id string) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.byUser[userID] {
		if g.ID == id {
			clone := *g
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Update(ctx context.Context, g *Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.byUser[g.UserID] {
		if existing.ID == g.ID {
			g.CreatedAt = existing.CreatedAt
			g.UpdatedAt = s.now()
			clone := *g
			s.byUser[g.UserID][i] = &clone
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byUser[userID]
	for i, g := range list {
		if g.ID == id {
			s.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
