package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

type Store interface {
	Create(ctx context.Context, t *Task) error
	List(ctx context.Context, userID string, f Filter) ([]*Task, error)
	GetByID(ctx context.Context, userID, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, userID, id string) error
}

// InMemoryStore is a threadsafe in-memory store for tests
type InMemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Task
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byUser: make(map[string][]*Task),
		now:    time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.byUser[t.UserID] = append(s.byUser[t.UserID], cloneTask(t))
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, userID string, f Filter) ([]*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Task
	for _, t := range s.byUser[userID] {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AISuggested != nil && t.AISuggested != *f.AISuggested {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, userID, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.byUser[userID] {
		if t.ID == id {
			return cloneTask(t), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Update(ctx context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.byUser[t.UserID] {
		if existing.ID == t.ID {
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = s.now()
			s.byUser[t.UserID][i] = cloneTask(t)
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byUser[userID]
	for i, t := range list {
		if t.ID == id {
			s.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func cloneTask(t *Task) *Task {
	c := *t
	c.Tags = append([]string(nil), t.Tags...)
	return &c
}
