package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists conversation turns per user.
type Store interface {
	// Append records a turn. ID and CreatedAt are assigned if unset.
	Append(ctx context.Context, turn *Turn) error
	// ListByUser returns the most recent turns for a user in chronological
	// order. A limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*Turn, error)
	// Clear removes all turns for a user.
	Clear(ctx context.Context, userID string) error
}

// InMemoryStore is a Store backed by process memory, for tests and
// database-less deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]*Turn
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{turns: make(map[string][]*Turn)}
}

func (s *InMemoryStore) Append(ctx context.Context, turn *Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	clone := *turn
	s.turns[turn.UserID] = append(s.turns[turn.UserID], &clone)
	return nil
}

func (s *InMemoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[userID]
	out := make([]*Turn, len(all))
	for i, t := range all {
		clone := *t
		out[i] = &clone
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *InMemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, userID)
	return nil
}
