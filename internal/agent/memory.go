package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/lifesync/internal/conversation"
	"github.com/lifesync/internal/llm"
)

// Memory tracks per-user conversational state: the last classified
// affect mode (in process memory) and the turn history (in the
// conversation store, which may be durable).
type Memory struct {
	turns conversation.Store

	mu    sync.RWMutex
	modes map[string]AffectState
}

func NewMemory(turns conversation.Store) *Memory {
	return &Memory{
		turns: turns,
		modes: make(map[string]AffectState),
	}
}

// SetMode records the affect classification of the user's latest message.
func (m *Memory) SetMode(userID string, mode AffectState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[userID] = mode
}

// Mode returns the last recorded affect mode, defaulting to neutral.
func (m *Memory) Mode(userID string) AffectState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mode, ok := m.modes[userID]; ok {
		return mode
	}
	return AffectNeutral
}

// RecordTurn appends one utterance to the user's history.
func (m *Memory) RecordTurn(ctx context.Context, userID string, actor conversation.ActorType, content string) error {
	err := m.turns.Append(ctx, &conversation.Turn{
		UserID:  userID,
		Actor:   actor,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to record conversation turn: %w", err)
	}
	return nil
}

// History returns up to limit recent turns in chronological order.
func (m *Memory) History(ctx context.Context, userID string, limit int) ([]*conversation.Turn, error) {
	turns, err := m.turns.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return turns, nil
}

// Clear drops the user's history and affect mode.
func (m *Memory) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	delete(m.modes, userID)
	m.mu.Unlock()

	if err := m.turns.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear conversation history: %w", err)
	}
	return nil
}

// promptHistory converts stored turns into the model conversation format.
func promptHistory(turns []*conversation.Turn) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		role := llm.RoleHuman
		if turn.Actor == conversation.ActorAI {
			role = llm.RoleAI
		}
		history = append(history, llm.Message{Role: role, Content: turn.Content})
	}
	return history
}
