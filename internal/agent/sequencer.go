package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// confirmWords and rejectWords are matched against the whole trimmed,
// lowercased reply.
var (
	confirmWords = map[string]bool{"yes": true, "yep": true, "sure": true, "ok": true, "okay": true}
	rejectWords  = map[string]bool{"no": true, "nope": true, "not now": true, "skip": true}
)

// ResolutionKind says how the sequencer handled a reply.
type ResolutionKind int

const (
	// ResolutionPassthrough means the reply was not a confirmation
	// decision; the caller should treat it as a fresh message.
	ResolutionPassthrough ResolutionKind = iota
	ResolutionConfirmed
	ResolutionRejected
)

// Resolution is the outcome of offering a reply to the sequencer.
type Resolution struct {
	Kind    ResolutionKind
	Message string
	// Next is the new head of the queue, nil when the queue drained.
	Next *CandidateAction
}

// Sequencer walks each user's pending actions one at a time: it holds a
// FIFO queue per user, surfaces only the head, and advances when the
// user confirms or rejects it. All operations for a user are serialized.
type Sequencer struct {
	executor *Executor

	mu       sync.Mutex
	sessions map[string]*pendingQueue
}

type pendingQueue struct {
	mu      sync.Mutex
	current *CandidateAction
	queued  []CandidateAction
}

func NewSequencer(executor *Executor) *Sequencer {
	return &Sequencer{
		executor: executor,
		sessions: make(map[string]*pendingQueue),
	}
}

func (s *Sequencer) queue(userID string) *pendingQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.sessions[userID]
	if !ok {
		q = &pendingQueue{}
		s.sessions[userID] = q
	}
	return q
}

// Begin replaces the user's pending queue with a fresh set of actions
// and returns the new head, or nil when actions is empty.
func (s *Sequencer) Begin(userID string, actions []CandidateAction) *CandidateAction {
	q := s.queue(userID)
	q.mu.Lock()
	defer q.mu.Unlock()

	q.current = nil
	q.queued = nil
	if len(actions) == 0 {
		return nil
	}
	head := actions[0]
	q.current = &head
	q.queued = append(q.queued, actions[1:]...)
	return &head
}

// Current returns the action awaiting confirmation, or nil.
func (s *Sequencer) Current(userID string) *CandidateAction {
	q := s.queue(userID)
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return nil
	}
	clone := *q.current
	return &clone
}

// Clear drops the user's pending queue without executing anything.
func (s *Sequencer) Clear(userID string) {
	q := s.queue(userID)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = nil
	q.queued = nil
}

// Resolve offers a reply to the sequencer. When no action is pending, or
// the reply is neither a confirm nor a reject word, it passes through
// untouched. A confirmation executes the current action; a rejection
// skips it. Either way the queue advances to the next action.
func (s *Sequencer) Resolve(ctx context.Context, userID, reply string) Resolution {
	q := s.queue(userID)
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil {
		return Resolution{Kind: ResolutionPassthrough}
	}

	word := strings.ToLower(strings.TrimSpace(reply))
	switch {
	case confirmWords[word]:
		action := *q.current
		next := q.advance()

		var message string
		if err := s.executor.Execute(ctx, userID, action); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", userID).
				Str("action_type", string(action.Type)).
				Msg("confirmed action failed to execute")
			message = fmt.Sprintf("I couldn't %s just now.", action.Prompt())
		} else {
			message = fmt.Sprintf("Done! I added %q to your %s.", action.Title(), collectionName(action.Type))
		}
		message += " " + followupLine(next)
		return Resolution{Kind: ResolutionConfirmed, Message: message, Next: next}

	case rejectWords[word]:
		next := q.advance()
		message := "No problem! I won't take any action."
		if next != nil {
			message = "No problem! " + followupLine(next)
		}
		return Resolution{Kind: ResolutionRejected, Message: message, Next: next}

	default:
		return Resolution{Kind: ResolutionPassthrough}
	}
}

// advance pops the queue head into current. Caller holds q.mu.
func (q *pendingQueue) advance() *CandidateAction {
	if len(q.queued) == 0 {
		q.current = nil
		return nil
	}
	head := q.queued[0]
	q.queued = q.queued[1:]
	q.current = &head
	clone := head
	return &clone
}

func followupLine(next *CandidateAction) string {
	if next == nil {
		return "All done! Let me know if you'd like to organize anything else."
	}
	return fmt.Sprintf("Would you like me to %s?", next.Prompt())
}

func collectionName(t ActionType) string {
	switch t {
	case ActionTask:
		return "tasks"
	case ActionCalendar:
		return "calendar"
	case ActionGoal:
		return "goals"
	case ActionMood:
		return "mood log"
	}
	return string(t)
}
