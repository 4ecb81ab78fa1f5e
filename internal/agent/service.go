package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifesync/internal/conversation"
	"github.com/lifesync/internal/llm"
)

const degradedMessage = "Sorry, I couldn't generate a response. Please try again."

// Service orchestrates a user turn: it resolves pending confirmations,
// classifies affect, generates the conversational reply, and proposes
// candidate actions for neutral messages. It never executes an action
// the user has not confirmed.
type Service struct {
	model     llm.Client
	memory    *Memory
	sequencer *Sequencer
	executor  *Executor

	historyLimit int
	now          func() time.Time
}

func NewService(model llm.Client, memory *Memory, sequencer *Sequencer, executor *Executor, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Service{
		model:        model,
		memory:       memory,
		sequencer:    sequencer,
		executor:     executor,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Executor exposes the executor for direct execution endpoints.
func (s *Service) Executor() *Executor { return s.executor }

// Memory exposes conversational state for history endpoints.
func (s *Service) Memory() *Memory { return s.memory }

// Respond processes one user message and returns the reply envelope.
func (s *Service) Respond(ctx context.Context, userID, message string) (*Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if err := s.memory.RecordTurn(ctx, userID, conversation.ActorHuman, message); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist user turn")
	}

	// A pending confirmation intercepts confirm/reject replies before
	// any model call; other replies fall through to a full turn.
	if res := s.sequencer.Resolve(ctx, userID, message); res.Kind != ResolutionPassthrough {
		return s.confirmationResponse(ctx, userID, res), nil
	}

	mode := ClassifyAffect(message)
	s.memory.SetMode(userID, mode)

	reply, err := s.generate(ctx, userID, message)
	if err != nil {
		return nil, err
	}
	if reply == "" {
		return &Response{
			Message:     degradedMessage,
			Actions:     []CandidateAction{},
			Suggestions: []string{},
			Confidence:  0,
			Timestamp:   s.now(),
		}, nil
	}

	if err := s.memory.RecordTurn(ctx, userID, conversation.ActorAI, reply); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist assistant turn")
	}

	if mode == AffectEmotional {
		return s.emotionalResponse(message, reply), nil
	}
	return s.neutralResponse(userID, message, reply), nil
}

// generate calls the model with recent history. A model error fails the
// turn; an empty completion returns "" so the caller can degrade it.
func (s *Service) generate(ctx context.Context, userID, message string) (string, error) {
	turns, err := s.memory.History(ctx, userID, s.historyLimit)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("proceeding without conversation history")
		turns = nil
	}

	// The current message was already recorded; keep it out of the
	// history so the model sees it once, as the live input.
	if n := len(turns); n > 0 && turns[n-1].Actor == conversation.ActorHuman && turns[n-1].Content == message {
		turns = turns[:n-1]
	}

	reply, err := s.model.Generate(ctx, promptHistory(turns), message)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("model generation failed")
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		log.Warn().Str("user_id", userID).Msg("model returned an empty completion")
		return "", nil
	}
	return reply, nil
}

// emotionalResponse suppresses all action extraction and, when the user
// asks for uplift, offers gentle activity suggestions.
func (s *Service) emotionalResponse(message, reply string) *Response {
	suggestions := []string{}
	if wantsHappiness(message) {
		suggestions = append(suggestions, gentleSuggestions...)
	}
	return &Response{
		Message:     reply,
		Actions:     []CandidateAction{},
		Suggestions: suggestions,
		Confidence:  0.85,
		Timestamp:   s.now(),
	}
}

// neutralResponse extracts candidate actions and contextual suggestions
// concurrently and queues the actions for confirmation. The reply prompts
// for the queue head; later actions surface as earlier ones resolve.
func (s *Service) neutralResponse(userID, message, reply string) *Response {
	var (
		wg          sync.WaitGroup
		actions     []CandidateAction
		suggestions []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		actions = ExtractActions(message, s.now())
	}()
	go func() {
		defer wg.Done()
		suggestions = SuggestFollowups(message)
	}()
	wg.Wait()

	// An actionless turn leaves any pending confirmation in place; the
	// user can still answer it on a later turn.
	var head *CandidateAction
	if len(actions) > 0 {
		head = s.sequencer.Begin(userID, actions)
	}

	resp := &Response{
		Message:     reply,
		Actions:     []CandidateAction{},
		Suggestions: suggestions,
		Confidence:  0.85,
		Timestamp:   s.now(),
	}
	if suggestions == nil {
		resp.Suggestions = []string{}
	}
	if head != nil {
		resp.Message = reply + " " + followupLine(head)
		resp.PendingConfirmations = actions
	}
	return resp
}

// confirmationResponse wraps a sequencer resolution in the standard
// envelope and records it as an assistant turn.
func (s *Service) confirmationResponse(ctx context.Context, userID string, res Resolution) *Response {
	if err := s.memory.RecordTurn(ctx, userID, conversation.ActorAI, res.Message); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist assistant turn")
	}
	resp := &Response{
		Message:     res.Message,
		Actions:     []CandidateAction{},
		Suggestions: []string{},
		Confidence:  1,
		Timestamp:   s.now(),
	}
	if res.Next != nil {
		resp.PendingConfirmations = []CandidateAction{*res.Next}
	}
	return resp
}
