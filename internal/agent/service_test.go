package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/conversation"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/llm"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/tasks"
)

type serviceFixture struct {
	service *Service
	model   *llm.MockClient
	tasks   *tasks.InMemoryStore
	events  *calendar.InMemoryStore
	turns   *conversation.InMemoryStore
}

func newServiceFixture(model *llm.MockClient) *serviceFixture {
	taskStore := tasks.NewInMemoryStore()
	eventStore := calendar.NewInMemoryStore()
	turnStore := conversation.NewInMemoryStore()
	executor := NewExecutor(taskStore, eventStore, goals.NewInMemoryStore(), mood.NewInMemoryStore())
	memory := NewMemory(turnStore)
	service := NewService(model, memory, NewSequencer(executor), executor, 50)
	return &serviceFixture{
		service: service,
		model:   model,
		tasks:   taskStore,
		events:  eventStore,
		turns:   turnStore,
	}
}

func TestRespondRejectsEmptyMessage(t *testing.T) {
	f := newServiceFixture(&llm.MockClient{Responses: []string{"hi"}})
	_, err := f.service.Respond(context.Background(), "u1", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, f.model.Calls)
}

func TestRespondEmotionalSuppressesActions(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"That sounds really hard."}})

	resp, err := f.service.Respond(ctx, "u1", "I'm so stressed and overwhelmed, help me feel better")
	require.NoError(t, err)

	assert.Equal(t, "That sounds really hard.", resp.Message)
	assert.Empty(t, resp.Actions)
	assert.Empty(t, resp.PendingConfirmations)
	assert.Equal(t, gentleSuggestions, resp.Suggestions)
	assert.InDelta(t, 0.85, resp.Confidence, 0.001)
	assert.Equal(t, AffectEmotional, f.service.Memory().Mode("u1"))
}

func TestRespondEmotionalWithoutUpliftRequest(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"I'm here for you."}})

	resp, err := f.service.Respond(ctx, "u1", "feeling pretty hopeless today")
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
	assert.Empty(t, resp.PendingConfirmations)
}

func TestRespondNeutralProposesActionsOneAtATime(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"Good luck with the exam!"}})

	resp, err := f.service.Respond(ctx, "u1", "I have an exam on Friday and need to study")
	require.NoError(t, err)

	// The reply carries the model text plus the confirmation question
	// for the queue head only.
	assert.Contains(t, resp.Message, "Good luck with the exam!")
	assert.Contains(t, resp.Message, `add "Study for exam on Friday" to your tasks`)
	assert.NotContains(t, resp.Message, "calendar")
	assert.Empty(t, resp.Actions)
	require.Len(t, resp.PendingConfirmations, 2)
	assert.Equal(t, ActionTask, resp.PendingConfirmations[0].Type)
	assert.Equal(t, ActionCalendar, resp.PendingConfirmations[1].Type)
	assert.NotEmpty(t, resp.Suggestions)
	assert.InDelta(t, 0.85, resp.Confidence, 0.001)

	// Nothing was executed yet.
	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRespondConfirmationFlow(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"On it."}})

	_, err := f.service.Respond(ctx, "u1", "I have an exam on Friday")
	require.NoError(t, err)

	// Confirm the study task; the exam event becomes the new head.
	resp, err := f.service.Respond(ctx, "u1", "yes")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Done! I added")
	require.Len(t, resp.PendingConfirmations, 1)
	assert.Equal(t, ActionCalendar, resp.PendingConfirmations[0].Type)
	assert.InDelta(t, 1.0, resp.Confidence, 0.001)

	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Study for exam on Friday", stored[0].Title)

	// Reject the event; the queue drains and nothing else is created.
	resp, err = f.service.Respond(ctx, "u1", "no")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "No problem")
	assert.Empty(t, resp.PendingConfirmations)

	events, err := f.events.List(ctx, "u1", calendar.Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)

	// A confirmation word is only a model call when nothing is pending.
	assert.Len(t, f.model.Calls, 1)
}

func TestRespondUnrelatedReplyReplacesQueue(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"Sure."}})

	_, err := f.service.Respond(ctx, "u1", "I have an exam on Friday")
	require.NoError(t, err)

	// An unrelated neutral message passes through to a full turn and
	// starts a fresh queue.
	resp, err := f.service.Respond(ctx, "u1", "actually I need to do the laundry")
	require.NoError(t, err)
	require.Len(t, resp.PendingConfirmations, 1)
	assert.Equal(t, "Do laundry", resp.PendingConfirmations[0].Task.Title)
}

func TestRespondActionlessTurnKeepsQueue(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"On it.", "Sunny, I hope.", "Done."}})

	_, err := f.service.Respond(ctx, "u1", "I have an exam on Friday")
	require.NoError(t, err)

	// An unrelated question with nothing to extract leaves the pending
	// confirmation in place.
	resp, err := f.service.Respond(ctx, "u1", "what is the weather like")
	require.NoError(t, err)
	assert.Empty(t, resp.PendingConfirmations)

	// A confirmation word afterwards still resolves the original action.
	resp, err = f.service.Respond(ctx, "u1", "yes")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Done! I added")

	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Study for exam on Friday", stored[0].Title)
}

func TestRespondFailsOnModelError(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Err: errors.New("provider unavailable")})

	resp, err := f.service.Respond(ctx, "u1", "plan my week")
	require.Error(t, err)
	assert.ErrorContains(t, err, "provider unavailable")
	assert.Nil(t, resp)
}

func TestRespondDegradedOnEmptyCompletion(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"   "}})

	resp, err := f.service.Respond(ctx, "u1", "plan my week")
	require.NoError(t, err)
	assert.Equal(t, degradedMessage, resp.Message)
	assert.Zero(t, resp.Confidence)
}

func TestRespondRecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"Hello!", "Again!"}})

	_, err := f.service.Respond(ctx, "u1", "hi there")
	require.NoError(t, err)

	turns, err := f.service.Memory().History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, conversation.ActorHuman, turns[0].Actor)
	assert.Equal(t, "hi there", turns[0].Content)
	assert.Equal(t, conversation.ActorAI, turns[1].Actor)
	assert.Equal(t, "Hello!", turns[1].Content)

	// The second turn sees the prior exchange as model history.
	_, err = f.service.Respond(ctx, "u1", "how are you")
	require.NoError(t, err)
	require.Len(t, f.model.Calls, 2)
	assert.Equal(t, 0, f.model.Calls[0].HistoryLen)
	assert.Equal(t, 2, f.model.Calls[1].HistoryLen)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(&llm.MockClient{Responses: []string{"ok"}})

	_, err := f.service.Respond(ctx, "u1", "I'm stressed")
	require.NoError(t, err)
	require.Equal(t, AffectEmotional, f.service.Memory().Mode("u1"))

	require.NoError(t, f.service.Memory().Clear(ctx, "u1"))
	assert.Equal(t, AffectNeutral, f.service.Memory().Mode("u1"))

	turns, err := f.service.Memory().History(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
