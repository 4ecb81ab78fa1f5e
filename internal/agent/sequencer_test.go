package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/tasks"
)

type sequencerFixture struct {
	sequencer *Sequencer
	tasks     *tasks.InMemoryStore
	events    *calendar.InMemoryStore
}

func newSequencerFixture() *sequencerFixture {
	taskStore := tasks.NewInMemoryStore()
	eventStore := calendar.NewInMemoryStore()
	executor := NewExecutor(taskStore, eventStore, goals.NewInMemoryStore(), mood.NewInMemoryStore())
	return &sequencerFixture{
		sequencer: NewSequencer(executor),
		tasks:     taskStore,
		events:    eventStore,
	}
}

func taskAction(title string) CandidateAction {
	return CandidateAction{
		Type:      ActionTask,
		Operation: OperationCreate,
		Task:      &TaskDraft{Title: title, Priority: "Medium", AISuggested: true},
	}
}

func eventAction(title string) CandidateAction {
	return CandidateAction{
		Type:      ActionCalendar,
		Operation: OperationCreate,
		Event:     &EventDraft{Title: title, Type: "personal", Date: "2025-03-10", StartTime: "09:00", EndTime: "10:00", AISuggested: true},
	}
}

func TestSequencerSurfacesOneActionAtATime(t *testing.T) {
	f := newSequencerFixture()
	head := f.sequencer.Begin("u1", []CandidateAction{taskAction("one"), taskAction("two"), taskAction("three")})
	require.NotNil(t, head)
	assert.Equal(t, "one", head.Task.Title)

	// Only the head is visible; the tail stays server-side.
	current := f.sequencer.Current("u1")
	require.NotNil(t, current)
	assert.Equal(t, "one", current.Task.Title)
}

func TestSequencerConfirmExecutesAndAdvances(t *testing.T) {
	ctx := context.Background()
	f := newSequencerFixture()
	f.sequencer.Begin("u1", []CandidateAction{taskAction("Do laundry"), eventAction("exam on Friday")})

	res := f.sequencer.Resolve(ctx, "u1", "yes")
	require.Equal(t, ResolutionConfirmed, res.Kind)
	assert.Contains(t, res.Message, `Done! I added "Do laundry" to your tasks.`)
	assert.Contains(t, res.Message, "Would you like me to")
	require.NotNil(t, res.Next)
	assert.Equal(t, "exam on Friday", res.Next.Event.Title)

	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Do laundry", stored[0].Title)
	assert.True(t, stored[0].AISuggested)
}

func TestSequencerRejectSkipsWithoutExecuting(t *testing.T) {
	ctx := context.Background()
	f := newSequencerFixture()
	f.sequencer.Begin("u1", []CandidateAction{taskAction("Do laundry")})

	res := f.sequencer.Resolve(ctx, "u1", "no")
	require.Equal(t, ResolutionRejected, res.Kind)
	assert.Equal(t, "No problem! I won't take any action.", res.Message)
	assert.Nil(t, res.Next)

	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSequencerConfirmWords(t *testing.T) {
	ctx := context.Background()
	for _, word := range []string{"yes", "Yep", " sure ", "OK", "okay"} {
		f := newSequencerFixture()
		f.sequencer.Begin("u1", []CandidateAction{taskAction("t")})
		res := f.sequencer.Resolve(ctx, "u1", word)
		assert.Equal(t, ResolutionConfirmed, res.Kind, "word %q", word)
	}
	for _, word := range []string{"no", "nope", "not now", "skip"} {
		f := newSequencerFixture()
		f.sequencer.Begin("u1", []CandidateAction{taskAction("t")})
		res := f.sequencer.Resolve(ctx, "u1", word)
		assert.Equal(t, ResolutionRejected, res.Kind, "word %q", word)
	}
}

func TestSequencerPassthrough(t *testing.T) {
	ctx := context.Background()
	f := newSequencerFixture()

	// No pending action at all.
	res := f.sequencer.Resolve(ctx, "u1", "yes")
	assert.Equal(t, ResolutionPassthrough, res.Kind)

	// Pending action but an unrelated reply.
	f.sequencer.Begin("u1", []CandidateAction{taskAction("t")})
	res = f.sequencer.Resolve(ctx, "u1", "tell me about my week")
	assert.Equal(t, ResolutionPassthrough, res.Kind)

	// The queue is untouched by a passthrough.
	require.NotNil(t, f.sequencer.Current("u1"))
}

func TestSequencerDrainsQueue(t *testing.T) {
	ctx := context.Background()
	f := newSequencerFixture()
	f.sequencer.Begin("u1", []CandidateAction{taskAction("a"), taskAction("b")})

	res := f.sequencer.Resolve(ctx, "u1", "yes")
	require.NotNil(t, res.Next)

	res = f.sequencer.Resolve(ctx, "u1", "yes")
	require.Equal(t, ResolutionConfirmed, res.Kind)
	assert.Nil(t, res.Next)
	assert.Contains(t, res.Message, "All done!")
	assert.Nil(t, f.sequencer.Current("u1"))

	stored, err := f.tasks.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSequencerIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	f := newSequencerFixture()
	f.sequencer.Begin("u1", []CandidateAction{taskAction("for-u1")})

	res := f.sequencer.Resolve(ctx, "u2", "yes")
	assert.Equal(t, ResolutionPassthrough, res.Kind)
	require.NotNil(t, f.sequencer.Current("u1"))
}

func TestSequencerBeginReplacesQueue(t *testing.T) {
	f := newSequencerFixture()
	f.sequencer.Begin("u1", []CandidateAction{taskAction("old")})
	head := f.sequencer.Begin("u1", []CandidateAction{taskAction("new")})
	require.NotNil(t, head)
	assert.Equal(t, "new", head.Task.Title)
}
