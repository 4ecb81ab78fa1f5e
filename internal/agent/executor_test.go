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

func newTestExecutor() (*Executor, *tasks.InMemoryStore, *mood.InMemoryStore) {
	taskStore := tasks.NewInMemoryStore()
	moodStore := mood.NewInMemoryStore()
	executor := NewExecutor(taskStore, calendar.NewInMemoryStore(), goals.NewInMemoryStore(), moodStore)
	return executor, taskStore, moodStore
}

func TestExecutorRejectsNonCreateOperations(t *testing.T) {
	executor, _, _ := newTestExecutor()
	for _, op := range []ActionOperation{OperationUpdate, OperationDelete} {
		err := executor.Execute(context.Background(), "u1", CandidateAction{
			Type:      ActionTask,
			Operation: op,
			Task:      &TaskDraft{Title: "t"},
		})
		var unsupported *UnsupportedOperationError
		require.ErrorAs(t, err, &unsupported, "operation %q", op)
		assert.Equal(t, op, unsupported.Operation)
	}
}

func TestExecutorRejectsUnknownType(t *testing.T) {
	executor, _, _ := newTestExecutor()
	err := executor.Execute(context.Background(), "u1", CandidateAction{
		Type:      ActionType("journal"),
		Operation: OperationCreate,
	})
	var unknown *UnknownActionTypeError
	require.ErrorAs(t, err, &unknown)
}

func TestExecutorCreatesMoodEntry(t *testing.T) {
	ctx := context.Background()
	executor, _, moodStore := newTestExecutor()

	err := executor.Execute(ctx, "u1", CandidateAction{
		Type:      ActionMood,
		Operation: OperationCreate,
		Mood:      &MoodDraft{Mood: "Tired", Energy: 2, Notes: "long day"},
	})
	require.NoError(t, err)

	entries, err := moodStore.List(ctx, "u1", mood.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mood.MoodTired, entries[0].Mood)
	assert.Equal(t, 2, entries[0].Energy)
}

func TestExecuteBatchContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	executor, taskStore, _ := newTestExecutor()

	results := executor.ExecuteBatch(ctx, "u1", []CandidateAction{
		taskAction("first"),
		{Type: ActionTask, Operation: OperationUpdate, Task: &TaskDraft{Title: "broken"}},
		taskAction("second"),
	})
	require.Len(t, results, 3)
	assert.Empty(t, results[0].Err)
	assert.NotEmpty(t, results[1].Err)
	assert.Empty(t, results[2].Err)

	stored, err := taskStore.List(ctx, "u1", tasks.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
