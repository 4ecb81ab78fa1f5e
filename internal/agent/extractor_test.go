package agent

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var extractNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestExtractActionsExam(t *testing.T) {
	actions := ExtractActions("I have an exam on Friday and need to study", extractNow)
	require.Len(t, actions, 2)

	task := actions[0]
	require.Equal(t, ActionTask, task.Type)
	require.Equal(t, OperationCreate, task.Operation)
	require.NotNil(t, task.Task)
	assert.Equal(t, "Study for exam on Friday", task.Task.Title)
	assert.Equal(t, "High", task.Task.Priority)
	assert.True(t, task.Task.AISuggested)

	event := actions[1]
	require.Equal(t, ActionCalendar, event.Type)
	require.NotNil(t, event.Event)
	assert.Equal(t, "exam on Friday", event.Event.Title)
	assert.Equal(t, "exam", event.Event.Type)
	assert.Equal(t, "2025-03-10", event.Event.Date)
	assert.Equal(t, "09:00", event.Event.StartTime)
	assert.Equal(t, "10:00", event.Event.EndTime)
}

func TestExtractActionsExamNeedsDayOrNumber(t *testing.T) {
	actions := ExtractActions("that exam was brutal", extractNow)
	assert.Empty(t, actions)
}

func TestExtractActionsChore(t *testing.T) {
	actions := ExtractActions("I should do the laundry tonight", extractNow)
	require.Len(t, actions, 1)
	require.NotNil(t, actions[0].Task)
	assert.Equal(t, "Do laundry", actions[0].Task.Title)
	assert.Equal(t, "Medium", actions[0].Task.Priority)
}

func TestExtractActionsBath(t *testing.T) {
	actions := ExtractActions("I really need a bath", extractNow)
	require.Len(t, actions, 1)
	require.NotNil(t, actions[0].Task)
	assert.Equal(t, "Take a Bath", actions[0].Task.Title)
	assert.Equal(t, "Low", actions[0].Task.Priority)
}

func TestExtractActionsMedicationWithTime(t *testing.T) {
	actions := ExtractActions("remind me to take my medicine at 8pm", extractNow)
	require.Len(t, actions, 2)

	task := actions[0]
	require.NotNil(t, task.Task)
	assert.Equal(t, "Take Sinus Medication", task.Task.Title)
	assert.Equal(t, "High", task.Task.Priority)
	assert.Equal(t, "8pm", task.Task.Time)

	event := actions[1]
	require.NotNil(t, event.Event)
	assert.Equal(t, "8pm", event.Event.StartTime)
	assert.Equal(t, "8pm", event.Event.EndTime)
	assert.Equal(t, "personal", event.Event.Type)
}

func TestExtractActionsMedicationDefaultTime(t *testing.T) {
	actions := ExtractActions("remind me about my medication", extractNow)
	require.Len(t, actions, 2)
	require.NotNil(t, actions[1].Event)
	assert.Equal(t, "19:00", actions[1].Event.StartTime)
	assert.Equal(t, "19:15", actions[1].Event.EndTime)
}

func TestExtractActionsMoodKeywordOrder(t *testing.T) {
	// "overwhelmed" maps onto Stressed; the first matching keyword wins.
	actions := ExtractActions("totally overwhelmed and tired", extractNow)
	require.Len(t, actions, 1)
	require.NotNil(t, actions[0].Mood)
	assert.Equal(t, "Stressed", actions[0].Mood.Mood)
	assert.Equal(t, 2, actions[0].Mood.Energy)

	// The note keeps the user's words verbatim.
	assert.Equal(t, "totally overwhelmed and tired", actions[0].Mood.Notes)
}

func TestExtractActionsMoodEnergyLevels(t *testing.T) {
	cases := map[string]struct {
		mood   string
		energy int
	}{
		"feeling really excited today": {"Excited", 5},
		"I'm happy with how this went": {"Happy", 4},
		"so tired after that shift":    {"Tired", 2},
		"a bit anxious about tomorrow": {"Anxious", 2},
		"just sad, honestly":           {"Sad", 1},
	}
	for input, want := range cases {
		actions := ExtractActions(input, extractNow)
		require.Len(t, actions, 1, "input %q", input)
		require.NotNil(t, actions[0].Mood, "input %q", input)
		assert.Equal(t, want.mood, actions[0].Mood.Mood, "input %q", input)
		assert.Equal(t, want.energy, actions[0].Mood.Energy, "input %q", input)
	}
}

func TestExtractActionsNoMatch(t *testing.T) {
	assert.Empty(t, ExtractActions("what's the weather like", extractNow))
}

func TestExtractActionsDeterministic(t *testing.T) {
	input := "quiz on monday, also need groceries and I'm tired"
	first := ExtractActions(input, extractNow)
	second := ExtractActions(input, extractNow)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("extraction not deterministic (-first +second):\n%s", diff)
	}
	require.Len(t, first, 4) // study task, exam event, chore task, mood entry
}
