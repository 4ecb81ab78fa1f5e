package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesync/internal/llm"
	"github.com/lifesync/internal/mood"
)

func seedEntries(t *testing.T, store *mood.InMemoryStore, userID string) {
	t.Helper()
	now := time.Now()
	entries := []*mood.Entry{
		{UserID: userID, Date: now.AddDate(0, 0, -1), Mood: mood.MoodStressed, Energy: 2},
		{UserID: userID, Date: now.AddDate(0, 0, -2), Mood: mood.MoodStressed, Energy: 2, Notes: "deadline week"},
		{UserID: userID, Date: now.AddDate(0, 0, -3), Mood: mood.MoodHappy, Energy: 4},
	}
	for _, e := range entries {
		require.NoError(t, store.Create(context.Background(), e))
	}
}

func TestAnalyzeMood(t *testing.T) {
	store := mood.NewInMemoryStore()
	seedEntries(t, store, "u1")

	model := &llm.MockClient{Responses: []string{
		"```json\n{\"summary\": \"A stressful week overall.\", \"recommendations\": [\"Take short breaks\"]}\n```",
	}}
	service := NewService(model, store)

	result, err := service.AnalyzeMood(context.Background(), "u1", 7)
	require.NoError(t, err)

	assert.Equal(t, "A stressful week overall.", result.Summary)
	assert.Equal(t, []string{"Take short breaks"}, result.Recommendations)
	assert.Equal(t, "Stressed", result.DominantMood)
	assert.InDelta(t, 8.0/3.0, result.AverageEnergy, 0.001)
	assert.Equal(t, 3, result.EntryCount)
}

func TestAnalyzeMoodRepairsMalformedJSON(t *testing.T) {
	store := mood.NewInMemoryStore()
	seedEntries(t, store, "u1")

	// Trailing comma and unquoted key need the repair pass.
	model := &llm.MockClient{Responses: []string{
		`Here you go: {summary: "Mixed week", "recommendations": ["Sleep earlier",],}`,
	}}
	service := NewService(model, store)

	result, err := service.AnalyzeMood(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.Equal(t, "Mixed week", result.Summary)
	assert.Equal(t, []string{"Sleep earlier"}, result.Recommendations)
}

func TestAnalyzeMoodNoEntries(t *testing.T) {
	service := NewService(&llm.MockClient{}, mood.NewInMemoryStore())
	_, err := service.AnalyzeMood(context.Background(), "nobody", 7)
	require.ErrorIs(t, err, ErrNoEntries)
}
