// Package insights summarizes a user's recent mood history with help
// from the language model. The model returns a JSON payload which is
// repaired and decoded before use; numeric trends come straight from
// the stored entries so they stay accurate even if the model drifts.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifesync/internal/llm"
	"github.com/lifesync/internal/mood"
)

// MoodInsights is the analysis returned for a user's recent entries.
type MoodInsights struct {
	Summary         string   `json:"summary"`
	DominantMood    string   `json:"dominantMood"`
	AverageEnergy   float64  `json:"averageEnergy"`
	EntryCount      int      `json:"entryCount"`
	Recommendations []string `json:"recommendations"`
}

// modelAnalysis is the shape requested from the model.
type modelAnalysis struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// ErrNoEntries is returned when the window contains no mood entries.
var ErrNoEntries = fmt.Errorf("no mood entries in the requested window")

type Service struct {
	model llm.Client
	moods mood.Store
	now   func() time.Time
}

func NewService(model llm.Client, moods mood.Store) *Service {
	return &Service{model: model, moods: moods, now: time.Now}
}

// AnalyzeMood summarizes the user's mood entries from the past days.
func (s *Service) AnalyzeMood(ctx context.Context, userID string, days int) (*MoodInsights, error) {
	if days <= 0 {
		days = 7
	}
	since := s.now().AddDate(0, 0, -days)

	entries, err := s.moods.List(ctx, userID, mood.Filter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	result := &MoodInsights{EntryCount: len(entries)}
	result.DominantMood, result.AverageEnergy = summarizeEntries(entries)

	raw, err := s.model.Generate(ctx, nil, analysisPrompt(entries, days))
	if err != nil {
		return nil, fmt.Errorf("failed to generate mood analysis: %w", err)
	}

	var analysis modelAnalysis
	stats, err := llm.DecodeStructuredResponse(raw, &analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mood analysis: %w", err)
	}
	if stats.WasRepaired {
		log.Debug().
			Int("original_bytes", stats.OriginalBytes).
			Int("repaired_bytes", stats.RepairedBytes).
			Msg("repaired mood analysis JSON")
	}

	result.Summary = analysis.Summary
	result.Recommendations = analysis.Recommendations
	return result, nil
}

// summarizeEntries computes the most frequent mood and mean energy.
func summarizeEntries(entries []*mood.Entry) (string, float64) {
	counts := make(map[mood.Mood]int)
	total := 0
	for _, e := range entries {
		counts[e.Mood]++
		total += e.Energy
	}

	var dominant mood.Mood
	best := -1
	for m, n := range counts {
		if n > best || (n == best && m < dominant) {
			dominant = m
			best = n
		}
	}
	avg := float64(total) / float64(len(entries))
	return string(dominant), avg
}

func analysisPrompt(entries []*mood.Entry, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this mood log from the past %d days and respond with JSON only, ", days)
	b.WriteString(`shaped as {"summary": string, "recommendations": [string]}. `)
	b.WriteString("Keep the summary to two sentences and suggest at most three small, concrete recommendations.\n\nEntries:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %s (energy %d/5)", e.Date.Format("2006-01-02"), e.Mood, e.Energy)
		if e.Notes != "" {
			fmt.Fprintf(&b, ", notes: %s", e.Notes)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
