package agent

import "strings"

// SuggestFollowups returns short contextual tips for a neutral message.
// Suggestions are advisory text only and never become actions.
func SuggestFollowups(message string) []string {
	lower := strings.ToLower(message)
	var suggestions []string

	if strings.Contains(lower, "exam") || strings.Contains(lower, "study") {
		suggestions = append(suggestions,
			"Block out focused study time in your calendar",
			"Break the material into smaller review sessions",
			"Schedule a practice test a few days before",
		)
	}
	if strings.Contains(lower, "stressed") || strings.Contains(lower, "overwhelmed") {
		suggestions = append(suggestions,
			"Try a short breathing exercise",
			"Step away from the screen for ten minutes",
			"Write down the one thing that matters most today",
		)
	}
	return suggestions
}
