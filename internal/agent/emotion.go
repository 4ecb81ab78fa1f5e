package agent

import "strings"

// distressMarkers are matched as substrings of the lowercased message.
// Any hit classifies the message as emotional, which suppresses action
// extraction for that turn.
var distressMarkers = []string{
	"depressed",
	"stressed",
	"hate my job",
	"feel like shit",
	"lonely",
	"overwhelmed",
	"no energy",
	"no motivation",
	"worthless",
	"hopeless",
	"miserable",
	"sad",
	"burnout",
}

// happinessMarkers flag a request for uplift inside an emotional turn.
var happinessMarkers = []string{
	"happy",
	"happiness",
	"feel better",
	"help",
}

// ClassifyAffect decides whether a message reads as emotional distress
// or as a neutral, task-oriented request.
func ClassifyAffect(message string) AffectState {
	lower := strings.ToLower(message)
	for _, marker := range distressMarkers {
		if strings.Contains(lower, marker) {
			return AffectEmotional
		}
	}
	return AffectNeutral
}

// wantsHappiness reports whether an emotional message asks for ways to
// feel better.
func wantsHappiness(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range happinessMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// gentleSuggestions are offered when an emotional message asks for
// uplift. They are deliberately small, low-effort activities.
var gentleSuggestions = []string{
	"Try a 5-minute art activity",
	"Listen to calming instrumental music",
	"Take 10 minutes outside, if possible",
	"Watch a short funny animal video",
	"List 3 things that made you smile this month",
}
