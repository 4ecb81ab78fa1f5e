package agent

import (
	"regexp"
	"strings"
	"time"
)

// The extractor turns free-form text into candidate actions using an
// ordered rule table. Rules are independent: each inspects the message
// and appends zero or more actions, so one message can yield several
// proposals (a study task plus an exam event, say). Extraction is a
// pure function of the message and the reference time.

var (
	examPattern       = regexp.MustCompile(`(?i)(exam|test|quiz)\b.*?\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{1,2})\b`)
	chorePattern      = regexp.MustCompile(`(?i)(laundry|cleaning|groceries|shopping)`)
	reminderTime      = regexp.MustCompile(`(?i)\d{1,2}\s*(am|pm)`)
	medicationMarkers = []string{"medica", "medicine", "remind"}
)

// moodKeywords are checked in order; the first match wins.
var moodKeywords = []struct {
	keyword string
	mood    string
	energy  int
}{
	{"stressed", "Stressed", 2},
	{"overwhelmed", "Stressed", 2},
	{"anxious", "Anxious", 2},
	{"happy", "Happy", 4},
	{"excited", "Excited", 5},
	{"tired", "Tired", 2},
	{"sad", "Sad", 1},
}

type extractRule func(message, lower string, now time.Time) []CandidateAction

var extractRules = []extractRule{
	extractExam,
	extractChore,
	extractBath,
	extractMedication,
	extractMood,
}

// ExtractActions scans a message for actionable intents and returns the
// candidate actions they imply, in rule order. It never executes
// anything and returns nil when nothing matches.
func ExtractActions(message string, now time.Time) []CandidateAction {
	lower := strings.ToLower(message)
	var actions []CandidateAction
	for _, rule := range extractRules {
		actions = append(actions, rule(message, lower, now)...)
	}
	return actions
}

func extractExam(message, lower string, now time.Time) []CandidateAction {
	match := examPattern.FindString(message)
	if match == "" {
		return nil
	}
	return []CandidateAction{
		{
			Type:      ActionTask,
			Operation: OperationCreate,
			Task: &TaskDraft{
				Title:       "Study for " + match,
				Priority:    "High",
				AISuggested: true,
				AIContext:   message,
			},
			OriginatingText: match,
		},
		{
			Type:      ActionCalendar,
			Operation: OperationCreate,
			Event: &EventDraft{
				Title:       match,
				Type:        "exam",
				Date:        now.Format("2006-01-02"),
				StartTime:   "09:00",
				EndTime:     "10:00",
				AISuggested: true,
				AIContext:   message,
			},
			OriginatingText: match,
		},
	}
}

func extractChore(message, lower string, now time.Time) []CandidateAction {
	match := chorePattern.FindString(message)
	if match == "" {
		return nil
	}
	return []CandidateAction{{
		Type:      ActionTask,
		Operation: OperationCreate,
		Task: &TaskDraft{
			Title:       "Do " + match,
			Priority:    "Medium",
			AISuggested: true,
			AIContext:   message,
		},
		OriginatingText: match,
	}}
}

func extractBath(message, lower string, now time.Time) []CandidateAction {
	if !strings.Contains(lower, "bath") {
		return nil
	}
	return []CandidateAction{{
		Type:      ActionTask,
		Operation: OperationCreate,
		Task: &TaskDraft{
			Title:       "Take a Bath",
			Priority:    "Low",
			AISuggested: true,
			AIContext:   message,
		},
		OriginatingText: "bath",
	}}
}

func extractMedication(message, lower string, now time.Time) []CandidateAction {
	matched := false
	for _, marker := range medicationMarkers {
		if strings.Contains(lower, marker) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	at := reminderTime.FindString(message)
	start, end := "19:00", "19:15"
	if at != "" {
		start, end = at, at
	}
	title := "Take Sinus Medication"
	return []CandidateAction{
		{
			Type:      ActionTask,
			Operation: OperationCreate,
			Task: &TaskDraft{
				Title:       title,
				Priority:    "High",
				Time:        at,
				AISuggested: true,
				AIContext:   message,
			},
			OriginatingText: title,
		},
		{
			Type:      ActionCalendar,
			Operation: OperationCreate,
			Event: &EventDraft{
				Title:       title,
				Type:        "personal",
				Date:        now.Format("2006-01-02"),
				StartTime:   start,
				EndTime:     end,
				AISuggested: true,
				AIContext:   message,
			},
			OriginatingText: title,
		},
	}
}

func extractMood(message, lower string, now time.Time) []CandidateAction {
	for _, entry := range moodKeywords {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		return []CandidateAction{{
			Type:      ActionMood,
			Operation: OperationCreate,
			Mood: &MoodDraft{
				Mood:        entry.mood,
				Energy:      entry.energy,
				Notes:       message,
				AISuggested: true,
				AIContext:   message,
			},
			OriginatingText: entry.keyword,
		}}
	}
	return nil
}
