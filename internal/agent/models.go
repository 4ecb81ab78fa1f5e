package agent

import (
	"fmt"
	"time"
)

// AffectState classifies the emotional register of a user message.
type AffectState string

const (
	AffectEmotional AffectState = "emotional"
	AffectNeutral   AffectState = "neutral"
)

// ActionType identifies which collaborator a candidate action targets.
type ActionType string

const (
	ActionTask     ActionType = "task"
	ActionCalendar ActionType = "calendar"
	ActionGoal     ActionType = "goal"
	ActionMood     ActionType = "mood"
)

// ActionOperation is the mutation an action requests. Only creation is
// executed today; updates and deletes are rejected at execution time.
type ActionOperation string

const (
	OperationCreate ActionOperation = "create"
	OperationUpdate ActionOperation = "update"
	OperationDelete ActionOperation = "delete"
)

// TaskDraft is the payload of a task candidate action.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Time        string `json:"time,omitempty"`
	AISuggested bool   `json:"aiSuggested"`
	AIContext   string `json:"aiContext,omitempty"`
}

// EventDraft is the payload of a calendar candidate action. Date is a
// YYYY-MM-DD string and StartTime/EndTime are HH:MM clock strings.
type EventDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsAllDay    bool   `json:"isAllDay"`
	AISuggested bool   `json:"aiSuggested"`
	AIContext   string `json:"aiContext,omitempty"`
}

// GoalDraft is the payload of a goal candidate action.
type GoalDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AISuggested bool   `json:"aiSuggested"`
	AIContext   string `json:"aiContext,omitempty"`
}

// MoodDraft is the payload of a mood candidate action.
type MoodDraft struct {
	Mood        string `json:"mood"`
	Energy      int    `json:"energy"`
	Notes       string `json:"notes,omitempty"`
	AISuggested bool   `json:"aiSuggested"`
	AIContext   string `json:"aiContext,omitempty"`
}

// CandidateAction is a structured side effect proposed by the extractor.
// Exactly one payload field matching Type is set. Actions are never
// executed until the user explicitly confirms them.
type CandidateAction struct {
	Type      ActionType      `json:"type"`
	Operation ActionOperation `json:"action"`

	Task  *TaskDraft  `json:"task,omitempty"`
	Event *EventDraft `json:"event,omitempty"`
	Goal  *GoalDraft  `json:"goal,omitempty"`
	Mood  *MoodDraft  `json:"mood,omitempty"`

	// OriginatingText is the user message fragment that produced the
	// action, kept for audit and prompts.
	OriginatingText string `json:"originatingText,omitempty"`
}

// Prompt renders the action as a short confirmation question fragment,
// e.g. `add "Do laundry" to your tasks`.
func (a CandidateAction) Prompt() string {
	switch a.Type {
	case ActionTask:
		if a.Task != nil {
			return fmt.Sprintf("add %q to your tasks", a.Task.Title)
		}
	case ActionCalendar:
		if a.Event != nil {
			return fmt.Sprintf("add %q to your calendar", a.Event.Title)
		}
	case ActionGoal:
		if a.Goal != nil {
			return fmt.Sprintf("add %q to your goals", a.Goal.Title)
		}
	case ActionMood:
		if a.Mood != nil {
			return fmt.Sprintf("log your mood as %q", a.Mood.Mood)
		}
	}
	return fmt.Sprintf("perform a %s action", a.Type)
}

// Title returns the human-facing name of the action's payload.
func (a CandidateAction) Title() string {
	switch {
	case a.Task != nil:
		return a.Task.Title
	case a.Event != nil:
		return a.Event.Title
	case a.Goal != nil:
		return a.Goal.Title
	case a.Mood != nil:
		return a.Mood.Mood
	}
	return string(a.Type)
}

// Response is the envelope returned for every processed user message.
// Actions is always empty: proposed side effects travel exclusively in
// PendingConfirmations until the user approves them one at a time.
type Response struct {
	Message              string            `json:"message"`
	Actions              []CandidateAction `json:"actions"`
	Suggestions          []string          `json:"suggestions"`
	Confidence           float64           `json:"confidence"`
	PendingConfirmations []CandidateAction `json:"pendingConfirmations,omitempty"`
	Timestamp            time.Time         `json:"timestamp"`
}
