package reminders

import "time"

// SourceType says which domain record a reminder points back to.
type SourceType string

const (
	SourceTask  SourceType = "task"
	SourceEvent SourceType = "event"
	SourceGoal  SourceType = "goal"
)

// Reminder is a scheduled nudge tied to a task, event, or goal.
type Reminder struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	SourceType   SourceType `json:"sourceType"`
	SourceID     string     `json:"sourceId"`
	Title        string     `json:"title"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Sent         bool       `json:"sent"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
