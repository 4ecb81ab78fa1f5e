package calendar

import "time"

type EventType string

const (
	TypeClass       EventType = "class"
	TypeExam        EventType = "exam"
	TypePersonal    EventType = "personal"
	TypeAIScheduled EventType = "ai-scheduled"
	TypeMeeting     EventType = "meeting"
	TypeBreak       EventType = "break"
)

// Event is a calendar entry. Date is a YYYY-MM-DD string and the time
// fields are clock strings like "09:00"; the agent's extractor produces
// them in that shape and the client consumes them verbatim.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        EventType `json:"type"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	IsAllDay    bool      `json:"isAllDay"`
	Location    string    `json:"location,omitempty"`
	AISuggested bool      `json:"aiSuggested"`
	AIContext   string    `json:"aiContext,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Type EventType
	Date string
}
