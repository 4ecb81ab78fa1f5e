package mood

import "time"

type Mood string

const (
	MoodExcited  Mood = "Excited"
	MoodHappy    Mood = "Happy"
	MoodNeutral  Mood = "Neutral"
	MoodTired    Mood = "Tired"
	MoodStressed Mood = "Stressed"
	MoodAnxious  Mood = "Anxious"
	MoodSad      Mood = "Sad"
)

// Entry is one logged mood observation. Energy is a 1-5 scale.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      time.Time `json:"date"`
	Mood      Mood      `json:"mood"`
	Energy    int       `json:"energy"`
	Notes     string    `json:"notes,omitempty"`
	AIContext string    `json:"aiContext,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Mood  Mood
	Since time.Time
	Until time.Time
}
