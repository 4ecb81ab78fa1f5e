package goals

import "time"

type Category string

const (
	CategoryCareer    Category = "Career"
	CategoryHealth    Category = "Health"
	CategoryWellness  Category = "Wellness"
	CategoryEducation Category = "Education"
	CategoryPersonal  Category = "Personal"
	CategoryFinance   Category = "Finance"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusCancelled  Status = "cancelled"
)

type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Priority    string     `json:"priority"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	AISuggested bool       `json:"aiSuggested"`
	AIContext   string     `json:"aiContext,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status   Status
	Category Category
}

// ClampProgress keeps progress in [0,100] and completes the goal when it
// reaches 100.
func (g *Goal) ClampProgress(now time.Time) {
	if g.Progress < 0 {
		g.Progress = 0
	}
	if g.Progress > 100 {
		g.Progress = 100
	}
	if g.Progress == 100 && g.Status != StatusCompleted {
		g.Status = StatusCompleted
		t := now
		g.CompletedAt = &t
	}
}
