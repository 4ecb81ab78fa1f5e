package conversation

import "time"

type ActorType string

const (
	ActorHuman ActorType = "human"
	ActorAI    ActorType = "ai"
)

// Turn is one utterance in a user's conversation with the assistant.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Actor     ActorType `json:"actor"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
