package llm

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Message is one turn of conversation context passed to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for language-generation backends. Generate
// turns the conversation history plus the new input into reply prose. No
// structure is assumed beyond "returns text".
type Client interface {
	Generate(ctx context.Context, history []Message, input string) (string, error)
}

// Config holds the settings for a generation backend.
type Config struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}
