package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// systemPrompt is the assistant persona. The emotional-mode rules matter:
// the orchestrator enforces them mechanically, but the model is told the
// same rules so its prose matches what the system actually does.
const systemPrompt = `You are LifeSync.AI, a smart and empathetic assistant. You help the user manage their productivity and wellness.

If the user is in an emotional mode (depressed, stressed, lonely, etc):
- Do NOT propose tasks, mood logs, or productivity actions unless the user asks for them directly.
- Acknowledge their feelings, suggest small, gentle ideas that could bring joy, ease, or hope, and offer meaningful, non-intrusive questions.
- Never log moods unless the user says "log my mood as..." or similar.
- If the user asks for help or happiness, offer 2-3 gentle, opt-in suggestions and only propose actions if the user says yes to a specific suggestion.

When the user mentions something that may lead to an action (like a test, task, event, mood, or goal), you must first confirm before performing it.

Respond with a helpful, conversational message. Only act when the user agrees.`

const groqBaseURL = "https://api.groq.com/openai/v1"

// LangchainClient implements Client on top of a langchaingo model.
type LangchainClient struct {
	model llms.Model
	name  string
}

// NewGemini creates a Gemini-backed client via langchain's Google AI binding.
func NewGemini(ctx context.Context, config Config) (*LangchainClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(model),
		googleai.WithDefaultMaxTokens(maxTokens),
	}

	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	return &LangchainClient{model: llm, name: "gemini/" + model}, nil
}

// NewGroq creates a Groq-backed client through the OpenAI-compatible binding.
func NewGroq(config Config) (*LangchainClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := config.Model
	if model == "" {
		model = "mixtral-8x7b-32768"
	}

	llm, err := openai.New(
		openai.WithToken(config.APIKey),
		openai.WithModel(model),
		openai.WithBaseURL(groqBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Groq: %w", err)
	}

	return &LangchainClient{model: llm, name: "groq/" + model}, nil
}

// Name identifies the backend for logging.
func (c *LangchainClient) Name() string { return c.name }

// Generate sends the system prompt, conversation history, and the new
// input to the model and returns the reply text.
func (c *LangchainClient) Generate(ctx context.Context, history []Message, input string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))

	for _, msg := range history {
		switch msg.Role {
		case RoleAI:
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
		default:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		}
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, input))

	resp, err := c.model.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
