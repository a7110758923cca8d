package ai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqDefaultModel = "llama3-8b-8192"
	groqBaseURL      = "https://api.groq.com/openai/v1"
)

// GroqGenerator talks to Groq's OpenAI-compatible chat completion API.
type GroqGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewGroq creates a Groq-backed generator. Empty modelName and
// non-positive maxTokens fall back to defaults.
func NewGroq(apiKey, modelName string, maxTokens int) *GroqGenerator {
	if modelName == "" {
		modelName = groqDefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	return &GroqGenerator{
		client:    openai.NewClientWithConfig(cfg),
		model:     modelName,
		maxTokens: maxTokens,
	}
}

// GenerateDraft produces an email body for the given slots.
func (g *GroqGenerator) GenerateDraft(
	ctx context.Context,
	req DraftRequest,
) (string, error) {
	return g.Complete(ctx, nil, draftInstruction(req))
}

// Complete sends the conversation history plus the instruction as a chat
// completion and returns the first choice's content.
func (g *GroqGenerator) Complete(
	ctx context.Context,
	history []Message,
	instruction string,
) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem, Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role: role, Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: instruction,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", classifyGroqError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Provider: "groq", Message: "response contained no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyGroqError maps go-openai errors onto the collaborator error kinds.
func classifyGroqError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: "groq"}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized ||
			apiErr.HTTPStatusCode == http.StatusForbidden {
			return &AuthError{Provider: "groq", Message: apiErr.Message}
		}
		return &GenerationError{Provider: "groq", Message: apiErr.Message}
	}

	return &GenerationError{Provider: "groq", Message: err.Error()}
}
