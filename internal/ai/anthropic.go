package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicDefaultModel = "claude-sonnet-4-20250514"
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion   = "2023-06-01"

	defaultMaxTokens = 1024
)

// AnthropicGenerator talks to the Claude Messages API.
type AnthropicGenerator struct {
	apiKey    string
	model     string
	maxTokens int
	apiURL    string
	client    *http.Client
}

// NewAnthropic creates a Claude-backed generator. Empty modelName and
// non-positive maxTokens fall back to defaults.
func NewAnthropic(apiKey, modelName string, maxTokens int) *AnthropicGenerator {
	if modelName == "" {
		modelName = anthropicDefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicGenerator{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		apiURL:    anthropicAPIURL,
		client:    &http.Client{},
	}
}

// GenerateDraft produces an email body for the given slots.
func (g *AnthropicGenerator) GenerateDraft(
	ctx context.Context,
	req DraftRequest,
) (string, error) {
	return g.Complete(ctx, nil, draftInstruction(req))
}

// Complete sends the conversation history plus the instruction to the
// Claude Messages API and returns the concatenated text content of the
// response.
func (g *AnthropicGenerator) Complete(
	ctx context.Context,
	history []Message,
	instruction string,
) (string, error) {
	messages := make([]apiMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, apiMessage{
			Role:    string(turn.Role),
			Content: []apiContentBlock{{Type: "text", Text: turn.Content}},
		})
	}
	messages = append(messages, apiMessage{
		Role:    "user",
		Content: []apiContentBlock{{Type: "text", Text: instruction}},
	})

	reqBody := apiRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    systemPrompt,
		Messages:  messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, g.apiURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &TimeoutError{Provider: "anthropic"}
		}
		return "", &GenerationError{Provider: "anthropic", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Provider: "anthropic", Message: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &AuthError{
			Provider: "anthropic",
			Message:  apiErrorMessage(respBody, resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{
			Provider: "anthropic",
			Message:  apiErrorMessage(respBody, resp.StatusCode),
		}
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &GenerationError{Provider: "anthropic", Message: "decoding response: " + err.Error()}
	}

	var textParts []string
	for _, block := range result.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	if len(textParts) == 0 {
		return "", &GenerationError{Provider: "anthropic", Message: "response contained no text content"}
	}

	return strings.Join(textParts, ""), nil
}

// apiErrorMessage extracts the API error message from a failed response
// body, falling back to the raw body.
func apiErrorMessage(body []byte, status int) string {
	var apiErr apiErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("API error (%d): %s", status, apiErr.Error.Message)
	}
	return fmt.Sprintf("API error (%d): %s", status, string(body))
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
