// Package ai provides the language-model collaborator used by the request
// interpreter for free-form prose generation, with interchangeable
// Anthropic and Groq backends behind a single Generator interface.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// TimeoutError indicates the collaborator call exceeded its deadline.
// Timeouts are recoverable; the interpreter degrades to a template.
type TimeoutError struct {
	Provider string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out (%s)", e.Provider)
}

// AuthError indicates the collaborator rejected the configured credential.
type AuthError struct {
	Provider string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Provider, e.Message)
}

// GenerationError is the catch-all for failed or malformed generation.
type GenerationError struct {
	Provider string
	Message  string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %s", e.Provider, e.Message)
}

// IsTimeout reports whether err (or any error in its chain) is a TimeoutError.
func IsTimeout(err error) bool {
	var tErr *TimeoutError
	return errors.As(err, &tErr)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var aErr *AuthError
	return errors.As(err, &aErr)
}

// DraftRequest carries the named slots for draft generation.
type DraftRequest struct {
	Recipient string
	Subject   string
	Context   string
}

// Generator is the collaborator contract the request interpreter depends
// on. Implementations block until the response is complete and honor
// context cancellation.
type Generator interface {
	// GenerateDraft produces an email body for the given slots. Drafts
	// are slot-driven and single-turn; the request context carries the
	// full original prompt.
	GenerateDraft(ctx context.Context, req DraftRequest) (string, error)

	// Complete answers a task-framing instruction with prose. history
	// holds the prior conversation turns, oldest first, and may be nil;
	// the instruction always forms the final user turn.
	Complete(ctx context.Context, history []Message, instruction string) (string, error)
}

// systemPrompt frames every collaborator call.
const systemPrompt = `You are an email management assistant. You help the user draft emails, summarize and categorize their inbox, and narrate search results. Be concise and professional. When drafting an email, output only the email body text, ready to send, with no surrounding commentary.`

// draftInstruction renders the generation request for a draft.
func draftInstruction(req DraftRequest) string {
	return fmt.Sprintf(
		"Write a professional email to %s with the subject %q.\n\nUser request for context:\n%s",
		req.Recipient, req.Subject, req.Context,
	)
}
