package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/inbox-assistant/internal/ai"
	"github.com/nhle/inbox-assistant/internal/mailbox"
	"github.com/nhle/inbox-assistant/internal/model"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultListLimit = 10
)

// Config tunes the interpreter's collaborator timeout and the default
// number of records pulled from the mailbox per request.
type Config struct {
	Timeout   time.Duration
	ListLimit int
}

// Response is the result of interpreting one request. The host owns the
// returned draft; the interpreter retains nothing between calls.
type Response struct {
	Intent Intent
	Text   string

	// Draft is set only for IntentDraft.
	Draft *model.DraftEmail
}

// Interpreter orchestrates a single request: classify intent, extract
// fields, query the store, and produce either a templated response or
// prose from the collaborator. It is stateless across calls; session
// history and draft storage belong to the caller.
type Interpreter struct {
	store     mailbox.Store
	generator ai.Generator // nil selects template mode
	timeout   time.Duration
	listLimit int
}

// New creates an interpreter over the given store. A nil generator
// selects template-only responses; otherwise the collaborator is invoked
// with the configured timeout.
func New(store mailbox.Store, generator ai.Generator, cfg Config) *Interpreter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = defaultListLimit
	}

	return &Interpreter{
		store:     store,
		generator: generator,
		timeout:   cfg.Timeout,
		listLimit: cfg.ListLimit,
	}
}

// Handle fully processes one free-text request and returns the response.
// history holds the session's prior conversation turns (oldest first, may
// be nil) and is forwarded to the collaborator; the interpreter itself
// retains nothing between calls. Extraction and store errors surface
// as-is since they indicate a logic bug; collaborator failures never
// propagate. They are converted into a user-facing advisory, with a
// template fallback where one exists.
func (it *Interpreter) Handle(ctx context.Context, prompt string, history []ai.Message) (*Response, error) {
	intent := Classify(prompt)

	fields, err := Extract(prompt, intent)
	if err != nil {
		return nil, err
	}

	switch intent {
	case IntentDraft:
		return it.handleDraft(ctx, fields)
	case IntentSummarize:
		return it.handleSummarize(ctx, history)
	case IntentCategorize:
		return it.handleCategorize(ctx, history)
	case IntentSearch:
		return it.handleSearch(ctx, fields, history)
	default:
		return it.handleGeneral(ctx, fields, history)
	}
}

// handleDraft builds a DraftEmail and wraps it in the delimited draft
// envelope. Collaborator failures fall back to the template body so the
// response always carries a draft block.
func (it *Interpreter) handleDraft(ctx context.Context, fields ExtractedFields) (*Response, error) {
	recipient := defaultRecipient
	if fields.Recipient != nil {
		recipient = *fields.Recipient
	}

	var advisory string
	var subject, body string

	if it.generator != nil {
		subject = defaultAISubject
		if fields.Subject != nil {
			subject = *fields.Subject
		}

		generated, err := it.generate(ctx, func(ctx context.Context) (string, error) {
			return it.generator.GenerateDraft(ctx, ai.DraftRequest{
				Recipient: recipient,
				Subject:   subject,
				Context:   fields.Context,
			})
		})
		if err != nil {
			advisory = collaboratorAdvisory(err) + " Falling back to a template draft.\n\n"
		} else {
			body = generated
		}
	}

	if body == "" {
		subject = defaultTemplateSubject
		if fields.Subject != nil {
			subject = Capitalize(*fields.Subject)
		}
		body = renderDraftBody(recipient, subject, time.Now().Format("January 2, 2006"))
	}

	draft := &model.DraftEmail{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}

	return &Response{
		Intent: IntentDraft,
		Text:   advisory + renderDraftEnvelope(body),
		Draft:  draft,
	}, nil
}

// handleSummarize answers with a fixed template, or asks the collaborator
// to summarize the actual inbox contents.
func (it *Interpreter) handleSummarize(ctx context.Context, history []ai.Message) (*Response, error) {
	if it.generator == nil {
		return &Response{Intent: IntentSummarize, Text: summarizeTemplate}, nil
	}

	records, err := it.store.List(ctx, model.FolderInbox, it.listLimit)
	if err != nil {
		return nil, err
	}

	text, genErr := it.generate(ctx, func(ctx context.Context) (string, error) {
		return it.generator.Complete(ctx, history, summarizeInstruction(records))
	})
	if genErr != nil {
		return &Response{
			Intent: IntentSummarize,
			Text:   collaboratorAdvisory(genErr) + "\n\n" + summarizeTemplate,
		}, nil
	}

	return &Response{Intent: IntentSummarize, Text: text}, nil
}

// handleCategorize answers with a fixed template, or asks the
// collaborator to group the actual inbox contents.
func (it *Interpreter) handleCategorize(ctx context.Context, history []ai.Message) (*Response, error) {
	if it.generator == nil {
		return &Response{Intent: IntentCategorize, Text: categorizeTemplate}, nil
	}

	records, err := it.store.List(ctx, model.FolderInbox, it.listLimit)
	if err != nil {
		return nil, err
	}

	text, genErr := it.generate(ctx, func(ctx context.Context) (string, error) {
		return it.generator.Complete(ctx, history, categorizeInstruction(records))
	})
	if genErr != nil {
		return &Response{
			Intent: IntentCategorize,
			Text:   collaboratorAdvisory(genErr) + "\n\n" + categorizeTemplate,
		}, nil
	}

	return &Response{Intent: IntentCategorize, Text: text}, nil
}

// handleSearch runs the store query and renders a numbered match list,
// or hands the matches to the collaborator to narrate. There is no
// template over fresh results, so a collaborator failure here returns
// the advisory directly.
func (it *Interpreter) handleSearch(ctx context.Context, fields ExtractedFields, history []ai.Message) (*Response, error) {
	if fields.SearchTerm == nil {
		// Extract guarantees the term for IntentSearch; reaching this
		// is a programming error.
		return nil, &ExtractionError{Intent: IntentSearch, Field: "search term"}
	}
	term := *fields.SearchTerm

	matches, err := it.store.Search(ctx, term, model.FolderInbox, it.listLimit)
	if err != nil {
		return nil, err
	}

	if it.generator == nil {
		return &Response{
			Intent: IntentSearch,
			Text:   renderSearchResults(term, matches),
		}, nil
	}

	text, genErr := it.generate(ctx, func(ctx context.Context) (string, error) {
		return it.generator.Complete(ctx, history, searchInstruction(term, matches))
	})
	if genErr != nil {
		return &Response{
			Intent: IntentSearch,
			Text:   collaboratorAdvisory(genErr),
		}, nil
	}

	return &Response{Intent: IntentSearch, Text: text}, nil
}

// handleGeneral answers with the capability summary, or forwards the raw
// prompt to the collaborator with a framing instruction.
func (it *Interpreter) handleGeneral(ctx context.Context, fields ExtractedFields, history []ai.Message) (*Response, error) {
	if it.generator == nil {
		return &Response{Intent: IntentGeneral, Text: generalTemplate}, nil
	}

	text, genErr := it.generate(ctx, func(ctx context.Context) (string, error) {
		return it.generator.Complete(ctx, history, generalInstruction(fields.Context))
	})
	if genErr != nil {
		return &Response{
			Intent: IntentGeneral,
			Text:   collaboratorAdvisory(genErr) + "\n\n" + generalTemplate,
		}, nil
	}

	return &Response{Intent: IntentGeneral, Text: text}, nil
}

// generate runs one collaborator call under the configured timeout.
// Expired deadlines surface as ai.TimeoutError from the clients.
func (it *Interpreter) generate(
	ctx context.Context,
	call func(ctx context.Context) (string, error),
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, it.timeout)
	defer cancel()

	return call(ctx)
}

// collaboratorAdvisory converts a collaborator failure into the single
// user-facing message naming the failure class and recommending a
// credential check.
func collaboratorAdvisory(err error) string {
	var cause string
	switch {
	case ai.IsTimeout(err):
		cause = "timed out"
	case ai.IsAuthError(err):
		cause = "was rejected as unauthorized"
	default:
		cause = "failed"
	}

	return fmt.Sprintf(
		"The AI generator request %s. Please check your API credentials and connectivity.",
		cause,
	)
}
