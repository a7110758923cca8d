package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/nhle/inbox-assistant/internal/ai"
	"github.com/nhle/inbox-assistant/internal/mailbox"
	"github.com/nhle/inbox-assistant/internal/model"
)

// fakeStore is a minimal in-memory Store for interpreter tests.
type fakeStore struct {
	records   []model.EmailRecord
	listCalls int
}

func (f *fakeStore) Connect(context.Context) error { return nil }

func (f *fakeStore) List(_ context.Context, _ string, limit int) ([]model.EmailRecord, error) {
	f.listCalls++
	if limit <= 0 {
		return []model.EmailRecord{}, nil
	}
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeStore) Search(ctx context.Context, query, folder string, limit int) ([]model.EmailRecord, error) {
	records, err := f.List(ctx, folder, limit)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matches := make([]model.EmailRecord, 0)
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Subject), q) ||
			strings.Contains(strings.ToLower(rec.Body), q) ||
			strings.Contains(strings.ToLower(rec.Sender), q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func (f *fakeStore) Send(context.Context, string, string, string, []string, []string) (*mailbox.SendResult, error) {
	return &mailbox.SendResult{ID: "msg_test"}, nil
}

func (f *fakeStore) CreateDraft(context.Context, string, string, string, []string, []string) (*mailbox.SendResult, error) {
	return &mailbox.SendResult{ID: "draft_test"}, nil
}

// fakeGenerator returns a canned response or error and records the last
// instruction and history it received.
type fakeGenerator struct {
	response        string
	err             error
	lastInstruction string
	lastHistory     []ai.Message
}

func (g *fakeGenerator) GenerateDraft(_ context.Context, req ai.DraftRequest) (string, error) {
	g.lastInstruction = req.Context
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeGenerator) Complete(_ context.Context, history []ai.Message, instruction string) (string, error) {
	g.lastHistory = history
	g.lastInstruction = instruction
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func seededFakeStore() *fakeStore {
	return &fakeStore{records: mailbox.SeedRecords()}
}

func TestHandleDraftTemplateMode(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "draft an email to jane@example.com about the budget.", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Intent != IntentDraft {
		t.Errorf("Intent = %q, want %q", resp.Intent, IntentDraft)
	}
	if resp.Draft == nil {
		t.Fatal("Draft is nil, want populated draft")
	}
	if resp.Draft.Recipient != "jane@example.com" {
		t.Errorf("Recipient = %q, want jane@example.com", resp.Draft.Recipient)
	}
	if resp.Draft.Subject != "The budget" {
		t.Errorf("Subject = %q, want capitalized extracted subject", resp.Draft.Subject)
	}
	if !strings.Contains(resp.Draft.Body, "Dear jane@example.com") {
		t.Errorf("Body missing salutation:\n%s", resp.Draft.Body)
	}

	extracted, ok := ExtractDraft(resp.Text)
	if !ok {
		t.Fatalf("response text has no delimited draft block:\n%s", resp.Text)
	}
	if extracted != resp.Draft.Body {
		t.Errorf("delimited block differs from Draft.Body")
	}
}

func TestHandleDraftTemplateDefaults(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "draft an email", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Draft.Recipient != "recipient@example.com" {
		t.Errorf("Recipient = %q, want default placeholder", resp.Draft.Recipient)
	}
	if resp.Draft.Subject != "Subject Line" {
		t.Errorf("Subject = %q, want default placeholder", resp.Draft.Subject)
	}
}

func TestHandleDraftWithGenerator(t *testing.T) {
	gen := &fakeGenerator{response: "Hi Jane,\n\nLet's review the budget.\n\nBest,\nMe"}
	it := New(seededFakeStore(), gen, Config{})

	resp, err := it.Handle(context.Background(), "draft an email to jane@example.com about the budget.", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Draft.Body != gen.response {
		t.Errorf("Body = %q, want generated text", resp.Draft.Body)
	}
	if resp.Draft.Subject != "the budget" {
		t.Errorf("Subject = %q, want extracted subject", resp.Draft.Subject)
	}
	if strings.Contains(resp.Text, "Falling back") {
		t.Errorf("unexpected fallback advisory in response:\n%s", resp.Text)
	}
	if !strings.Contains(resp.Text, DraftDelimiter) {
		t.Errorf("response text missing draft delimiters:\n%s", resp.Text)
	}
}

func TestHandleDraftGeneratorTimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: &ai.TimeoutError{Provider: "anthropic"}}
	it := New(seededFakeStore(), gen, Config{})

	resp, err := it.Handle(context.Background(), "draft an email to jane@example.com about the budget.", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if !strings.Contains(resp.Text, "timed out") {
		t.Errorf("advisory missing timeout cause:\n%s", resp.Text)
	}
	if !strings.Contains(resp.Text, "Falling back to a template draft.") {
		t.Errorf("advisory missing fallback notice:\n%s", resp.Text)
	}
	if resp.Draft == nil || !strings.Contains(resp.Draft.Body, "I hope this email finds you well") {
		t.Errorf("fallback draft body is not the template")
	}
	if _, ok := ExtractDraft(resp.Text); !ok {
		t.Errorf("fallback response missing delimited draft block:\n%s", resp.Text)
	}
}

func TestHandleSummarizeTemplateMode(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "summarize my inbox", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Intent != IntentSummarize {
		t.Errorf("Intent = %q, want %q", resp.Intent, IntentSummarize)
	}
	if resp.Text != summarizeTemplate {
		t.Errorf("Text = %q, want the summarize template", resp.Text)
	}
	if resp.Draft != nil {
		t.Errorf("Draft = %+v, want nil", resp.Draft)
	}
}

func TestHandleSummarizeWithGenerator(t *testing.T) {
	store := seededFakeStore()
	gen := &fakeGenerator{response: "Two emails need a reply."}
	it := New(store, gen, Config{})

	resp, err := it.Handle(context.Background(), "summarize my inbox", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Text != gen.response {
		t.Errorf("Text = %q, want generator response", resp.Text)
	}
	if store.listCalls == 0 {
		t.Error("store.List was never called")
	}
	if !strings.Contains(gen.lastInstruction, "Meeting Tomorrow") {
		t.Errorf("instruction missing inbox contents:\n%s", gen.lastInstruction)
	}
}

func TestHandleSummarizeGeneratorAuthError(t *testing.T) {
	gen := &fakeGenerator{err: &ai.AuthError{Provider: "groq", Message: "invalid key"}}
	it := New(seededFakeStore(), gen, Config{})

	resp, err := it.Handle(context.Background(), "summarize my inbox", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if !strings.Contains(resp.Text, "was rejected as unauthorized") {
		t.Errorf("advisory missing auth cause:\n%s", resp.Text)
	}
	if !strings.Contains(resp.Text, summarizeTemplate) {
		t.Errorf("response missing template fallback:\n%s", resp.Text)
	}
}

func TestHandleCategorizeTemplateMode(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "categorize my emails", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Intent != IntentCategorize {
		t.Errorf("Intent = %q, want %q", resp.Intent, IntentCategorize)
	}
	if resp.Text != categorizeTemplate {
		t.Errorf("Text = %q, want the categorize template", resp.Text)
	}
}

func TestHandleSearchTemplateMode(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "search Invoice", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Intent != IntentSearch {
		t.Errorf("Intent = %q, want %q", resp.Intent, IntentSearch)
	}
	if !strings.Contains(resp.Text, `search results for "Invoice"`) {
		t.Errorf("Text missing results heading:\n%s", resp.Text)
	}
	if !strings.Contains(resp.Text, "Invoice #12345") {
		t.Errorf("Text missing matching record:\n%s", resp.Text)
	}
}

func TestHandleSearchNoMatches(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "search zebra", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	want := `No emails matched "zebra".`
	if resp.Text != want {
		t.Errorf("Text = %q, want %q", resp.Text, want)
	}
}

func TestHandleSearchGeneratorFailureAdvisoryOnly(t *testing.T) {
	gen := &fakeGenerator{err: &ai.GenerationError{Provider: "anthropic", Message: "boom"}}
	it := New(seededFakeStore(), gen, Config{})

	resp, err := it.Handle(context.Background(), "search Invoice", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if !strings.Contains(resp.Text, "failed") {
		t.Errorf("advisory missing failure cause:\n%s", resp.Text)
	}
	if strings.Contains(resp.Text, "search results") {
		t.Errorf("search has no template fallback, got:\n%s", resp.Text)
	}
}

func TestHandleSearchCaseSensitiveKeywordError(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	_, err := it.Handle(context.Background(), "Search for invoices", nil)
	if err == nil {
		t.Fatal("Handle succeeded, want extraction error")
	}
	if !IsExtractionError(err) {
		t.Errorf("error = %v, want ExtractionError", err)
	}
}

func TestHandleGeneralTemplateMode(t *testing.T) {
	it := New(seededFakeStore(), nil, Config{})

	resp, err := it.Handle(context.Background(), "what can you do?", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Intent != IntentGeneral {
		t.Errorf("Intent = %q, want %q", resp.Intent, IntentGeneral)
	}
	if resp.Text != generalTemplate {
		t.Errorf("Text = %q, want the capability template", resp.Text)
	}
}

func TestHandleGeneralWithGenerator(t *testing.T) {
	gen := &fakeGenerator{response: "I can draft, summarize, categorize, or search."}
	it := New(seededFakeStore(), gen, Config{})

	resp, err := it.Handle(context.Background(), "hello there", nil)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Text != gen.response {
		t.Errorf("Text = %q, want generator response", resp.Text)
	}
	if !strings.Contains(gen.lastInstruction, "hello there") {
		t.Errorf("instruction missing original prompt:\n%s", gen.lastInstruction)
	}
}

func TestHandleForwardsHistoryToGenerator(t *testing.T) {
	gen := &fakeGenerator{response: "As I mentioned, three of them are invoices."}
	it := New(seededFakeStore(), gen, Config{})

	history := []ai.Message{
		{Role: ai.RoleUser, Content: "summarize my inbox"},
		{Role: ai.RoleAssistant, Content: "You have five unread emails."},
	}
	resp, err := it.Handle(context.Background(), "which of those are invoices?", history)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if resp.Text != gen.response {
		t.Errorf("Text = %q, want generator response", resp.Text)
	}
	if len(gen.lastHistory) != len(history) {
		t.Fatalf("generator received %d history turns, want %d", len(gen.lastHistory), len(history))
	}
	for i, turn := range history {
		if gen.lastHistory[i] != turn {
			t.Errorf("history[%d] = %+v, want %+v", i, gen.lastHistory[i], turn)
		}
	}
}
