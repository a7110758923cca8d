package engine

import (
	"fmt"
	"strings"

	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/internal/thread"
)

// DraftDelimiter fences the draft body inside a draft response so the
// host can locate and extract it.
const DraftDelimiter = "```"

// Default values substituted when extraction finds no field.
const (
	defaultRecipient       = "recipient@example.com"
	defaultTemplateSubject = "Subject Line"
	defaultAISubject       = "Meeting Request"
)

// renderDraftBody fills the fixed draft template with the recipient,
// subject, and current date.
func renderDraftBody(recipient, subject, date string) string {
	return fmt.Sprintf(`Subject: %s

Dear %s,

I hope this email finds you well. I am writing to discuss %s.

[Insert specific details about your request/information here]

Please let me know if you have any questions or need further information.

Best regards,
[Your Name]

%s`, subject, recipient, strings.ToLower(subject), date)
}

// renderDraftEnvelope wraps a draft body in the delimited "here is a
// draft" response envelope.
func renderDraftEnvelope(body string) string {
	return fmt.Sprintf(
		"Here's a draft email for you:\n\n%s\n%s\n%s\n\nYou can edit this draft before sending.",
		DraftDelimiter, body, DraftDelimiter,
	)
}

// ExtractDraft returns the text between the first pair of draft
// delimiters in a response, reporting whether a delimited block was found.
func ExtractDraft(response string) (string, bool) {
	start := strings.Index(response, DraftDelimiter)
	if start < 0 {
		return "", false
	}
	rest := response[start+len(DraftDelimiter):]
	end := strings.Index(rest, DraftDelimiter)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// summarizeTemplate is the fixed illustrative summary used without a
// collaborator.
const summarizeTemplate = `Here's a summary of your recent emails:

1. **Meeting Tomorrow** - John Doe wants to schedule a meeting at 2 PM tomorrow.
2. **Project Update** - Your manager is requesting a project status update by Friday.
3. **Invoice #12345** - You have an invoice due in 30 days.

Would you like me to help you respond to any of these emails?`

// categorizeTemplate is the fixed illustrative categorization used
// without a collaborator.
const categorizeTemplate = `I've categorized your emails:

**Work/Professional**
- Project Update from manager@company.com
- Meeting Tomorrow from john.doe@example.com

**Financial**
- Invoice #12345 from billing@service.com

Would you like me to create folders for these categories?`

// generalTemplate is the fixed capability summary for unrecognized
// requests.
const generalTemplate = `I can help you manage your emails in several ways:

- Draft emails for you
- Summarize your inbox
- Categorize emails
- Search for specific emails
- Set up automated responses

What would you like me to help you with today?`

// summarizeInstruction frames an inbox summary request for the
// collaborator, grounding it on the actual mailbox contents.
func summarizeInstruction(records []model.EmailRecord) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following inbox for the user, highlighting anything that needs action:\n\n")
	writeRecordList(&sb, records)
	return sb.String()
}

// categorizeInstruction frames an inbox categorization request for the
// collaborator.
func categorizeInstruction(records []model.EmailRecord) string {
	var sb strings.Builder
	sb.WriteString("Group the following emails into sensible categories (for example work, financial, personal) and list each category with its emails:\n\n")
	writeRecordList(&sb, records)
	return sb.String()
}

// searchInstruction frames a search narration request for the
// collaborator over freshly computed matches.
func searchInstruction(term string, matches []model.EmailRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The user searched their inbox for %q. Present these matching emails as a short, readable answer:\n\n", term)
	if len(matches) == 0 {
		sb.WriteString("(no matches)\n")
		return sb.String()
	}
	writeRecordList(&sb, matches)
	return sb.String()
}

// generalInstruction frames an unclassified request for the collaborator.
func generalInstruction(prompt string) string {
	return fmt.Sprintf(
		"The user asked an email assistant the following. Answer helpfully, and mention what inbox tasks you can do if the request is unclear:\n\n%s",
		prompt,
	)
}

// writeRecordList appends one line per record, using the most recent
// thread segment of each body as the snippet.
func writeRecordList(sb *strings.Builder, records []model.EmailRecord) {
	for _, rec := range records {
		fmt.Fprintf(sb, "- %s from %s (%s): %s\n",
			rec.Subject, rec.Sender,
			rec.Date.Format("2006-01-02"),
			snippet(rec.Body),
		)
	}
}

// snippet returns the most recent segment of a body, truncated for
// display in lists and instructions.
func snippet(body string) string {
	const maxLen = 100

	s := thread.Latest(body)
	s = strings.ReplaceAll(s, "\n", " ")
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen]) + "..."
	}
	return s
}

// renderSearchResults renders a numbered match list for template mode.
func renderSearchResults(term string, matches []model.EmailRecord) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No emails matched %q.", term)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the search results for %q:\n\n", term)
	for i, rec := range matches {
		fmt.Fprintf(&sb, "%d. **%s** from %s (%s)\n   %q\n",
			i+1, rec.Subject, rec.Sender,
			rec.Date.Format("January 2, 2006"),
			snippet(rec.Body),
		)
	}
	sb.WriteString("\nWould you like me to open any of these emails?")
	return sb.String()
}
