package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ExtractionError indicates an intent that implies a required field whose
// literal trigger token is absent from the prompt. Given the classifier
// contract this should be unreachable, but the extractor does not assume
// its caller classified the prompt.
type ExtractionError struct {
	Intent Intent
	Field  string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s for intent %s: trigger keyword not present in prompt", e.Field, e.Intent)
}

// IsExtractionError reports whether err (or any error in its chain) is an
// ExtractionError.
func IsExtractionError(err error) bool {
	var exErr *ExtractionError
	return errors.As(err, &exErr)
}

// ExtractedFields holds the structured fields pulled out of a raw prompt.
// Nil pointers mean the field was not found; callers substitute defaults.
// Context is always the full original prompt, so the downstream generator
// never receives empty input.
type ExtractedFields struct {
	Recipient  *string
	Subject    *string
	SearchTerm *string
	Context    string
}

// Extract pulls recipient, subject, and search term out of a raw prompt
// using deliberately simple substring heuristics. Absent delimiters
// degrade to unset fields rather than errors; the only failure is a
// Search intent whose prompt contains neither "search" nor "find"
// in its original case.
func Extract(prompt string, intent Intent) (ExtractedFields, error) {
	fields := ExtractedFields{Context: prompt}
	lower := strings.ToLower(prompt)

	// Recipient: first whitespace-delimited token after the first "to",
	// accepted only if it looks like an address. "to" inside an unrelated
	// word triggers the same split; that is a known heuristic limit.
	if idx := strings.Index(lower, "to"); idx >= 0 {
		rest := strings.Fields(lower[idx+len("to"):])
		if len(rest) > 0 && strings.Contains(rest[0], "@") {
			recipient := rest[0]
			fields.Recipient = &recipient
		}
	}

	// Subject: text between "about" (preferred) or "subject" and the next
	// period, working on the lowercased prompt as the original heuristics do.
	keyword := ""
	if strings.Contains(lower, "about") {
		keyword = "about"
	} else if strings.Contains(lower, "subject") {
		keyword = "subject"
	}
	if keyword != "" {
		rest := lower[strings.Index(lower, keyword)+len(keyword):]
		if dot := strings.Index(rest, "."); dot >= 0 {
			rest = rest[:dot]
		}
		subject := strings.TrimSpace(rest)
		fields.Subject = &subject
	}

	// Search term: the remainder after whichever keyword triggered the
	// Search classification, matched case-sensitively against the
	// original prompt.
	if intent == IntentSearch {
		switch {
		case strings.Contains(prompt, "search"):
			term := strings.TrimSpace(prompt[strings.Index(prompt, "search")+len("search"):])
			fields.SearchTerm = &term
		case strings.Contains(prompt, "find"):
			term := strings.TrimSpace(prompt[strings.Index(prompt, "find")+len("find"):])
			fields.SearchTerm = &term
		default:
			return fields, &ExtractionError{Intent: intent, Field: "search term"}
		}
	}

	return fields, nil
}

// Capitalize upper-cases the first letter of s, used when rendering
// template-mode subjects.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var (
	addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
	}
)

// ExtractAddresses returns every email address found in text.
func ExtractAddresses(text string) []string {
	return addressPattern.FindAllString(text, -1)
}

// ExtractDates returns every date-shaped token found in text, matching
// the YYYY-MM-DD, MM/DD/YYYY, and MM-DD-YYYY layouts.
func ExtractDates(text string) []string {
	var dates []string
	for _, pattern := range datePatterns {
		dates = append(dates, pattern.FindAllString(text, -1)...)
	}
	return dates
}
