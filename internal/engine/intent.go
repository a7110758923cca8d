// Package engine interprets free-text inbox requests: it classifies the
// user's intent, extracts structured fields from the prompt, and produces
// a response grounded on the mailbox store, optionally delegating prose
// generation to a language-model collaborator.
package engine

import "strings"

// Intent is the category of action a user request maps to.
type Intent string

const (
	IntentDraft      Intent = "draft"
	IntentSummarize  Intent = "summarize"
	IntentCategorize Intent = "categorize"
	IntentSearch     Intent = "search"
	IntentGeneral    Intent = "general"
)

// intentRule pairs a predicate over the lowercased prompt with the intent
// it selects.
type intentRule struct {
	match  func(prompt string) bool
	intent Intent
}

// intentRules is the totally ordered rule list; the first match wins.
// A prompt containing both "draft email" and "search" classifies as
// Draft because the draft rule is checked first. The order is a contract,
// not an implementation detail.
var intentRules = []intentRule{
	{
		match: func(p string) bool {
			return strings.Contains(p, "draft") && strings.Contains(p, "email")
		},
		intent: IntentDraft,
	},
	{
		match: func(p string) bool {
			return strings.Contains(p, "summarize") || strings.Contains(p, "summary")
		},
		intent: IntentSummarize,
	},
	{
		match: func(p string) bool {
			return strings.Contains(p, "categorize") || strings.Contains(p, "organize")
		},
		intent: IntentCategorize,
	},
	{
		match: func(p string) bool {
			return strings.Contains(p, "search") || strings.Contains(p, "find")
		},
		intent: IntentSearch,
	},
}

// Classify maps a raw prompt to exactly one intent. Matching is
// case-insensitive substring containment; IntentGeneral is the total
// fallback, so every input classifies without error.
func Classify(prompt string) Intent {
	lower := strings.ToLower(prompt)

	for _, rule := range intentRules {
		if rule.match(lower) {
			return rule.intent
		}
	}

	return IntentGeneral
}
