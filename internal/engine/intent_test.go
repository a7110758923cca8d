package engine

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   Intent
	}{
		{
			name:   "draft email",
			prompt: "draft an email to jane@example.com about the budget.",
			want:   IntentDraft,
		},
		{
			name:   "draft requires email keyword",
			prompt: "draft a memo for the team",
			want:   IntentGeneral,
		},
		{
			name:   "draft email beats search",
			prompt: "draft an email about how to search my inbox",
			want:   IntentDraft,
		},
		{
			name:   "summarize",
			prompt: "summarize my inbox",
			want:   IntentSummarize,
		},
		{
			name:   "summary noun form",
			prompt: "give me a summary of recent messages",
			want:   IntentSummarize,
		},
		{
			name:   "categorize",
			prompt: "categorize my emails",
			want:   IntentCategorize,
		},
		{
			name:   "organize alias",
			prompt: "please organize my inbox",
			want:   IntentCategorize,
		},
		{
			name:   "search",
			prompt: "search invoice",
			want:   IntentSearch,
		},
		{
			name:   "find alias",
			prompt: "find the message from John",
			want:   IntentSearch,
		},
		{
			name:   "case insensitive",
			prompt: "SEARCH Invoice",
			want:   IntentSearch,
		},
		{
			name:   "fallback",
			prompt: "what can you do?",
			want:   IntentGeneral,
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.prompt)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}
