package drafts

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/inbox-assistant/internal/keys"
	"github.com/nhle/inbox-assistant/internal/model"
)

func testDrafts() []model.DraftEmail {
	return []model.DraftEmail{
		{
			Recipient: "jane@example.com",
			Subject:   "Budget review",
			Body:      "Dear Jane,\n\nPlease find the numbers attached.",
			CreatedAt: time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC),
		},
	}
}

func TestViewUsesPlainASCIIPunctuation(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetDrafts(testDrafts())

	list := m.View()
	if !strings.Contains(list, "1. Budget review - jane@example.com") {
		t.Errorf("list view missing draft line:\n%s", list)
	}
	if strings.ContainsRune(list, '\u2014') {
		t.Errorf("list view contains an em dash:\n%s", list)
	}

	m.expanded = true
	m.viewport.SetContent(m.drafts[0].Body)
	detail := m.View()
	if !strings.Contains(detail, "Draft 1 to jane@example.com") {
		t.Errorf("detail view missing header:\n%s", detail)
	}
	if strings.ContainsRune(detail, '\u2014') {
		t.Errorf("detail view contains an em dash:\n%s", detail)
	}
}
