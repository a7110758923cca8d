package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/inbox-assistant/internal/model"
)

// SeedRecords returns the built-in sample inbox in fixed order. The store
// assigns IDs at insertion, so seed order determines listing order.
func SeedRecords() []model.EmailRecord {
	return []model.EmailRecord{
		{
			Subject: "Meeting Tomorrow",
			Sender:  "john.doe@example.com",
			Date:    time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
			Body:    "Hi there, can we schedule a meeting tomorrow at 2 PM?",
			Read:    false,
		},
		{
			Subject: "Project Update",
			Sender:  "manager@company.com",
			Date:    time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
			Body:    "Please provide an update on the current project status by Friday.",
			Read:    true,
		},
		{
			Subject: "Invoice #12345",
			Sender:  "billing@service.com",
			Date:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			Body:    "Your invoice #12345 is attached. Payment is due in 30 days.",
			Read:    true,
		},
		{
			Subject: "Team Lunch Friday",
			Sender:  "events@company.com",
			Date:    time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
			Body:    "Join us for the quarterly team lunch this Friday at noon.",
			Read:    true,
		},
		{
			Subject: "Re: Budget Review",
			Sender:  "jane.smith@example.com",
			Date:    time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
			Body: "Sounds good to me.\n\nOn Fri, Mar 7, 2025, Jane Smith wrote:\n" +
				"Can we review the budget numbers before the board meeting?",
			Read: true,
		},
	}
}

// Seed inserts the built-in sample records into the inbox folder.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	for _, rec := range SeedRecords() {
		if _, err := s.Add(ctx, model.FolderInbox, rec); err != nil {
			return fmt.Errorf("seeding mailbox: %w", err)
		}
	}
	return nil
}
