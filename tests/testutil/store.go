package testutil

import (
	"testing"

	"github.com/nhle/inbox-assistant/internal/mailbox"
)

// NewTestStore creates an in-memory mailbox store with all migrations
// applied. It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *mailbox.SQLiteStore {
	t.Helper()

	s, err := mailbox.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
