package mailbox_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nhle/inbox-assistant/internal/mailbox"
	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/tests/testutil"
)

func seededStore(t *testing.T) *mailbox.SQLiteStore {
	t.Helper()

	s := testutil.NewTestStore(t)
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return s
}

func TestListReturnsSeedOrder(t *testing.T) {
	s := seededStore(t)

	records, err := s.List(context.Background(), model.FolderInbox, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	seeds := mailbox.SeedRecords()
	if len(records) != len(seeds) {
		t.Fatalf("got %d records, want %d", len(records), len(seeds))
	}
	for i, rec := range records {
		if rec.Subject != seeds[i].Subject {
			t.Errorf("record %d subject = %q, want %q", i, rec.Subject, seeds[i].Subject)
		}
		if rec.ID == "" {
			t.Errorf("record %d has empty ID", i)
		}
	}
}

func TestListHonorsLimit(t *testing.T) {
	s := seededStore(t)

	records, err := s.List(context.Background(), model.FolderInbox, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestListZeroLimit(t *testing.T) {
	s := seededStore(t)

	for _, limit := range []int{0, -1} {
		records, err := s.List(context.Background(), model.FolderInbox, limit)
		if err != nil {
			t.Fatalf("List(limit=%d) error: %v", limit, err)
		}
		if len(records) != 0 {
			t.Errorf("List(limit=%d) returned %d records, want 0", limit, len(records))
		}
	}
}

func TestListEmptyFolder(t *testing.T) {
	s := seededStore(t)

	records, err := s.List(context.Background(), model.FolderArchive, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty folder, want 0", len(records))
	}
}

// TestSearchMatchesFilteredList checks that searching is exactly a
// case-insensitive filter over the listing, preserving order.
func TestSearchMatchesFilteredList(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	listed, err := s.List(ctx, model.FolderInbox, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	for _, query := range []string{"invoice", "INVOICE", "example.com", "budget", "zebra"} {
		matches, err := s.Search(ctx, query, model.FolderInbox, 10)
		if err != nil {
			t.Fatalf("Search(%q) error: %v", query, err)
		}

		var want []string
		q := strings.ToLower(query)
		for _, rec := range listed {
			if strings.Contains(strings.ToLower(rec.Subject), q) ||
				strings.Contains(strings.ToLower(rec.Body), q) ||
				strings.Contains(strings.ToLower(rec.Sender), q) {
				want = append(want, rec.ID)
			}
		}

		if len(matches) != len(want) {
			t.Errorf("Search(%q) returned %d records, want %d", query, len(matches), len(want))
			continue
		}
		for i, rec := range matches {
			if rec.ID != want[i] {
				t.Errorf("Search(%q) record %d = id %s, want %s", query, i, rec.ID, want[i])
			}
		}
	}
}

func TestSearchDoesNotMutateReadFlags(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	before, err := s.List(ctx, model.FolderInbox, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	if _, err := s.Search(ctx, "meeting", model.FolderInbox, 10); err != nil {
		t.Fatalf("Search error: %v", err)
	}

	after, err := s.List(ctx, model.FolderInbox, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	for i := range before {
		if before[i].Read != after[i].Read {
			t.Errorf("record %s read flag changed from %v to %v",
				before[i].ID, before[i].Read, after[i].Read)
		}
	}
}

func TestSendRequiresConnect(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	_, err := s.Send(ctx, "jane@example.com", "Hello", "Body", nil, nil)
	if err == nil {
		t.Fatal("Send succeeded without Connect")
	}
	if !mailbox.IsNotConnected(err) {
		t.Errorf("error = %v, want NotConnectedError", err)
	}

	_, err = s.CreateDraft(ctx, "jane@example.com", "Hello", "Body", nil, nil)
	if err == nil {
		t.Fatal("CreateDraft succeeded without Connect")
	}
	if !mailbox.IsNotConnected(err) {
		t.Errorf("error = %v, want NotConnectedError", err)
	}
}

func TestSendAfterConnect(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	result, err := s.Send(ctx, "jane@example.com", "Quarterly Budget", "Body text", nil, nil)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if !strings.HasPrefix(result.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", result.ID)
	}
	if !strings.Contains(result.Message, "jane@example.com") ||
		!strings.Contains(result.Message, "Quarterly Budget") {
		t.Errorf("Message = %q, want recipient and subject echoed", result.Message)
	}
}

func TestCreateDraftAfterConnect(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	result, err := s.CreateDraft(ctx, "bob@example.com", "Notes", "Body", []string{"cc@example.com"}, nil)
	if err != nil {
		t.Fatalf("CreateDraft error: %v", err)
	}
	if !strings.HasPrefix(result.ID, "draft_") {
		t.Errorf("ID = %q, want draft_ prefix", result.ID)
	}
}

func TestConnectIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Connect(ctx); err != nil {
			t.Fatalf("Connect call %d error: %v", i+1, err)
		}
	}
	if !s.Connected() {
		t.Error("Connected() = false after Connect")
	}
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var prev string
	for i := 0; i < 3; i++ {
		rec, err := s.Add(ctx, model.FolderInbox, model.EmailRecord{
			Subject: "Msg",
			Sender:  "a@example.com",
			Date:    time.Now().UTC(),
			Body:    "b",
		})
		if err != nil {
			t.Fatalf("Add error: %v", err)
		}
		if rec.ID <= prev {
			t.Errorf("ID %q not greater than previous %q", rec.ID, prev)
		}
		prev = rec.ID
	}
}
