package mailbox_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/inbox-assistant/internal/model"
	"github.com/nhle/inbox-assistant/tests/testutil"
)

const sampleEML = "From: carol@example.com\r\n" +
	"To: me@example.com\r\n" +
	"Subject: Offsite Agenda\r\n" +
	"Date: Fri, 07 Mar 2025 10:00:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Agenda attached for the offsite.\r\n"

func TestSeedFromDirectory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01-offsite.eml"), sampleEML)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not an email")

	if err := s.SeedFromDirectory(ctx, dir); err != nil {
		t.Fatalf("SeedFromDirectory error: %v", err)
	}

	records, err := s.List(ctx, model.FolderInbox, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Subject != "Offsite Agenda" {
		t.Errorf("Subject = %q, want Offsite Agenda", rec.Subject)
	}
	if rec.Sender != "carol@example.com" {
		t.Errorf("Sender = %q, want carol@example.com", rec.Sender)
	}
	if rec.Body == "" {
		t.Error("Body is empty, want text/plain part")
	}
}

func TestSeedFromMissingDirectory(t *testing.T) {
	s := testutil.NewTestStore(t)

	if err := s.SeedFromDirectory(context.Background(), filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("missing directory should not error, got: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
