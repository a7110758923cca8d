package mailbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/inbox-assistant/internal/model"
)

// SeedFromDirectory parses every .eml file in dir and inserts the results
// into the inbox folder. Files are processed in lexical order so the seed
// order stays stable across runs. A missing directory is not an error.
func (s *SQLiteStore) SeedFromDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading seed directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".eml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		rec, err := parseEMLFile(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if _, err := s.Add(ctx, model.FolderInbox, rec); err != nil {
			return fmt.Errorf("seeding from %s: %w", path, err)
		}
	}

	return nil
}

// parseEMLFile reads a single RFC 5322 message file into an EmailRecord
// using go-message, extracting the text/plain part as the body.
func parseEMLFile(path string) (model.EmailRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.EmailRecord{}, err
	}
	defer f.Close()

	mr, err := mail.CreateReader(f)
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	rec := model.EmailRecord{Read: true}

	if subject, err := mr.Header.Subject(); err == nil {
		rec.Subject = subject
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		rec.Sender = from[0].Address
	}
	if date, err := mr.Header.Date(); err == nil {
		rec.Date = date
	} else {
		rec.Date = time.Now().UTC()
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}

		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		rec.Body = string(body)
		break
	}

	return rec, nil
}
