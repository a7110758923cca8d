package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/inbox-assistant/internal/model"
)

// SQLiteStore implements the Store interface using a SQLite database.
// The default DSN is ":memory:", which keeps the mailbox a mock data
// source with no cross-restart persistence.
type SQLiteStore struct {
	db *sqlx.DB

	mu        sync.Mutex
	connected bool
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// any pending schema migrations. Pass ":memory:" for the mock mailbox.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database evaporates if its only connection closes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Connect marks the mailbox session as established. The mock store has no
// real authentication, so Connect always succeeds and is idempotent.
func (s *SQLiteStore) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	return nil
}

// Connected reports whether Connect has been called.
func (s *SQLiteStore) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}

// Add inserts a record into the given folder and returns it with the
// store-assigned ID. IDs are assigned monotonically at insertion.
func (s *SQLiteStore) Add(
	ctx context.Context,
	folder string,
	rec model.EmailRecord,
) (model.EmailRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO emails (folder, subject, sender, date, body, read)
		VALUES (?, ?, ?, ?, ?, ?)`,
		folder, rec.Subject, rec.Sender, rec.Date.UTC(),
		rec.Body, boolToInt(rec.Read),
	)
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("inserting email: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("reading inserted id: %w", err)
	}

	rec.ID = strconv.FormatInt(id, 10)
	return rec, nil
}

// List returns up to limit records from the named folder in insertion
// order. limit <= 0 yields an empty slice, not an error.
func (s *SQLiteStore) List(
	ctx context.Context,
	folder string,
	limit int,
) ([]model.EmailRecord, error) {
	if limit <= 0 {
		return []model.EmailRecord{}, nil
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, subject, sender, date, body, read
		FROM emails WHERE folder = ? ORDER BY id LIMIT ?`,
		folder, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing folder %q: %w", folder, err)
	}
	defer rows.Close()

	records := make([]model.EmailRecord, 0, limit)
	for rows.Next() {
		rec, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Search filters the folder listing by case-insensitive substring match
// against subject, body, and sender. A record matches if any of the three
// fields contains the query. Read flags are never touched.
func (s *SQLiteStore) Search(
	ctx context.Context,
	query, folder string,
	limit int,
) ([]model.EmailRecord, error) {
	records, err := s.List(ctx, folder, limit)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := make([]model.EmailRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Subject), q) ||
			strings.Contains(strings.ToLower(rec.Body), q) ||
			strings.Contains(strings.ToLower(rec.Sender), q) {
			results = append(results, rec)
		}
	}

	return results, nil
}

// Send records a message in the outbox and returns a receipt echoing the
// recipient and subject. Fails with NotConnectedError before Connect.
func (s *SQLiteStore) Send(
	ctx context.Context,
	to, subject, body string,
	cc, bcc []string,
) (*SendResult, error) {
	if !s.Connected() {
		return nil, &NotConnectedError{Op: "send"}
	}

	id := "msg_" + uuid.New().String()
	if err := s.insertOutgoing(ctx, "outbox", id, to, subject, body, cc, bcc); err != nil {
		return nil, err
	}

	return &SendResult{
		ID:      id,
		Message: fmt.Sprintf("Email sent to %s with subject %q", to, subject),
	}, nil
}

// CreateDraft records a server-side draft and returns a receipt. Fails
// with NotConnectedError before Connect.
func (s *SQLiteStore) CreateDraft(
	ctx context.Context,
	to, subject, body string,
	cc, bcc []string,
) (*SendResult, error) {
	if !s.Connected() {
		return nil, &NotConnectedError{Op: "createDraft"}
	}

	id := "draft_" + uuid.New().String()
	if err := s.insertOutgoing(ctx, "drafts", id, to, subject, body, cc, bcc); err != nil {
		return nil, err
	}

	return &SendResult{
		ID:      id,
		Message: fmt.Sprintf("Draft created for %s with subject %q", to, subject),
	}, nil
}

// insertOutgoing writes a row into the drafts or outbox table.
func (s *SQLiteStore) insertOutgoing(
	ctx context.Context,
	table, id, to, subject, body string,
	cc, bcc []string,
) error {
	ccJSON, err := json.Marshal(emptyIfNil(cc))
	if err != nil {
		return fmt.Errorf("marshaling cc: %w", err)
	}
	bccJSON, err := json.Marshal(emptyIfNil(bcc))
	if err != nil {
		return fmt.Errorf("marshaling bcc: %w", err)
	}

	var column string
	switch table {
	case "drafts":
		column = "created_at"
	default:
		column = "sent_at"
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, recipient, subject, body, cc, bcc, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, table, column)

	_, err = s.db.ExecContext(ctx, query,
		id, to, subject, body,
		string(ccJSON), string(bccJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}

	return nil
}

// scanEmail scans an email row from a sqlx.Rows result set.
func scanEmail(rows *sqlx.Rows) (model.EmailRecord, error) {
	var (
		rec     model.EmailRecord
		id      int64
		date    time.Time
		readInt int
	)

	err := rows.Scan(&id, &rec.Subject, &rec.Sender, &date, &rec.Body, &readInt)
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("scanning email row: %w", err)
	}

	rec.ID = strconv.FormatInt(id, 10)
	rec.Date = date
	rec.Read = readInt != 0

	return rec, nil
}

// emptyIfNil normalizes a nil slice to an empty one for JSON storage.
func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
