package mailbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/inbox-assistant/internal/model"
)

// NotConnectedError indicates a mutating mailbox operation was attempted
// before Connect succeeded. Listing and searching never require a
// connection; only Send and CreateDraft do.
type NotConnectedError struct {
	Op string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("mailbox: %s requires a connection; call Connect first", e.Op)
}

// IsNotConnected reports whether err (or any error in its chain) is a
// NotConnectedError.
func IsNotConnected(err error) bool {
	var ncErr *NotConnectedError
	return errors.As(err, &ncErr)
}

// SendResult is the receipt returned by Send and CreateDraft, echoing the
// recipient and subject back to the caller.
type SendResult struct {
	ID      string
	Message string
}

// Store defines the mailbox contract the request interpreter depends on.
// List and Search are read-only and never touch a record's read flag.
type Store interface {
	// Connect establishes the (mock) mailbox session. Idempotent.
	Connect(ctx context.Context) error

	// List returns up to limit records from the named folder in stable
	// seed order. limit <= 0 yields an empty slice.
	List(ctx context.Context, folder string, limit int) ([]model.EmailRecord, error)

	// Search returns records from folder whose subject, body, or sender
	// contains query (case-insensitive), preserving list order and
	// truncated to limit.
	Search(ctx context.Context, query, folder string, limit int) ([]model.EmailRecord, error)

	// Send delivers a message. Fails with NotConnectedError before Connect.
	Send(ctx context.Context, to, subject, body string, cc, bcc []string) (*SendResult, error)

	// CreateDraft stores a server-side draft. Fails with NotConnectedError
	// before Connect.
	CreateDraft(ctx context.Context, to, subject, body string, cc, bcc []string) (*SendResult, error)
}
