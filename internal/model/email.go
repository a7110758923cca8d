package model

import "time"

// Folder names used by the mock mailbox.
const (
	FolderInbox   = "inbox"
	FolderSent    = "sent"
	FolderArchive = "archive"
)

// EmailRecord is a single message held by the mailbox store. Records are
// immutable once created; the store is the sole owner and assigns IDs
// uniquely and monotonically at insertion time.
type EmailRecord struct {
	// ID is the store-assigned unique identifier.
	ID string `json:"id"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Sender is the originating email address.
	Sender string `json:"sender"`

	// Date is the calendar date the message was received.
	Date time.Time `json:"date"`

	// Body is the plain-text message body.
	Body string `json:"body"`

	// Read reports whether the message has been opened.
	Read bool `json:"read"`
}

// DraftEmail is a draft produced by the request interpreter. Ownership
// passes to the caller once returned; the engine retains no copy.
type DraftEmail struct {
	// Recipient is the target email address.
	Recipient string `json:"recipient"`

	// Subject is the draft subject line.
	Subject string `json:"subject"`

	// Body is the full rendered draft text.
	Body string `json:"body"`

	// CreatedAt is when the draft was generated.
	CreatedAt time.Time `json:"created_at"`
}
