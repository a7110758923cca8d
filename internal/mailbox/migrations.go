package mailbox

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	folder  TEXT NOT NULL DEFAULT 'inbox',
	subject TEXT NOT NULL DEFAULT '',
	sender  TEXT NOT NULL DEFAULT '',
	date    DATETIME NOT NULL,
	body    TEXT NOT NULL DEFAULT '',
	read    INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1))
);

CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	cc         TEXT NOT NULL DEFAULT '[]',
	bcc        TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS outbox (
	id         TEXT PRIMARY KEY,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	cc         TEXT NOT NULL DEFAULT '[]',
	bcc        TEXT NOT NULL DEFAULT '[]',
	sent_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_emails_folder ON emails(folder);
CREATE INDEX IF NOT EXISTS idx_emails_date ON emails(date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
