package store

const (
	// local_session is a single-row table: the cached credentials and session
	// of the last run, so the client can resume a conversation after restart.
	createLocalSessionTable = `
		CREATE TABLE IF NOT EXISTS local_session (
			id            INTEGER PRIMARY KEY CHECK (id = 1),
			session_id    TEXT NOT NULL DEFAULT '',
			access_token  TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			saved_at      TIMESTAMP NOT NULL
		);`

	createQuoteCacheTable = `
		CREATE TABLE IF NOT EXISTS quote_cache (
			id            INTEGER PRIMARY KEY,
			number        TEXT NOT NULL,
			session_id    TEXT NOT NULL DEFAULT '',
			customer_name TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			lines         TEXT NOT NULL DEFAULT '[]',
			total_cents   INTEGER NOT NULL DEFAULT 0,
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL
		);`
)
