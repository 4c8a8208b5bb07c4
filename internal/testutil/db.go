package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// schema mirrors migrations/0001_init.sql in SQLite dialect. Timestamp
// columns are declared DATETIME so the driver scans them into time.Time.
const schema = `
CREATE TABLE jobs (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	client_name       TEXT NOT NULL,
	amount            REAL NOT NULL,
	is_paid           BOOLEAN NOT NULL DEFAULT FALSE,
	payment_date      TEXT,
	payment_reference TEXT,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE TABLE daily_progress (
	id         TEXT PRIMARY KEY,
	job_id     TEXT NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE (job_id, date)
);

CREATE TABLE client_rollups (
	client_name  TEXT PRIMARY KEY,
	job_count    INTEGER NOT NULL,
	total_amount REAL NOT NULL,
	paid_amount  REAL NOT NULL,
	updated_at   DATETIME NOT NULL
);
`

// NewDB creates an in-memory SQLite database with the application schema
// applied. It is closed automatically when the test completes.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	// a single connection keeps every statement on the same in-memory db
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying test schema: %v", err)
	}

	return db
}
