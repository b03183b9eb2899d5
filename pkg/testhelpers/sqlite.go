package testhelpers

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeFormat is how fixture timestamps are stored (SQLite TEXT affinity).
const sqliteTimeFormat = "2006-01-02 15:04:05"

// NewSQLiteFixture creates a temporary SQLite database seeded with the
// standard profiling fixture and returns its file path. Timestamps are
// written relative to now so freshness assertions land in known buckets.
func NewSQLiteFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite fixture: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	ts := func(age time.Duration) string {
		return now.Add(-age).Format(sqliteTimeFormat)
	}

	stmts := []string{
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			email TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER REFERENCES customers(id),
			status TEXT,
			amount REAL,
			created_at TEXT
		)`,
		fmt.Sprintf(`INSERT INTO customers (id, email, created_at) VALUES
			(1, 'ana@example.com', '%s'),
			(2, 'bob@example.com', '%s'),
			(3, NULL, '%s')`,
			ts(1*time.Hour), ts(48*time.Hour), ts(72*time.Hour)),
		fmt.Sprintf(`INSERT INTO orders (id, customer_id, status, amount, created_at) VALUES
			(1, 1, 'shipped',  10.0, '%s'),
			(2, 1, 'pending',  20.0, '%s'),
			(3, 2, 'shipped',  30.0, '%s'),
			(4, 2, NULL,       40.0, '%s'),
			(5, 3, 'returned', NULL, '%s')`,
			ts(30*time.Minute), ts(24*time.Hour), ts(48*time.Hour), ts(72*time.Hour), ts(96*time.Hour)),
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed sqlite fixture: %v", err)
		}
	}

	return path
}

// NewEmptySQLite creates a temporary SQLite database with the fixture schema
// but no rows, for empty-table edge cases.
func NewEmptySQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite fixture: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			status TEXT,
			amount REAL,
			created_at TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed sqlite fixture: %v", err)
		}
	}

	return path
}
