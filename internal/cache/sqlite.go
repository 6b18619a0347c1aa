package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key       TEXT PRIMARY KEY,
	body      BLOB NOT NULL,
	stored_at INTEGER NOT NULL
)`

// SQLiteStore persists response bodies in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	config Config
	now    func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string, config Config) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// One connection, or concurrent writers see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db, config: config, now: time.Now}, nil
}

// Get returns the stored body for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	var storedAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT body, stored_at FROM responses WHERE key = ?", key,
	).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if s.config.expired(time.Unix(storedAt, 0), s.now()) {
		return nil, false, nil
	}
	return body, true, nil
}

// Put inserts or replaces the entry for key.
func (s *SQLiteStore) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (key, body, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`,
		key, body, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM responses"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats counts entries and their total body size.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM responses",
	).Scan(&st.Entries, &st.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
