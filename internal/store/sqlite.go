package store

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

const (
	sqliteSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`

	sqliteGet    = `SELECT value FROM kv_store WHERE key = ?`
	sqliteUpsert = `
	INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	sqliteDelete = `DELETE FROM kv_store WHERE key = ?`
)

// default local backend, a single-table SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// opens (or creates) the database file; ":memory:" gives an in-memory database
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close() //nolint:errcheck,gosec
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, sqliteGet, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("sqlite get %s: %w", key, err)
	}

	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := s.db.ExecContext(ctx, sqliteUpsert, key, value, now); err != nil {
		return fmt.Errorf("sqlite put %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, sqliteDelete, key); err != nil {
		return fmt.Errorf("sqlite delete %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
