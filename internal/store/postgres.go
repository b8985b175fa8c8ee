package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	queryCreateKVTable = `
		CREATE TABLE IF NOT EXISTS whb_kv (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	queryGetKV = `
		SELECT value FROM whb_kv WHERE key = $1
	`

	queryUpsertKV = `
		INSERT INTO whb_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	queryDeleteKV = `
		DELETE FROM whb_kv WHERE key = $1
	`
)

// keeps records in a postgres table
type PostgresStore struct {
	db *pgxpool.Pool
}

// connects to postgres and makes sure the table exists
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// a single client never needs more than a couple of connections
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// simple protocol keeps pooled deployments (pgbouncer) working
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(ctx, queryCreateKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRow(ctx, queryGetKV, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("database get %s: %w", key, err)
	}

	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.Exec(ctx, queryUpsertKV, key, value); err != nil {
		return fmt.Errorf("database put %s: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, queryDeleteKV, key); err != nil {
		return fmt.Errorf("database delete %s: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
