// Package store persists the client's records (user, usage stats, prompt
// history) in a key-value backend. Each record is one JSON document rewritten
// whole on every change; there is no schema versioning.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// fixed record keys
const (
	KeyUser       = "whb_user"
	KeyUsageStats = "whb_usage_stats"
	KeyHistory    = "whb_prompt_history"
)

// returned by Get when a key has never been written
var ErrNotFound = errors.New("store: key not found")

// key-value persistence used by the governor, ledger and account session
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// decodes the JSON document stored under key into v
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

// encodes v as JSON and stores it under key
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return s.Put(ctx, key, data)
}
