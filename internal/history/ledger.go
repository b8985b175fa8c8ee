// Package history keeps the list of generated prompts, newest first, and
// handles exporting and copying them.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/store"
	"github.com/google/uuid"
)

// Ledger is the in-memory prompt history backed by a store. Every mutation
// rewrites the whole list before returning.
type Ledger struct {
	store store.Store
	now   func() time.Time

	mu      sync.RWMutex
	entries []Entry
}

// loads the persisted history. an unreadable record is logged and treated
// as empty.
func Open(ctx context.Context, s store.Store) (*Ledger, error) {
	l := &Ledger{
		store: s,
		now:   time.Now,
	}

	var entries []Entry
	err := store.GetJSON(ctx, s, store.KeyHistory, &entries)

	switch {
	case err == nil:
		l.entries = entries
	case errors.Is(err, store.ErrNotFound):
	default:
		if !isDecodeError(err) {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}

		logger.Warn("failed to parse history, starting empty", "error", err)
	}

	return l, nil
}

// prepends an entry, filling in the id and timestamp when missing
func (l *Ledger) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if e.Timestamp == 0 {
		e.Timestamp = l.now().UnixMilli()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = slices.Insert(l.entries, 0, e)

	return e, l.persist(ctx)
}

// deletes the entry with id; unknown ids are not an error
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.entries)
	l.entries = slices.DeleteFunc(l.entries, func(e Entry) bool {
		return e.ID == id
	})

	if len(l.entries) == before {
		return nil
	}

	return l.persist(ctx)
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil

	return l.persist(ctx)
}

// returns a copy of the history, newest first
func (l *Ledger) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.entries)
}

func (l *Ledger) Get(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := slices.IndexFunc(l.entries, func(e Entry) bool {
		return e.ID == id
	})
	if i < 0 {
		return Entry{}, false
	}

	return l.entries[i], true
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}

// callers hold mu
func (l *Ledger) persist(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}

	if err := store.PutJSON(ctx, l.store, store.KeyHistory, entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	return nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
