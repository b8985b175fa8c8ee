package account

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/whbprompts/server/internal/store"
)

// ErrNoSession means nobody is signed in
var ErrNoSession = errors.New("no signed-in user")

// persists the signed-in user under the user key
type Sessions struct {
	store store.Store
}

func NewSessions(s store.Store) *Sessions {
	return &Sessions{store: s}
}

// returns the saved user or ErrNoSession
func (s *Sessions) Load(ctx context.Context) (User, error) {
	var u User

	err := store.GetJSON(ctx, s.store, store.KeyUser, &u)
	if errors.Is(err, store.ErrNotFound) {
		return User{}, ErrNoSession
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}

	if u.ID == "" {
		return User{}, ErrNoSession
	}

	return u, nil
}

func (s *Sessions) Save(ctx context.Context, u User) error {
	if err := store.PutJSON(ctx, s.store, store.KeyUser, u); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// removes the saved user; usage and history records stay
func (s *Sessions) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.KeyUser); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	return nil
}
