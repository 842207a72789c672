// Package session holds who is signed in on this client.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/msomdec/shopfront/internal/domain"
)

// Store is the single source of truth for the current user and token.
// In-memory state is authoritative; writes to the key-value store are best
// effort and a failure there is logged, never returned.
type Store struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	// writeMu is held across a memory update and its persistence, so the
	// last writer in memory is also the last writer in kv.
	writeMu sync.Mutex

	mu    sync.RWMutex
	user  *domain.User
	token string
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	User  *domain.User
	Token string
}

// New creates a Store and rehydrates it from kv. An unreadable store or a
// corrupt profile entry yields a partial or empty session, never an error.
func New(ctx context.Context, kv domain.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	token, ok, err := s.kv.Get(ctx, domain.KeyAuthToken)
	if err != nil {
		s.logger.Warn("read stored token", "error", err)
		return
	}
	if !ok || token == "" {
		return
	}
	s.token = token

	raw, ok, err := s.kv.Get(ctx, domain.KeyUser)
	if err != nil {
		s.logger.Warn("read stored user", "error", err)
		return
	}
	if !ok {
		return
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("decode stored user", "error", err)
		return
	}
	s.user = &user
}

// Set replaces the session with user and token and persists both. An
// empty token clears the session.
func (s *Store) Set(ctx context.Context, user domain.User, token string) {
	if token == "" {
		s.Clear(ctx)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	s.persist(ctx, user, token)
}

func (s *Store) persist(ctx context.Context, user domain.User, token string) {
	if err := s.kv.Set(ctx, domain.KeyAuthToken, token); err != nil {
		s.logger.Error("failed to store user data", "key", domain.KeyAuthToken, "error", err)
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("failed to store user data", "key", domain.KeyUser, "error", err)
		return
	}
	if err := s.kv.Set(ctx, domain.KeyUser, string(raw)); err != nil {
		s.logger.Error("failed to store user data", "key", domain.KeyUser, "error", err)
	}
}

// SetUser replaces the profile while keeping the current token.
// It is a no-op when there is no token.
func (s *Store) SetUser(ctx context.Context, user domain.User) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	token := s.token
	if token == "" {
		s.mu.Unlock()
		return
	}
	s.user = &user
	s.mu.Unlock()

	s.persist(ctx, user, token)
}

// Clear drops the session from memory and from the key-value store.
func (s *Store) Clear(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	for _, key := range []string{domain.KeyAuthToken, domain.KeyUser} {
		if err := s.kv.Remove(ctx, key); err != nil {
			s.logger.Error("failed to clear user data", "key", key, "error", err)
		}
	}
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// NeedsProfile reports a token without a user, which happens after a
// restart when the stored profile was missing or unreadable.
func (s *Store) NeedsProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user == nil
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current token, or "". It satisfies apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns user and token read together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}
