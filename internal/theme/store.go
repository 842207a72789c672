// Package theme holds the light/dark preference and persists every change.
package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/msomdec/shopfront/internal/domain"
)

// Store holds the current theme.
type Store struct {
	kv      domain.KeyValueStore
	logger  *slog.Logger
	applier func(domain.Theme)

	mu      sync.RWMutex
	current domain.Theme
}

// Option configures a Store.
type Option func(*Store)

// WithApplier registers fn to run with the new theme after every change
// and once at construction.
func WithApplier(fn func(domain.Theme)) Option {
	return func(s *Store) {
		s.applier = fn
	}
}

// New reads the stored theme from kv. A missing, unreadable or unknown
// value yields light.
func New(ctx context.Context, kv domain.KeyValueStore, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger, current: domain.ThemeLight}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := kv.Get(ctx, domain.KeyTheme)
	switch {
	case err != nil:
		logger.Warn("read stored theme", "error", err)
	case ok:
		if t, err := domain.ParseTheme(raw); err == nil {
			s.current = t
		} else {
			logger.Warn("ignoring stored theme", "value", raw)
		}
	}

	s.apply(s.current)
	return s
}

// Current returns the active theme.
func (s *Store) Current() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set makes t the active theme and persists it. Values other than light
// and dark are rejected with domain.ErrInvalidInput.
func (s *Store) Set(ctx context.Context, t domain.Theme) error {
	if _, err := domain.ParseTheme(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()

	s.persist(ctx, t)
	return nil
}

// Toggle flips between light and dark and returns the new theme.
func (s *Store) Toggle(ctx context.Context) domain.Theme {
	s.mu.Lock()
	next := s.current.Opposite()
	s.current = next
	s.mu.Unlock()

	s.persist(ctx, next)
	return next
}

func (s *Store) persist(ctx context.Context, t domain.Theme) {
	if err := s.kv.Set(ctx, domain.KeyTheme, string(t)); err != nil {
		s.logger.Error("failed to store theme", "theme", t, "error", err)
	}
	s.apply(t)
}

func (s *Store) apply(t domain.Theme) {
	if s.applier != nil {
		s.applier(t)
	}
}
