package domain

import "context"

// Keys persisted in the local key-value store.
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
	KeyTheme     = "theme"
)

// KeyValueStore is the local persistence facility used to survive restarts.
// Get reports whether the key was present.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
