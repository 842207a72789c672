package domain

import "context"

// Database defines lifecycle operations for the underlying database and
// hands out the repositories it backs.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Accounts() AccountRepository
	KeyValues() KeyValueStore
}
