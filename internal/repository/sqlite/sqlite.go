package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and hands out the repositories built on it.
type DB struct {
	SqlDB *sql.DB

	accounts *AccountRepository
	kv       *KVStore
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys. Use ":memory:" for a throwaway
// database.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	// A single writer keeps SQLite free of "database is locked" errors and
	// keeps ":memory:" databases on one connection.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{SqlDB: sqlDB}
	db.accounts = &AccountRepository{db: sqlDB}
	db.kv = &KVStore{db: sqlDB}
	return db, nil
}

// Migrate applies any pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := migrations.Run(ctx, db.SqlDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Accounts returns the account repository.
func (db *DB) Accounts() domain.AccountRepository {
	return db.accounts
}

// KeyValues returns the key-value store backed by the kv_entries table.
func (db *DB) KeyValues() domain.KeyValueStore {
	return db.kv
}
