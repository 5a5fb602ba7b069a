package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore persists settings in the relational database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a store backed by database/sql.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	if db == nil {
		panic("settings: db required")
	}
	return &PostgresStore{db: db}
}

// Get returns the stored value, or "" when the key is unknown.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("settings: get %q: %w", key, err)
	}
	return value, nil
}

// Set stores or replaces a value.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("settings: set %q: %w", key, err)
	}
	return nil
}

// SeedDefaults inserts missing default keys only.
func (s *PostgresStore) SeedDefaults(ctx context.Context) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`
	for key, value := range Defaults {
		if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("settings: seed %q: %w", key, err)
		}
	}
	return nil
}

// Ensure interface compliance
var _ Store = (*PostgresStore)(nil)
