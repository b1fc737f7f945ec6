package kv

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BYTEA NOT NULL
);
`

// OpenPostgres opens a PostgreSQL connection for the given DSN and
// bootstraps the kv schema.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// PostgresStore implements Store on top of a single kv table.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresStore creates a PostgresStore using the provided *sql.DB.
// db must be a valid connection with the kv schema in place.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Get fetches the value stored under key.
func (s *PostgresStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.QueryRow(`
		SELECT value FROM kv WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *PostgresStore) Set(key string, value []byte) error {
	_, err := s.DB.Exec(`
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("Set %s: %w", key, err)
	}
	return nil
}

// Delete removes the row for key if present.
func (s *PostgresStore) Delete(key string) error {
	_, err := s.DB.Exec(`DELETE FROM kv WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("Delete %s: %w", key, err)
	}
	return nil
}
