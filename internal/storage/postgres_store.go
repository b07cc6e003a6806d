package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by the postgres store
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type postgresStore struct {
	db DB
}

// NewPostgresStore creates a Store backed by the client_storage table
func NewPostgresStore(db DB) Store {
	return &postgresStore{db: db}
}

// Load retrieves the value stored under key
func (s *postgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	sql := `SELECT value FROM client_storage WHERE key = $1`
	err := s.db.QueryRow(ctx, sql, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

// Save inserts or replaces the value stored under key
func (s *postgresStore) Save(ctx context.Context, key string, data []byte) error {
	sql := `INSERT INTO client_storage (key, value, updated_at)
            VALUES ($1, $2, NOW())
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.Exec(ctx, sql, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes key; zero affected rows is fine
func (s *postgresStore) Delete(ctx context.Context, key string) error {
	sql := `DELETE FROM client_storage WHERE key = $1`
	if _, err := s.db.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
