package config

import (
	"context"
	"fmt"
	"time"

	"santri_portal/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN builds the connection string from the DB_* settings
func (c DBConfig) DSN() (string, error) {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name), nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool

	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", maxRetries).
			Dur("retry_in", retryInterval).
			Msg("failed to connect to database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// AutoMigrate creates the client storage table if it doesn't exist
func AutoMigrate(ctx context.Context, db storage.DB) error {
	sql := `
	CREATE TABLE IF NOT EXISTS client_storage (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Info().Msg("AutoMigrate applied successfully")
	return nil
}
