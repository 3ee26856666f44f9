package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := GetEnvOrDefault("POSTGRES_HOST", "localhost")
		port := GetEnvOrDefault("POSTGRES_PORT", "5432")
		user := GetEnvOrDefault("POSTGRES_USER", "pushrelay")
		password := GetEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := GetEnvOrDefault("POSTGRES_DB", "pushrelay")
		sslmode := GetEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Users table - one row per registered device. The UNIQUE constraint on
	// delivery_token makes concurrent first-time registration of the same
	// token converge on a single record.
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			user_id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			delivery_token TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_delivery_token ON users(delivery_token);`,
		`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC);`,
	}

	if _, err := pool.Exec(ctx, usersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// GetEnvOrDefault returns the environment variable value or a default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
