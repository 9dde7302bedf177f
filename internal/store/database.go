package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database represents the PostgreSQL connection holding analysis history.
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase opens a database connection and verifies it.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// Bootstrap creates the history tables when they do not exist yet. The schema
// is small enough to live in the binary instead of migration files.
func (db *Database) Bootstrap() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS player_analyses (
			id BIGSERIAL PRIMARY KEY,
			requested_by TEXT NOT NULL DEFAULT '',
			player_name TEXT NOT NULL,
			combination TEXT NOT NULL,
			threshold DOUBLE PRECISION NOT NULL,
			season TEXT NOT NULL,
			result JSONB NOT NULL,
			risk_label TEXT NOT NULL,
			confidence INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_player_analyses_player
			ON player_analyses (player_name, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS matchup_analyses (
			id BIGSERIAL PRIMARY KEY,
			requested_by TEXT NOT NULL DEFAULT '',
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			model TEXT NOT NULL,
			threshold DOUBLE PRECISION,
			season TEXT NOT NULL,
			result JSONB NOT NULL,
			decision TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matchup_analyses_teams
			ON matchup_analyses (home_team, away_team, created_at DESC)`,
	}

	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return nil
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
