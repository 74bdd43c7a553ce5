// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// EnsureSchema creates the application tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS interviews (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			level TEXT NOT NULL,
			type TEXT NOT NULL,
			techstack JSONB NOT NULL DEFAULT '[]'::jsonb,
			questions JSONB NOT NULL DEFAULT '[]'::jsonb,
			finalized BOOLEAN NOT NULL DEFAULT FALSE,
			cover_image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_user_created ON interviews(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_finalized_created ON interviews(finalized, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			interview_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			total_score INTEGER NOT NULL,
			category_scores JSONB NOT NULL DEFAULT '[]'::jsonb,
			strengths JSONB NOT NULL DEFAULT '[]'::jsonb,
			areas_for_improvement JSONB NOT NULL DEFAULT '[]'::jsonb,
			final_assessment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_interview_user ON feedback(interview_id, user_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
