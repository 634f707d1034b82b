package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS versions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		user_notes TEXT NOT NULL DEFAULT '',
		ai_notes TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		position BIGSERIAL NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_versions_position ON versions (position)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
