package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE voice_action AS ENUM ('Joined', 'Left', 'Moved'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS voice_history (
		id BIGSERIAL PRIMARY KEY,
		occurred_at TIMESTAMPTZ NOT NULL,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		action voice_action NOT NULL,
		from_channel_id TEXT,
		from_channel_name TEXT,
		to_channel_id TEXT,
		to_channel_name TEXT,
		stayed_seconds BIGINT CHECK (stayed_seconds >= 0),
		line TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_voice_history_member ON voice_history (member_id, id)`,
	`CREATE TABLE IF NOT EXISTS voice_totals (
		member_id TEXT PRIMARY KEY,
		total_seconds BIGINT NOT NULL DEFAULT 0 CHECK (total_seconds >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
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
