package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foxseedlab/koebako/internal/repository"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS voice_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		occurred_at TEXT NOT NULL,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL CHECK (action IN ('Joined', 'Left', 'Moved')),
		from_channel_id TEXT,
		from_channel_name TEXT,
		to_channel_id TEXT,
		to_channel_name TEXT,
		stayed_seconds INTEGER CHECK (stayed_seconds >= 0),
		line TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_voice_history_member ON voice_history (member_id, id)`,
	`CREATE TABLE IF NOT EXISTS voice_totals (
		member_id TEXT PRIMARY KEY,
		total_seconds INTEGER NOT NULL DEFAULT 0 CHECK (total_seconds >= 0)
	)`,
}

type SQLiteBackend struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps commits serialized.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return &SQLiteBackend{db: db}, nil
}

func (r *SQLiteBackend) Load(ctx context.Context) (repository.Snapshot, error) {
	snap := repository.Snapshot{Totals: make(map[repository.MemberID]int64)}
	var malformed []error

	rows, err := r.db.QueryContext(ctx,
		`SELECT occurred_at, member_id, member_name, action,
		        from_channel_id, from_channel_name, to_channel_id, to_channel_name,
		        stayed_seconds, line
		 FROM voice_history ORDER BY id ASC`)
	if err != nil {
		return repository.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var row historyRow
		var occurredAt string
		if err := rows.Scan(&occurredAt, &row.MemberID, &row.MemberName, &row.Action,
			&row.FromChannelID, &row.FromName, &row.ToChannelID, &row.ToName,
			&row.StayedSeconds, &row.Line); err != nil {
			return repository.Snapshot{}, err
		}
		parsed, parseErr := time.Parse(time.RFC3339Nano, occurredAt)
		if parseErr != nil {
			malformed = append(malformed, fmt.Errorf("parse occurred_at %q: %w: %v", occurredAt, repository.ErrMalformedData, parseErr))
		}
		row.OccurredAt = parsed
		snap.History = append(snap.History, row.entry())
	}
	if err := rows.Err(); err != nil {
		return repository.Snapshot{}, err
	}

	totals, err := r.db.QueryContext(ctx, `SELECT member_id, total_seconds FROM voice_totals`)
	if err != nil {
		return repository.Snapshot{}, err
	}
	defer totals.Close()
	for totals.Next() {
		var memberID string
		var total int64
		if err := totals.Scan(&memberID, &total); err != nil {
			return repository.Snapshot{}, err
		}
		snap.Totals[repository.MemberID(memberID)] = total
	}
	if err := totals.Err(); err != nil {
		return repository.Snapshot{}, err
	}
	return snap, errors.Join(malformed...)
}

func (r *SQLiteBackend) Persist(ctx context.Context, c repository.Commit) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range c.Entries {
		row := toHistoryRow(e)
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO voice_history (occurred_at, member_id, member_name, action,
			        from_channel_id, from_channel_name, to_channel_id, to_channel_name,
			        stayed_seconds, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.OccurredAt.Format(time.RFC3339Nano), row.MemberID, row.MemberName, row.Action,
			row.FromChannelID, row.FromName, row.ToChannelID, row.ToName,
			row.StayedSeconds, row.Line); err != nil {
			return fmt.Errorf("insert voice history: %w", err)
		}
	}
	for memberID, total := range c.Totals {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO voice_totals (member_id, total_seconds) VALUES (?, ?)
			 ON CONFLICT (member_id) DO UPDATE SET total_seconds = excluded.total_seconds`,
			string(memberID), total); err != nil {
			return fmt.Errorf("upsert voice total: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteBackend) Close() error {
	return r.db.Close()
}
