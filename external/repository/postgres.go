package repository

import (
	"context"
	"fmt"

	"github.com/foxseedlab/koebako/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

func (r *PostgresBackend) Load(ctx context.Context) (repository.Snapshot, error) {
	snap := repository.Snapshot{Totals: make(map[repository.MemberID]int64)}

	rows, err := r.pool.Query(ctx,
		`SELECT occurred_at, member_id, member_name, action::text,
		        from_channel_id, from_channel_name, to_channel_id, to_channel_name,
		        stayed_seconds, line
		 FROM voice_history ORDER BY id ASC`)
	if err != nil {
		return repository.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var row historyRow
		if err := rows.Scan(&row.OccurredAt, &row.MemberID, &row.MemberName, &row.Action,
			&row.FromChannelID, &row.FromName, &row.ToChannelID, &row.ToName,
			&row.StayedSeconds, &row.Line); err != nil {
			return repository.Snapshot{}, err
		}
		snap.History = append(snap.History, row.entry())
	}
	if err := rows.Err(); err != nil {
		return repository.Snapshot{}, err
	}

	totals, err := r.pool.Query(ctx, `SELECT member_id, total_seconds FROM voice_totals`)
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
	return snap, totals.Err()
}

func (r *PostgresBackend) Persist(ctx context.Context, c repository.Commit) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range c.Entries {
			row := toHistoryRow(e)
			batch.Queue(
				`INSERT INTO voice_history (occurred_at, member_id, member_name, action,
				        from_channel_id, from_channel_name, to_channel_id, to_channel_name,
				        stayed_seconds, line)
				 VALUES ($1, $2, $3, $4::voice_action, $5, $6, $7, $8, $9, $10)`,
				row.OccurredAt, row.MemberID, row.MemberName, row.Action,
				row.FromChannelID, row.FromName, row.ToChannelID, row.ToName,
				row.StayedSeconds, row.Line)
		}
		for memberID, total := range c.Totals {
			batch.Queue(
				`INSERT INTO voice_totals (member_id, total_seconds, updated_at)
				 VALUES ($1, $2, NOW())
				 ON CONFLICT (member_id) DO UPDATE SET total_seconds = EXCLUDED.total_seconds, updated_at = NOW()`,
				string(memberID), total)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("persist voice commit: %w", err)
		}
		return nil
	})
}

func (r *PostgresBackend) Close() error {
	r.pool.Close()
	return nil
}
