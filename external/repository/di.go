package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/koebako/internal/config"
	"github.com/foxseedlab/koebako/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Backend, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()
		return NewBackend(ctx, cfg)
	})
}

func NewBackend(ctx context.Context, cfg *config.Config) (repository.Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		return newPostgresBackend(ctx, cfg.DatabaseURL)
	case config.StorageBackendSQLite:
		b, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return b, nil
	case config.StorageBackendFile:
		return NewFileBackend(cfg.HistoryFile, cfg.TotalsFile), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

func newPostgresBackend(ctx context.Context, databaseURL string) (repository.Backend, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigration(ctx, p); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return NewPostgresBackend(p), nil
}
