// Package backend opens the storage implementation selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/storage"
	"github.com/Togather-Foundation/glee/internal/storage/firestore"
	"github.com/Togather-Foundation/glee/internal/storage/postgres"
	"github.com/Togather-Foundation/glee/internal/storage/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Backend is an opened repository plus the PostgreSQL pool when the
// postgres backend is in use. Pool is nil otherwise; the job queue and
// pool metrics are only available with it.
type Backend struct {
	Repo storage.Repository
	Pool *pgxpool.Pool
	Name string
}

func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConnections)
		if err != nil {
			return nil, err
		}
		repo, err := postgres.NewRepository(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Int32("max_conns", pool.Config().MaxConns).Msg("storage opened")
		return &Backend{Repo: repo, Pool: pool, Name: cfg.Backend}, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Str("path", cfg.SQLitePath).Msg("storage opened")
		return &Backend{Repo: store, Name: cfg.Backend}, nil
	case config.BackendFirestore:
		store, err := firestore.Open(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", cfg.Backend).Str("project", cfg.FirestoreProjectID).Msg("storage opened")
		return &Backend{Repo: store, Name: cfg.Backend}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

func (b *Backend) Close() error {
	return b.Repo.Close()
}
