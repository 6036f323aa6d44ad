package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/Togather-Foundation/glee/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ storage.Repository = (*Repository)(nil)

// Repository implements storage.Repository with PostgreSQL.
type Repository struct {
	conn
}

// NewPool opens a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = metrics.QueryTracer{}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{conn: conn{pool: pool}}, nil
}

// Pool exposes the underlying pool for the job queue and pool metrics.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{conn: r.conn}
}

func (r *Repository) Meetings() meetings.Repository {
	return &MeetingRepository{conn: r.conn}
}

func (r *Repository) Tasks() tasks.Repository {
	return &TaskRepository{conn: r.conn}
}

func (r *Repository) Staff() staff.Repository {
	return &StaffRepository{conn: r.conn}
}

func (r *Repository) Notifications() notifications.Repository {
	return &NotificationRepository{conn: r.conn}
}

func (r *Repository) Expenses() expenses.Repository {
	return &ExpenseRepository{conn: r.conn}
}

func (r *Repository) Templates() templates.Repository {
	return &TemplateRepository{conn: r.conn}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{conn: conn{pool: r.pool, tx: tx}}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the pool. Closing a transaction-bound repository is a no-op.
func (r *Repository) Close() error {
	if r.tx == nil {
		r.pool.Close()
	}
	return nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// conn routes queries to the active transaction when there is one.
type conn struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (c conn) queryer() queryer {
	if c.tx != nil {
		return c.tx
	}
	return c.pool
}

// beginner returns the pool, or the open transaction so nested work runs in a
// savepoint.
func (c conn) beginner() beginner {
	if c.tx != nil {
		return c.tx
	}
	return c.pool
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
