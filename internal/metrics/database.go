package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PostgreSQL metrics. Only the postgres storage backend reports these.
var (
	// DBPoolConnections reports pool connections by state (total|acquired|idle|max)
	DBPoolConnections = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_connections",
			Help:      "PostgreSQL pool connections by state",
		},
		[]string{"state"},
	)

	// DBQueryDuration records query latency by statement kind
	DBQueryDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"statement"},
	)

	// DBErrors counts failed queries by statement kind and error class
	DBErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_errors_total",
			Help:      "Total number of database errors",
		},
		[]string{"statement", "error_type"},
	)
)

// DBCollector samples pool statistics on an interval.
type DBCollector struct {
	pool     *pgxpool.Pool
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewDBCollector(pool *pgxpool.Pool) *DBCollector {
	return &DBCollector{
		pool:     pool,
		stopChan: make(chan struct{}),
	}
}

// Start samples immediately and then every interval until Stop is called or
// ctx is done.
func (c *DBCollector) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop is safe to call more than once.
func (c *DBCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *DBCollector) collect() {
	if c.pool == nil {
		return
	}
	stat := c.pool.Stat()
	DBPoolConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
	DBPoolConnections.WithLabelValues("acquired").Set(float64(stat.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stat.MaxConns()))
}

// QueryTracer is a pgx.QueryTracer that records every query's duration and
// failures. Install it on pgxpool.Config.ConnConfig.Tracer.
type QueryTracer struct{}

var _ pgx.QueryTracer = QueryTracer{}

type queryStartKey struct{}

type queryStart struct {
	statement string
	at        time.Time
}

func (QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{statement: StatementKind(data.SQL), at: time.Now()})
}

func (QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	RecordQuery(start.statement, start.at, data.Err)
}

// StatementKind reduces SQL to its leading keyword so label cardinality stays
// bounded.
func StatementKind(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	switch kind := strings.ToLower(fields[0]); kind {
	case "select", "insert", "update", "delete", "with", "begin", "commit", "rollback":
		return kind
	default:
		return "other"
	}
}

// RecordQuery records one query. pgx.ErrNoRows is a normal outcome, not an error.
func RecordQuery(statement string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(statement).Observe(time.Since(start).Seconds())
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return
	}
	DBErrors.WithLabelValues(statement, classifyDBError(err)).Inc()
}

func classifyDBError(err error) string {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &pgErr) && len(pgErr.Code) >= 2:
		// SQLSTATE class, e.g. 23 for integrity violations.
		return "sqlstate_" + pgErr.Code[:2]
	default:
		return "query_error"
	}
}
