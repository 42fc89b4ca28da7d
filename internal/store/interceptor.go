package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reporting_db_query_duration_seconds",
		Help:    "Duration of reporting database statements by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	queryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_db_query_errors_total",
		Help: "Reporting database statements that failed, by operation.",
	}, []string{"op"})
)

// QueryInterceptor is the subset of *sql.DB the stores use.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryInterceptor struct {
	db      *sql.DB
	logger  *zap.SugaredLogger
	timeout time.Duration
}

func newQueryInterceptor(db *sql.DB, timeout time.Duration) *queryInterceptor {
	return &queryInterceptor{
		db:      db,
		logger:  zap.S().Named("store"),
		timeout: timeout,
	}
}

// withDeadline bounds a single statement. A deadline already on ctx that is
// shorter than the statement timeout wins.
func (q *queryInterceptor) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, q.timeout)
}

// observe records the statement duration and returns a func that marks failure.
func (q *queryInterceptor) observe(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			queryErrors.WithLabelValues(op).Inc()
			q.logger.Errorw("query failed", "op", op, "error", err, "duration", time.Since(start))
		}
	}
}

func (q *queryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	q.logger.Debugw("query_row", "query", query, "args", args)
	return q.db.QueryRowContext(ctx, query, args...)
}

func (q *queryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q.logger.Debugw("query", "query", query, "args", args)
	return q.db.QueryContext(ctx, query, args...)
}

func (q *queryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q.logger.Debugw("exec", "query", query, "args", args)
	return q.db.ExecContext(ctx, query, args...)
}
