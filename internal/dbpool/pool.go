// Package dbpool manages the PostgreSQL connection pool.
package dbpool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool tuning. The control plane serves a handful of admins, not end-user
// traffic, so the pool stays small and statements are capped server-side.
const (
	maxConns          = 20
	minConns          = 2
	connLifetime      = 30 * time.Minute
	connIdleTime      = 5 * time.Minute
	healthCheckPeriod = 30 * time.Second
	statementTimeout  = "30000" // ms
)

// Pool wraps pgxpool.Pool. The inner pool stays unexported so all queries go
// through the store layer and its timeouts.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool parses databaseURL, opens the pool, and verifies connectivity with
// a ping before returning.
func NewPool(ctx context.Context, databaseURL string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["statement_timeout"] = statementTimeout
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = connLifetime
	cfg.MaxConnIdleTime = connIdleTime
	cfg.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Query runs a query returning rows.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// QueryRow runs a query returning at most one row.
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Exec runs a statement that returns no rows.
func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// Begin opens a transaction.
func (p *Pool) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

// BeginTx opens a transaction with options.
func (p *Pool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) { //nolint:gocritic // matching pgxpool.Pool signature.
	return p.pool.BeginTx(ctx, txOptions)
}

// Ping checks that the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthCheck runs a trivial query, proving a connection can be checked out
// and used, which Ping alone does not.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var one int
	if err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	return nil
}

// ConnString reports the connection string the pool was built from. The
// migration runner uses it to open a database/sql handle.
func (p *Pool) ConnString() string {
	return p.pool.Config().ConnString()
}

// Close shuts the pool down.
func (p *Pool) Close() {
	p.pool.Close()
}
