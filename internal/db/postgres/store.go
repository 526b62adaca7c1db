// Package postgres connects to the relational index through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/bbcarchdev/patchwork/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// SchemaIdent names the schema whose version the index was written with.
const SchemaIdent = "com.github.bbcarchdev.spindle.twine"

// Config holds connection parameters.
type Config struct {
	DSN          string
	MaxOpenConns int
}

// Store implements db.Store over database/sql.
type Store struct {
	*sql.DB
}

// NewStore opens a connection pool. It does not contact the server; use
// WaitForReady or Ping for that.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return Wrap(conn), nil
}

// Wrap adopts an existing pool, for tests with sqlmock.
func Wrap(conn *sql.DB) *Store {
	return &Store{DB: conn}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	_ = s.DB.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// SchemaVersion reads the version recorded for ident. A database without
// the version table row reports 0.
func (s *Store) SchemaVersion(ctx context.Context, ident string) (int, error) {
	var v int
	err := s.DB.QueryRowContext(ctx, `SELECT "version" FROM "_version" WHERE "ident" = $1`, ident).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, &db.Error{Op: db.OpVersion, Err: err}
	}
	return v, nil
}
