// Package engine connects the view engine to database/sql backends: it opens
// SQLite and DuckDB databases and adapts them to domain.Session.
package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"viewgen/internal/domain"
)

// Compile-time check.
var _ domain.Session = (*SQLSession)(nil)

// conn is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLSession adapts a database/sql handle to domain.Session. Every statement
// is logged at debug level with a statement id; errors are returned as the
// driver reported them.
type SQLSession struct {
	conn   conn
	logger *slog.Logger
}

// NewSQLSession wraps c. A nil logger discards statement logs.
func NewSQLSession(c conn, logger *slog.Logger) *SQLSession {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLSession{conn: c, logger: logger}
}

// ExecContext executes a statement that returns no rows.
func (s *SQLSession) ExecContext(ctx context.Context, query string) error {
	id := domain.NewID()
	start := time.Now()
	_, err := s.conn.ExecContext(ctx, query)
	s.log(ctx, "exec", id, query, start, err)
	return err
}

// QueryContext runs a query and materializes its rows.
func (s *SQLSession) QueryContext(ctx context.Context, query string) (*domain.ResultSet, error) {
	id := domain.NewID()
	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		s.log(ctx, "query", id, query, start, err)
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	rs, err := ScanRows(rows)
	s.log(ctx, "query", id, query, start, err)
	return rs, err
}

func (s *SQLSession) log(ctx context.Context, op, id, query string, start time.Time, err error) {
	attrs := []any{
		"stmt_id", id,
		"duration", time.Since(start),
		"sql", query,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.DebugContext(ctx, op, attrs...)
}
