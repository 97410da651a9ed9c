package domain

import "context"

// Executor runs a single statement that returns no rows.
type Executor interface {
	ExecContext(ctx context.Context, query string) error
}

// ResultSet is a fully materialized query result.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Querier runs a single statement and returns its rows.
type Querier interface {
	QueryContext(ctx context.Context, query string) (*ResultSet, error)
}

// Session is a backend session able to both execute and query. The engine
// only issues statements on it; opening and closing belong to the caller.
type Session interface {
	Executor
	Querier
}
