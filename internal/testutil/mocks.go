// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"

	"viewgen/internal/domain"
)

// === Session Mock ===

// MockSession implements domain.Session for testing. Statements passed to
// ExecContext and QueryContext are recorded in order.
type MockSession struct {
	ExecFn  func(ctx context.Context, query string) error
	QueryFn func(ctx context.Context, query string) (*domain.ResultSet, error)
	Execs   []string
	Queries []string
}

// ExecContext implements the interface method for testing.
func (m *MockSession) ExecContext(ctx context.Context, query string) error {
	m.Execs = append(m.Execs, query)
	if m.ExecFn != nil {
		return m.ExecFn(ctx, query)
	}
	return nil
}

// QueryContext implements the interface method for testing.
func (m *MockSession) QueryContext(ctx context.Context, query string) (*domain.ResultSet, error) {
	m.Queries = append(m.Queries, query)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, query)
	}
	panic("unexpected call to MockSession.QueryContext")
}

// LastExec returns the last executed statement, or "" if none.
func (m *MockSession) LastExec() string {
	if len(m.Execs) == 0 {
		return ""
	}
	return m.Execs[len(m.Execs)-1]
}
