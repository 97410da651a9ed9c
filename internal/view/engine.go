// Package view compiles pivot, moving-window pivot, consecutive-difference
// and extreme-value specifications into SQL and submits them to a session.
//
// Each builder validates its spec, renders exactly one statement and issues
// it in a single round trip. Backend errors are returned unchanged; nothing
// here logs, retries or rolls back.
package view

import (
	"context"

	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// Engine submits compiled statements to a caller-owned session.
type Engine struct {
	session domain.Session
	dialect ddl.Dialect
}

// NewEngine creates an Engine issuing statements on session in dialect d.
func NewEngine(session domain.Session, d ddl.Dialect) *Engine {
	return &Engine{session: session, dialect: d}
}

// Dialect returns the dialect statements are rendered in.
func (e *Engine) Dialect() ddl.Dialect {
	return e.dialect
}

// PivotView creates the pivot view described by spec and returns its name.
func (e *Engine) PivotView(ctx context.Context, spec domain.PivotSpec) (string, error) {
	stmt, name, err := CompilePivot(e.dialect, spec)
	if err != nil {
		return "", err
	}
	if err := e.session.ExecContext(ctx, stmt); err != nil {
		return "", err
	}
	return name, nil
}

// MovingPivotView creates the moving-window pivot view described by spec and
// returns its name.
func (e *Engine) MovingPivotView(ctx context.Context, spec domain.MovingPivotSpec) (string, error) {
	stmt, name, err := CompileMovingPivot(e.dialect, spec)
	if err != nil {
		return "", err
	}
	if err := e.session.ExecContext(ctx, stmt); err != nil {
		return "", err
	}
	return name, nil
}

// DiffView creates the consecutive-difference view described by spec and
// returns its name.
func (e *Engine) DiffView(ctx context.Context, spec domain.DiffSpec) (string, error) {
	stmt, name, err := CompileDiff(e.dialect, spec)
	if err != nil {
		return "", err
	}
	if err := e.session.ExecContext(ctx, stmt); err != nil {
		return "", err
	}
	return name, nil
}

// ExtremeRows runs the extreme-value query described by spec.
func (e *Engine) ExtremeRows(ctx context.Context, spec domain.ExtremeQuerySpec) (*domain.ResultSet, error) {
	query, err := QueryExtreme(e.dialect, spec)
	if err != nil {
		return nil, err
	}
	return e.session.QueryContext(ctx, query)
}
