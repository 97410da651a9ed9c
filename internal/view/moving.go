package view

import (
	"strconv"
	"strings"

	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// Fixed names inside the moving pivot statement.
const (
	movingWindowName = "pivot_window"
	movingInnerName  = "pivot_ungrouped"
	countFunc        = "COUNT"
	countSuffix      = "cnt"
)

// CompileMovingPivot renders the moving-window pivot view for spec.
//
// The inner query computes, per (pivot value, value column) pair, the
// filtered aggregate and the filtered COUNT over a RANGE frame on the window
// column. The outer query keeps only rows where every count reaches
// MinSupportCount. Rows sharing a window column value are peers of the same
// RANGE frame and so carry identical cells; SELECT DISTINCT collapses them.
func CompileMovingPivot(d ddl.Dialect, spec domain.MovingPivotSpec) (stmt, viewName string, err error) {
	if err := spec.Validate(); err != nil {
		return "", "", err
	}
	cells, err := pivotCells(d, spec.PivotColumn, spec.PivotValues, spec.ValueColumns)
	if err != nil {
		return "", "", err
	}

	agg := spec.Aggregate()
	suffix := strings.ToLower(agg)
	names := newNameSet()
	if err := names.add(spec.WindowColumn, "the window column"); err != nil {
		return "", "", err
	}

	aggCols := make([]ddl.Column, 0, len(cells))
	cntCols := make([]ddl.Column, 0, len(cells))
	cntNames := make([]string, 0, len(cells))
	for _, c := range cells {
		aggName := OutputName(c.column, suffix, c.value)
		if err := names.add(aggName, c.origin()); err != nil {
			return "", "", err
		}
		cntName := OutputName(c.column, countSuffix, c.value)
		if err := names.add(cntName, "the support count of "+c.origin()); err != nil {
			return "", "", err
		}
		aggCols = append(aggCols, ddl.Column{
			Expr:  ddl.Call{Func: agg, Column: c.column, Filter: c.filter, Window: movingWindowName}.Render(d),
			Alias: aggName,
		})
		cntCols = append(cntCols, ddl.Column{
			Expr:  ddl.Call{Func: countFunc, Column: c.column, Filter: c.filter, Window: movingWindowName}.Render(d),
			Alias: cntName,
		})
		cntNames = append(cntNames, cntName)
	}

	inner := &ddl.Select{
		Columns: append(append([]ddl.Column{{Expr: d.Quote(spec.WindowColumn)}}, aggCols...), cntCols...),
		From:    spec.SourceTable,
		Windows: []ddl.WindowDef{{
			Name:    movingWindowName,
			OrderBy: spec.WindowColumn,
			Frame:   &ddl.Frame{Before: spec.WindowSize.Before, After: spec.WindowSize.After},
		}},
	}
	orderBy, err := d.OrderByColumns([]string{spec.WindowColumn}, nil, "ORDER BY")
	if err != nil {
		return "", "", err
	}
	outer := &ddl.Select{
		With:     []ddl.CTE{{Name: movingInnerName, Query: inner}},
		Distinct: true,
		Star:     true,
		From:     movingInnerName,
		Where:    d.ManyColumnsCondition(cntNames, ">= "+strconv.Itoa(spec.MinSupportCount), "AND"),
		OrderBy:  orderBy,
	}

	viewName = spec.View()
	view := ddl.CreateView{
		Name:        viewName,
		Temporary:   spec.Temporary,
		IfNotExists: true,
		Query:       outer,
	}
	return view.Render(d), viewName, nil
}
