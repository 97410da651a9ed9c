package view

import (
	"context"

	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// DistinctValuesQuery renders a query listing the distinct non-NULL values of
// column in table, in ascending order.
func DistinctValuesQuery(d ddl.Dialect, table, column string) (string, error) {
	if table == "" || column == "" {
		return "", domain.ErrValidation("table and column are required to discover pivot values")
	}
	orderBy, err := d.OrderByColumns([]string{column}, nil, "ORDER BY")
	if err != nil {
		return "", err
	}
	q := &ddl.Select{
		Distinct: true,
		Columns:  []ddl.Column{{Expr: d.Quote(column)}},
		From:     table,
		Where:    d.ManyColumnsCondition([]string{column}, "IS NOT NULL", "AND"),
		OrderBy:  orderBy,
	}
	return q.Render(d), nil
}

// DiscoverPivotValues reads the distinct values of column in table for use
// as PivotValues when a caller has no explicit list.
func (e *Engine) DiscoverPivotValues(ctx context.Context, table, column string) ([]interface{}, error) {
	query, err := DistinctValuesQuery(e.dialect, table, column)
	if err != nil {
		return nil, err
	}
	rs, err := e.session.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if len(row) > 0 {
			values = append(values, row[0])
		}
	}
	if len(values) == 0 {
		return nil, domain.ErrNotFound("no values found in %s.%s", table, column)
	}
	return values, nil
}
