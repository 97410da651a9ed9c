package view

import (
	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// QueryExtreme renders a query for every row whose extreme column equals the
// table-wide maximum or minimum:
//
//	SELECT
//	    "a",
//	    "x"
//	FROM "t"
//	WHERE "x" = (
//	    SELECT max("x")
//	    FROM "t"
//	)
//	ORDER BY "a"
//
// Ties are all returned; order columns are projected ahead of the extreme
// column and drive the optional ORDER BY.
func QueryExtreme(d ddl.Dialect, spec domain.ExtremeQuerySpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	orderBy, err := d.OrderByColumns(spec.OrderColumns, spec.ReverseFlags, "ORDER BY")
	if err != nil {
		return "", err
	}

	cols := make([]ddl.Column, 0, len(spec.OrderColumns)+1)
	for _, c := range spec.OrderColumns {
		cols = append(cols, ddl.Column{Expr: d.Quote(c)})
	}
	cols = append(cols, ddl.Column{Expr: d.Quote(spec.ExtremeColumn)})

	extreme := &ddl.Select{
		Columns: []ddl.Column{{Expr: ddl.Call{Func: spec.Function(), Column: spec.ExtremeColumn}.Render(d)}},
		From:    spec.Table,
	}
	q := &ddl.Select{
		Columns: cols,
		From:    spec.Table,
		Where:   d.Quote(spec.ExtremeColumn) + " = " + ddl.Subquery(d, extreme),
		OrderBy: orderBy,
	}
	return q.Render(d), nil
}
