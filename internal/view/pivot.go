package view

import (
	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// CompilePivot renders the CREATE VIEW statement for spec:
//
//	CREATE [TEMPORARY] VIEW IF NOT EXISTS "t_pivot" AS
//	SELECT
//	    "g",
//	    MAX("v") FILTER (WHERE "p" = 1) AS "v_1",
//	    ...
//	FROM "t"
//	GROUP BY "g"
//
// It returns the statement and the view name. The aggregate function is
// emitted verbatim.
func CompilePivot(d ddl.Dialect, spec domain.PivotSpec) (stmt, viewName string, err error) {
	if err := spec.Validate(); err != nil {
		return "", "", err
	}
	cells, err := pivotCells(d, spec.PivotColumn, spec.PivotValues, spec.ValueColumns)
	if err != nil {
		return "", "", err
	}

	names := newNameSet()
	if err := names.add(spec.GroupByColumn, "the group by column"); err != nil {
		return "", "", err
	}
	cols := make([]ddl.Column, 0, len(cells)+1)
	cols = append(cols, ddl.Column{Expr: d.Quote(spec.GroupByColumn)})
	agg := spec.Aggregate()
	for _, c := range cells {
		name := OutputName(c.column, "", c.value)
		if err := names.add(name, c.origin()); err != nil {
			return "", "", err
		}
		cols = append(cols, ddl.Column{
			Expr:  ddl.Call{Func: agg, Column: c.column, Filter: c.filter}.Render(d),
			Alias: name,
		})
	}

	viewName = spec.View()
	view := ddl.CreateView{
		Name:        viewName,
		Temporary:   spec.Temporary,
		IfNotExists: true,
		Query: &ddl.Select{
			Columns: cols,
			From:    spec.SourceTable,
			GroupBy: []string{spec.GroupByColumn},
		},
	}
	return view.Render(d), viewName, nil
}
