package view

import (
	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// Suffixes of the derived difference columns.
const (
	prevDiffSuffix = "_diff_p1"
	nextDiffSuffix = "_diff_n1"
)

// CompileDiff renders a view of the source table plus two columns: the
// current value minus its predecessor ({col}_diff_p1) and the current value
// minus its successor ({col}_diff_n1), both in ascending column order over
// the whole table. The first and last rows get NULL on their open side.
func CompileDiff(d ddl.Dialect, spec domain.DiffSpec) (stmt, viewName string, err error) {
	if err := spec.Validate(); err != nil {
		return "", "", err
	}
	orderBy, err := d.OrderByColumns([]string{spec.DiffColumn}, nil, "ORDER BY")
	if err != nil {
		return "", "", err
	}
	col := d.Quote(spec.DiffColumn)

	viewName = spec.View()
	view := ddl.CreateView{
		Name:        viewName,
		Temporary:   spec.Temporary,
		IfNotExists: true,
		Query: &ddl.Select{
			Star: true,
			Columns: []ddl.Column{
				{
					Expr:  col + " - " + ddl.Call{Func: "LAG", Column: spec.DiffColumn, Over: orderBy}.Render(d),
					Alias: spec.DiffColumn + prevDiffSuffix,
				},
				{
					Expr:  col + " - " + ddl.Call{Func: "LEAD", Column: spec.DiffColumn, Over: orderBy}.Render(d),
					Alias: spec.DiffColumn + nextDiffSuffix,
				},
			},
			From:    spec.SourceTable,
			OrderBy: orderBy,
		},
	}
	return view.Render(d), viewName, nil
}
