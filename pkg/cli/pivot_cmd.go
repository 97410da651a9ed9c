package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"viewgen/internal/domain"
	"viewgen/internal/view"
)

func newPivotCmd(a *app) *cobra.Command {
	var (
		vf      viewFlags
		pf      pivotFlags
		groupBy string
	)

	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Create a pivot view with one column per pivot value and value column",
		Example: `  viewgen pivot --dsn data.db --table readings --pivot-column sensor \
    --values a,b --value-columns temp,hum --group-by day`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			spec := domain.PivotSpec{
				SourceTable:       vf.table,
				PivotColumn:       pf.pivotColumn,
				ValueColumns:      pf.valueColumns,
				GroupByColumn:     groupBy,
				AggregateFunction: pf.aggregate,
				ViewName:          vf.viewName,
				Temporary:         vf.temporary,
			}

			return a.runView(ctx, vf, pf, func(eng *view.Engine, values []interface{}) error {
				spec.PivotValues = values
				if vf.dryRun {
					d, err := a.dialect()
					if err != nil {
						return err
					}
					stmt, name, err := view.CompilePivot(d, spec)
					if err != nil {
						return err
					}
					return printStatement(cmd, name, stmt)
				}
				name, err := eng.PivotView(ctx, spec)
				if err != nil {
					return fmt.Errorf("create pivot view: %w", err)
				}
				return printCreated(cmd, "pivot", name)
			})
		},
	}

	addViewFlags(cmd.Flags(), &vf)
	addPivotFlags(cmd.Flags(), &pf)
	cmd.Flags().StringVar(&groupBy, "group-by", "", "Column that identifies each output row")

	return cmd
}

// runView opens the database when the command needs it, resolves pivot
// values (discovering them when none were given), and calls fn. eng is nil
// for a dry run with explicit values.
func (a *app) runView(ctx context.Context, vf viewFlags, pf pivotFlags, fn func(eng *view.Engine, values []interface{}) error) error {
	var eng *view.Engine
	if !vf.dryRun || len(pf.values) == 0 {
		e, closeFn, err := a.openEngine(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		eng = e
	}

	values := parseValues(pf.values, pf.stringValues)
	if len(values) == 0 && pf.pivotColumn != "" && vf.table != "" {
		discovered, err := eng.DiscoverPivotValues(ctx, vf.table, pf.pivotColumn)
		if err != nil {
			return fmt.Errorf("discover pivot values: %w", err)
		}
		a.logger.Info("discovered pivot values", "table", vf.table, "column", pf.pivotColumn, "count", len(discovered))
		values = discovered
	}
	return fn(eng, values)
}
