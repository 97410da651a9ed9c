package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewgen/internal/domain"
	"viewgen/internal/view"
)

func newMovingPivotCmd(a *app) *cobra.Command {
	var (
		vf           viewFlags
		pf           pivotFlags
		windowColumn string
		window       []int64
		minSupport   int
	)

	cmd := &cobra.Command{
		Use:   "moving-pivot",
		Short: "Create a pivot view aggregated over a moving value range",
		Long: "Creates a view with one row per distinct --window-column value. Each cell aggregates the " +
			"rows whose window column lies within --window of the row's value; rows where any cell is " +
			"backed by fewer than --min-support source rows are omitted.",
		Example: `  viewgen moving-pivot --dsn data.db --table readings --pivot-column station \
    --values 1,2 --value-columns temp --window-column day --window 7,7 --min-support 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			defaults := a.cfg.Moving

			bounds := window
			if !cmd.Flags().Changed("window") {
				bounds = defaults.Window
			}
			size, err := domain.ParseWindowSize(bounds...)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-support") {
				minSupport = defaults.MinSupport
			}
			agg := pf.aggregate
			if agg == "" {
				agg = defaults.Aggregate
			}

			spec := domain.MovingPivotSpec{
				SourceTable:       vf.table,
				PivotColumn:       pf.pivotColumn,
				ValueColumns:      pf.valueColumns,
				WindowColumn:      windowColumn,
				WindowSize:        size,
				MinSupportCount:   minSupport,
				AggregateFunction: agg,
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
					stmt, name, err := view.CompileMovingPivot(d, spec)
					if err != nil {
						return err
					}
					return printStatement(cmd, name, stmt)
				}
				name, err := eng.MovingPivotView(ctx, spec)
				if err != nil {
					return fmt.Errorf("create moving pivot view: %w", err)
				}
				return printCreated(cmd, "moving pivot", name)
			})
		},
	}

	addViewFlags(cmd.Flags(), &vf)
	addPivotFlags(cmd.Flags(), &pf)
	cmd.Flags().StringVar(&windowColumn, "window-column", "", "Ordered column the window ranges over")
	cmd.Flags().Int64SliceVar(&window, "window", nil, "Window bounds: one symmetric value or before,after (default from config)")
	cmd.Flags().IntVar(&minSupport, "min-support", 0, "Minimum non-null rows behind every cell (default from config)")

	return cmd
}
