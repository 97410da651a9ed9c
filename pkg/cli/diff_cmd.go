package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewgen/internal/domain"
	"viewgen/internal/view"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		vf     viewFlags
		column string
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Create a view with differences to the previous and next value of a column",
		Long: "Creates a view of every source row plus {column}_diff_p1 (value minus the previous value) " +
			"and {column}_diff_n1 (value minus the next value), ordered by the column.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			spec := domain.DiffSpec{
				SourceTable: vf.table,
				DiffColumn:  column,
				ViewName:    vf.viewName,
				Temporary:   vf.temporary,
			}

			if vf.dryRun {
				d, err := a.dialect()
				if err != nil {
					return err
				}
				stmt, name, err := view.CompileDiff(d, spec)
				if err != nil {
					return err
				}
				return printStatement(cmd, name, stmt)
			}

			eng, closeFn, err := a.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			name, err := eng.DiffView(ctx, spec)
			if err != nil {
				return fmt.Errorf("create diff view: %w", err)
			}
			return printCreated(cmd, "diff", name)
		},
	}

	addViewFlags(cmd.Flags(), &vf)
	cmd.Flags().StringVar(&column, "column", "", "Column to difference")

	return cmd
}
