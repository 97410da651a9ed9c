package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewgen/internal/domain"
	"viewgen/internal/view"
)

func newExtremeCmd(a *app) *cobra.Command {
	var (
		table    string
		column   string
		function string
		orderBy  []string
		reverse  []bool
		printSQL bool
	)

	cmd := &cobra.Command{
		Use:   "extreme",
		Short: "List the rows holding the maximum or minimum of a column",
		Example: `  viewgen extreme --dsn data.db --table readings --column temp --function max \
    --order-by day,sensor --reverse true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			spec := domain.ExtremeQuerySpec{
				Table:           table,
				ExtremeColumn:   column,
				ExtremeFunction: function,
				OrderColumns:    orderBy,
				ReverseFlags:    reverse,
			}

			if printSQL {
				d, err := a.dialect()
				if err != nil {
					return err
				}
				query, err := view.QueryExtreme(d, spec)
				if err != nil {
					return err
				}
				return printStatement(cmd, "", query)
			}

			eng, closeFn, err := a.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			rs, err := eng.ExtremeRows(ctx, spec)
			if err != nil {
				return fmt.Errorf("query extreme rows: %w", err)
			}
			return printResultSet(cmd, rs)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table or view to query")
	cmd.Flags().StringVar(&column, "column", "", "Column whose extreme value selects the rows")
	cmd.Flags().StringVar(&function, "function", domain.DefaultExtremeFunction, "Extreme function: max or min")
	cmd.Flags().StringSliceVar(&orderBy, "order-by", nil, "Columns listed before the extreme column and used to order the rows")
	cmd.Flags().BoolSliceVar(&reverse, "reverse", nil, "Per --order-by column, sort descending when true")
	cmd.Flags().BoolVar(&printSQL, "print-sql", false, "Print the query without running it")

	return cmd
}
