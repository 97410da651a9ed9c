package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewgen/internal/manifest"
)

func newApplyCmd(a *app) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "apply <manifest.yaml>",
		Short: "Create every view declared in a YAML manifest",
		Long: "Reads a manifest of pivot, moving_pivot and diff entries and creates the views in file order. " +
			"Application stops at the first failing entry; views created before it are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			// 1. Load and validate the manifest.
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			if errs := manifest.ValidateWithDefaults(m, a.cfg.Moving); len(errs) > 0 {
				for _, ve := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", ve.Error())
				}
				return fmt.Errorf("manifest has %d validation error(s)", len(errs))
			}
			if validateOnly {
				if getOutputFormat(cmd) == "json" {
					return printJSON(w, map[string]interface{}{"valid": true, "views": len(m.Views)})
				}
				_, _ = fmt.Fprintf(w, "Manifest is valid: %d view(s).\n", len(m.Views))
				return nil
			}

			// 2. Create the views.
			eng, closeFn, err := a.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			results, err := manifest.NewApplier(eng, a.cfg.Moving, a.logger).Apply(ctx, m)
			if getOutputFormat(cmd) == "json" {
				if results == nil {
					results = []manifest.Result{}
				}
				if err != nil {
					// Views created before the failure are kept, so report them.
					obj := errorObject(err)
					obj["created"] = results
					if perr := printJSON(w, obj); perr != nil {
						return perr
					}
					return reportedError{err}
				}
				return printJSON(w, results)
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(w, "  created %s view %s\n", r.Kind, r.View)
			}
			if err != nil {
				return err
			}

			// 3. Summary.
			_, _ = fmt.Fprintf(w, "\nApply complete: %d view(s) created.\n", len(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate", false, "Only validate the manifest")

	return cmd
}
