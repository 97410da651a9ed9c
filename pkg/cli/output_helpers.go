package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"viewgen/internal/domain"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printResultSet writes rs in the command's output format. Table output is
// column-aligned on a terminal and tab-separated otherwise, so it can be
// piped into other tools.
func printResultSet(cmd *cobra.Command, rs *domain.ResultSet) error {
	w := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		rows := rs.Rows
		if rows == nil {
			rows = [][]interface{}{}
		}
		return printJSON(w, map[string]interface{}{
			"columns": rs.Columns,
			"rows":    rows,
		})
	}

	if !isTerminal(w) {
		return writeRows(w, rs)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeRows(tw, rs); err != nil {
		return err
	}
	return tw.Flush()
}

func writeRows(w io.Writer, rs *domain.ResultSet) error {
	if _, err := fmt.Fprintln(w, strings.Join(rs.Columns, "\t")); err != nil {
		return err
	}
	vals := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i := range vals {
			vals[i] = "NULL"
			if i < len(row) && row[i] != nil {
				vals[i] = fmt.Sprint(row[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(vals, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// printStatement writes a rendered statement for dry runs.
func printStatement(cmd *cobra.Command, name, stmt string) error {
	w := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		return printJSON(w, map[string]string{"view": name, "sql": stmt})
	}
	_, err := fmt.Fprintf(w, "%s;\n", stmt)
	return err
}

// printCreated reports a created view.
func printCreated(cmd *cobra.Command, kind, name string) error {
	w := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		return printJSON(w, map[string]string{"kind": kind, "view": name})
	}
	_, err := fmt.Fprintf(w, "created %s view %s\n", kind, name)
	return err
}
