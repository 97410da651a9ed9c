package cli

import (
	"math"
	"strconv"

	"github.com/spf13/pflag"
)

// viewFlags are shared by the commands that create a view.
type viewFlags struct {
	table     string
	viewName  string
	temporary bool
	dryRun    bool
}

func addViewFlags(fs *pflag.FlagSet, f *viewFlags) {
	fs.StringVar(&f.table, "table", "", "Source table")
	fs.StringVar(&f.viewName, "view", "", "View name (default derived from the table)")
	fs.BoolVar(&f.temporary, "temporary", false, "Create a temporary view; it is dropped when the connection closes")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print the CREATE VIEW statement without executing it")
}

// pivotFlags are shared by pivot and moving-pivot.
type pivotFlags struct {
	pivotColumn  string
	values       []string
	stringValues bool
	valueColumns []string
	aggregate    string
}

func addPivotFlags(fs *pflag.FlagSet, f *pivotFlags) {
	fs.StringVar(&f.pivotColumn, "pivot-column", "", "Column whose values become output columns")
	fs.StringSliceVar(&f.values, "values", nil, "Pivot values (default: distinct values of --pivot-column)")
	fs.BoolVar(&f.stringValues, "string-values", false, "Treat every --values entry as text instead of inferring numbers")
	fs.StringSliceVar(&f.valueColumns, "value-columns", nil, "Columns aggregated into each pivot cell")
	fs.StringVar(&f.aggregate, "aggregate", "", "Aggregate function name")
}

// parseValues converts raw flag values into pivot values. Integers and
// finite floats are recognized unless forceString is set, so --values 1,2 compares
// against numbers while --values a,b compares against text.
func parseValues(raw []string, forceString bool) []interface{} {
	values := make([]interface{}, 0, len(raw))
	for _, s := range raw {
		if forceString {
			values = append(values, s)
			continue
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			values = append(values, n)
		} else if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			values = append(values, f)
		} else {
			values = append(values, s)
		}
	}
	return values
}
