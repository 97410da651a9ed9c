package ddl

import (
	"strings"

	"viewgen/internal/domain"
)

// ManyColumnsCondition applies the same comparison to every column and joins
// the results with boolOp (AND when empty):
//
//	ManyColumnsCondition([]string{"a", "b"}, "= 2", "")  →  "a" = 2 AND "b" = 2
//
// An empty column list yields an empty string; callers that need a condition
// must check for that themselves.
func (d Dialect) ManyColumnsCondition(columns []string, comparison, boolOp string) string {
	if boolOp == "" {
		boolOp = "AND"
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = d.Quote(col) + " " + comparison
	}
	return strings.Join(parts, " "+boolOp+" ")
}

// OrderByColumns renders an ORDER BY clause. reverse pairs with columns by
// position; columns past the end of reverse sort ascending. clause is the
// leading keyword, and an empty clause yields the bare column list:
//
//	OrderByColumns([]string{"a", "b", "c"}, []bool{false, true}, "ORDER BY")
//	  →  ORDER BY "a", "b" DESC, "c"
//
// No columns yields an empty string so the clause can be omitted entirely.
func (d Dialect) OrderByColumns(columns []string, reverse []bool, clause string) (string, error) {
	if len(reverse) > len(columns) {
		return "", domain.ErrValidation("%d reverse flags given for %d order columns", len(reverse), len(columns))
	}
	if len(columns) == 0 {
		return "", nil
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = d.Quote(col)
		if i < len(reverse) && reverse[i] {
			parts[i] += " DESC"
		}
	}
	list := strings.Join(parts, ", ")
	if clause == "" {
		return list, nil
	}
	return clause + " " + list, nil
}
