package view

import (
	"fmt"
	"strings"

	"viewgen/internal/ddl"
	"viewgen/internal/domain"
)

// OutputName derives the output column name for one pivot cell:
// {valueColumn}_{suffix}_{pivotValue}, or {valueColumn}_{pivotValue} when
// suffix is empty.
func OutputName(valueColumn, suffix string, pivotValue interface{}) string {
	if suffix == "" {
		return fmt.Sprintf("%s_%v", valueColumn, pivotValue)
	}
	return fmt.Sprintf("%s_%s_%v", valueColumn, suffix, pivotValue)
}

// nameSet tracks the output columns of one statement. SQLite and DuckDB
// resolve identifiers case-insensitively, so names are compared folded.
type nameSet struct {
	seen map[string]string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]string)}
}

func (s *nameSet) add(name, origin string) error {
	key := strings.ToLower(name)
	if prev, ok := s.seen[key]; ok {
		return domain.ErrConflict("output column %q for %s collides with %s", name, origin, prev)
	}
	s.seen[key] = origin
	return nil
}

// pivotCell is one (pivot value, value column) pair with its rendered filter.
type pivotCell struct {
	value  interface{}
	column string
	filter string
}

func (c pivotCell) origin() string {
	return fmt.Sprintf("%s at pivot value %v", c.column, c.value)
}

// pivotCells expands values x columns in pivot-major order, rendering each
// pivot value's filter once.
func pivotCells(d ddl.Dialect, pivotColumn string, values []interface{}, columns []string) ([]pivotCell, error) {
	cells := make([]pivotCell, 0, len(values)*len(columns))
	for i, v := range values {
		lit, err := ddl.Literal(v)
		if err != nil {
			return nil, domain.ErrValidation("pivot value %d: %v", i, err)
		}
		filter := d.ManyColumnsCondition([]string{pivotColumn}, "= "+lit, "AND")
		for _, col := range columns {
			cells = append(cells, pivotCell{value: v, column: col, filter: filter})
		}
	}
	return cells, nil
}
