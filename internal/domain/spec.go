package domain

import (
	"fmt"
	"strings"
)

// Defaults applied when a spec leaves the corresponding field empty.
const (
	DefaultPivotAggregate  = "MAX"
	DefaultMovingAggregate = "AVG"
	DefaultExtremeFunction = "max"
)

// View name suffixes used when a spec does not name its view.
const (
	pivotViewSuffix  = "_pivot"
	movingViewPrefix = "_m_"
	diffViewSuffix   = "_cdiff"
)

// PivotSpec describes a long-to-wide pivot of SourceTable: one row per
// GroupByColumn value and one column per (PivotValues x ValueColumns) pair.
//
// Every GroupByColumn value is expected to have at most one source row per
// pivot value. Extra rows are folded by AggregateFunction, not rejected.
type PivotSpec struct {
	SourceTable       string
	PivotColumn       string
	PivotValues       []interface{}
	ValueColumns      []string
	GroupByColumn     string
	AggregateFunction string
	ViewName          string
	Temporary         bool
}

// Aggregate returns the aggregate function name, MAX when unset.
func (s PivotSpec) Aggregate() string {
	if s.AggregateFunction == "" {
		return DefaultPivotAggregate
	}
	return s.AggregateFunction
}

// View returns the view name, {SourceTable}_pivot when unset.
func (s PivotSpec) View() string {
	if s.ViewName == "" {
		return s.SourceTable + pivotViewSuffix
	}
	return s.ViewName
}

// Validate checks the spec for caller errors.
func (s PivotSpec) Validate() error {
	if err := requireNames(map[string]string{
		"source table":    s.SourceTable,
		"pivot column":    s.PivotColumn,
		"group by column": s.GroupByColumn,
	}); err != nil {
		return err
	}
	return validatePivotSet(s.PivotValues, s.ValueColumns)
}

// WindowSize is the inclusive value range on each side of the current row's
// window column value.
type WindowSize struct {
	Before int64
	After  int64
}

// ParseWindowSize builds a WindowSize from one (symmetric) or two bounds.
func ParseWindowSize(bounds ...int64) (WindowSize, error) {
	var w WindowSize
	switch len(bounds) {
	case 1:
		w = WindowSize{Before: bounds[0], After: bounds[0]}
	case 2:
		w = WindowSize{Before: bounds[0], After: bounds[1]}
	default:
		return WindowSize{}, ErrValidation("window size needs 1 or 2 bounds, got %d", len(bounds))
	}
	if err := w.Validate(); err != nil {
		return WindowSize{}, err
	}
	return w, nil
}

// Validate rejects negative bounds.
func (w WindowSize) Validate() error {
	if w.Before < 0 || w.After < 0 {
		return ErrValidation("window bounds must be non-negative, got (%d, %d)", w.Before, w.After)
	}
	return nil
}

func (w WindowSize) String() string {
	return fmt.Sprintf("(%d, %d)", w.Before, w.After)
}

// MovingPivotSpec describes a pivot computed over a value-range window on
// WindowColumn instead of a grouping key. Rows where any pivot cell is backed
// by fewer than MinSupportCount non-null source rows are dropped.
type MovingPivotSpec struct {
	SourceTable       string
	PivotColumn       string
	PivotValues       []interface{}
	ValueColumns      []string
	WindowColumn      string
	WindowSize        WindowSize
	MinSupportCount   int
	AggregateFunction string
	ViewName          string
	Temporary         bool
}

// Aggregate returns the aggregate function name, AVG when unset.
func (s MovingPivotSpec) Aggregate() string {
	if s.AggregateFunction == "" {
		return DefaultMovingAggregate
	}
	return s.AggregateFunction
}

// View returns the view name, {SourceTable}_m_{aggregate} when unset.
func (s MovingPivotSpec) View() string {
	if s.ViewName == "" {
		return s.SourceTable + movingViewPrefix + strings.ToLower(s.Aggregate())
	}
	return s.ViewName
}

// Validate checks the spec for caller errors.
func (s MovingPivotSpec) Validate() error {
	if err := requireNames(map[string]string{
		"source table":  s.SourceTable,
		"pivot column":  s.PivotColumn,
		"window column": s.WindowColumn,
	}); err != nil {
		return err
	}
	if err := validatePivotSet(s.PivotValues, s.ValueColumns); err != nil {
		return err
	}
	if err := s.WindowSize.Validate(); err != nil {
		return err
	}
	if s.MinSupportCount < 0 {
		return ErrValidation("minimum support count must be non-negative, got %d", s.MinSupportCount)
	}
	return nil
}

// DiffSpec describes a view adding the differences between each DiffColumn
// value and its predecessor and successor in ascending order.
type DiffSpec struct {
	SourceTable string
	DiffColumn  string
	ViewName    string
	Temporary   bool
}

// View returns the view name, {SourceTable}_cdiff when unset.
func (s DiffSpec) View() string {
	if s.ViewName == "" {
		return s.SourceTable + diffViewSuffix
	}
	return s.ViewName
}

// Validate checks the spec for caller errors.
func (s DiffSpec) Validate() error {
	return requireNames(map[string]string{
		"source table": s.SourceTable,
		"diff column":  s.DiffColumn,
	})
}

// ExtremeQuerySpec describes a query for the rows holding the maximum or
// minimum of ExtremeColumn. ReverseFlags pairs positionally with
// OrderColumns; missing flags mean ascending.
type ExtremeQuerySpec struct {
	Table           string
	ExtremeColumn   string
	ExtremeFunction string
	OrderColumns    []string
	ReverseFlags    []bool
}

// Function returns the extreme function, max when unset.
func (s ExtremeQuerySpec) Function() string {
	if s.ExtremeFunction == "" {
		return DefaultExtremeFunction
	}
	return s.ExtremeFunction
}

// Validate checks the spec for caller errors.
func (s ExtremeQuerySpec) Validate() error {
	if err := requireNames(map[string]string{
		"table":          s.Table,
		"extreme column": s.ExtremeColumn,
	}); err != nil {
		return err
	}
	switch strings.ToLower(s.Function()) {
	case "max", "min":
	default:
		return ErrValidation("extreme function must be max or min, got %q", s.ExtremeFunction)
	}
	for i, col := range s.OrderColumns {
		if col == "" {
			return ErrValidation("order column %d is empty", i)
		}
	}
	if len(s.ReverseFlags) > len(s.OrderColumns) {
		return ErrValidation("%d reverse flags given for %d order columns", len(s.ReverseFlags), len(s.OrderColumns))
	}
	return nil
}

func requireNames(names map[string]string) error {
	for _, what := range []string{
		"source table", "table", "pivot column", "group by column",
		"window column", "diff column", "extreme column",
	} {
		if v, ok := names[what]; ok && v == "" {
			return ErrValidation("%s is required", what)
		}
	}
	return nil
}

func validatePivotSet(values []interface{}, columns []string) error {
	if len(values) == 0 {
		return ErrValidation("at least one pivot value is required")
	}
	if len(columns) == 0 {
		return ErrValidation("at least one value column is required")
	}
	for i, col := range columns {
		if col == "" {
			return ErrValidation("value column %d is empty", i)
		}
	}
	return nil
}
