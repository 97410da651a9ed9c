// Package manifest loads a YAML list of view definitions and creates them in
// file order through a view.Engine.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"viewgen/internal/config"
	"viewgen/internal/domain"
)

// Kinds of view a manifest entry can declare.
const (
	KindPivot       = "pivot"
	KindMovingPivot = "moving_pivot"
	KindDiff        = "diff"
)

// Manifest is the top-level YAML document.
type Manifest struct {
	Views []Entry `yaml:"views"`
}

// Entry declares one view. Which fields apply depends on Kind.
type Entry struct {
	Kind      string `yaml:"kind"`   // pivot, moving_pivot or diff
	Source    string `yaml:"source"` // source table
	View      string `yaml:"view,omitempty"`
	Temporary bool   `yaml:"temporary,omitempty"`

	// pivot and moving_pivot
	PivotColumn  string        `yaml:"pivot_column,omitempty"`
	PivotValues  []interface{} `yaml:"pivot_values,omitempty"` // discovered from the source when empty
	ValueColumns []string      `yaml:"value_columns,omitempty"`
	Aggregate    string        `yaml:"aggregate,omitempty"`

	// pivot
	GroupBy string `yaml:"group_by,omitempty"`

	// moving_pivot
	WindowColumn string  `yaml:"window_column,omitempty"`
	Window       []int64 `yaml:"window,omitempty"`
	MinSupport   *int    `yaml:"min_support,omitempty"`

	// diff
	DiffColumn string `yaml:"diff_column,omitempty"`
}

// ViewName returns the view the entry creates, deriving it from the source
// table when View is empty. movingAggregate is the aggregate applied to
// moving_pivot entries that name none. Unknown kinds return View unchanged.
func (e Entry) ViewName(movingAggregate string) string {
	switch e.Kind {
	case KindPivot:
		return domain.PivotSpec{SourceTable: e.Source, ViewName: e.View}.View()
	case KindMovingPivot:
		agg := e.Aggregate
		if agg == "" {
			agg = movingAggregate
		}
		return domain.MovingPivotSpec{SourceTable: e.Source, AggregateFunction: agg, ViewName: e.View}.View()
	case KindDiff:
		return domain.DiffSpec{SourceTable: e.Source, ViewName: e.View}.View()
	default:
		return e.View
	}
}

// Label identifies the entry in messages.
func (e Entry) Label(i int) string {
	return fmt.Sprintf("views[%d] (%s on %s)", i, e.Kind, e.Source)
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading a user-specified manifest
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ValidationError is one structural problem in a manifest entry.
type ValidationError struct {
	Entry   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Entry + ": " + e.Message
}

// Validate checks every entry for structural problems: unknown kinds, fields
// required by the entry's kind, and entries resolving to the same view name.
// It returns all problems found. Output column collisions are checked when
// the entry is applied.
func Validate(m *Manifest) []ValidationError {
	return ValidateWithDefaults(m, config.MovingDefaults{})
}

// ValidateWithDefaults is Validate with the moving-window defaults an
// Applier would use, so defaulted view names resolve the same way.
func ValidateWithDefaults(m *Manifest, defaults config.MovingDefaults) []ValidationError {
	var errs []ValidationError
	if len(m.Views) == 0 {
		return append(errs, ValidationError{Entry: "views", Message: "no views declared"})
	}

	seen := make(map[string]string, len(m.Views))
	for i, e := range m.Views {
		label := e.Label(i)
		add := func(format string, args ...interface{}) {
			errs = append(errs, ValidationError{Entry: label, Message: fmt.Sprintf(format, args...)})
		}

		if e.Source == "" {
			add("source is required")
		}
		switch e.Kind {
		case KindPivot:
			requireField(add, "pivot_column", e.PivotColumn)
			requireField(add, "group_by", e.GroupBy)
			if len(e.ValueColumns) == 0 {
				add("value_columns is required")
			}
		case KindMovingPivot:
			requireField(add, "pivot_column", e.PivotColumn)
			requireField(add, "window_column", e.WindowColumn)
			if len(e.ValueColumns) == 0 {
				add("value_columns is required")
			}
			if n := len(e.Window); n > 2 {
				add("window takes 1 or 2 bounds, got %d", n)
			}
			if e.MinSupport != nil && *e.MinSupport < 0 {
				add("min_support must be non-negative")
			}
		case KindDiff:
			requireField(add, "diff_column", e.DiffColumn)
		case "":
			add("kind is required")
		default:
			add("unknown kind %q: use %s, %s or %s", e.Kind, KindPivot, KindMovingPivot, KindDiff)
		}

		// Without a source or view there is no name to derive.
		if e.Source == "" && e.View == "" {
			continue
		}
		if name := e.ViewName(defaults.Aggregate); name != "" {
			key := strings.ToLower(name)
			if prev, ok := seen[key]; ok {
				add("view %q is also declared by %s", name, prev)
			} else {
				seen[key] = label
			}
		}
	}
	return errs
}

func requireField(add func(string, ...interface{}), name, value string) {
	if value == "" {
		add("%s is required", name)
	}
}
