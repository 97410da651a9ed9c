package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"viewgen/internal/config"
	"viewgen/internal/domain"
	"viewgen/internal/view"
)

// Result records one view created by Apply.
type Result struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	View  string `json:"view"`
}

// Applier creates manifest views through an engine.
type Applier struct {
	engine   *view.Engine
	defaults config.MovingDefaults
	logger   *slog.Logger
}

// NewApplier creates an Applier. Moving-window entries that omit window,
// min_support or aggregate take them from defaults.
func NewApplier(engine *view.Engine, defaults config.MovingDefaults, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applier{engine: engine, defaults: defaults, logger: logger}
}

// Apply creates the views of m in file order. It stops at the first failing
// entry and returns the views created so far together with the error, which
// names the entry and wraps the underlying cause.
func (a *Applier) Apply(ctx context.Context, m *Manifest) ([]Result, error) {
	if errs := ValidateWithDefaults(m, a.defaults); len(errs) > 0 {
		return nil, fmt.Errorf("invalid manifest: %w", errs[0])
	}

	results := make([]Result, 0, len(m.Views))
	for i, e := range m.Views {
		start := time.Now()
		name, err := a.applyEntry(ctx, e)
		if err != nil {
			return results, fmt.Errorf("%s: %w", e.Label(i), err)
		}
		a.logger.Info("view created",
			slog.Int("index", i),
			slog.String("kind", e.Kind),
			slog.String("view", name),
			slog.Duration("duration", time.Since(start)))
		results = append(results, Result{Index: i, Kind: e.Kind, View: name})
	}
	return results, nil
}

func (a *Applier) applyEntry(ctx context.Context, e Entry) (string, error) {
	switch e.Kind {
	case KindPivot:
		values, err := a.pivotValues(ctx, e)
		if err != nil {
			return "", err
		}
		return a.engine.PivotView(ctx, domain.PivotSpec{
			SourceTable:       e.Source,
			PivotColumn:       e.PivotColumn,
			PivotValues:       values,
			ValueColumns:      e.ValueColumns,
			GroupByColumn:     e.GroupBy,
			AggregateFunction: e.Aggregate,
			ViewName:          e.View,
			Temporary:         e.Temporary,
		})
	case KindMovingPivot:
		spec, err := a.movingSpec(e)
		if err != nil {
			return "", err
		}
		if spec.PivotValues, err = a.pivotValues(ctx, e); err != nil {
			return "", err
		}
		return a.engine.MovingPivotView(ctx, spec)
	case KindDiff:
		return a.engine.DiffView(ctx, domain.DiffSpec{
			SourceTable: e.Source,
			DiffColumn:  e.DiffColumn,
			ViewName:    e.View,
			Temporary:   e.Temporary,
		})
	default:
		return "", domain.ErrValidation("unknown kind %q", e.Kind)
	}
}

func (a *Applier) movingSpec(e Entry) (domain.MovingPivotSpec, error) {
	bounds := e.Window
	if len(bounds) == 0 {
		bounds = a.defaults.Window
	}
	window, err := domain.ParseWindowSize(bounds...)
	if err != nil {
		return domain.MovingPivotSpec{}, err
	}
	support := a.defaults.MinSupport
	if e.MinSupport != nil {
		support = *e.MinSupport
	}
	agg := e.Aggregate
	if agg == "" {
		agg = a.defaults.Aggregate
	}
	return domain.MovingPivotSpec{
		SourceTable:       e.Source,
		PivotColumn:       e.PivotColumn,
		ValueColumns:      e.ValueColumns,
		WindowColumn:      e.WindowColumn,
		WindowSize:        window,
		MinSupportCount:   support,
		AggregateFunction: agg,
		ViewName:          e.View,
		Temporary:         e.Temporary,
	}, nil
}

func (a *Applier) pivotValues(ctx context.Context, e Entry) ([]interface{}, error) {
	if len(e.PivotValues) > 0 {
		return e.PivotValues, nil
	}
	values, err := a.engine.DiscoverPivotValues(ctx, e.Source, e.PivotColumn)
	if err != nil {
		return nil, fmt.Errorf("discover pivot values: %w", err)
	}
	a.logger.Debug("discovered pivot values",
		slog.String("source", e.Source),
		slog.String("column", e.PivotColumn),
		slog.Int("count", len(values)))
	return values, nil
}
