package view_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewgen/internal/ddl"
	"viewgen/internal/domain"
	"viewgen/internal/testutil"
	"viewgen/internal/view"
)

func readingsPivot() domain.PivotSpec {
	return domain.PivotSpec{
		SourceTable:   "readings",
		PivotColumn:   "sensor",
		PivotValues:   []interface{}{"a", 2},
		ValueColumns:  []string{"temp", "hum"},
		GroupByColumn: "day",
		Temporary:     true,
	}
}

func TestPivotView_Statement(t *testing.T) {
	mock := &testutil.MockSession{}
	eng := view.NewEngine(mock, ddl.SQLite)

	name, err := eng.PivotView(context.Background(), readingsPivot())
	require.NoError(t, err)
	assert.Equal(t, "readings_pivot", name)

	want := `CREATE TEMPORARY VIEW IF NOT EXISTS "readings_pivot" AS
SELECT
    "day",
    MAX("temp") FILTER (WHERE "sensor" = 'a') AS "temp_a",
    MAX("hum") FILTER (WHERE "sensor" = 'a') AS "hum_a",
    MAX("temp") FILTER (WHERE "sensor" = 2) AS "temp_2",
    MAX("hum") FILTER (WHERE "sensor" = 2) AS "hum_2"
FROM "readings"
GROUP BY "day"`
	require.Len(t, mock.Execs, 1)
	assert.Equal(t, want, mock.LastExec())
}

func TestPivotView_PersistentCustomNameAndAggregate(t *testing.T) {
	spec := readingsPivot()
	spec.Temporary = false
	spec.ViewName = "wide"
	spec.AggregateFunction = "SUM"
	spec.PivotValues = []interface{}{"a"}
	spec.ValueColumns = []string{"temp"}

	stmt, name, err := view.CompilePivot(ddl.SQLite, spec)
	require.NoError(t, err)
	assert.Equal(t, "wide", name)
	assert.Equal(t, `CREATE VIEW IF NOT EXISTS "wide" AS
SELECT
    "day",
    SUM("temp") FILTER (WHERE "sensor" = 'a') AS "temp_a"
FROM "readings"
GROUP BY "day"`, stmt)
}

func TestPivotView_QuotesHostileInput(t *testing.T) {
	spec := readingsPivot()
	spec.SourceTable = `r"; DROP TABLE x; --`
	spec.PivotValues = []interface{}{"it's"}
	spec.ValueColumns = []string{"temp"}

	stmt, name, err := view.CompilePivot(ddl.SQLite, spec)
	require.NoError(t, err)
	assert.Equal(t, `r"; DROP TABLE x; --_pivot`, name)
	assert.Contains(t, stmt, `FROM "r""; DROP TABLE x; --"`)
	assert.Contains(t, stmt, `FILTER (WHERE "sensor" = 'it''s') AS "temp_it's"`)
}

func TestPivotView_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.PivotSpec)
		wantErr  string
		conflict bool
	}{
		{
			name:    "no_values",
			mutate:  func(s *domain.PivotSpec) { s.PivotValues = nil },
			wantErr: "at least one pivot value",
		},
		{
			name:    "null_value",
			mutate:  func(s *domain.PivotSpec) { s.PivotValues = []interface{}{"a", nil} },
			wantErr: "pivot value 1",
		},
		{
			name:     "values_with_same_label",
			mutate:   func(s *domain.PivotSpec) { s.PivotValues = []interface{}{1, "1"} },
			wantErr:  `output column "temp_1"`,
			conflict: true,
		},
		{
			name: "column_and_value_overlap",
			mutate: func(s *domain.PivotSpec) {
				s.ValueColumns = []string{"a_b", "a"}
				s.PivotValues = []interface{}{"c", "b_c"}
			},
			wantErr:  `output column "a_b_c"`,
			conflict: true,
		},
		{
			name:     "group_column_collision",
			mutate:   func(s *domain.PivotSpec) { s.GroupByColumn = "temp_a" },
			wantErr:  "collides with the group by column",
			conflict: true,
		},
		{
			name: "case_insensitive_collision",
			mutate: func(s *domain.PivotSpec) {
				s.ValueColumns = []string{"Temp", "temp"}
				s.PivotValues = []interface{}{"a"}
			},
			wantErr:  `output column "temp_a"`,
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockSession{}
			eng := view.NewEngine(mock, ddl.SQLite)
			spec := readingsPivot()
			tt.mutate(&spec)

			_, err := eng.PivotView(context.Background(), spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.conflict {
				var cErr *domain.ConflictError
				assert.True(t, errors.As(err, &cErr))
			} else {
				var vErr *domain.ValidationError
				assert.True(t, errors.As(err, &vErr))
			}
			assert.Empty(t, mock.Execs, "nothing may be submitted for an invalid spec")
		})
	}
}

func TestPivotView_BackendErrorReturnedVerbatim(t *testing.T) {
	backendErr := errors.New("no such function: BOGUS")
	mock := &testutil.MockSession{
		ExecFn: func(context.Context, string) error { return backendErr },
	}
	spec := readingsPivot()
	spec.AggregateFunction = "BOGUS"

	name, err := view.NewEngine(mock, ddl.SQLite).PivotView(context.Background(), spec)
	assert.Empty(t, name)
	assert.Same(t, backendErr, err)
	assert.Contains(t, mock.LastExec(), `BOGUS("temp")`)
}
