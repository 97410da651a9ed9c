package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotSpec_Defaults(t *testing.T) {
	s := PivotSpec{SourceTable: "sales"}
	assert.Equal(t, "sales_pivot", s.View())
	assert.Equal(t, "MAX", s.Aggregate())

	s.ViewName = "wide"
	s.AggregateFunction = "SUM"
	assert.Equal(t, "wide", s.View())
	assert.Equal(t, "SUM", s.Aggregate())
}

func TestPivotSpec_Validate(t *testing.T) {
	valid := PivotSpec{
		SourceTable:   "sales",
		PivotColumn:   "region",
		PivotValues:   []interface{}{"n", "s"},
		ValueColumns:  []string{"amount"},
		GroupByColumn: "day",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*PivotSpec)
		wantErr string
	}{
		{"no_source", func(s *PivotSpec) { s.SourceTable = "" }, "source table is required"},
		{"no_pivot_column", func(s *PivotSpec) { s.PivotColumn = "" }, "pivot column is required"},
		{"no_group", func(s *PivotSpec) { s.GroupByColumn = "" }, "group by column is required"},
		{"no_values", func(s *PivotSpec) { s.PivotValues = nil }, "at least one pivot value"},
		{"no_value_columns", func(s *PivotSpec) { s.ValueColumns = nil }, "at least one value column"},
		{"blank_value_column", func(s *PivotSpec) { s.ValueColumns = []string{"a", ""} }, "value column 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestParseWindowSize(t *testing.T) {
	tests := []struct {
		name    string
		bounds  []int64
		want    WindowSize
		wantErr string
	}{
		{name: "symmetric", bounds: []int64{90}, want: WindowSize{Before: 90, After: 90}},
		{name: "asymmetric", bounds: []int64{7, 0}, want: WindowSize{Before: 7, After: 0}},
		{name: "empty", bounds: nil, wantErr: "needs 1 or 2 bounds, got 0"},
		{name: "too_long", bounds: []int64{1, 2, 3}, wantErr: "needs 1 or 2 bounds, got 3"},
		{name: "negative", bounds: []int64{-1, 2}, wantErr: "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindowSize(tt.bounds...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovingPivotSpec(t *testing.T) {
	s := MovingPivotSpec{
		SourceTable:     "obs",
		PivotColumn:     "station",
		PivotValues:     []interface{}{1},
		ValueColumns:    []string{"temp"},
		WindowColumn:    "day",
		WindowSize:      WindowSize{Before: 3, After: 3},
		MinSupportCount: 2,
	}
	require.NoError(t, s.Validate())
	assert.Equal(t, "AVG", s.Aggregate())
	assert.Equal(t, "obs_m_avg", s.View())

	s.AggregateFunction = "MEDIAN"
	assert.Equal(t, "obs_m_median", s.View())

	s.MinSupportCount = 0
	require.NoError(t, s.Validate())

	s.MinSupportCount = -1
	assert.ErrorContains(t, s.Validate(), "minimum support count")

	s.MinSupportCount = 1
	s.WindowSize = WindowSize{Before: -2}
	assert.ErrorContains(t, s.Validate(), "non-negative")

	s.WindowSize = WindowSize{}
	s.WindowColumn = ""
	assert.ErrorContains(t, s.Validate(), "window column is required")
}

func TestDiffSpec(t *testing.T) {
	s := DiffSpec{SourceTable: "m", DiffColumn: "x"}
	require.NoError(t, s.Validate())
	assert.Equal(t, "m_cdiff", s.View())

	s.DiffColumn = ""
	assert.ErrorContains(t, s.Validate(), "diff column is required")
}

func TestExtremeQuerySpec_Validate(t *testing.T) {
	s := ExtremeQuerySpec{Table: "t", ExtremeColumn: "x"}
	require.NoError(t, s.Validate())
	assert.Equal(t, "max", s.Function())

	s.ExtremeFunction = "MIN"
	require.NoError(t, s.Validate())

	s.ExtremeFunction = "avg"
	assert.ErrorContains(t, s.Validate(), "must be max or min")

	s.ExtremeFunction = ""
	s.OrderColumns = []string{"a"}
	s.ReverseFlags = []bool{true, true}
	assert.ErrorContains(t, s.Validate(), "2 reverse flags given for 1 order columns")

	s.ReverseFlags = nil
	s.OrderColumns = []string{""}
	assert.ErrorContains(t, s.Validate(), "order column 0 is empty")
}
