package ddl

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewgen/internal/domain"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "users", `"users"`},
		{"with_space", "my table", `"my table"`},
		{"embedded_quote", `a"b`, `"a""b"`},
		{"only_quotes", `""`, `""""""`},
		{"empty", "", `""`},
		{"injection_attempt", `x"; DROP TABLE t; --`, `"x""; DROP TABLE t; --"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.input))
		})
	}
}

func TestDialect_Quote(t *testing.T) {
	backtick := Dialect{Name: "mysql", IdentQuote: '`'}
	assert.Equal(t, "`a``b`", backtick.Quote("a`b"))
	assert.Equal(t, "`a\"b`", backtick.Quote(`a"b`))

	var zero Dialect
	assert.Equal(t, `"col"`, zero.Quote("col"))

	assert.Equal(t, []string{`"a"`, `"b"`}, DuckDB.QuoteAll([]string{"a", "b"}))
}

func TestDialectFor(t *testing.T) {
	for _, driver := range []string{"sqlite3", "sqlite"} {
		d, err := DialectFor(driver)
		require.NoError(t, err)
		assert.Equal(t, SQLite, d)
	}
	d, err := DialectFor("duckdb")
	require.NoError(t, err)
	assert.Equal(t, DuckDB, d)

	_, err = DialectFor("oracle")
	require.Error(t, err)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'hello'`, QuoteLiteral("hello"))
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))
	assert.Equal(t, `''`, QuoteLiteral(""))
	assert.Equal(t, `'1'' OR ''1''=''1'`, QuoteLiteral("1' OR '1'='1"))
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr string
	}{
		{name: "string", input: "north", want: `'north'`},
		{name: "string_with_quote", input: "o'hare", want: `'o''hare'`},
		{name: "int", input: 42, want: "42"},
		{name: "negative_int64", input: int64(-7), want: "-7"},
		{name: "int8", input: int8(3), want: "3"},
		{name: "uint64", input: uint64(18446744073709551615), want: "18446744073709551615"},
		{name: "float", input: 1.5, want: "1.5"},
		{name: "float32", input: float32(0.25), want: "0.25"},
		{name: "bool_true", input: true, want: "TRUE"},
		{name: "bool_false", input: false, want: "FALSE"},
		{name: "nil", input: nil, wantErr: "NULL"},
		{name: "nan", input: math.NaN(), wantErr: "non-finite"},
		{name: "inf", input: math.Inf(1), wantErr: "non-finite"},
		{name: "unsupported", input: []int{1}, wantErr: "unsupported literal type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Literal(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var vErr *domain.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
