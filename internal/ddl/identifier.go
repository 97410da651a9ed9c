// Package ddl renders SQL views and queries from typed statement fragments.
//
// Identifiers are always quoted through a Dialect and scalar values always go
// through Literal, so no caller-supplied text is spliced into a statement
// unescaped. Aggregate and comparison keywords are the exception: they are
// emitted verbatim and rejected, if at all, by the backend.
package ddl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"viewgen/internal/domain"
)

// Dialect describes how a backend spells identifiers.
type Dialect struct {
	Name       string
	IdentQuote byte // 0 means '"'
}

// Known dialects. SQLite and DuckDB share standard double-quote quoting.
var (
	SQLite  = Dialect{Name: "sqlite", IdentQuote: '"'}
	DuckDB  = Dialect{Name: "duckdb", IdentQuote: '"'}
	Default = SQLite
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return Dialect{}, fmt.Errorf("no dialect for driver %q", driver)
	}
}

func (d Dialect) quote() string {
	if d.IdentQuote == 0 {
		return `"`
	}
	return string(d.IdentQuote)
}

// Quote wraps name in the dialect quote character, doubling any embedded
// quote character. The result is always a single identifier token.
func (d Dialect) Quote(name string) string {
	q := d.quote()
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// QuoteAll quotes every name.
func (d Dialect) QuoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.Quote(n)
	}
	return out
}

// QuoteIdentifier wraps a SQL identifier in double quotes, escaping any
// embedded double-quote characters by doubling them (standard SQL).
func QuoteIdentifier(name string) string {
	return Default.Quote(name)
}

// QuoteLiteral wraps a string value in single quotes, escaping any
// embedded single-quote characters by doubling them (standard SQL).
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Literal renders a scalar value as a SQL literal. Views cannot carry bound
// parameters on SQLite or DuckDB, so values embedded in view definitions are
// encoded here by type instead.
func Literal(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", domain.ErrValidation("NULL cannot be used as a comparison value")
	case string:
		return QuoteLiteral(x), nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	default:
		return "", domain.ErrValidation("unsupported literal type %T", v)
	}
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", domain.ErrValidation("non-finite value %v cannot be used as a literal", f)
	}
	return strconv.FormatFloat(f, 'g', -1, bits), nil
}
