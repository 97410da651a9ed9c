package ddl

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Call is a function applied to one column, optionally filtered and
// evaluated over a window. Window names a WINDOW definition; Over is an
// inline window specification. Set at most one of the two.
type Call struct {
	Func   string
	Column string
	Filter string
	Window string
	Over   string
}

// Render returns FUNC("col") [FILTER (WHERE ...)] [OVER ...].
func (c Call) Render(d Dialect) string {
	var b strings.Builder
	b.WriteString(c.Func)
	b.WriteByte('(')
	b.WriteString(d.Quote(c.Column))
	b.WriteByte(')')
	if c.Filter != "" {
		b.WriteString(" FILTER (WHERE ")
		b.WriteString(c.Filter)
		b.WriteByte(')')
	}
	switch {
	case c.Window != "":
		b.WriteString(" OVER ")
		b.WriteString(d.Quote(c.Window))
	case c.Over != "":
		b.WriteString(" OVER (")
		b.WriteString(c.Over)
		b.WriteByte(')')
	}
	return b.String()
}

// Column is one projected expression. Expr is already rendered; Alias is an
// unquoted name.
type Column struct {
	Expr  string
	Alias string
}

// Frame is a value-range window frame. RANGE framing keeps the frame tied to
// window column values, so gaps in the axis are not bridged.
type Frame struct {
	Before int64
	After  int64
}

// Render returns RANGE BETWEEN <before> PRECEDING AND <after> FOLLOWING.
func (f Frame) Render() string {
	return fmt.Sprintf("RANGE BETWEEN %d PRECEDING AND %d FOLLOWING", f.Before, f.After)
}

// WindowDef is a named window in a WINDOW clause.
type WindowDef struct {
	Name    string
	OrderBy string // unquoted column
	Frame   *Frame
}

// Render returns "name" AS (ORDER BY "col" [frame]).
func (w WindowDef) Render(d Dialect) string {
	spec := "ORDER BY " + d.Quote(w.OrderBy)
	if w.Frame != nil {
		spec += " " + w.Frame.Render()
	}
	return d.Quote(w.Name) + " AS (" + spec + ")"
}

// CTE is one named query in a WITH clause.
type CTE struct {
	Name  string
	Query *Select
}

// Select is a SELECT statement under construction. Table and column names
// are kept unquoted and quoted once at render time; Where and OrderBy hold
// rendered clauses.
type Select struct {
	With     []CTE
	Distinct bool
	Star     bool
	Columns  []Column
	From     string
	Where    string
	GroupBy  []string
	Windows  []WindowDef
	OrderBy  string
}

// Render returns the statement text.
func (s *Select) Render(d Dialect) string {
	return strings.Join(s.lines(d), "\n")
}

func (s *Select) lines(d Dialect) []string {
	var out []string
	for i, cte := range s.With {
		head := "WITH "
		if i > 0 {
			out[len(out)-1] += ","
			head = ""
		}
		out = append(out, head+d.Quote(cte.Name)+" AS (")
		out = append(out, indent(cte.Query.lines(d))...)
		out = append(out, ")")
	}

	head := "SELECT"
	if s.Distinct {
		head += " DISTINCT"
	}
	var items []string
	if s.Star {
		items = append(items, "*")
	}
	for _, c := range s.Columns {
		item := c.Expr
		if c.Alias != "" {
			item += " AS " + d.Quote(c.Alias)
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		out = appendText(out, head+" "+items[0])
	} else {
		out = append(out, head)
		for i, item := range items {
			if i < len(items)-1 {
				item += ","
			}
			out = append(out, indent(splitLines(item))...)
		}
	}

	if s.From != "" {
		out = append(out, "FROM "+d.Quote(s.From))
	}
	if s.Where != "" {
		out = appendText(out, "WHERE "+s.Where)
	}
	if len(s.GroupBy) > 0 {
		out = append(out, "GROUP BY "+strings.Join(d.QuoteAll(s.GroupBy), ", "))
	}
	if len(s.Windows) > 0 {
		defs := make([]string, len(s.Windows))
		for i, w := range s.Windows {
			defs[i] = w.Render(d)
		}
		out = append(out, "WINDOW "+strings.Join(defs, ", "))
	}
	if s.OrderBy != "" {
		out = append(out, s.OrderBy)
	}
	return out
}

// Subquery renders q as a parenthesized, indented scalar subquery suitable
// for the right-hand side of a comparison.
func Subquery(d Dialect, q *Select) string {
	return "(\n" + strings.Join(indent(q.lines(d)), "\n") + "\n)"
}

// CreateView is a CREATE [TEMPORARY] VIEW [IF NOT EXISTS] statement.
type CreateView struct {
	Name        string
	Temporary   bool
	IfNotExists bool
	Query       *Select
}

// Render returns the statement text.
func (v CreateView) Render(d Dialect) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if v.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("VIEW ")
	if v.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(d.Quote(v.Name))
	b.WriteString(" AS\n")
	b.WriteString(v.Query.Render(d))
	return b.String()
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func appendText(out []string, text string) []string {
	return append(out, splitLines(text)...)
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = indentUnit + l
	}
	return out
}
