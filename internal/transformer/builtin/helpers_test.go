package builtin

import (
	"math"
	"testing"

	"luxhousing/internal/table"
)

// tx is shorthand for a text cell; "" stands for a missing cell.
func tx(s string) table.Value {
	if s == "" {
		return table.Missing()
	}
	return table.Text(s)
}

// textTable builds a table whose cells are all text (or missing for "").
func textTable(t *testing.T, cols []string, rows ...[]string) *table.Table {
	t.Helper()
	tb := table.New(cols...)
	for _, r := range rows {
		vals := make([]table.Value, len(r))
		for i, s := range r {
			vals[i] = tx(s)
		}
		if err := tb.Append(vals); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return tb
}

// snapshot copies every cell of tb into a new table.
func snapshot(t *testing.T, tb *table.Table) *table.Table {
	t.Helper()
	c := table.New(tb.Columns()...)
	for i := 0; i < tb.Len(); i++ {
		row := append([]table.Value(nil), tb.Row(i)...)
		if err := c.Append(row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return c
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
