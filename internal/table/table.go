package table

import (
	"fmt"
)

// MissingColumnError reports a column that a stage needs but the table lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// Table is an ordered set of named columns and rows of cells aligned to them.
// It has a single owner at any time and is not safe for concurrent use.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New returns an empty table with the given column order. Duplicate names
// keep their first position.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *Table) Len() int   { return len(t.rows) }
func (t *Table) Width() int { return len(t.cols) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Index returns the position of a column or a *MissingColumnError.
func (t *Table) Index(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, &MissingColumnError{Column: name}
	}
	return i, nil
}

// Require fails on the first absent column.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if _, err := t.Index(n); err != nil {
			return err
		}
	}
	return nil
}

// AddColumn appends a column filled with Missing. Existing columns are left
// untouched.
func (t *Table) AddColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Missing())
	}
}

// Append adds a row. The row must match the table width.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("table: row width %d != columns %d", len(row), len(t.cols))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the cells of row i. The slice aliases table storage.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Get returns the cell at row i, column col. Unknown columns read as Missing.
func (t *Table) Get(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Missing()
	}
	return t.rows[i][j]
}

// Set writes the cell at row i, column col.
func (t *Table) Set(i int, col string, v Value) error {
	j, err := t.Index(col)
	if err != nil {
		return err
	}
	t.rows[i][j] = v
	return nil
}

// Column returns a copy of all cells in the named column.
func (t *Table) Column(name string) ([]Value, error) {
	j, err := t.Index(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, nil
}

// Filter keeps the rows for which keep returns true, in order, and returns
// the number of rows removed.
func (t *Table) Filter(keep func(i int) bool) int {
	out := t.rows[:0]
	for i, r := range t.rows {
		if keep(i) {
			out = append(out, r)
		}
	}
	dropped := len(t.rows) - len(out)
	for i := len(out); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = out
	return dropped
}
