package storage

import (
	"fmt"
	"time"
)

// ResultSet holds the full result of a Query. Values are normalized to nil,
// string, int64, float64, bool or time.Time.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// RowScanner is the subset of *sql.Rows / *sqlx.Rows that Collect needs.
type RowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Collect drains rows into a ResultSet. The caller closes rows.
func Collect(rows RowScanner) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("result columns: %w", err)
	}
	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(rs.Rows), err)
		}
		rs.Append(vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}

// Append normalizes vals and adds them as a row.
func (rs *ResultSet) Append(vals []any) {
	for i, v := range vals {
		vals[i] = NormalizeValue(v)
	}
	rs.Rows = append(rs.Rows, vals)
}

// NormalizeValue maps driver-specific result types onto the ResultSet set.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil, string, int64, float64, bool, time.Time:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Int returns the value at row r, column c as an int64 when it is integral.
func (rs *ResultSet) Int(r, c int) (int64, bool) {
	switch x := rs.Rows[r][c].(type) {
	case int64:
		return x, true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
	}
	return 0, false
}
