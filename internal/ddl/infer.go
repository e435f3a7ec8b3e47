package ddl

import (
	"fmt"
	"strings"

	"luxhousing/internal/table"
)

// ColumnName is the destination name of a table column: trimmed and
// lower-cased.
func ColumnName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Infer derives a TableDef for name from the values in t. Every column is
// nullable. A column's kind is:
//
//	int    when every present value is an integer
//	float  when every present value is a number or integer
//	date   when every present value is a date
//	text   otherwise, including columns with no present value
//
// Column names go through ColumnName; two columns that collide after
// lower-casing are an error.
func Infer(name string, t *table.Table, mapType TypeMapper) (TableDef, error) {
	if strings.TrimSpace(name) == "" {
		return TableDef{}, fmt.Errorf("ddl: table name must not be empty")
	}
	if t.Width() == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", name)
	}

	seen := make(map[string]string, t.Width())
	def := TableDef{FQN: name, Columns: make([]ColumnDef, 0, t.Width())}
	for _, col := range t.Columns() {
		cn := ColumnName(col)
		if prev, dup := seen[cn]; dup {
			return TableDef{}, fmt.Errorf("ddl: columns %q and %q both map to %q", prev, col, cn)
		}
		seen[cn] = col

		vals, _ := t.Column(col)
		kind := InferKind(vals)
		sqlType := kind
		if mapType != nil {
			sqlType = mapType(kind)
		}
		def.Columns = append(def.Columns, ColumnDef{
			Name:     cn,
			Kind:     kind,
			SQLType:  sqlType,
			Nullable: true,
		})
	}
	return def, nil
}

// InferKind returns the logical kind for a column of values.
func InferKind(vals []table.Value) string {
	var ints, nums, dates, other int
	for _, v := range vals {
		switch v.Kind() {
		case table.KindMissing:
		case table.KindInteger:
			ints++
		case table.KindNumber:
			nums++
		case table.KindDate:
			dates++
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return KindText
	case dates > 0 && ints+nums == 0:
		return KindDate
	case dates > 0:
		return KindText
	case nums > 0:
		return KindFloat
	case ints > 0:
		return KindInt
	default:
		return KindText
	}
}

// Cell converts v into the driver value for a column of the given kind. Text
// columns receive the rendered string of non-text values so every row binds
// the same Go type.
func Cell(kind string, v table.Value) any {
	if v.IsMissing() {
		return nil
	}
	switch kind {
	case KindFloat:
		if f, ok := v.Float(); ok {
			return table.Number(f).Native()
		}
	case KindInt:
		if i, ok := v.Int(); ok {
			return i
		}
	case KindDate:
		if t, ok := v.Time(); ok {
			return t
		}
	case KindText:
		if s, ok := v.Str(); ok {
			return s
		}
		return v.String()
	}
	return v.Native()
}

// Rows renders every row of t as driver values aligned to def.Columns. def
// must have been inferred from t.
func Rows(def TableDef, t *table.Table) [][]any {
	out := make([][]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		src := t.Row(i)
		row := make([]any, len(def.Columns))
		for j, c := range def.Columns {
			row[j] = Cell(c.Kind, src[j])
		}
		out[i] = row
	}
	return out
}
