package builtin

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
)

// Coerce converts the listed columns to numbers. Coercion is lenient: a
// value that cannot be parsed becomes missing and is counted in
// Stats.Invalid, never reported as an error.
type Coerce struct {
	Columns []string
}

func (Coerce) Kind() string { return "coerce" }

func (c Coerce) Apply(t *table.Table) (transformer.Stats, error) {
	var st transformer.Stats
	if err := t.Require(c.Columns...); err != nil {
		return st, err
	}
	for _, col := range c.Columns {
		for i := 0; i < t.Len(); i++ {
			v := t.Get(i, col)
			nv := toNumber(v)
			if nv.IsMissing() && !v.IsMissing() {
				st.Invalid++
			}
			_ = t.Set(i, col, nv)
		}
	}
	return st, nil
}

// thousands matches numbers written with comma group separators, e.g.
// "1,234" or "-12,500.75".
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// ParseNumber parses s leniently: surrounding space is ignored, comma
// thousands separators are accepted, and NaN or infinite results are
// rejected. Go-only literal forms (digit underscores, hex mantissas) are
// not numbers in the dataset and parse as missing.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	if thousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toNumber(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindNumber:
		return v
	case table.KindInteger:
		f, _ := v.Float()
		return table.Number(f)
	case table.KindText:
		s, _ := v.Str()
		if f, ok := ParseNumber(s); ok {
			return table.Number(f)
		}
	}
	return table.Missing()
}
