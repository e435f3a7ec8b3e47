package builtin

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"luxhousing/internal/logging"
	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
)

// EmptyColumnError is returned when a statistic is needed from a column that
// has rows but no present numeric values.
type EmptyColumnError struct {
	Column string
}

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("column %q has no values to compute a statistic from", e.Column)
}

// Imputation policies for a column without any present value.
const (
	OnEmptyError = "error"
	OnEmptySkip  = "skip"
)

// Impute fills missing cells of Column with the median of its present
// numeric values, computed once before any cell is filled. Text cells are
// neither counted nor filled; run Coerce first.
//
// An empty table is a no-op. A non-empty table whose column has no numeric
// value fails with *EmptyColumnError, unless OnEmpty is OnEmptySkip, in which
// case the column stays missing and a warning is logged.
type Impute struct {
	Column  string
	OnEmpty string
	Log     *zap.Logger
}

func (Impute) Kind() string { return "impute" }

func (m Impute) Apply(t *table.Table) (transformer.Stats, error) {
	var st transformer.Stats
	if err := t.Require(m.Column); err != nil {
		return st, err
	}
	if t.Len() == 0 {
		return st, nil
	}

	med, ok := Median(t, m.Column)
	if !ok {
		if m.OnEmpty == OnEmptySkip {
			logging.OrNop(m.Log).Warn("impute skipped: column has no values",
				zap.String("column", m.Column), zap.Int("rows", t.Len()))
			return st, nil
		}
		return st, &EmptyColumnError{Column: m.Column}
	}

	for i := 0; i < t.Len(); i++ {
		if t.Get(i, m.Column).IsMissing() {
			_ = t.Set(i, m.Column, table.Number(med))
			st.Filled++
		}
	}
	logging.OrNop(m.Log).Debug("imputed median",
		zap.String("column", m.Column), zap.Float64("median", med), zap.Int("filled", st.Filled))
	return st, nil
}

// Median returns the median of the numeric cells of col, averaging the two
// middle values for an even count. ok is false when there are none.
func Median(t *table.Table, col string) (float64, bool) {
	vals, err := t.Column(col)
	if err != nil {
		return 0, false
	}
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.Kind() != table.KindNumber && v.Kind() != table.KindInteger {
			continue
		}
		f, _ := v.Float()
		xs = append(xs, f)
	}
	if len(xs) == 0 {
		return 0, false
	}
	slices.Sort(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid], true
	}
	return (xs[mid-1] + xs[mid]) / 2, true
}
