package builtin

import (
	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
)

// Require removes every row missing a value in any of Columns. Rows whose
// NonZero columns hold the number 0 are removed as well, so ratios over
// those columns stay finite.
type Require struct {
	Columns []string
	NonZero []string
}

func (Require) Kind() string { return "require" }

func (r Require) Apply(t *table.Table) (transformer.Stats, error) {
	if err := t.Require(r.Columns...); err != nil {
		return transformer.Stats{}, err
	}
	if err := t.Require(r.NonZero...); err != nil {
		return transformer.Stats{}, err
	}
	dropped := t.Filter(func(i int) bool {
		for _, c := range r.Columns {
			if t.Get(i, c).IsMissing() {
				return false
			}
		}
		for _, c := range r.NonZero {
			if f, ok := t.Get(i, c).Float(); ok && f == 0 {
				return false
			}
		}
		return true
	})
	return transformer.Stats{Dropped: dropped}, nil
}
