// Package profile computes the categorical value-count summaries and numeric
// ranges reported around the cleaning steps. Everything here is pure; output
// formatting lives in package report.
package profile

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"luxhousing/internal/table"
)

// DefaultTopN is the number of most frequent values kept per column.
const DefaultTopN = 10

// ValueCount is one value and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// ColumnSummary is the cardinality and top values of one column.
type ColumnSummary struct {
	Column   string
	Distinct int
	Top      []ValueCount
}

// Summarize returns a summary for each column, in the given order. Missing
// cells are excluded from both the distinct count and the top values. Top
// is sorted by descending count; ties keep first-seen order. topN <= 0
// selects DefaultTopN.
func Summarize(t *table.Table, columns []string, topN int) ([]ColumnSummary, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		vals, _ := t.Column(col)
		out = append(out, summarize(col, vals, topN))
	}
	return out, nil
}

func summarize(col string, vals []table.Value, topN int) ColumnSummary {
	index := map[string]int{}
	var counts []ValueCount
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.String()
		if i, ok := index[k]; ok {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, ValueCount{Value: k, Count: 1})
	}
	distinct := len(counts)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > topN {
		counts = counts[:topN]
	}
	return ColumnSummary{Column: col, Distinct: distinct, Top: counts}
}

// IQRFactor scales the interquartile range to the Tukey fences used for
// Range.Outliers.
const IQRFactor = 1.5

// Range is the observed span of a numeric column. The other fields are only
// meaningful when Count > 0. Outliers counts values outside
// [Q1 - IQRFactor*IQR, Q3 + IQRFactor*IQR]; nothing is removed.
type Range struct {
	Column   string
	Min      float64
	Max      float64
	Count    int
	Q1       float64
	Q3       float64
	Outliers int
}

// Ranges returns the min/max and quartiles of the numeric cells of each
// column. Missing and non-numeric cells are ignored.
func Ranges(t *table.Table, columns []string) ([]Range, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	out := make([]Range, 0, len(columns))
	for _, col := range columns {
		vals, _ := t.Column(col)
		xs := make([]float64, 0, len(vals))
		for _, v := range vals {
			if v.Kind() != table.KindNumber && v.Kind() != table.KindInteger {
				continue
			}
			f, _ := v.Float()
			xs = append(xs, f)
		}
		r := Range{Column: col, Count: len(xs)}
		if len(xs) > 0 {
			r.Min = floats.Min(xs)
			r.Max = floats.Max(xs)
			sort.Float64s(xs)
			r.Q1 = stat.Quantile(0.25, stat.Empirical, xs, nil)
			r.Q3 = stat.Quantile(0.75, stat.Empirical, xs, nil)
			fence := IQRFactor * (r.Q3 - r.Q1)
			for _, x := range xs {
				if x < r.Q1-fence || x > r.Q3+fence {
					r.Outliers++
				}
			}
		}
		out = append(out, r)
	}
	return out, nil
}
