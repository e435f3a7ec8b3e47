// Package builtin contains the cleaning and feature transforms of the luxury
// housing pipeline.
package builtin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
)

// Normalize standardizes categorical text columns in place.
//
// Title columns are trimmed and title-cased ("  whitefield " -> "Whitefield").
// CompactUpper columns are trimmed, upper-cased and stripped of all inner
// whitespace ("3 bhk" -> "3BHK"). Every text cell is NFC-normalized first so
// composed and decomposed forms compare equal. Missing and non-text cells are
// left alone. Applying Normalize twice yields the same table.
type Normalize struct {
	Title        []string
	CompactUpper []string
}

func (Normalize) Kind() string { return "normalize" }

func (n Normalize) Apply(t *table.Table) (transformer.Stats, error) {
	if err := t.Require(n.Title...); err != nil {
		return transformer.Stats{}, err
	}
	if err := t.Require(n.CompactUpper...); err != nil {
		return transformer.Stats{}, err
	}

	title := cases.Title(language.Und)
	for _, col := range n.Title {
		mapText(t, col, func(s string) string {
			return title.String(strings.TrimSpace(s))
		})
	}
	for _, col := range n.CompactUpper {
		mapText(t, col, compactUpper)
	}
	return transformer.Stats{}, nil
}

func compactUpper(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), "")
}

// mapText rewrites every text cell of col with fn. The column must exist.
func mapText(t *table.Table, col string, fn func(string) string) {
	for i := 0; i < t.Len(); i++ {
		s, ok := t.Get(i, col).Str()
		if !ok {
			continue
		}
		_ = t.Set(i, col, table.Text(fn(norm.NFC.String(s))))
	}
}
