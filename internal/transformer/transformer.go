// Package transformer defines the in-place table transform contract and the
// ordered Chain that runs the cleaning steps.
package transformer

import (
	"fmt"

	"luxhousing/internal/table"
)

// Stats reports what a transform did to the table.
type Stats struct {
	// Dropped counts removed rows.
	Dropped int
	// Filled counts missing cells replaced with a value.
	Filled int
	// Invalid counts present cells that could not be parsed and became
	// missing.
	Invalid int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Dropped += o.Dropped
	s.Filled += o.Filled
	s.Invalid += o.Invalid
}

// Transformer mutates a table in place.
type Transformer interface {
	Kind() string
	Apply(t *table.Table) (Stats, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order and stops at the first error.
func (c Chain) Apply(t *table.Table) (Stats, error) {
	var total Stats
	for _, tr := range c {
		st, err := tr.Apply(t)
		total.Add(st)
		if err != nil {
			return total, fmt.Errorf("%s: %w", tr.Kind(), err)
		}
	}
	return total, nil
}

// Kinds lists the chain's transform kinds in order.
func (c Chain) Kinds() []string {
	out := make([]string, len(c))
	for i, tr := range c {
		out[i] = tr.Kind()
	}
	return out
}
