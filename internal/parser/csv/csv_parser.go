// Package csv parses delimited text with a header row into a table.Table.
//
// Every cell is loaded as table.Text, except cells matching one of the
// configured missing-value tokens, which load as table.Missing. No type
// inference happens here; typing is the job of the coerce transform.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"luxhousing/internal/table"
)

// DefaultNATokens are the cell values read as missing when Options.NATokens
// is nil. The set mirrors the usual dataframe reader defaults.
var DefaultNATokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Options configures the CSV parser. Zero values select defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// NATokens overrides DefaultNATokens. Matching is exact.
	NATokens []string

	// HeaderMap renames source headers (after trimming) to canonical names.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs but not for concurrent use.
type Parser struct {
	opt Options
	na  map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	tokens := opt.NATokens
	if tokens == nil {
		tokens = DefaultNATokens
	}
	na := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		na[t] = struct{}{}
	}
	return &Parser{opt: opt, na: na}
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Parse reads the whole input into a table. A malformed record (bad quoting
// or a field count that differs from the header) fails the parse with the
// offending line number.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt.HeaderMap)
	if err := checkHeaders(headers); err != nil {
		return nil, err
	}

	t := table.New(headers...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make([]table.Value, len(rec))
		for i, cell := range rec {
			row[i] = p.cell(cell)
		}
		if err := t.Append(row); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
	}
	return t, nil
}

// Cell converts a raw cell using the parser's missing-value tokens.
func (p *Parser) cell(s string) table.Value {
	if _, ok := p.na[s]; ok {
		return table.Missing()
	}
	return table.Text(s)
}

// normalizeHeaders trims header cells, strips a UTF-8 BOM from the first
// cell, and applies headerMap renames. Case is preserved.
func normalizeHeaders(h []string, headerMap map[string]string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		if m, ok := headerMap[c]; ok {
			c = m
		}
		res[i] = c
	}
	return res
}

func checkHeaders(h []string) error {
	seen := make(map[string]struct{}, len(h))
	for i, c := range h {
		if c == "" {
			return fmt.Errorf("csv: empty header name at column %d", i+1)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("csv: duplicate header %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
