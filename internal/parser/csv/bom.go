package csv

import "luxhousing/internal/table"

// NormalizeHeaders applies the header rules used by Parse (BOM strip, trim,
// rename, non-empty and unique names). Other tabular readers share it so
// every input format yields the same column names.
func NormalizeHeaders(h []string, headerMap map[string]string) ([]string, error) {
	out := normalizeHeaders(h, headerMap)
	if err := checkHeaders(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cell converts a raw cell with this parser's missing-value tokens.
func (p *Parser) Cell(s string) table.Value { return p.cell(s) }
