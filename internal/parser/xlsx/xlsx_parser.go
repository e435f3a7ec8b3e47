// Package xlsx reads the first (or a named) worksheet of an Excel workbook
// into a table.Table using the same header and missing-value rules as the
// CSV parser.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	pcsv "luxhousing/internal/parser/csv"
	"luxhousing/internal/table"
)

// Options configures the worksheet reader.
type Options struct {
	// Sheet selects a worksheet by name. Empty selects the first sheet.
	Sheet string

	// NATokens and HeaderMap behave as in the CSV parser.
	NATokens  []string
	HeaderMap map[string]string
}

// Parser reads xlsx workbooks.
type Parser struct {
	opt   Options
	cells *pcsv.Parser
}

// NewParser constructs a Parser.
func NewParser(opt Options) *Parser {
	return &Parser{
		opt:   opt,
		cells: pcsv.NewParser(pcsv.Options{NATokens: opt.NATokens}),
	}
}

// Parse reads the selected sheet. Rows shorter than the header are padded
// with missing cells (the workbook format drops trailing empty cells);
// longer rows are an error.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	sheet := p.opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, pcsv.ErrNoHeader
	}

	headers, err := pcsv.NormalizeHeaders(rows[0], p.opt.HeaderMap)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	t := table.New(headers...)
	for i, raw := range rows[1:] {
		if len(raw) > len(headers) {
			return nil, fmt.Errorf("xlsx: sheet %q row %d has %d cells, header has %d", sheet, i+2, len(raw), len(headers))
		}
		row := make([]table.Value, len(headers))
		for j := range headers {
			if j < len(raw) {
				row[j] = p.cells.Cell(raw[j])
			}
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
