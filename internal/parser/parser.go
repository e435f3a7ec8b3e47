// Package parser defines the contract shared by the tabular input readers.
package parser

import (
	"io"

	"luxhousing/internal/table"
)

// Parser turns a complete input stream with a header row into a table.
type Parser interface {
	Parse(r io.Reader) (*table.Table, error)
}
