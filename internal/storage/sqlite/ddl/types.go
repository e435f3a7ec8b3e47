// Package ddl holds the SQLite column types and identifier quoting used when
// a cleaned table is written to SQLite.
package ddl

import (
	"strings"

	gddl "luxhousing/internal/ddl"
)

// MapType maps a logical column kind to a SQLite type affinity.
//
// Dates have no native type in SQLite and are stored as text. Unknown kinds
// fall back to TEXT.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.KindInt, "integer", "bigint":
		return "INTEGER"
	case gddl.KindFloat, "double", "real":
		return "REAL"
	case gddl.KindDate, "timestamp", "datetime":
		return "TEXT"
	default:
		return "TEXT"
	}
}

// Quote wraps one identifier segment in double quotes.
func Quote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
