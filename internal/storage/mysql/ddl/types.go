// Package ddl holds the MySQL column types and identifier quoting used when a
// cleaned table is written to MySQL.
package ddl

import (
	"strings"

	gddl "luxhousing/internal/ddl"
)

// MapType maps a logical column kind into a MySQL column type. Unknown kinds
// fall back to TEXT.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case gddl.KindFloat, "double", "real":
		return "DOUBLE"
	case gddl.KindDate, "timestamp", "datetime":
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// Quote wraps one identifier segment in backticks.
func Quote(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
