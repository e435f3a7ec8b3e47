// Package ddl holds the SQL Server column types and identifier quoting used
// when a cleaned table is written to SQL Server.
package ddl

import (
	"strings"

	gddl "luxhousing/internal/ddl"
)

// MapType maps a logical column kind into a SQL Server column type.
//
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case gddl.KindFloat, "double", "real":
		return "FLOAT"
	case "numeric", "decimal":
		return "DECIMAL(38, 10)"
	case gddl.KindDate, "timestamp", "datetime":
		return "DATETIME2"
	default:
		// Default to a flexible Unicode string type.
		return "NVARCHAR(MAX)"
	}
}

// Quote wraps one identifier segment in [brackets], escaping ].
func Quote(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }
