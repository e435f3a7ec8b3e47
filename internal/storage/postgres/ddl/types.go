// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "luxhousing/internal/ddl"
)

// MapType normalizes a logical column kind into a Postgres SQL type.
//
//	"int"/"integer"/"bigint"   -> BIGINT
//	"float"/"double"           -> DOUBLE PRECISION
//	"date"/"timestamp"         -> TIMESTAMP
//	everything else            -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case gddl.KindFloat, "double", "double precision":
		return "DOUBLE PRECISION"
	case gddl.KindDate, "timestamp":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Quote safely quotes a single identifier segment for Postgres.
func Quote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
