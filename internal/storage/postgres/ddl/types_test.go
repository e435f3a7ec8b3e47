package ddl

import (
	"testing"

	gddl "luxhousing/internal/ddl"
)

// TestMapType verifies that MapType normalizes logical kinds into the expected
// Postgres SQL types and defaults to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		want string
	}{
		{name: "int", kind: gddl.KindInt, want: "BIGINT"},
		{name: "int mixed case", kind: " InTeGeR ", want: "BIGINT"},
		{name: "float", kind: gddl.KindFloat, want: "DOUBLE PRECISION"},
		{name: "date", kind: gddl.KindDate, want: "TIMESTAMP"},
		{name: "text", kind: gddl.KindText, want: "TEXT"},
		{name: "empty string", kind: "", want: "TEXT"},
		{name: "jsonb", kind: "jsonb", want: "TEXT"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MapType(tt.kind); got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got, want := Quote(`a"b`), `"a""b"`; got != want {
		t.Fatalf("Quote = %s, want %s", got, want)
	}
}
