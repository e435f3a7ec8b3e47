package builtin

import (
	"testing"

	"luxhousing/internal/table"
)

/*
TestParseNumber verifies the lenient numeric parser: it trims, accepts
exponents and grouped thousands, and rejects anything else, including NaN,
infinities, digit underscores and hex literals.
*/
func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"4.5", 4.5, true},
		{" 3000 ", 3000, true},
		{"-2", -2, true},
		{"+1e3", 1000, true},
		{"1,234", 1234, true},
		{"12,500.75", 12500.75, true},
		{".5", 0.5, true},
		{"1,23", 0, false},
		{"N/A", 0, false},
		{"4.5 cr", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"-Infinity", 0, false},
		{"1_000", 0, false},
		{"0x1p2", 0, false},
		{"0X10", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseNumber(%q)=(%v,%v) want (%v,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCoerce_LenientToMissing(t *testing.T) {
	t.Parallel()

	tb := table.New("price", "size", "other")
	rows := [][]table.Value{
		{table.Text("4.5"), table.Text("3000"), table.Text("keep")},
		{table.Text("N/A"), table.Integer(1200), table.Text("keep")},
		{table.Missing(), table.Number(900.5), table.Text("keep")},
		{table.Text("abc"), table.Text("1,500"), table.Text("keep")},
	}
	for _, r := range rows {
		if err := tb.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	st, err := Coerce{Columns: []string{"price", "size"}}.Apply(tb)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Invalid != 2 {
		t.Fatalf("Invalid=%d want 2 (N/A, abc)", st.Invalid)
	}

	want := [][2]table.Value{
		{table.Number(4.5), table.Number(3000)},
		{table.Missing(), table.Number(1200)},
		{table.Missing(), table.Number(900.5)},
		{table.Missing(), table.Number(1500)},
	}
	for i, w := range want {
		if got := tb.Get(i, "price"); !got.Equal(w[0]) {
			t.Errorf("row %d price=%v (%s) want %v", i, got, got.Kind(), w[0])
		}
		if got := tb.Get(i, "size"); !got.Equal(w[1]) {
			t.Errorf("row %d size=%v (%s) want %v", i, got, got.Kind(), w[1])
		}
		if got := tb.Get(i, "other"); !got.Equal(table.Text("keep")) {
			t.Errorf("row %d untouched column changed to %v", i, got)
		}
	}

	// Coercing again is stable.
	st, err = Coerce{Columns: []string{"price", "size"}}.Apply(tb)
	if err != nil || st.Invalid != 0 {
		t.Fatalf("second pass: st=%+v err=%v", st, err)
	}
}

func TestCoerce_MissingColumn(t *testing.T) {
	t.Parallel()

	if _, err := (Coerce{Columns: []string{"x"}}).Apply(table.New("a")); err == nil {
		t.Fatalf("expected MissingColumnError")
	}
}
