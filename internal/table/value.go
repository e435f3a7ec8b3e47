// Package table holds the in-memory, column-ordered representation of the
// dataset as it moves through the cleaning pipeline.
//
// Cells are Values: a small sum type that is either Missing or carries exactly
// one of a string, float64, int64, or time.Time payload. Lenient coercions in
// the transformer package turn unparseable input into Missing instead of
// failing, so downstream code never has to reason about NaN sentinels.
package table

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindInteger
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// Value is a single cell. The zero Value is Missing.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
	t    time.Time
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Number wraps a float64. NaN collapses to Missing so the missing state has a
// single representation.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, f: f}
}

// Integer wraps an int64.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Date wraps a time.Time. The zero time collapses to Missing.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindDate, t: t}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the text payload.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindText }

// Float returns the numeric payload. Integers widen to float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the integer payload.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Time returns the date payload.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.s == o.s
	case KindNumber:
		return v.f == o.f
	case KindInteger:
		return v.i == o.i
	case KindDate:
		return v.t.Equal(o.t)
	}
	return true
}

// String renders the value for human-readable reports.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.t.Format("2006-01-02")
	}
	return "NaN"
}

// Native converts the value into a plain Go value suitable for database
// drivers: nil, string, float64, int64, or time.Time.
func (v Value) Native() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindNumber:
		if math.IsInf(v.f, 0) {
			return nil
		}
		return v.f
	case KindInteger:
		return v.i
	case KindDate:
		return v.t
	}
	return nil
}
