package builtin

import (
	"strings"

	"github.com/shopspring/decimal"

	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
)

// Crore is the number of base currency units in one crore.
const Crore = 10_000_000

var croreDec = decimal.NewFromInt(Crore)

// Derive computes the feature columns of each row from already-cleaned
// fields. Zero-valued fields select the default column names.
//
//	PriceINR     = Price * 1e7 (exact in decimal, then rounded to float64)
//	PricePerSqft = PriceINR / Size, missing when Size is 0
//	Date         re-parsed in place from text; unparseable becomes missing
//	QuarterLabel = "YYYYQn" of Date, or missing
//	BookingFlag  = 1 iff trimmed lower-cased TransactionType == "primary"
type Derive struct {
	Price           string
	Size            string
	Date            string
	TransactionType string

	PriceINR     string
	PricePerSqft string
	QuarterLabel string
	BookingFlag  string

	// Layouts are extra date layouts tried before DateLayouts.
	Layouts []string
}

// Default derive column names.
const (
	ColPrice           = "Ticket_Price_Cr"
	ColSize            = "Unit_Size_Sqft"
	ColPurchaseQuarter = "Purchase_Quarter"
	ColTransactionType = "Transaction_Type"
	ColPriceINR        = "Ticket_Price_INR"
	ColPricePerSqft    = "Price_per_Sqft"
	ColQuarterNumber   = "Quarter_Number"
	ColBookingFlag     = "Booking_Flag"
)

func (Derive) Kind() string { return "derive" }

func (d Derive) withDefaults() Derive {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&d.Price, ColPrice)
	def(&d.Size, ColSize)
	def(&d.Date, ColPurchaseQuarter)
	def(&d.TransactionType, ColTransactionType)
	def(&d.PriceINR, ColPriceINR)
	def(&d.PricePerSqft, ColPricePerSqft)
	def(&d.QuarterLabel, ColQuarterNumber)
	def(&d.BookingFlag, ColBookingFlag)
	return d
}

func (d Derive) Apply(t *table.Table) (transformer.Stats, error) {
	var st transformer.Stats
	d = d.withDefaults()
	if err := t.Require(d.Price, d.Size, d.Date, d.TransactionType); err != nil {
		return st, err
	}
	for _, c := range []string{d.PriceINR, d.PricePerSqft, d.QuarterLabel, d.BookingFlag} {
		t.AddColumn(c)
	}

	for i := 0; i < t.Len(); i++ {
		inr := table.Missing()
		if p, ok := t.Get(i, d.Price).Float(); ok {
			f, _ := decimal.NewFromFloat(p).Mul(croreDec).Float64()
			inr = table.Number(f)
		}
		_ = t.Set(i, d.PriceINR, inr)

		pps := table.Missing()
		if f, ok := inr.Float(); ok {
			if size, ok := t.Get(i, d.Size).Float(); ok && size != 0 {
				pps = table.Number(f / size)
			}
		}
		_ = t.Set(i, d.PricePerSqft, pps)

		date := d.date(t.Get(i, d.Date))
		if date.IsMissing() && !t.Get(i, d.Date).IsMissing() {
			st.Invalid++
		}
		_ = t.Set(i, d.Date, date)

		label := table.Missing()
		if tm, ok := date.Time(); ok {
			label = table.Text(QuarterLabel(tm))
		}
		_ = t.Set(i, d.QuarterLabel, label)

		_ = t.Set(i, d.BookingFlag, table.Integer(BookingFlag(t.Get(i, d.TransactionType))))
	}
	return st, nil
}

func (d Derive) date(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindDate:
		return v
	case table.KindText:
		s, _ := v.Str()
		if tm, ok := ParseDate(s, d.Layouts...); ok {
			return table.Date(tm)
		}
	}
	return table.Missing()
}

// BookingFlag is 1 when v is text equal to "primary" after trimming and
// lower-casing, else 0. Missing maps to 0.
func BookingFlag(v table.Value) int64 {
	s, ok := v.Str()
	if ok && strings.ToLower(strings.TrimSpace(s)) == "primary" {
		return 1
	}
	return 0
}
