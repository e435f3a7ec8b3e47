package builtin

import (
	"fmt"

	"go.uber.org/zap"

	"luxhousing/internal/config"
	"luxhousing/internal/transformer"
)

// Build turns the configured transform list into a Chain.
func Build(ts []config.Transform, log *zap.Logger) (transformer.Chain, error) {
	chain := make(transformer.Chain, 0, len(ts))
	for i, t := range ts {
		o := t.Options
		switch t.Kind {
		case "normalize":
			chain = append(chain, Normalize{
				Title:        o.StringSlice("title"),
				CompactUpper: o.StringSlice("compact_upper"),
			})
		case "coerce":
			chain = append(chain, Coerce{Columns: o.StringSlice("columns")})
		case "impute":
			if s := o.String("strategy", "median"); s != "median" {
				return nil, fmt.Errorf("transform[%d]: unsupported impute strategy %q", i, s)
			}
			onEmpty := o.String("on_empty", OnEmptyError)
			if onEmpty != OnEmptyError && onEmpty != OnEmptySkip {
				return nil, fmt.Errorf("transform[%d]: invalid on_empty %q", i, onEmpty)
			}
			chain = append(chain, Impute{
				Column:  o.String("column", ""),
				OnEmpty: onEmpty,
				Log:     log,
			})
		case "require":
			chain = append(chain, Require{
				Columns: o.StringSlice("columns"),
				NonZero: o.StringSlice("non_zero"),
			})
		case "derive":
			chain = append(chain, Derive{
				Price:           o.String("price", ""),
				Size:            o.String("size", ""),
				Date:            o.String("date", ""),
				TransactionType: o.String("transaction_type", ""),
				PriceINR:        o.String("price_inr", ""),
				PricePerSqft:    o.String("price_per_sqft", ""),
				QuarterLabel:    o.String("quarter_label", ""),
				BookingFlag:     o.String("booking_flag", ""),
				Layouts:         o.StringSlice("layouts"),
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, t.Kind)
		}
	}
	return chain, nil
}
