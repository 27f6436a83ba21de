package receipt

import (
	"github.com/shopspring/decimal"
)

// Limits are the sanity thresholds applied to extracted records.
type Limits struct {
	// MaxAgeDays is how far in the past a date may lie before it is replaced by today.
	MaxAgeDays int
	// MaxFutureDays is how far in the future a date may lie before it is replaced by today.
	MaxFutureDays int
	// MinAmount is the smallest accepted amount.
	MinAmount decimal.Decimal
	// SuspiciousAmount flags, but still accepts, larger amounts.
	SuspiciousAmount decimal.Decimal
}

// DefaultLimits returns two years back, one day ahead, R$ 0,01 floor and
// R$ 500.000 suspicion threshold.
func DefaultLimits() Limits {
	return Limits{
		MaxAgeDays:       2 * 365,
		MaxFutureDays:    1,
		MinAmount:        decimal.RequireFromString("0.01"),
		SuspiciousAmount: decimal.NewFromInt(500000),
	}
}
