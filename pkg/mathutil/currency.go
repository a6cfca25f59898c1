// Package mathutil provides common decimal helpers for currency amounts.
package mathutil

import (
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/shopspring/decimal"
)

// CurrencyTolerance is one minor unit (1 cent).
var CurrencyTolerance = decimal.New(1, -constants.CurrencyDecimals)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyDecimals)
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(CurrencyTolerance)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// ApplyPercentage applies a percentage to a value. The result is exact: the
// division by 100 is a decimal shift.
func ApplyPercentage(value, percentage decimal.Decimal) decimal.Decimal {
	return value.Mul(percentage).Shift(-constants.PercentageDecimals)
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Shift(constants.PercentageDecimals).Div(total)
}
