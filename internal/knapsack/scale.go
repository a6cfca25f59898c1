package knapsack

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MinorUnitFactor is the number of minor units (cents) per currency unit.
	MinorUnitFactor = 100

	minorUnitExponent = 2
	percentExponent   = 2

	// maxRateDigits caps the fractional digits of a return rate kept by the
	// optimizer. Digits beyond it are truncated.
	maxRateDigits = 6
)

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// ToMinorUnits converts an amount to minor units, truncating toward zero:
// 1.2345 becomes 123. Sub-cent precision is discarded.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	scaled := amount.Shift(minorUnitExponent).Truncate(0)
	if scaled.Abs().GreaterThan(maxInt64) {
		return 0, &BudgetOverflowError{Budget: amount, Index: -1, Reason: "amount does not fit in int64 minor units"}
	}
	return scaled.IntPart(), nil
}

// FromMinorUnits converts minor units back to a currency amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -minorUnitExponent)
}

// scaledOption is an option expressed in integers for the profit table.
// profit is costMinor * rate * 10^rateDigits, i.e. currency scaled by
// 10^(minorUnitExponent+percentExponent+rateDigits).
type scaledOption struct {
	cost   int64
	profit int64
}

// rateDigits returns the number of fractional digits needed to hold every
// return rate exactly, capped at maxRateDigits.
func rateDigits(options []Option) int32 {
	var digits int32
	for _, opt := range options {
		if exp := opt.ReturnRate.Exponent(); -exp > digits {
			digits = -exp
		}
	}
	if digits > maxRateDigits {
		digits = maxRateDigits
	}
	return digits
}

// scaleOptions converts every option to integer cost and profit. It returns
// the largest scaled rate so callers can bound the table's profit range.
func scaleOptions(options []Option, digits int32) ([]scaledOption, int64, error) {
	scaled := make([]scaledOption, len(options))
	var maxRate int64
	for i, opt := range options {
		cost, err := ToMinorUnits(opt.Cost)
		if err != nil {
			return nil, 0, &BudgetOverflowError{Index: i, Reason: "cost " + opt.Cost.String() + " does not fit in int64 minor units"}
		}
		rateDec := opt.ReturnRate.Shift(digits).Truncate(0)
		if rateDec.GreaterThan(maxInt64) {
			return nil, 0, &BudgetOverflowError{Index: i, Reason: "return rate " + opt.ReturnRate.String() + " does not fit in int64"}
		}
		rate := rateDec.IntPart()
		if rate > maxRate {
			maxRate = rate
		}
		if rate > 0 && cost > math.MaxInt64/rate {
			return nil, 0, &BudgetOverflowError{Index: i, Reason: "option profit does not fit in int64"}
		}
		scaled[i] = scaledOption{cost: cost, profit: cost * rate}
	}
	return scaled, maxRate, nil
}

// profitToDecimal rescales a table profit back to currency.
func profitToDecimal(profit int64, digits int32) decimal.Decimal {
	return decimal.New(profit, -(minorUnitExponent + percentExponent + digits))
}
