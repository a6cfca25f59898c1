// Package format renders money and rates for display.
package format

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func lookup(code string) *money.Currency {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
}

// KnownCurrency reports whether code is an ISO 4217 currency known to go-money.
func KnownCurrency(code string) bool {
	return lookup(code) != nil
}

// MinorDigits returns the number of decimal places in the currency's minor
// unit, or false for an unknown code.
func MinorDigits(code string) (int, bool) {
	cur := lookup(code)
	if cur == nil {
		return 0, false
	}
	return cur.Fraction, true
}

// Currency returns the amount with the currency's symbol and separators
// (e.g., "$1,234.56"), rounded to the currency's minor unit. Unknown codes
// fall back to "1234.56 XYZ".
func Currency(amount decimal.Decimal, code string) string {
	cur := lookup(code)
	if cur == nil {
		return NumericCurrency(amount) + " " + code
	}
	units := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(units)
}

// NumericCurrency returns the amount with two decimals and no symbol (e.g., "-1234.56").
func NumericCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Percent returns a rate with two decimals and a percent sign (e.g., "12.50%").
func Percent(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}
