package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/format"
)

// ValidateBudget checks that a budget is a finite, non-negative amount.
func ValidateBudget(budget float64) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		return fmt.Errorf("budget %v must be a finite amount", budget)
	}
	if budget < 0 {
		return fmt.Errorf("budget %.2f must not be negative", budget)
	}
	return nil
}

// ValidateCurrency checks that code is an ISO 4217 currency with a two
// decimal minor unit, the precision amounts are solved in.
func ValidateCurrency(code string) error {
	if !format.KnownCurrency(code) {
		return fmt.Errorf("unknown currency code %q", code)
	}
	if digits, _ := format.MinorDigits(code); digits != constants.CurrencyDecimals {
		return fmt.Errorf("currency %s has %d decimal places, expected %d",
			strings.ToUpper(strings.TrimSpace(code)), digits, constants.CurrencyDecimals)
	}
	return nil
}

// ValidateDelimiter checks that an input field separator is a single
// character other than the quote and newline characters.
func ValidateDelimiter(delimiter string) error {
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("input delimiter %q must be a single character", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("input delimiter %q is not allowed", delimiter)
	}
	return nil
}
