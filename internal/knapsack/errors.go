package knapsack

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBudgetOverflow matches every *BudgetOverflowError.
	ErrBudgetOverflow = errors.New("budget overflow")
)

// InvalidInputError reports a negative budget, cost or return rate, or an
// instance too large for the exhaustive solver.
type InvalidInputError struct {
	Field  string // budget, cost, returnRate, options
	Index  int    // option index, -1 when not tied to an option
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s %s for option %d: %s", e.Field, e.Value, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// BudgetOverflowError is returned before allocation when the profit table
// for an instance would exceed the configured size bound, or when scaled
// amounts do not fit in an int64.
type BudgetOverflowError struct {
	Budget decimal.Decimal
	Index  int    // offending option, -1 when the budget itself overflows
	Cells  uint64 // requested table cells, 0 when the failure is not about size
	Limit  int64
	Reason string
}

func (e *BudgetOverflowError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("option %d overflows: %s", e.Index, e.Reason)
	}
	if e.Cells > 0 {
		return fmt.Sprintf("budget %s overflows profit table: %d cells requested, limit %d",
			e.Budget.String(), e.Cells, e.Limit)
	}
	return fmt.Sprintf("budget %s overflows: %s", e.Budget.String(), e.Reason)
}

// Is lets errors.Is(err, ErrBudgetOverflow) match.
func (e *BudgetOverflowError) Is(target error) bool {
	return target == ErrBudgetOverflow
}

// validate rejects negative budgets, costs and return rates.
func validate(options []Option, budget decimal.Decimal) error {
	if budget.IsNegative() {
		return &InvalidInputError{Field: "budget", Index: -1, Value: budget.String(), Reason: "must not be negative"}
	}
	for i, opt := range options {
		if opt.Cost.IsNegative() {
			return &InvalidInputError{Field: "cost", Index: i, Value: opt.Cost.String(), Reason: "must not be negative"}
		}
		if opt.ReturnRate.IsNegative() {
			return &InvalidInputError{Field: "returnRate", Index: i, Value: opt.ReturnRate.String(), Reason: "must not be negative"}
		}
	}
	return nil
}
