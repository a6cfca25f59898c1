// Package knapsack selects the subset of investment options that maximizes
// profit within a budget. It provides an exact dynamic-programming solver
// (Optimizer) and an exhaustive reference solver (Enumerator) that must agree
// on every instance small enough for both to run.
package knapsack

import (
	"github.com/iwvelando/investment-optimizer/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Option is a candidate investment. Options are compared by position, so two
// options with identical fields are still distinct candidates.
type Option struct {
	Name       string
	Cost       decimal.Decimal
	ReturnRate decimal.Decimal // percent over the holding period
}

// NewOption builds an Option from float inputs, mostly for tests and callers
// that already hold parsed values.
func NewOption(name string, cost, returnRate float64) Option {
	return Option{
		Name:       name,
		Cost:       decimal.NewFromFloat(cost),
		ReturnRate: decimal.NewFromFloat(returnRate),
	}
}

// Profit returns cost * returnRate / 100 without rounding.
func (o Option) Profit() decimal.Decimal {
	return mathutil.ApplyPercentage(o.Cost, o.ReturnRate)
}

// Solution is the subset chosen by a solver.
type Solution struct {
	Selected    []Option // input order
	TotalCost   decimal.Decimal
	TotalProfit decimal.Decimal
}

// Empty reports whether no option was selected.
func (s Solution) Empty() bool {
	return len(s.Selected) == 0
}

// Names returns the names of the selected options in input order.
func (s Solution) Names() []string {
	names := make([]string, len(s.Selected))
	for i, opt := range s.Selected {
		names[i] = opt.Name
	}
	return names
}

// Solver is implemented by both selection strategies.
type Solver interface {
	Solve(options []Option, budget decimal.Decimal) (Solution, error)
}

func emptySolution() Solution {
	return Solution{
		Selected:    []Option{},
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
	}
}

// pick copies the options at the given (ascending) indexes.
func pick(options []Option, indexes []int) []Option {
	selected := make([]Option, len(indexes))
	for i, idx := range indexes {
		selected[i] = options[idx]
	}
	return selected
}
