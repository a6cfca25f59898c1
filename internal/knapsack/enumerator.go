package knapsack

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxEnumeratorOptions bounds the exhaustive solver. Past this the
	// 2^n subsets take too long to be useful as a reference.
	DefaultMaxEnumeratorOptions = 25

	// maxEnumeratorBits is the largest n a uint64 mask can enumerate.
	maxEnumeratorBits = 62
)

// Enumerator solves by evaluating every non-empty subset. Time is O(2^n * n)
// so it is only practical for small inputs; it exists to cross-check the
// Optimizer.
type Enumerator struct {
	MaxOptions int
}

// NewEnumerator returns an Enumerator limited to maxOptions options. A
// non-positive limit selects DefaultMaxEnumeratorOptions.
func NewEnumerator(maxOptions int) *Enumerator {
	return &Enumerator{MaxOptions: maxOptions}
}

func (e *Enumerator) limit() int {
	limit := e.MaxOptions
	if limit <= 0 {
		limit = DefaultMaxEnumeratorOptions
	}
	if limit > maxEnumeratorBits {
		limit = maxEnumeratorBits
	}
	return limit
}

// candidate is one evaluated subset. Mask 0 is the empty selection.
type candidate struct {
	mask     uint64
	cost     decimal.Decimal
	profit   decimal.Decimal
	feasible bool
}

// Solve returns the feasible subset with the highest profit. Equal profits
// prefer the lower cost; equal profit and cost keep the lowest mask, i.e. the
// subset that leaves out later options.
func (e *Enumerator) Solve(options []Option, budget decimal.Decimal) (Solution, error) {
	if err := validate(options, budget); err != nil {
		return Solution{}, err
	}
	n := len(options)
	if limit := e.limit(); n > limit {
		return Solution{}, &InvalidInputError{
			Field:  "options",
			Index:  -1,
			Value:  strconv.Itoa(n),
			Reason: fmt.Sprintf("exhaustive enumeration is limited to %d options", limit),
		}
	}

	profits := make([]decimal.Decimal, n)
	for i, opt := range options {
		profits[i] = opt.Profit()
	}

	best := candidate{cost: decimal.Zero, profit: decimal.Zero, feasible: true}
	end := uint64(1) << uint(n)
	for mask := uint64(1); mask < end; mask++ {
		best = better(evaluate(options, profits, budget, mask), best)
	}

	return best.solution(options), nil
}

// evaluate sums the subset encoded by mask. Costs are non-negative, so the
// walk stops as soon as the running cost exceeds the budget.
func evaluate(options []Option, profits []decimal.Decimal, budget decimal.Decimal, mask uint64) candidate {
	c := candidate{mask: mask, cost: decimal.Zero, profit: decimal.Zero}
	for j := range options {
		if mask&(1<<uint(j)) == 0 {
			continue
		}
		c.cost = c.cost.Add(options[j].Cost)
		if c.cost.GreaterThan(budget) {
			return c
		}
		c.profit = c.profit.Add(profits[j])
	}
	c.feasible = true
	return c
}

// better folds one candidate into the running best.
func better(c, best candidate) candidate {
	if !c.feasible {
		return best
	}
	switch c.profit.Cmp(best.profit) {
	case 1:
		return c
	case 0:
		if c.cost.LessThan(best.cost) {
			return c
		}
	}
	return best
}

func (c candidate) solution(options []Option) Solution {
	if c.mask == 0 {
		return emptySolution()
	}
	var indexes []int
	for j := range options {
		if c.mask&(1<<uint(j)) != 0 {
			indexes = append(indexes, j)
		}
	}
	return Solution{
		Selected:    pick(options, indexes),
		TotalCost:   c.cost,
		TotalProfit: c.profit,
	}
}
