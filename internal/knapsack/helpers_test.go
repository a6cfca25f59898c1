package knapsack

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func opt(name, cost, rate string) Option {
	return Option{Name: name, Cost: dec(cost), ReturnRate: dec(rate)}
}

// randomInstance builds n options with whole-cent costs and one-decimal
// rates, plus a whole-cent budget, so both solvers see identical inputs.
func randomInstance(rng *rand.Rand, n int) ([]Option, decimal.Decimal) {
	options := make([]Option, n)
	var total int64
	for i := range options {
		cents := rng.Int63n(20000) + 1
		total += cents
		options[i] = Option{
			Name:       string(rune('A' + i)),
			Cost:       decimal.New(cents, -2),
			ReturnRate: decimal.New(rng.Int63n(400), -1),
		}
	}
	budget := decimal.New(rng.Int63n(total/2+1), -2)
	return options, budget
}

func assertSolution(t *testing.T, got Solution, names []string, cost, profit string) {
	t.Helper()
	if gotNames := got.Names(); !reflect.DeepEqual(gotNames, names) {
		t.Errorf("expected selection %v, got %v", names, gotNames)
	}
	if !got.TotalCost.Equal(dec(cost)) {
		t.Errorf("expected total cost %s, got %s", cost, got.TotalCost)
	}
	if !got.TotalProfit.Equal(dec(profit)) {
		t.Errorf("expected total profit %s, got %s", profit, got.TotalProfit)
	}
}
