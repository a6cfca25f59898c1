package knapsack

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOptimizerSolve(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		budget  string
		names   []string
		cost    string
		profit  string
	}{
		{
			name:    "Best pair uses the full budget",
			options: []Option{opt("A", "100", "10"), opt("B", "200", "15"), opt("C", "300", "20")},
			budget:  "400",
			names:   []string{"A", "C"},
			cost:    "400",
			profit:  "70",
		},
		{
			name:    "Equal profit prefers lower cost",
			options: []Option{opt("X", "100", "10"), opt("Y", "50", "20")},
			budget:  "100",
			names:   []string{"Y"},
			cost:    "50",
			profit:  "10",
		},
		{
			name:    "Equal profit and cost keeps earlier options",
			options: []Option{opt("P", "100", "10"), opt("Q", "100", "10")},
			budget:  "150",
			names:   []string{"P"},
			cost:    "100",
			profit:  "10",
		},
		{
			name:    "Cheaper pair beats a single option of equal profit",
			options: []Option{opt("A", "50", "20"), opt("B", "50", "20"), opt("C", "100", "10")},
			budget:  "100",
			names:   []string{"A", "B"},
			cost:    "100",
			profit:  "20",
		},
		{
			name:    "Option above the budget is excluded",
			options: []Option{opt("Big", "1000", "50"), opt("Small", "10", "5")},
			budget:  "500",
			names:   []string{"Small"},
			cost:    "10",
			profit:  "0.5",
		},
		{
			name:    "Nothing fits",
			options: []Option{opt("A", "100", "10")},
			budget:  "99.99",
			names:   []string{},
			cost:    "0",
			profit:  "0",
		},
		{
			name:    "No options",
			options: []Option{},
			budget:  "500",
			names:   []string{},
			cost:    "0",
			profit:  "0",
		},
		{
			name:    "Zero budget",
			options: []Option{opt("A", "1", "10")},
			budget:  "0",
			names:   []string{},
			cost:    "0",
			profit:  "0",
		},
		{
			name:    "Budget below one cent",
			options: []Option{opt("A", "0.001", "10")},
			budget:  "0.009",
			names:   []string{},
			cost:    "0",
			profit:  "0",
		},
		{
			name:    "Fractional rate stays exact",
			options: []Option{opt("S", "19.99", "12.5")},
			budget:  "20",
			names:   []string{"S"},
			cost:    "19.99",
			profit:  "2.49875",
		},
		{
			name:    "Sub-cent cost is truncated",
			options: []Option{opt("T", "1.2345", "10")},
			budget:  "2",
			names:   []string{"T"},
			cost:    "1.23",
			profit:  "0.123",
		},
		{
			name:    "Duplicates are distinct candidates",
			options: []Option{opt("D", "10", "10"), opt("D", "10", "10")},
			budget:  "20",
			names:   []string{"D", "D"},
			cost:    "20",
			profit:  "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOptimizer(zap.NewNop(), 0).Solve(tt.options, dec(tt.budget))
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			assertSolution(t, got, tt.names, tt.cost, tt.profit)
		})
	}
}

func TestOptimizerRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		budget  string
	}{
		{"Negative budget", []Option{opt("A", "1", "1")}, "-0.01"},
		{"Negative cost", []Option{opt("A", "-1", "1")}, "10"},
		{"Negative rate", []Option{opt("A", "1", "-1")}, "10"},
		{"Negative budget without options", nil, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOptimizer(nil, 0).Solve(tt.options, dec(tt.budget))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestOptimizerBudgetOverflow(t *testing.T) {
	small := []Option{opt("A", "1", "1"), opt("B", "2", "1")}

	tests := []struct {
		name    string
		options []Option
		budget  string
		cells   int64
		index   int
		reason  string
	}{
		{"table too large", small, "100", 1000, -1, ""},
		{"budget not scalable", small, "1e30", 0, -1, "amount does not fit"},
		{"cost not scalable", []Option{opt("A", "1", "1"), opt("B", "1e30", "1")}, "2", 0, 1, "cost 1000000000000000000000000000000"},
		{"return rate not scalable", []Option{opt("A", "1", "1e19")}, "2", 0, 0, "return rate"},
		{"option profit", []Option{opt("A", "1", "1e17")}, "2", 0, 0, "option profit does not fit"},
		{"maximum profit", []Option{opt("A", "3", "1e15"), opt("B", "1", "1")}, "200", 0, -1, "maximum profit does not fit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOptimizer(nil, tt.cells).Solve(tt.options, dec(tt.budget))
			if !errors.Is(err, ErrBudgetOverflow) {
				t.Fatalf("expected ErrBudgetOverflow, got %v", err)
			}
			var overflow *BudgetOverflowError
			if !errors.As(err, &overflow) {
				t.Fatalf("expected *BudgetOverflowError, got %T", err)
			}
			if overflow.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, overflow.Index)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("expected %q in %q", tt.reason, err.Error())
			}
			if tt.index >= 0 && strings.Contains(err.Error(), "budget") {
				t.Errorf("option overflow should not be reported as a budget overflow: %v", err)
			}
		})
	}

	_, err := NewOptimizer(nil, 1000).Solve(small, dec("100"))
	var overflow *BudgetOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected *BudgetOverflowError, got %T", err)
	}
	if overflow.Cells != 3*10001 {
		t.Errorf("expected %d requested cells, got %d", 3*10001, overflow.Cells)
	}
	if overflow.Limit != 1000 {
		t.Errorf("expected limit 1000, got %d", overflow.Limit)
	}

	if _, err := NewOptimizer(nil, 1000).Solve(small, dec("3")); err != nil {
		t.Fatalf("expected small table to fit, got %v", err)
	}
}

func TestOptimizerTraceLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	optimizer := NewOptimizer(zap.New(core), 0)
	optimizer.Trace = true

	options := []Option{opt("A", "100", "10"), opt("B", "200", "15"), opt("C", "300", "20")}
	if _, err := optimizer.Solve(options, dec("400")); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if got := logs.FilterMessage("profit table row filled").Len(); got != 3 {
		t.Errorf("expected 3 row entries, got %d", got)
	}
	if got := logs.FilterMessage("option selected").Len(); got != 2 {
		t.Errorf("expected 2 selected entries, got %d", got)
	}
	if got := logs.FilterMessage("option skipped").Len(); got != 1 {
		t.Errorf("expected 1 skipped entry, got %d", got)
	}

	quiet, quietLogs := observer.New(zapcore.DebugLevel)
	if _, err := NewOptimizer(zap.New(quiet), 0).Solve(options, dec("400")); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if quietLogs.Len() != 0 {
		t.Errorf("expected no logs without trace, got %d", quietLogs.Len())
	}
}

func TestProfitTableInvariants(t *testing.T) {
	options := []Option{opt("A", "1.00", "10"), opt("B", "2.50", "15"), opt("C", "0.75", "20"), opt("D", "3", "5")}
	digits := rateDigits(options)
	scaled, _, err := scaleOptions(options, digits)
	if err != nil {
		t.Fatalf("scaleOptions() error = %v", err)
	}

	table := newProfitTable(len(options), 500)
	NewOptimizer(nil, 0).fill(table, options, scaled)

	for b, v := range table.row(0) {
		if v != 0 {
			t.Fatalf("row 0 column %d = %d, expected 0", b, v)
		}
	}
	for i := 0; i < table.rows; i++ {
		row := table.row(i)
		if row[0] != 0 {
			t.Errorf("row %d column 0 = %d, expected 0", i, row[0])
		}
		for b := 1; b < table.cols; b++ {
			if row[b] < row[b-1] {
				t.Fatalf("row %d decreases at column %d", i, b)
			}
			if i > 0 && row[b] < table.row(i-1)[b] {
				t.Fatalf("cell (%d, %d) below previous row", i, b)
			}
		}
	}

	if got := profitToDecimal(table.row(len(options))[500], digits); !got.Equal(decimal.RequireFromString("0.625")) {
		t.Errorf("expected best profit 0.625 for budget 5.00, got %s", got)
	}
}
