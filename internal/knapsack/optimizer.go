package knapsack

import (
	"math"
	"math/bits"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxTableCells bounds the profit table (8 bytes per cell, 512 MiB).
const DefaultMaxTableCells int64 = 1 << 26

// Optimizer solves the 0/1 selection exactly with a profit table indexed by
// option prefix and budget in minor units. Costs are truncated to whole
// minor units before solving; see ToMinorUnits.
type Optimizer struct {
	MaxTableCells int64
	// Trace logs every table row and backtrack step at debug level.
	Trace  bool
	logger *zap.Logger
}

// NewOptimizer returns an Optimizer bounded to maxTableCells cells. A
// non-positive bound selects DefaultMaxTableCells.
func NewOptimizer(logger *zap.Logger, maxTableCells int64) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{MaxTableCells: maxTableCells, logger: logger}
}

func (o *Optimizer) limit() int64 {
	if o.MaxTableCells <= 0 {
		return DefaultMaxTableCells
	}
	return o.MaxTableCells
}

func (o *Optimizer) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// profitTable holds (rows) x (cols) profits. Row i is the best profit using
// the first i options; column b is the spending cap in minor units.
type profitTable struct {
	rows, cols int
	cells      []int64
}

func newProfitTable(options, budget int) *profitTable {
	rows, cols := options+1, budget+1
	return &profitTable{rows: rows, cols: cols, cells: make([]int64, rows*cols)}
}

func (t *profitTable) row(i int) []int64 {
	return t.cells[i*t.cols : (i+1)*t.cols]
}

// Solve returns the highest-profit subset whose scaled cost fits the scaled
// budget. Among optimal subsets the cheapest is returned; equal profit and
// cost prefer leaving out later options.
func (o *Optimizer) Solve(options []Option, budget decimal.Decimal) (Solution, error) {
	if err := validate(options, budget); err != nil {
		return Solution{}, err
	}
	budgetUnits, err := ToMinorUnits(budget)
	if err != nil {
		return Solution{}, err
	}
	n := len(options)
	if n == 0 || budgetUnits == 0 {
		return emptySolution(), nil
	}

	if err := o.checkTableSize(budget, n, budgetUnits); err != nil {
		return Solution{}, err
	}
	digits := rateDigits(options)
	scaled, maxRate, err := scaleOptions(options, digits)
	if err != nil {
		return Solution{}, err
	}
	if maxRate > 0 && budgetUnits > math.MaxInt64/maxRate {
		return Solution{}, &BudgetOverflowError{Budget: budget, Index: -1, Reason: "maximum profit does not fit in int64"}
	}

	table := newProfitTable(n, int(budgetUnits))
	o.fill(table, options, scaled)

	last := table.row(n)
	best := last[len(last)-1]
	// Row n is non-decreasing, so the first level reaching the optimum is the
	// cheapest spend achieving it.
	cheapest := sort.Search(len(last), func(b int) bool { return last[b] >= best })

	indexes, spent := o.backtrack(table, options, scaled, cheapest)
	if len(indexes) == 0 {
		return emptySolution(), nil
	}

	return Solution{
		Selected:    pick(options, indexes),
		TotalCost:   FromMinorUnits(spent),
		TotalProfit: profitToDecimal(best, digits),
	}, nil
}

func (o *Optimizer) checkTableSize(budget decimal.Decimal, n int, budgetUnits int64) error {
	hi, cells := bits.Mul64(uint64(n)+1, uint64(budgetUnits)+1)
	if hi != 0 {
		cells = math.MaxUint64
	}
	if limit := o.limit(); hi != 0 || cells > uint64(limit) {
		return &BudgetOverflowError{Budget: budget, Index: -1, Cells: cells, Limit: limit}
	}
	return nil
}

func (o *Optimizer) fill(table *profitTable, options []Option, scaled []scaledOption) {
	for i := 1; i < table.rows; i++ {
		prev, cur := table.row(i-1), table.row(i)
		item := scaled[i-1]
		for b := range cur {
			cur[b] = prev[b]
			if item.cost > int64(b) {
				continue
			}
			if take := prev[b-int(item.cost)] + item.profit; take > cur[b] {
				cur[b] = take
			}
		}
		if o.Trace {
			o.log().Debug("profit table row filled",
				zap.String("op", "knapsack.fill"),
				zap.Int("row", i),
				zap.String("option", options[i-1].Name),
				zap.Int64("costUnits", item.cost),
				zap.Int64("profitUnits", item.profit),
				zap.Int64("bestProfitUnits", cur[len(cur)-1]),
			)
		}
	}
}

// backtrack walks rows n..1 from budget level b. An option was used iff its
// row differs from the previous one at the current level.
func (o *Optimizer) backtrack(table *profitTable, options []Option, scaled []scaledOption, b int) ([]int, int64) {
	var indexes []int
	var spent int64
	for i := table.rows - 1; i >= 1; i-- {
		if table.row(i)[b] == table.row(i-1)[b] {
			if o.Trace {
				o.log().Debug("option skipped",
					zap.String("op", "knapsack.backtrack"),
					zap.String("option", options[i-1].Name),
					zap.Int("remainingUnits", b),
				)
			}
			continue
		}
		indexes = append(indexes, i-1)
		spent += scaled[i-1].cost
		b -= int(scaled[i-1].cost)
		if o.Trace {
			o.log().Debug("option selected",
				zap.String("op", "knapsack.backtrack"),
				zap.String("option", options[i-1].Name),
				zap.Int("remainingUnits", b),
			)
		}
	}
	for l, r := 0, len(indexes)-1; l < r; l, r = l+1, r-1 {
		indexes[l], indexes[r] = indexes[r], indexes[l]
	}
	return indexes, spent
}
