// Package optimizer runs the configured solvers over a set of options and
// summarizes, instruments and compares their results.
package optimizer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/mathutil"
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultReferenceName = "reference"

// Runner solves option sets according to a Configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Runner{logger: logger, conf: conf}, nil
}

func (r *Runner) solver(strategy string) (knapsack.Solver, error) {
	switch config.CanonicalStrategy(strategy) {
	case constants.StrategyKnapsack:
		opt := knapsack.NewOptimizer(r.logger, r.conf.Solver.MaxTableCells)
		opt.Trace = r.conf.Solver.Trace
		return opt, nil
	case constants.StrategyBruteForce:
		return knapsack.NewEnumerator(r.conf.Solver.MaxEnumeratorOptions), nil
	default:
		return nil, fmt.Errorf("unsupported solver strategy %q", strategy)
	}
}

// Run solves with the configured strategy.
func (r *Runner) Run(options []knapsack.Option) (*optimization.Summary, error) {
	return r.RunStrategy(r.conf.Solver.Strategy, options)
}

// RunStrategy solves with the named strategy and records elapsed time and
// bytes allocated by the solver.
func (r *Runner) RunStrategy(strategy string, options []knapsack.Option) (*optimization.Summary, error) {
	strategy = config.CanonicalStrategy(strategy)
	solver, err := r.solver(strategy)
	if err != nil {
		return nil, err
	}
	budget := r.conf.BudgetAmount()

	r.logger.Debug("solver starting",
		zap.String("op", "optimizer.RunStrategy"),
		zap.String("strategy", strategy),
		zap.Int("options", len(options)),
		zap.String("budget", budget.String()),
	)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	solution, err := solver.Solve(options, budget)
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	if err != nil {
		return nil, fmt.Errorf("%s solver failed: %w", strategy, err)
	}

	summary := Summarize(strategy, r.conf.Currency, budget, len(options), solution)
	summary.Elapsed = elapsed
	summary.AllocatedBytes = after.TotalAlloc - before.TotalAlloc

	r.logger.Info("solver finished",
		zap.String("op", "optimizer.RunStrategy"),
		zap.String("strategy", strategy),
		zap.Int("selected", len(summary.Selected)),
		zap.String("totalCost", summary.TotalCost.String()),
		zap.String("totalProfit", summary.TotalProfit.String()),
		zap.Duration("elapsed", elapsed),
		zap.Uint64("allocatedBytes", summary.AllocatedBytes),
	)
	return summary, nil
}

// Compare runs the knapsack solver, the brute force solver when the input is
// within its limit, and the configured reference, and reports the
// differences relative to the knapsack result.
func (r *Runner) Compare(options []knapsack.Option) (*optimization.Comparison, error) {
	primary, err := r.RunStrategy(constants.StrategyKnapsack, options)
	if err != nil {
		return nil, err
	}
	cmp := &optimization.Comparison{
		Summaries: []optimization.Summary{*primary},
		Agree:     true,
	}

	if limit := r.conf.Solver.MaxEnumeratorOptions; len(options) <= limit {
		exhaustive, err := r.RunStrategy(constants.StrategyBruteForce, options)
		if err != nil {
			return nil, err
		}
		cmp.Summaries = append(cmp.Summaries, *exhaustive)
		cmp.Deltas = append(cmp.Deltas, delta(*primary, exhaustive.Strategy, exhaustive.TotalCost, exhaustive.TotalProfit))
		cmp.Agree = mathutil.WithinTolerance(primary.TotalProfit, exhaustive.TotalProfit, mathutil.CurrencyTolerance)
	} else {
		cmp.Notes = append(cmp.Notes, fmt.Sprintf("%s skipped: %d options exceed the limit of %d",
			constants.StrategyBruteForce, len(options), limit))
	}

	if ref := r.conf.Reference; ref.Enabled() {
		name := ref.Name
		if name == "" {
			name = defaultReferenceName
		}
		d := delta(*primary, name,
			mathutil.Round(decimal.NewFromFloat(ref.Cost)),
			mathutil.Round(decimal.NewFromFloat(ref.Profit)))
		cmp.Deltas = append(cmp.Deltas, d)
		if mathutil.IsZero(d.Cost) && mathutil.IsZero(d.Profit) {
			cmp.Notes = append(cmp.Notes, fmt.Sprintf("%s matches the %s selection within one cent", primary.Strategy, name))
		}
	}

	if !cmp.Agree {
		r.logger.Warn("solvers disagree on the best profit",
			zap.String("op", "optimizer.Compare"),
			zap.String("knapsack", primary.TotalProfit.String()),
			zap.String("bruteforce", cmp.Summaries[1].TotalProfit.String()),
		)
	}
	return cmp, nil
}

// Summarize converts a solver Solution into a report.
func Summarize(strategy, currency string, budget decimal.Decimal, candidates int, solution knapsack.Solution) *optimization.Summary {
	picks := make([]optimization.Pick, len(solution.Selected))
	for i, opt := range solution.Selected {
		picks[i] = optimization.Pick{
			Name:       opt.Name,
			Cost:       opt.Cost,
			ReturnRate: opt.ReturnRate,
			Profit:     opt.Profit(),
		}
	}
	return &optimization.Summary{
		Strategy:    strategy,
		Currency:    currency,
		Budget:      budget,
		Candidates:  candidates,
		Selected:    picks,
		TotalCost:   solution.TotalCost,
		TotalProfit: solution.TotalProfit,
		Unspent:     budget.Sub(solution.TotalCost),
	}
}

func delta(subject optimization.Summary, baseline string, cost, profit decimal.Decimal) optimization.Delta {
	return optimization.Delta{
		Subject:  subject.Strategy,
		Baseline: baseline,
		Cost:     subject.TotalCost.Sub(cost),
		Profit:   subject.TotalProfit.Sub(profit),
	}
}
