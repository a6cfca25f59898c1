// Package optimization provides shared data structures for optimization results.
package optimization

import (
	"time"

	"github.com/iwvelando/investment-optimizer/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Pick is one selected option as reported to users.
type Pick struct {
	Name       string          `json:"name"`
	Cost       decimal.Decimal `json:"cost"`
	ReturnRate decimal.Decimal `json:"returnRate"`
	Profit     decimal.Decimal `json:"profit"`
}

// Summary captures the result of a single solver run.
type Summary struct {
	Strategy       string          `json:"strategy"`
	Currency       string          `json:"currency"`
	Budget         decimal.Decimal `json:"budget"`
	Candidates     int             `json:"candidates"`
	Selected       []Pick          `json:"selected"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	Unspent        decimal.Decimal `json:"unspent"`
	Elapsed        time.Duration   `json:"elapsed"`
	AllocatedBytes uint64          `json:"allocatedBytes"`
	Notes          []string        `json:"notes,omitempty"`
}

// Empty indicates whether nothing was selected.
func (s Summary) Empty() bool {
	return len(s.Selected) == 0
}

// Yield is the overall return of the selection in percent.
func (s Summary) Yield() decimal.Decimal {
	return mathutil.CalculatePercentage(s.TotalProfit, s.TotalCost).Round(4)
}

// Delta is the difference between a summary and a baseline (subject minus
// baseline).
type Delta struct {
	Subject  string          `json:"subject"`
	Baseline string          `json:"baseline"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
}

// Comparison holds the summaries of several solvers over the same input.
type Comparison struct {
	Summaries []Summary `json:"summaries"`
	Agree     bool      `json:"agree"`
	Deltas    []Delta   `json:"deltas,omitempty"`
	Notes     []string  `json:"notes,omitempty"`
}
