package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/investment-optimizer/pkg/format"
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
)

// PrettyComparison prints each summary followed by the differences between them.
func PrettyComparison(w io.Writer, c optimization.Comparison) {
	for i, s := range c.Summaries {
		if i > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}
		PrettyFormat(w, s)
	}

	currency := comparisonCurrency(c)
	_, _ = fmt.Fprintf(w, "\n--- Comparison ---\n")
	if c.Agree {
		_, _ = fmt.Fprintf(w, "Solvers agree on the best profit.\n")
	} else {
		_, _ = fmt.Fprintf(w, "Solvers DISAGREE on the best profit.\n")
	}
	for _, d := range c.Deltas {
		_, _ = fmt.Fprintf(w, "%s vs %s: cost %s %s, profit %s %s\n", d.Subject, d.Baseline,
			direction(d.Cost.Sign(), "more", "less"), format.Currency(d.Cost.Abs(), currency),
			direction(d.Profit.Sign(), "more", "less"), format.Currency(d.Profit.Abs(), currency))
	}
	for _, note := range c.Notes {
		_, _ = fmt.Fprintf(w, "Note: %s\n", note)
	}
}

// CsvComparison outputs one row per summary and one per delta.
func CsvComparison(w io.Writer, c optimization.Comparison) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"kind", "name", "cost", "profit", "selected"})
	for _, s := range c.Summaries {
		names := make([]string, len(s.Selected))
		for i, pick := range s.Selected {
			names[i] = pick.Name
		}
		_ = cw.Write([]string{"summary", s.Strategy, format.NumericCurrency(s.TotalCost), s.TotalProfit.String(), strings.Join(names, " ")})
	}
	for _, d := range c.Deltas {
		_ = cw.Write([]string{"delta", d.Subject + " vs " + d.Baseline, format.NumericCurrency(d.Cost), d.Profit.String(), ""})
	}
	cw.Flush()
	return cw.Error()
}

// MarkdownComparison builds a markdown report of a comparison.
func MarkdownComparison(c optimization.Comparison) string {
	var b strings.Builder
	for _, s := range c.Summaries {
		b.WriteString(Markdown(s))
		b.WriteString("\n")
	}
	currency := comparisonCurrency(c)
	b.WriteString("# Comparison\n\n")
	if c.Agree {
		b.WriteString("Solvers agree on the best profit.\n\n")
	} else {
		b.WriteString("**Solvers disagree on the best profit.**\n\n")
	}
	if len(c.Deltas) > 0 {
		b.WriteString("| Subject | Baseline | Cost delta | Profit delta |\n")
		b.WriteString("|:--------|:---------|-----------:|-------------:|\n")
		for _, d := range c.Deltas {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Subject, d.Baseline,
				format.Currency(d.Cost, currency), format.Currency(d.Profit, currency))
		}
	}
	for _, note := range c.Notes {
		fmt.Fprintf(&b, "\n_%s_\n", note)
	}
	return b.String()
}

func comparisonCurrency(c optimization.Comparison) string {
	if len(c.Summaries) > 0 {
		return c.Summaries[0].Currency
	}
	return ""
}

func direction(sign int, positive, negative string) string {
	if sign < 0 {
		return negative
	}
	return positive
}
