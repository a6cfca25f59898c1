// Package output provides utilities for formatting and displaying optimization results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/iwvelando/investment-optimizer/pkg/format"
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, s optimization.Summary) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "--- Selection by %s (%d candidates, budget %s) ---\n",
		s.Strategy, s.Candidates, format.Currency(s.Budget, s.Currency))

	if s.Empty() {
		_, _ = fmt.Fprintf(w, "No combination of options fits the budget.\n")
	} else {
		width := len("Option")
		for _, pick := range s.Selected {
			if len(pick.Name) > width {
				width = len(pick.Name)
			}
		}
		_, _ = fmt.Fprintf(w, "%-*s | %12s | %8s | %10s\n", width, "Option", "Cost", "Return", "Profit")
		_, _ = fmt.Fprintf(w, "%-*s | %12s | %8s | %10s\n", width, "______", "____", "______", "______")
		for _, pick := range s.Selected {
			_, _ = fmt.Fprintf(w, "%-*s | %12s | %8s | %10s\n", width, pick.Name,
				format.Currency(pick.Cost, s.Currency),
				format.Percent(pick.ReturnRate),
				format.Currency(pick.Profit, s.Currency))
		}
	}

	_, _ = fmt.Fprintf(w, "\nOptions selected: %d\n", len(s.Selected))
	_, _ = fmt.Fprintf(w, "Total cost: %s\n", format.Currency(s.TotalCost, s.Currency))
	_, _ = fmt.Fprintf(w, "Total profit: %s (%s)\n", format.Currency(s.TotalProfit, s.Currency), format.Percent(s.Yield()))
	_, _ = fmt.Fprintf(w, "Unspent: %s\n", format.Currency(s.Unspent, s.Currency))
	if s.Elapsed > 0 {
		_, _ = p.Fprintf(w, "Elapsed: %s | Allocated: %d bytes\n", s.Elapsed.Round(time.Microsecond), s.AllocatedBytes)
	}
	for _, note := range s.Notes {
		_, _ = fmt.Fprintf(w, "Note: %s\n", note)
	}
}

// CsvFormat outputs the selection in comma-separated value format followed
// by a totals row.
func CsvFormat(w io.Writer, s optimization.Summary) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "cost", "return", "profit"})
	for _, pick := range s.Selected {
		_ = cw.Write([]string{
			pick.Name,
			format.NumericCurrency(pick.Cost),
			pick.ReturnRate.String(),
			pick.Profit.String(),
		})
	}
	_ = cw.Write([]string{"total", format.NumericCurrency(s.TotalCost), format.Percent(s.Yield()), s.TotalProfit.String()})
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs any result as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Markdown builds a markdown report of the selection.
func Markdown(s optimization.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Selection by %s\n\n", s.Strategy)
	fmt.Fprintf(&b, "Budget **%s** across %d candidates.\n\n", format.Currency(s.Budget, s.Currency), s.Candidates)

	if s.Empty() {
		b.WriteString("No combination of options fits the budget.\n\n")
	} else {
		b.WriteString("| Option | Cost | Return | Profit |\n")
		b.WriteString("|:-------|-----:|-------:|-------:|\n")
		for _, pick := range s.Selected {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", escapeMarkdown(pick.Name),
				format.Currency(pick.Cost, s.Currency),
				format.Percent(pick.ReturnRate),
				format.Currency(pick.Profit, s.Currency))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- Total cost: **%s**\n", format.Currency(s.TotalCost, s.Currency))
	fmt.Fprintf(&b, "- Total profit: **%s** (%s)\n", format.Currency(s.TotalProfit, s.Currency), format.Percent(s.Yield()))
	fmt.Fprintf(&b, "- Unspent: %s\n", format.Currency(s.Unspent, s.Currency))
	for _, note := range s.Notes {
		fmt.Fprintf(&b, "- _%s_\n", note)
	}
	return b.String()
}

// RenderMarkdown renders markdown for a terminal. An empty style picks one
// from the terminal background.
func RenderMarkdown(w io.Writer, md string, style string) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
