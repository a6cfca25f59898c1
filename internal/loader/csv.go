// Package loader reads investment options from delimited files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Column aliases, matched case-insensitively against the header row.
var (
	nameColumns = []string{"name", "actions", "action", "share", "symbol"}
	costColumns = []string{"price", "cost"}
	rateColumns = []string{"profit", "benefit", "return", "rate", "return_rate"}
)

// Dialect describes the file layout.
type Dialect struct {
	Delimiter rune
}

// Result holds the options that passed filtering. Rows that were dropped are
// reported in Warnings, one error per row.
type Result struct {
	Options  []knapsack.Option
	Rows     int
	Skipped  int
	Warnings error
}

// WarningList splits Warnings into its per-row errors.
func (r *Result) WarningList() []error {
	return multierr.Errors(r.Warnings)
}

type columns struct {
	name, cost, rate int
}

// LoadFile reads options from path, or from standard input when path is "-".
func LoadFile(path string, dialect Dialect) (*Result, error) {
	if path == "-" {
		return Load(os.Stdin, dialect)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open options file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Load(file, dialect)
}

// Load reads a header row followed by one option per row. Rows that are
// malformed or carry a non-positive cost or return rate are skipped.
func Load(r io.Reader, dialect Dialect) (*Result, error) {
	reader := csv.NewReader(r)
	if dialect.Delimiter != 0 {
		reader.Comma = dialect.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("options file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := findColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Options: []knapsack.Option{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		result.Rows++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.skip(err)
				continue
			}
			return nil, fmt.Errorf("failed to read options: %w", err)
		}
		line, _ := reader.FieldPos(0)

		option, err := parseRecord(record, cols)
		if err != nil {
			result.skip(fmt.Errorf("line %d: %w", line, err))
			continue
		}
		result.Options = append(result.Options, option)
	}

	return result, nil
}

func (r *Result) skip(err error) {
	r.Skipped++
	r.Warnings = multierr.Append(r.Warnings, err)
}

func findColumns(header []string) (columns, error) {
	cols := columns{name: -1, cost: -1, rate: -1}
	for i, field := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(field, "\ufeff")))
		switch {
		case cols.name < 0 && containsFold(nameColumns, key):
			cols.name = i
		case cols.cost < 0 && containsFold(costColumns, key):
			cols.cost = i
		case cols.rate < 0 && containsFold(rateColumns, key):
			cols.rate = i
		}
	}

	var err error
	if cols.name < 0 {
		err = multierr.Append(err, fmt.Errorf("missing name column (one of %s)", strings.Join(nameColumns, ", ")))
	}
	if cols.cost < 0 {
		err = multierr.Append(err, fmt.Errorf("missing cost column (one of %s)", strings.Join(costColumns, ", ")))
	}
	if cols.rate < 0 {
		err = multierr.Append(err, fmt.Errorf("missing return column (one of %s)", strings.Join(rateColumns, ", ")))
	}
	if err != nil {
		return cols, fmt.Errorf("invalid header %q: %w", strings.Join(header, ","), err)
	}
	return cols, nil
}

func parseRecord(record []string, cols columns) (knapsack.Option, error) {
	for _, idx := range []int{cols.name, cols.cost, cols.rate} {
		if idx >= len(record) {
			return knapsack.Option{}, fmt.Errorf("expected at least %d fields, got %d", idx+1, len(record))
		}
	}

	name := strings.TrimSpace(record[cols.name])
	if name == "" {
		return knapsack.Option{}, fmt.Errorf("empty name")
	}
	cost, err := parseAmount(record[cols.cost])
	if err != nil {
		return knapsack.Option{}, fmt.Errorf("option %s: invalid cost: %w", name, err)
	}
	rate, err := parseAmount(record[cols.rate])
	if err != nil {
		return knapsack.Option{}, fmt.Errorf("option %s: invalid return: %w", name, err)
	}
	if !cost.IsPositive() {
		return knapsack.Option{}, fmt.Errorf("option %s: cost %s is not positive", name, cost)
	}
	if !rate.IsPositive() {
		return knapsack.Option{}, fmt.Errorf("option %s: return %s is not positive", name, rate)
	}

	return knapsack.Option{Name: name, Cost: cost, ReturnRate: rate}, nil
}

// parseAmount accepts plain decimals with an optional currency or percent sign.
func parseAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSuffix(trimmed, "%")
	trimmed = strings.TrimSuffix(trimmed, "€")
	trimmed = strings.TrimPrefix(trimmed, "$")
	trimmed = strings.TrimPrefix(trimmed, "€")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(trimmed)
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
