package main

import (
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/iwvelando/investment-optimizer/internal/loader"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
	"github.com/iwvelando/investment-optimizer/pkg/output"
	"go.uber.org/zap"
)

// runFlags are the overrides shared by solve and compare.
type runFlags struct {
	budget       float64
	input        string
	delimiter    string
	currency     string
	solver       string
	outputFormat string
	style        string
	trace        bool
}

func (f *runFlags) register(fs *flag.FlagSet, withSolver bool) {
	fs.Float64Var(&f.budget, "budget", math.NaN(), "budget override")
	fs.StringVar(&f.input, "input", "", "options file override, - for stdin")
	fs.StringVar(&f.delimiter, "delimiter", "", "input field delimiter override")
	fs.StringVar(&f.currency, "currency", "", "ISO 4217 currency code override")
	if withSolver {
		fs.StringVar(&f.solver, "solver", "", "solver override: knapsack, bruteforce")
	}
	fs.StringVar(&f.outputFormat, "output-format", "", "type of output override: pretty, csv, json, markdown")
	fs.StringVar(&f.style, "style", "", "glamour style for markdown output (dark, light, notty); auto-detected when empty")
	fs.BoolVar(&f.trace, "trace", false, "log every profit table decision at debug level")
}

// apply layers the command line overrides on top of conf.
func (f *runFlags) apply(conf *config.Configuration) error {
	if !math.IsNaN(f.budget) {
		conf.Budget = f.budget
	}
	if f.input != "" {
		conf.Input.Path = f.input
	}
	if f.delimiter != "" {
		conf.Input.Delimiter = f.delimiter
	}
	if f.currency != "" {
		conf.Currency = f.currency
	}
	if f.solver != "" {
		conf.Solver.Strategy = f.solver
	}
	if f.outputFormat != "" {
		conf.Output.Format = f.outputFormat
	}
	if f.trace {
		conf.Solver.Trace = true
	}
	conf.Normalize()
	return conf.Validate()
}

// setup loads the configuration, applies overrides and builds the logger.
func setup(f *runFlags) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfigurationOrDefaults(*configLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", *configLocation, err)
	}
	if err := f.apply(conf); err != nil {
		return nil, nil, err
	}

	override := *logLevel
	if override == "" && conf.Solver.Trace {
		override = "debug"
	}
	logger, err := initializeLogger(conf.Logging, override)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}
	return conf, logger, nil
}

// loadOptions reads the configured input file, logging each skipped row.
func loadOptions(logger *zap.Logger, conf *config.Configuration) ([]knapsack.Option, *loader.Result, error) {
	result, err := loader.LoadFile(conf.Input.Path, loader.Dialect{Delimiter: conf.DelimiterRune()})
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range result.WarningList() {
		logger.Warn("skipped option row",
			zap.String("op", "main.loadOptions"),
			zap.String("file", conf.Input.Path),
			zap.Error(warning),
		)
	}
	logger.Info("options loaded",
		zap.String("op", "main.loadOptions"),
		zap.String("file", conf.Input.Path),
		zap.Int("rows", result.Rows),
		zap.Int("options", len(result.Options)),
		zap.Int("skipped", result.Skipped),
	)
	return result.Options, result, nil
}

func skippedNote(result *loader.Result) []string {
	if result == nil || result.Skipped == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%d of %d input rows were skipped", result.Skipped, result.Rows)}
}

func writeSummary(w io.Writer, format, style string, s optimization.Summary) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, s)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, s)
	case constants.OutputFormatMarkdown:
		return output.RenderMarkdown(w, output.Markdown(s), style)
	default:
		output.PrettyFormat(w, s)
		return nil
	}
}

func writeComparison(w io.Writer, format, style string, c optimization.Comparison) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.CsvComparison(w, c)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, c)
	case constants.OutputFormatMarkdown:
		return output.RenderMarkdown(w, output.MarkdownComparison(c), style)
	default:
		output.PrettyComparison(w, c)
		return nil
	}
}
