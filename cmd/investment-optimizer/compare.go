package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/investment-optimizer/internal/optimizer"
	"go.uber.org/zap"
)

type compareCmd struct {
	flags runFlags
	out   io.Writer
}

func (*compareCmd) Name() string { return "compare" }
func (*compareCmd) Synopsis() string {
	return "run every solver and compare them with the configured reference"
}
func (*compareCmd) Usage() string {
	return `investment-optimizer [-config <file>] compare [-budget 500] [-input <file>] [-output-format pretty|csv|json|markdown]

  Solves with the knapsack optimizer and, when the input is small enough,
  with the exhaustive enumerator, then prints both selections and the cost
  and profit differences, including against the reference selection of the
  configuration file. Exits with a failure status when the solvers disagree.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f, false)
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	conf, logger, err := setup(&c.flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer func() {
		_ = logger.Sync()
	}()

	options, loaded, err := loadOptions(logger, conf)
	if err != nil {
		logger.Error("failed to read options",
			zap.String("op", "main.compare"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		logger.Error("failed to initialize optimizer",
			zap.String("op", "main.compare"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	comparison, err := runner.Compare(options)
	if err != nil {
		logger.Error("comparison failed",
			zap.String("op", "main.compare"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	comparison.Notes = append(comparison.Notes, skippedNote(loaded)...)

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	if err := writeComparison(out, conf.Output.Format, c.flags.style, *comparison); err != nil {
		logger.Error("failed to write report",
			zap.String("op", "main.compare"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	if !comparison.Agree {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
