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

type solveCmd struct {
	flags runFlags
	out   io.Writer
}

func (*solveCmd) Name() string     { return "solve" }
func (*solveCmd) Synopsis() string { return "select the most profitable options within the budget" }
func (*solveCmd) Usage() string {
	return `investment-optimizer [-config <file>] solve [-budget 500] [-input <file>] [-solver knapsack|bruteforce] [-output-format pretty|csv|json|markdown] [-trace]

  Reads the options file and prints the selection that maximizes profit
  without exceeding the budget.
`
}

func (c *solveCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f, true)
}

func (c *solveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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
			zap.String("op", "main.solve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		logger.Error("failed to initialize optimizer",
			zap.String("op", "main.solve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	summary, err := runner.Run(options)
	if err != nil {
		logger.Error("optimizer execution failed",
			zap.String("op", "main.solve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	summary.Notes = append(summary.Notes, skippedNote(loaded)...)

	if err := writeSummary(c.writer(), conf.Output.Format, c.flags.style, *summary); err != nil {
		logger.Error("failed to write report",
			zap.String("op", "main.solve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *solveCmd) writer() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}
