// Command investment-optimizer selects the most profitable set of
// investment options that fits a budget.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation = flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	logLevel       = flag.String("log-level", "", "log level override (debug, info, warn, error)")
)

func main() {
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&solveCmd{}, "optimize")
	c.Register(&compareCmd{}, "optimize")
	c.Register(&serveCmd{}, "server")
}
