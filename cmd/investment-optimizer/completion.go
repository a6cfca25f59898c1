package main

import (
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	strategyPredictor = predict.Set{constants.StrategyKnapsack, constants.StrategyBruteForce}
	formatPredictor   = predict.Set{
		constants.OutputFormatPretty,
		constants.OutputFormatCSV,
		constants.OutputFormatJSON,
		constants.OutputFormatMarkdown,
	}
	stylePredictor = predict.Set{"auto", "dark", "light", "notty", "dracula", "pink"}
)

// completion describes the command line for shell completion. Run the
// binary with COMP_INSTALL=1 to install it.
func completion() *complete.Command {
	runFlags := func(withSolver bool) map[string]complete.Predictor {
		flags := map[string]complete.Predictor{
			"budget":        predict.Something,
			"input":         predict.Files("*.csv"),
			"delimiter":     predict.Set{",", ";", "\t"},
			"currency":      predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"},
			"output-format": formatPredictor,
			"style":         stylePredictor,
			"trace":         predict.Nothing,
		}
		if withSolver {
			flags["solver"] = strategyPredictor
		}
		return flags
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"solve":   {Flags: runFlags(true)},
			"compare": {Flags: runFlags(false)},
			"serve": {Flags: map[string]complete.Predictor{
				"server-config":   predict.Files("*.yaml"),
				"address":         predict.Something,
				"max-upload-size": predict.Set{"512K", "4M", "16M"},
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
