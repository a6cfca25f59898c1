// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/investment-optimizer/pkg/constants"
)

var outputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatMarkdown,
}

var strategies = []string{
	constants.StrategyKnapsack,
	constants.StrategyBruteForce,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if !contains(outputFormats, format) {
		return fmt.Errorf("expected output format of %s, got %s",
			strings.Join(outputFormats, ", "), format)
	}
	return nil
}

// ValidateStrategy checks if the solver strategy is one of the supported strategies.
func ValidateStrategy(strategy string) error {
	if !contains(strategies, strategy) {
		return fmt.Errorf("expected solver strategy of %s, got %s",
			strings.Join(strategies, " or "), strategy)
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
