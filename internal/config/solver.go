package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/validation"
)

// SolverConfig selects and bounds the solver.
type SolverConfig struct {
	Strategy             string `yaml:"strategy,omitempty" mapstructure:"strategy"` // knapsack, bruteforce
	MaxEnumeratorOptions int    `yaml:"maxEnumeratorOptions,omitempty" mapstructure:"maxEnumeratorOptions"`
	MaxTableCells        int64  `yaml:"maxTableCells,omitempty" mapstructure:"maxTableCells"`
	Trace                bool   `yaml:"trace,omitempty" mapstructure:"trace"`
}

// CanonicalStrategy returns the canonical identifier for a solver strategy.
func CanonicalStrategy(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "", "knapsack", "dp", "dynamic", "optimized":
		return constants.StrategyKnapsack
	case "bruteforce", "brute-force", "brute_force", "exhaustive":
		return constants.StrategyBruteForce
	default:
		return trimmed
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (s *SolverConfig) Normalize() {
	if s == nil {
		return
	}
	s.Strategy = CanonicalStrategy(s.Strategy)
	if s.MaxEnumeratorOptions <= 0 {
		s.MaxEnumeratorOptions = knapsack.DefaultMaxEnumeratorOptions
	}
	if s.MaxTableCells <= 0 {
		s.MaxTableCells = knapsack.DefaultMaxTableCells
	}
}

// Validate returns an error when the solver configuration is unsupported.
func (s *SolverConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("solver configuration cannot be nil")
	}

	s.Normalize()

	if err := validation.ValidateStrategy(s.Strategy); err != nil {
		return err
	}
	if s.MaxEnumeratorOptions > constants.MaxEnumeratorOptions {
		return fmt.Errorf("solver maxEnumeratorOptions %d exceeds the ceiling of %d",
			s.MaxEnumeratorOptions, constants.MaxEnumeratorOptions)
	}
	// One row of the profit table is the smallest useful allocation.
	if s.MaxTableCells < 2 {
		return fmt.Errorf("solver maxTableCells %d must be at least 2", s.MaxTableCells)
	}
	return nil
}

// Warnings reports settings that are valid but likely unintended.
func (s *SolverConfig) Warnings(logLevel string) []string {
	var warnings []string
	if s.Strategy == constants.StrategyBruteForce && s.MaxEnumeratorOptions > knapsack.DefaultMaxEnumeratorOptions {
		warnings = append(warnings, fmt.Sprintf("Brute force limit of %d options may take a very long time",
			s.MaxEnumeratorOptions))
	}
	if s.Trace && logLevel != "debug" {
		warnings = append(warnings, "Solver trace is enabled but the log level is not debug - trace output is hidden")
	}
	return warnings
}
