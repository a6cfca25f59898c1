// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for investment-optimizer.
type Configuration struct {
	Budget    float64         `yaml:"budget" mapstructure:"budget"`
	Currency  string          `yaml:"currency,omitempty" mapstructure:"currency"`
	Input     InputConfig     `yaml:"input,omitempty" mapstructure:"input"`
	Solver    SolverConfig    `yaml:"solver,omitempty" mapstructure:"solver"`
	Reference ReferenceConfig `yaml:"reference,omitempty" mapstructure:"reference"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
}

// InputConfig locates the options file.
type InputConfig struct {
	Path      string `yaml:"path,omitempty" mapstructure:"path"`
	Delimiter string `yaml:"delimiter,omitempty" mapstructure:"delimiter"`
}

// ReferenceConfig is a known selection to compare results against.
type ReferenceConfig struct {
	Name   string  `yaml:"name,omitempty" mapstructure:"name"`
	Cost   float64 `yaml:"cost,omitempty" mapstructure:"cost"`
	Profit float64 `yaml:"profit,omitempty" mapstructure:"profit"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, markdown
}

// Default returns a configuration with every default applied.
func Default() *Configuration {
	conf := &Configuration{Budget: constants.DefaultBudget}
	conf.Normalize()
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	v.SetDefault("budget", constants.DefaultBudget)
	v.SetDefault("currency", constants.DefaultCurrency)
	v.SetDefault("input.path", constants.DefaultInputFile)
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("solver.strategy", constants.StrategyKnapsack)
	v.SetDefault("solver.maxEnumeratorOptions", knapsack.DefaultMaxEnumeratorOptions)
	v.SetDefault("solver.maxTableCells", knapsack.DefaultMaxTableCells)
	v.SetDefault("solver.trace", false)
	v.SetDefault("reference.name", "")
	v.SetDefault("reference.cost", 0)
	v.SetDefault("reference.profit", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Unset keys take their defaults and INVESTOPT_*
// environment variables override both.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationOrDefaults behaves like LoadConfiguration but returns the
// defaults (still subject to environment overrides) when the file does not
// exist.
func LoadConfigurationOrDefaults(configPath string) (*Configuration, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfiguration(configPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize ensures defaults and canonical values are applied before validation.
func (c *Configuration) Normalize() {
	if c == nil {
		return
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = constants.DefaultCurrency
	}

	c.Input.Path = strings.TrimSpace(c.Input.Path)
	if c.Input.Path == "" {
		c.Input.Path = constants.DefaultInputFile
	}
	if c.Input.Delimiter == "" {
		c.Input.Delimiter = ","
	}

	c.Solver.Normalize()

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// Validate returns an error when the configuration cannot be used.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validation.ValidateBudget(c.Budget); err != nil {
		return err
	}
	if err := validation.ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if err := validation.ValidateDelimiter(c.Input.Delimiter); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if c.Reference.Cost < 0 || c.Reference.Profit < 0 {
		return fmt.Errorf("reference cost and profit must not be negative")
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Budget == 0 {
		warnings = append(warnings, "Budget is zero - every selection will be empty")
	}
	if c.Reference.Enabled() && c.Budget > 0 && c.Reference.Cost > c.Budget {
		warnings = append(warnings, fmt.Sprintf("Reference cost %.2f exceeds the budget %.2f",
			c.Reference.Cost, c.Budget))
	}
	warnings = append(warnings, c.Solver.Warnings(c.Logging.Level)...)

	return warnings
}

// BudgetAmount returns the budget as an exact decimal.
func (c *Configuration) BudgetAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.Budget)
}

// DelimiterRune returns the input field separator.
func (c *Configuration) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// Enabled reports whether a reference selection was configured.
func (r ReferenceConfig) Enabled() bool {
	return r.Cost > 0 || r.Profit > 0
}
