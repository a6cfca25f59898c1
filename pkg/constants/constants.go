// Package constants provides shared constants for the investment-optimizer application.
package constants

import "time"

// Financial constants
const (
	// DefaultBudget is the spending ceiling used when none is configured.
	DefaultBudget = 500.0

	// DefaultCurrency is the ISO 4217 code used for display
	DefaultCurrency = "EUR"

	// CurrencyDecimals is the number of decimals in a currency amount (cents)
	CurrencyDecimals = 2

	// PercentageDecimals is the decimal shift of a percentage (divide by 100)
	PercentageDecimals = 2
)

// Solver strategy constants
const (
	// StrategyKnapsack is the dynamic-programming solver
	StrategyKnapsack = "knapsack"

	// StrategyBruteForce is the exhaustive reference solver
	StrategyBruteForce = "bruteforce"

	// MaxEnumeratorOptions is the largest brute force limit a config may request
	MaxEnumeratorOptions = 30

	// MaxRequestEnumeratorOptions caps the brute force limit for HTTP requests
	MaxRequestEnumeratorOptions = 20
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatMarkdown is markdown rendered for the terminal
	OutputFormatMarkdown = "markdown"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultInputFile is the options file read when none is given
	DefaultInputFile = "data/actions.csv"

	// EnvPrefix prefixes environment overrides, e.g. INVESTOPT_BUDGET
	EnvPrefix = "INVESTOPT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for option files (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024

	// DefaultReadHeaderTimeout bounds how long a client may take to send request headers
	DefaultReadHeaderTimeout = 10 * time.Second
)
