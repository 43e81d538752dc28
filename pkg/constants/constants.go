// Package constants provides shared constants for the lead-budget application.
package constants

// Period multipliers used to annualize lead rates.
const (
	// WeeksPerYear annualizes weekly lead rates
	WeeksPerYear = 52

	// MonthsPerYear annualizes monthly lead rates
	MonthsPerYear = 12

	// QuartersPerYear annualizes quarterly lead rates
	QuartersPerYear = 4
)

// Franchise leads are split across paid channels using fixed ratios. These are
// business constants and are never taken from user input.
const (
	// FranchiseGoogleRatio is the share of franchise leads bought on Google
	FranchiseGoogleRatio = 0.7

	// FranchiseMetaRatio is the share of franchise leads bought on Meta
	FranchiseMetaRatio = 0.3
)

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Display defaults
const (
	// DefaultLocale is the BCP 47 tag used for number grouping
	DefaultLocale = "en-NZ"

	// DefaultCurrencySymbol prefixes formatted currency values
	DefaultCurrencySymbol = "$"

	// DefaultPercentDecimals is the number of decimals shown for percentages
	DefaultPercentDecimals = 1

	// MaxPercentDecimals bounds the configurable percentage precision
	MaxPercentDecimals = 6
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides read by viper
	EnvPrefix = "LEAD_BUDGET"

	// DefaultScenarioName names the scenario used when no config file exists
	DefaultScenarioName = "default"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful HTTP shutdown
	DefaultShutdownTimeoutSeconds = 10
)
