// Package constants provides shared constants for the showroom application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// CurrencySymbol is prefixed to every displayed amount
	CurrencySymbol = "₹"
)

// Loan slider ranges as exposed by the showcase page.
const (
	MinLoanAmount = 100000
	MaxLoanAmount = 1326000

	MinDownPayment = 0
	MaxDownPayment = 1226000

	MinAnnualRatePercent = 6.0
	MaxAnnualRatePercent = 15.0

	MinTenureMonths = 12
	MaxTenureMonths = 84
)

// Event slider ranges.
const (
	MinInvites = 50
	MaxInvites = 500

	MinEventDays = 1
	MaxEventDays = 30
)

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultLoanAmount        = 1060800
	DefaultDownPayment       = 265200
	DefaultAnnualRatePercent = 8.5
	DefaultTenureMonths      = 66

	DefaultInvites      = 100
	DefaultDurationDays = 7

	// DefaultEventBasePrice is the flat component of every event price
	DefaultEventBasePrice = 5000
)

// Event pricing variants
const (
	// PricingTiered applies invite and duration threshold multipliers
	PricingTiered = "tiered"

	// PricingFlat applies one multiplier regardless of inputs
	PricingFlat = "flat"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes caps JSON request bodies (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitRPS is the sustained per-client request rate
	DefaultRateLimitRPS = 10.0

	// DefaultRateLimitBurst is the per-client burst allowance
	DefaultRateLimitBurst = 20
)
