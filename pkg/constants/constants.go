// Package constants provides shared constants for the plan-autofill application.
package constants

// Projection defaults
const (
	// YearsInProjection is the fixed width of every projection table.
	YearsInProjection = 3

	// DefaultFirstYear is the first projected year when the input omits years.
	DefaultFirstYear = 2025

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the precision for currency rounding (2 decimal places)
	DecimalPlaces = 2

	// MissingLabel is used for line items that carry no label.
	MissingLabel = "—"
)

// Narrative character limit defaults
const (
	DefaultObjectivesLimit = 2000
	DefaultMarketLimit     = 1200
	DefaultFacilitiesLimit = 1000
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DocumentFormatHTML renders the plan document as a printable HTML page
	DocumentFormatHTML = "html"

	// DocumentFormatMarkdown renders the plan document as Markdown source
	DocumentFormatMarkdown = "markdown"

	// MaxSheetNameLength is the spreadsheet sheet name limit
	MaxSheetNameLength = 31
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultWorkbookName is the default spreadsheet file name
	DefaultWorkbookName = "projection.xlsx"

	// DefaultDocumentName is the default document file name
	DefaultDocumentName = "plan.html"
)

// Narrative generation defaults
const (
	// DefaultNarrativeModel is the language model used for narrative drafts
	DefaultNarrativeModel = "gemini-2.0-flash"

	// DefaultNarrativeAPIKeyEnv names the environment variable holding the API key
	DefaultNarrativeAPIKeyEnv = "GEMINI_API_KEY"

	// DefaultNarrativeLanguage is the language narrative drafts are written in
	DefaultNarrativeLanguage = "en"

	// DefaultNarrativeTimeoutSeconds bounds a single generation request
	DefaultNarrativeTimeoutSeconds = 30
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML inputs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
