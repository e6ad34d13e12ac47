package ptrboard

// Canonical column names of a normalized PTR sheet.
const (
	ColumnNo                = "No"
	ColumnFeatures          = "Features"
	ColumnSubFeatures       = "Sub-features"
	ColumnExpectedCondition = "Expected Condition"
	ColumnLinkJIRA          = "Link JIRA"
	ColumnOS                = "OS"
	ColumnOSVersion         = "OS Version"
	ColumnDeviceType        = "Tipe Device HP"
)

// StatusColumnPrefix precedes the version label in per-version status columns.
const StatusColumnPrefix = "Status "

// Status values with dedicated handling.
const (
	StatusPassed        = "Passed"
	StatusFailed        = "Failed"
	StatusNotApplicable = "N/A"
	StatusInProgress    = "In Progress"
	StatusNotStarted    = "Not Started"
)

// Platform values with dedicated colors.
const (
	PlatformAndroid = "Android"
	PlatformIOS     = "iOS"
)

// headerRenames maps localized or line-broken header variants to canonical names.
var headerRenames = map[string]string{
	"Sub Fitur":                       ColumnSubFeatures,
	"Rekening Sumber\n[Jika ada]":     "Rekening Sumber",
	"Data yang Digunakan\n[Jika ada]": "Data yang digunakan",
	"FT\n[Jika Ada]":                  "FT",
}

// groupingColumns are forward-filled; they model merged cells spanning several rows.
var groupingColumns = []string{ColumnFeatures, ColumnSubFeatures, ColumnExpectedCondition}

// StatusColumn returns the status column name for a version label.
func StatusColumn(version string) string {
	return StatusColumnPrefix + version
}

// PrimaryColumn returns the column driving the first flow stage:
// Link JIRA when the sheet has one, Features otherwise.
func PrimaryColumn(columns []string) string {
	for _, c := range columns {
		if c == ColumnLinkJIRA {
			return ColumnLinkJIRA
		}
	}
	return ColumnFeatures
}
