// Package ptrboard normalizes PTR test-report workbooks and derives dashboard metrics.
package ptrboard

// Default values for NormalizeOptions.
const (
	DefaultHeaderMarker  = "Features"
	DefaultMaxScanRows   = 20
	DefaultVersionMarker = "PTR Ver"
	DefaultVersionColumn = 1
)

// DefaultOverviewSheet is the name of the workbook's overview tab.
const DefaultOverviewSheet = "-"

// NormalizeOptions configures sheet normalization.
type NormalizeOptions struct {
	// HeaderMarker is the text identifying the header row.
	HeaderMarker string
	// MaxScanRows bounds the header search from the top of the sheet.
	MaxScanRows int
	// VersionMarker is the substring identifying version label cells.
	VersionMarker string
	// VersionColumn is the zero-based raw column scanned for version labels.
	VersionColumn int
}

// DefaultNormalizeOptions returns the options matching the standard PTR layout.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		HeaderMarker:  DefaultHeaderMarker,
		MaxScanRows:   DefaultMaxScanRows,
		VersionMarker: DefaultVersionMarker,
		VersionColumn: DefaultVersionColumn,
	}
}

func (o NormalizeOptions) withDefaults() NormalizeOptions {
	if o.HeaderMarker == "" {
		o.HeaderMarker = DefaultHeaderMarker
	}
	if o.MaxScanRows <= 0 {
		o.MaxScanRows = DefaultMaxScanRows
	}
	if o.VersionMarker == "" {
		o.VersionMarker = DefaultVersionMarker
	}
	if o.VersionColumn < 0 {
		o.VersionColumn = DefaultVersionColumn
	}
	return o
}

// Options configures a Dashboard.
type Options struct {
	// Normalize configures sheet normalization.
	Normalize NormalizeOptions
	// Platforms lists the platform values partitioned by Percentages.
	// If empty, defaults to Android and iOS.
	Platforms []string
	// OverviewSheet is the tab holding the heatmap blocks.
	// If empty, defaults to DefaultOverviewSheet.
	OverviewSheet string
	// OverviewTitles names the overview blocks in order.
	// Blocks beyond the list are titled "Block N".
	OverviewTitles []string
}

// DefaultOptions returns default dashboard options.
func DefaultOptions() Options {
	return Options{
		Normalize:      DefaultNormalizeOptions(),
		Platforms:      []string{PlatformAndroid, PlatformIOS},
		OverviewSheet:  DefaultOverviewSheet,
		OverviewTitles: []string{"Android Metrics", "iOS Metrics", "Backoffice Metrics"},
	}
}

// PlatformList returns the configured platforms or the defaults.
func (o Options) PlatformList() []string {
	if len(o.Platforms) > 0 {
		return o.Platforms
	}
	return []string{PlatformAndroid, PlatformIOS}
}

// OverviewSheetName returns the configured overview sheet or the default.
func (o Options) OverviewSheetName() string {
	if o.OverviewSheet != "" {
		return o.OverviewSheet
	}
	return DefaultOverviewSheet
}
