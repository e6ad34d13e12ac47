package models

// Heatmap is one block of the workbook overview sheet.
type Heatmap struct {
	// Title names the block (e.g. "Android Metrics").
	Title string `json:"title"`
	// Range is the block's cell range on the overview sheet (e.g. "A1:D8").
	Range string `json:"range"`
	// Metrics are the column headers after the sheet-name column.
	Metrics []string `json:"metrics"`
	// Sheets are the row labels (first column).
	Sheets []string `json:"sheets"`
	// Values[i][j] is the percentage for Sheets[i] and Metrics[j]; nil when not numeric.
	Values [][]*float64 `json:"values"`
}
