package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadSheet returns the raw cell strings of a sheet, row by row.
// No header is assumed. Rows are ragged: trailing empty cells are omitted,
// and empty rows between data rows are returned as empty slices.
// Cells hold unformatted values so percentages stay numeric.
func ReadSheet(f *excelize.File, sheetName string) ([][]string, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func ParseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// parseNumber returns the numeric value of s, if any.
func parseNumber(s string) (float64, bool) {
	switch v := ParseValue(s).(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
