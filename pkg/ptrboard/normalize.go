package ptrboard

import (
	"fmt"
	"strings"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// column is a header entry bound to its raw column index.
type column struct {
	name string
	src  int
}

// Normalize converts a raw, header-less sheet into a normalized table.
//
// The header row is the first row within opts.MaxScanRows holding a cell that
// contains opts.HeaderMarker. Rows at or above it are discarded, the first
// (row index) column is dropped and known header variants are renamed.
// Grouping columns are forward-filled to undo merged cells.
func Normalize(raw [][]string, opts NormalizeOptions) (*models.SheetData, error) {
	opts = opts.withDefaults()

	headerIdx := findHeaderRow(raw, opts.HeaderMarker, opts.MaxScanRows)
	if headerIdx < 0 {
		return nil, &HeaderNotFoundError{
			Marker:  opts.HeaderMarker,
			Scanned: min(len(raw), opts.MaxScanRows),
		}
	}

	cols := buildColumns(raw[headerIdx], sheetWidth(raw[headerIdx:]))

	table := &models.Table{Columns: make([]string, len(cols))}
	for i, c := range cols {
		table.Columns[i] = c.name
	}

	for _, row := range raw[headerIdx+1:] {
		if isBlankRow(row, cols) {
			continue
		}
		rec := make(models.Record, len(cols))
		for _, c := range cols {
			rec[c.name] = cellAt(row, c.src)
		}
		table.Rows = append(table.Rows, rec)
	}

	var warnings []string

	fill := append([]string(nil), groupingColumns...)
	if table.HasColumn(ColumnLinkJIRA) {
		fill = append(fill, ColumnLinkJIRA)
	}
	for _, name := range fill {
		if !table.HasColumn(name) {
			warnings = append(warnings, fmt.Sprintf("sheet has no %q column; forward-fill skipped", name))
			continue
		}
		fillColumn(table, name)
	}

	if !table.HasColumn(ColumnOSVersion) {
		warnings = append(warnings, fmt.Sprintf("sheet has no %q column; dependent processing skipped", ColumnOSVersion))
	}

	return &models.SheetData{
		Table:    table,
		Versions: extractVersions(raw, opts.VersionColumn, opts.VersionMarker),
		Warnings: warnings,
	}, nil
}

// ForwardFill returns a copy of values where every empty entry takes the
// nearest preceding non-empty value. Leading empties stay empty.
func ForwardFill(values []string) []string {
	out := make([]string, len(values))
	last := ""
	for i, v := range values {
		if v == "" {
			out[i] = last
			continue
		}
		out[i] = v
		last = v
	}
	return out
}

// findHeaderRow returns the index of the first row within maxRows containing
// marker, or -1.
func findHeaderRow(raw [][]string, marker string, maxRows int) int {
	for i := 0; i < len(raw) && i < maxRows; i++ {
		for _, cell := range raw[i] {
			if strings.Contains(cell, marker) {
				return i
			}
		}
	}
	return -1
}

// sheetWidth returns the widest row length.
func sheetWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// buildColumns names raw columns 1..width-1 from the header row.
// Column 0 holds the row index and is always dropped, as is "No".
func buildColumns(header []string, width int) []column {
	var cols []column
	seen := make(map[string]int)

	for src := 1; src < width; src++ {
		name := cellAt(header, src)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", src)
		}
		if name == ColumnNo {
			continue
		}
		if canonical, ok := headerRenames[name]; ok {
			name = canonical
		}

		// Duplicate headers get pandas-style suffixes to keep records uniform.
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}

		cols = append(cols, column{name: name, src: src})
	}
	return cols
}

func isBlankRow(row []string, cols []column) bool {
	for _, c := range cols {
		if cellAt(row, c.src) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// fillColumn forward-fills one column of the table in place.
// Only called on tables under construction.
func fillColumn(t *models.Table, name string) {
	filled := ForwardFill(t.Column(name))
	for i, row := range t.Rows {
		row[name] = filled[i]
	}
}

// extractVersions returns the distinct version labels of the marker column
// in first-seen order. Line breaks inside a label become spaces.
func extractVersions(raw [][]string, col int, marker string) []string {
	values := make([]string, len(raw))
	for i, row := range raw {
		values[i] = cellAt(row, col)
	}

	var versions []string
	seen := make(map[string]bool)
	for _, v := range ForwardFill(values) {
		if !strings.Contains(v, marker) {
			continue
		}
		label := strings.ReplaceAll(strings.ReplaceAll(v, "\r\n", " "), "\n", " ")
		if seen[label] {
			continue
		}
		seen[label] = true
		versions = append(versions, label)
	}
	return versions
}
