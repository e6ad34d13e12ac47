// Package parser reads PTR workbooks with excelize.
package parser

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// OpenWorkbook opens an xlsx workbook from r.
// The caller must Close the returned file.
func OpenWorkbook(r io.Reader) (*excelize.File, error) {
	return excelize.OpenReader(r)
}

// OpenFile opens an xlsx workbook from disk.
func OpenFile(path string) (*excelize.File, error) {
	return excelize.OpenFile(path)
}

// ListSheetNames returns the sheet names in workbook order.
func ListSheetNames(f *excelize.File) []string {
	return f.GetSheetList()
}

// HasSheet reports whether the workbook contains a sheet named name.
func HasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
