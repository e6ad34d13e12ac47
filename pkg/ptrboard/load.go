package ptrboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/parser"
	"github.com/xuri/excelize/v2"
)

// openFile opens a local workbook, mapping failures to package errors.
func openFile(path string) (*excelize.File, error) {
	f, err := parser.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return f, nil
}

// Inspect lists the sheets of a local workbook.
func Inspect(path string) (*models.WorkbookData, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return &models.WorkbookData{
		BookName: filepath.Base(path),
		Sheets:   parser.ListSheetNames(f),
	}, nil
}

// Load reads and normalizes one sheet of a local workbook.
func Load(path, sheet string, opts NormalizeOptions) (*models.SheetData, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return normalizeSheet(f, sheet, opts)
}

// LoadOverview reads the overview heatmaps of a local workbook.
func LoadOverview(path string, opts Options) ([]models.Heatmap, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readOverview(f, opts)
}

func normalizeSheet(f *excelize.File, sheet string, opts NormalizeOptions) (*models.SheetData, error) {
	if !parser.HasSheet(f, sheet) {
		return nil, &MissingSheetError{Sheet: sheet}
	}
	raw, err := parser.ReadSheet(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	data, err := Normalize(raw, opts)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet
	return data, nil
}

func readOverview(f *excelize.File, opts Options) ([]models.Heatmap, error) {
	sheet := opts.OverviewSheetName()
	if !parser.HasSheet(f, sheet) {
		return nil, &MissingSheetError{Sheet: sheet}
	}
	heatmaps, err := parser.ReadOverview(f, sheet, opts.OverviewTitles)
	if err != nil {
		return nil, fmt.Errorf("read overview %q: %w", sheet, err)
	}
	return heatmaps, nil
}
