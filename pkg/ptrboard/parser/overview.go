package parser

import (
	"fmt"
	"math"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/xuri/excelize/v2"
)

// SheetNameColumn is the label of the first column of every overview block.
const SheetNameColumn = "Sheet name"

// ReadOverview reads the heatmap blocks of the overview sheet.
// Blocks are titled from titles in order; extra blocks are titled "Block N".
func ReadOverview(f *excelize.File, sheetName string, titles []string) ([]models.Heatmap, error) {
	rows, err := ReadSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	return BuildHeatmaps(rows, titles), nil
}

// BuildHeatmaps converts overview rows into heatmaps.
// The first row of a block is its header and the first column lists sheet
// names. Fractions are scaled to percentages; non-numeric cells are nil.
func BuildHeatmaps(rows [][]string, titles []string) []models.Heatmap {
	blocks := DetectBlocks(rows, DefaultBlockParams())

	heatmaps := make([]models.Heatmap, 0, len(blocks))
	for i, b := range blocks {
		hm := models.Heatmap{Title: blockTitle(titles, i), Range: b.Range()}

		header := rows[b.MinRow]
		for col := b.MinCol + 1; col <= b.MaxCol; col++ {
			hm.Metrics = append(hm.Metrics, cellValue(header, col))
		}

		for r := b.MinRow + 1; r <= b.MaxRow; r++ {
			row := rows[r]
			values := make([]*float64, len(hm.Metrics))
			for j := range values {
				if v, ok := parseNumber(cellValue(row, b.MinCol+1+j)); ok {
					pct := math.Round(v*100*100) / 100
					values[j] = &pct
				}
			}
			hm.Sheets = append(hm.Sheets, cellValue(row, b.MinCol))
			hm.Values = append(hm.Values, values)
		}

		heatmaps = append(heatmaps, hm)
	}
	return heatmaps
}

func blockTitle(titles []string, i int) string {
	if i < len(titles) {
		return titles[i]
	}
	return fmt.Sprintf("Block %d", i+1)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
