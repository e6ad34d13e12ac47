package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BlockDetectionParams holds parameters for block detection.
type BlockDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultBlockParams returns default block detection parameters.
func DefaultBlockParams() BlockDetectionParams {
	return BlockDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 2,
	}
}

// Block is a rectangular data region bounded by blank rows.
// Coordinates are zero-based and inclusive.
type Block struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Range returns the block in Excel range notation (e.g. "A1:D8").
func (b Block) Range() string {
	startCell, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	endCell, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// DetectBlocks splits rows into maximal runs of non-empty rows and returns
// the bounding box of each run that is dense enough to be a table.
func DetectBlocks(rows [][]string, params BlockDetectionParams) []Block {
	var blocks []Block

	start := -1
	for i := 0; i <= len(rows); i++ {
		blank := i == len(rows) || isEmptyRow(rows[i])
		if !blank {
			if start < 0 {
				start = i
			}
			continue
		}
		if start < 0 {
			continue
		}

		// Find the bounding box of non-empty cells in the run
		minRow, maxRow, minCol, maxCol := findDataBounds(rows[start:i])
		minRow += start
		maxRow += start
		start = -1

		nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)
		if nonEmptyCells < params.MinNonemptyCells {
			continue
		}
		totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
		if float64(nonEmptyCells)/float64(totalCells) < params.DensityMin {
			continue
		}

		blocks = append(blocks, Block{MinRow: minRow, MaxRow: maxRow, MinCol: minCol, MaxCol: maxCol})
	}

	return blocks
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
