package render

import (
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// CellStyle is a CSS color pair.
type CellStyle struct {
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
}

// StatusStyles colors status cells by value.
var StatusStyles = map[string]CellStyle{
	ptrboard.StatusFailed:        {Color: "white", BackgroundColor: "red"},
	ptrboard.StatusPassed:        {Color: "white", BackgroundColor: "green"},
	ptrboard.StatusInProgress:    {Color: "white", BackgroundColor: "blue"},
	ptrboard.StatusNotApplicable: {Color: "black", BackgroundColor: "yellow"},
}

// GridColumn describes one grid column.
type GridColumn struct {
	Field    string `json:"field"`
	RowGroup bool   `json:"rowGroup,omitempty"`
	Hide     bool   `json:"hide,omitempty"`
	Editable bool   `json:"editable"`
	Status   bool   `json:"status,omitempty"`
}

// GridSpec describes the editable table view of a sheet.
type GridSpec struct {
	Columns      []GridColumn         `json:"columns"`
	StatusColumn string               `json:"statusColumn,omitempty"`
	StatusStyles map[string]CellStyle `json:"statusStyles"`
	Rows         []models.Record      `json:"rows"`
}

// rowGroupColumns are grouped and hidden in the grid.
var rowGroupColumns = map[string]bool{
	ptrboard.ColumnFeatures:          true,
	ptrboard.ColumnSubFeatures:       true,
	ptrboard.ColumnExpectedCondition: true,
}

// Grid describes the grid of a table. Grouping columns become hidden row
// groups. The status column of version, when present, is styled by value and
// its blank cells read N/A. table is not modified.
func Grid(table *models.Table, version string) GridSpec {
	spec := GridSpec{
		Columns:      make([]GridColumn, 0, len(table.Columns)),
		StatusStyles: StatusStyles,
		Rows:         table.Rows,
	}

	status := ""
	if version != "" && table.HasColumn(ptrboard.StatusColumn(version)) {
		status = ptrboard.StatusColumn(version)
		spec.StatusColumn = status

		rows := table.Clone().Rows
		for _, rec := range rows {
			rec[status] = ptrboard.StatusValue(rec[status])
		}
		spec.Rows = rows
	}
	if spec.Rows == nil {
		spec.Rows = []models.Record{}
	}

	for _, col := range table.Columns {
		group := rowGroupColumns[col]
		spec.Columns = append(spec.Columns, GridColumn{
			Field:    col,
			RowGroup: group,
			Hide:     group,
			Editable: true,
			Status:   col == status,
		})
	}
	return spec
}
