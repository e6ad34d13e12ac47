// Package output serializes ptrboard results.
package output

import (
	"encoding/json"
	"strings"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/parser"
)

// ToJSON marshals v, indented with two spaces when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// SheetJSON is the serialized form of a normalized sheet with typed rows.
type SheetJSON struct {
	Sheet    string                   `json:"sheet"`
	Columns  []string                 `json:"columns"`
	Rows     []map[string]interface{} `json:"rows"`
	Versions []string                 `json:"versions"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// SheetToJSON serializes a normalized sheet using TypedRows.
func SheetToJSON(data *models.SheetData, pretty bool) ([]byte, error) {
	return ToJSON(NewSheetJSON(data), pretty)
}

// NewSheetJSON converts data to its serialized form.
func NewSheetJSON(data *models.SheetData) SheetJSON {
	out := SheetJSON{
		Sheet:    data.Sheet,
		Versions: data.Versions,
		Warnings: data.Warnings,
	}
	if data.Table != nil {
		out.Columns = data.Table.Columns
		out.Rows = TypedRows(data.Table)
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = []map[string]interface{}{}
	}
	if out.Versions == nil {
		out.Versions = []string{}
	}
	return out
}

// TypedRows returns the table records with numeric cells converted to
// int64 or float64. Text columns keep their string values so identifiers
// like OS versions ("14") are not turned into numbers.
func TypedRows(table *models.Table) []map[string]interface{} {
	rows := make([]map[string]interface{}, len(table.Rows))
	for i, rec := range table.Rows {
		row := make(map[string]interface{}, len(table.Columns))
		for _, col := range table.Columns {
			v := rec[col]
			if v == "" || isTextColumn(col) {
				row[col] = v
				continue
			}
			row[col] = parser.ParseValue(v)
		}
		rows[i] = row
	}
	return rows
}

func isTextColumn(col string) bool {
	switch col {
	case ptrboard.ColumnFeatures, ptrboard.ColumnSubFeatures, ptrboard.ColumnExpectedCondition,
		ptrboard.ColumnLinkJIRA, ptrboard.ColumnOS, ptrboard.ColumnOSVersion, ptrboard.ColumnDeviceType:
		return true
	}
	return strings.HasPrefix(col, ptrboard.StatusColumnPrefix)
}
