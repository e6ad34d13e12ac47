package models

// SheetData is the normalized form of a single PTR sheet.
type SheetData struct {
	// Sheet is the sheet (tab) name.
	Sheet string `json:"sheet"`
	// Table is the normalized table.
	Table *Table `json:"table"`
	// Versions lists version labels in first-seen order.
	Versions []string `json:"versions"`
	// Warnings contains non-fatal notes about absent optional columns.
	Warnings []string `json:"warnings,omitempty"`
}
