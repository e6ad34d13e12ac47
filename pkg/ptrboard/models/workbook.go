package models

// WorkbookData summarizes a workbook: its name and tabs.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists sheet names in workbook order.
	Sheets []string `json:"sheets"`
}
