// Package models defines data structures for PTR workbook processing.
package models

// Record maps a column name to its cell value.
type Record map[string]string

// Table is a normalized sheet: a fixed header plus records keyed by it.
type Table struct {
	// Columns lists column names in sheet order.
	Columns []string `json:"columns"`
	// Rows contains one record per data row. Every record holds exactly the Columns keys.
	Rows []Record `json:"rows"`
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether name is part of the header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		out.Rows[i] = rec
	}
	return out
}
