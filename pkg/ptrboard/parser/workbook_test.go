package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestOpenWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Login"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	if _, err := f.NewSheet("-"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Login", "B1", "Features")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}

	wb, err := OpenWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	names := ListSheetNames(wb)
	want := []string{"Sheet1", "Login", "-"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d sheets, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("sheet[%d] = %q, expected %q", i, names[i], want[i])
		}
	}

	if !HasSheet(wb, "Login") {
		t.Error("Expected HasSheet(Login) to be true")
	}
	if HasSheet(wb, "login") {
		t.Error("Expected sheet lookup to be case-sensitive")
	}
}

func TestOpenWorkbook_InvalidBytes(t *testing.T) {
	if _, err := OpenWorkbook(strings.NewReader("not a workbook")); err == nil {
		t.Error("Expected error for non-xlsx input")
	}
}
