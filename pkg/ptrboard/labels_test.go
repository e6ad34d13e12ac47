package ptrboard

import (
	"strings"
	"testing"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Login", "Login"},
		{strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{strings.Repeat("é", 35), strings.Repeat("é", 30) + "..."},
	}

	for _, tt := range tests {
		if got := TruncateLabel(tt.input); got != tt.expected {
			t.Errorf("TruncateLabel(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestWrapDetail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short text", "short text"},
		{"  spaced   out  ", "spaced out"},
		{strings.Repeat("x", 55), strings.Repeat("x", 50) + "<br>xxxxx"},
		{strings.Repeat("ab ", 20), strings.TrimSpace(strings.Repeat("ab ", 17)) + "<br>ab ab ab"},
	}

	for _, tt := range tests {
		if got := WrapDetail(tt.input); got != tt.expected {
			t.Errorf("WrapDetail(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestHoverText(t *testing.T) {
	got := HoverText("Passed", 2, 3)
	if got != "Passed <br>Incoming: 2 <br>Outgoing: 3" {
		t.Errorf("HoverText = %q", got)
	}
}
