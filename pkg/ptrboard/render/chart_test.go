package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

var samplePercentages = []models.Percentage{
	{Status: "Passed", Platform: "Android", Percentage: 50},
	{Status: "Failed", Platform: "Android", Percentage: 50},
	{Status: "Passed", Platform: "iOS", Percentage: 66.67},
	{Status: "N/A", Platform: "iOS", Percentage: 33.33},
}

func TestProgressChart_SVG(t *testing.T) {
	var buf bytes.Buffer
	if err := ProgressChart(&buf, samplePercentages, FormatSVG); err != nil {
		t.Fatalf("ProgressChart() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("expected SVG document, got %.40q", out)
	}
	for _, want := range []string{"66.67%", "33.33%", "PTR Progress"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected SVG to contain %q", want)
		}
	}
	// Android bars are filled with #71BC68.
	if !strings.Contains(out, "rgba(113,188,104,1.0)") {
		t.Error("expected Android bar color")
	}
}

func TestProgressChart_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := ProgressChart(&buf, samplePercentages, FormatPNG); err != nil {
		t.Fatalf("ProgressChart() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("expected PNG signature")
	}
}

func TestProgressChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ProgressChart(&buf, nil, FormatSVG); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{" png ", FormatPNG, false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if FormatPNG.ContentType() != "image/png" || FormatSVG.ContentType() != "image/svg+xml" {
		t.Error("unexpected content types")
	}
}

func TestPlatformColor(t *testing.T) {
	if c := PlatformColor("Android"); c.R != 0x71 || c.G != 0xBC || c.B != 0x68 {
		t.Errorf("Android color = %v", c)
	}
	if PlatformColor("Web") != PlatformColor("Backoffice") {
		t.Error("unknown platforms should share the fallback color")
	}
	if got := BarLabel(samplePercentages[2]); got != "Passed iOS 66.67%" {
		t.Errorf("BarLabel() = %q", got)
	}
}
