// Package render turns dashboard results into chart images and UI payloads.
package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to render")

// Format is an image output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat parses "svg" or "png" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Bar colors by platform.
var (
	colorAndroid = drawing.ColorFromHex(ptrboard.ColorAndroid)
	colorIOS     = drawing.Color{R: 70, G: 130, B: 180, A: 255}
	colorOther   = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

const (
	chartHeight   = 480
	barWidth      = 48
	barSpacing    = 28
	minChartWidth = 640
)

// PlatformColor returns the bar color of a platform.
func PlatformColor(platform string) drawing.Color {
	switch platform {
	case ptrboard.PlatformAndroid:
		return colorAndroid
	case ptrboard.PlatformIOS:
		return colorIOS
	default:
		return colorOther
	}
}

// BarLabel formats the x-axis label of one bar.
func BarLabel(p models.Percentage) string {
	return fmt.Sprintf("%s %s %.2f%%", p.Status, p.Platform, p.Percentage)
}

// ProgressChart draws the status breakdown as a bar chart, one bar per
// (status, platform) pair in input order, on a fixed 0-100 axis.
func ProgressChart(w io.Writer, pcts []models.Percentage, format Format) error {
	if len(pcts) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(pcts))
	for i, p := range pcts {
		label := BarLabel(p)
		if format != FormatPNG {
			label = html.EscapeString(label)
		}
		color := PlatformColor(p.Platform)
		bars[i] = chart.Value{
			Value: p.Percentage,
			Label: label,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		}
	}

	width := 120 + len(bars)*(barWidth+barSpacing)
	if width < minChartWidth {
		width = minChartWidth
	}

	bc := chart.BarChart{
		Title:  "PTR Progress",
		Width:  width,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Name:  "Percentage",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := bc.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render progress chart: %w", err)
	}
	return nil
}
