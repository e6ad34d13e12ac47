package render

import (
	"fmt"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/parser"
)

// HeatmapColorScale maps 0% to red and 100% to green.
const HeatmapColorScale = "RdYlGn"

// HeatmapTrace is a plotly-compatible heatmap of one overview block.
type HeatmapTrace struct {
	Type       string       `json:"type"`
	Title      string       `json:"title"`
	X          []string     `json:"x"`
	Y          []string     `json:"y"`
	Z          [][]*float64 `json:"z"`
	Text       [][]string   `json:"text"`
	YTitle     string       `json:"ytitle"`
	ColorScale string       `json:"colorscale"`
	ZMin       float64      `json:"zmin"`
	ZMax       float64      `json:"zmax"`
}

// Heatmaps converts overview blocks into heatmap traces. Cell text shows the
// percentage with two decimals and is empty for missing values.
func Heatmaps(blocks []models.Heatmap) []HeatmapTrace {
	traces := make([]HeatmapTrace, 0, len(blocks))
	for _, hm := range blocks {
		t := HeatmapTrace{
			Type:       "heatmap",
			Title:      hm.Title,
			X:          hm.Metrics,
			Y:          hm.Sheets,
			Z:          hm.Values,
			Text:       make([][]string, len(hm.Values)),
			YTitle:     parser.SheetNameColumn,
			ColorScale: HeatmapColorScale,
			ZMin:       0,
			ZMax:       100,
		}
		for i, row := range hm.Values {
			t.Text[i] = make([]string, len(row))
			for j, v := range row {
				if v != nil {
					t.Text[i][j] = fmt.Sprintf("%.2f%%", *v)
				}
			}
		}
		traces = append(traces, t)
	}
	return traces
}
