package ptrboard

import (
	"fmt"
	"strconv"
	"strings"
)

// Light24 is the 24-color qualitative palette assigned to primary flow nodes.
var Light24 = []string{
	"#FD3216", "#00FE35", "#6A76FC", "#FED4C4", "#FE00CE", "#0DF9FF",
	"#F6F926", "#FF9616", "#479B55", "#EEA6FB", "#DC587D", "#D626FF",
	"#6E899C", "#00B5F7", "#B68E00", "#C9FBE5", "#FF0092", "#22FFA7",
	"#E3EE9E", "#86CE00", "#BC7196", "#7E7DCD", "#FC6955", "#E48F72",
}

// Fixed node colors.
const (
	ColorPassed       = "rgba(144, 238, 144, 0.8)"
	ColorFailed       = "rgba(205, 92, 92, 0.8)"
	ColorAndroid      = "#71BC68"
	ColorIOS          = "rgba(70, 130, 180, 0.8)"
	ColorSubFeature   = "rgba(200, 200, 200, 0.8)"
	ColorDefault      = "rgba(200, 200, 200, 0.8)"
	ColorEdgeFallback = "rgba(192, 192, 192, 0.3)"
)

// EdgeAlpha is the opacity applied to a source color for its outgoing edges.
const EdgeAlpha = 0.3

// valueColors override role colors for well-known values.
var valueColors = map[string]string{
	StatusPassed:    ColorPassed,
	StatusFailed:    ColorFailed,
	PlatformAndroid: ColorAndroid,
	PlatformIOS:     ColorIOS,
}

// PrimaryColor returns the palette color for the i-th distinct primary value.
func PrimaryColor(i int) string {
	return Light24[i%len(Light24)]
}

// WithAlpha rewrites a "#RRGGBB" or "rgba(r, g, b, a)" color with a new alpha.
// Unparseable colors yield the edge fallback.
func WithAlpha(color string, alpha float64) string {
	r, g, b, ok := parseColor(color)
	if !ok {
		return ColorEdgeFallback
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

func parseColor(color string) (r, g, b int, ok bool) {
	color = strings.TrimSpace(color)

	if strings.HasPrefix(color, "#") && len(color) == 7 {
		v, err := strconv.ParseUint(color[1:], 16, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
	}

	for _, prefix := range []string{"rgba(", "rgb("} {
		if !strings.HasPrefix(color, prefix) || !strings.HasSuffix(color, ")") {
			continue
		}
		parts := strings.Split(color[len(prefix):len(color)-1], ",")
		if len(parts) < 3 {
			return 0, 0, 0, false
		}
		var rgb [3]int
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return 0, 0, 0, false
			}
			rgb[i] = n
		}
		return rgb[0], rgb[1], rgb[2], true
	}
	return 0, 0, 0, false
}
