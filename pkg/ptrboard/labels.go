package ptrboard

import (
	"fmt"
	"strings"
)

// Label limits.
const (
	MaxLabelLength = 30
	DetailWidth    = 50
)

// TruncateLabel shortens s to MaxLabelLength runes followed by "..." when longer.
func TruncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= MaxLabelLength {
		return s
	}
	return string(r[:MaxLabelLength]) + "..."
}

// WrapDetail word-wraps s at DetailWidth runes and joins the lines with "<br>".
// Words longer than the width are split.
func WrapDetail(s string) string {
	return strings.Join(wrapWords(s, DetailWidth), "<br>")
}

// HoverText renders the hover line of a flow node.
func HoverText(detail string, incoming, outgoing int) string {
	return fmt.Sprintf("%s <br>Incoming: %d <br>Outgoing: %d", detail, incoming, outgoing)
}

func wrapWords(s string, width int) []string {
	var lines []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}

	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			flush()
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			flush()
			cur = append(cur, w...)
		}
	}
	flush()
	return lines
}
