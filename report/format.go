package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// padRight pads s with spaces to a display width of at least width.
//
// Example: padRight("Hi", 5) returns "Hi   "
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// maxWidth returns the widest display width among names.
func maxWidth(names []string) int {
	widest := 0
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > widest {
			widest = w
		}
	}
	return widest
}
