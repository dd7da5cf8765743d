package ui

import (
	"github.com/mattn/go-runewidth"
)

// StringWidth returns the number of cells s takes once displayed, that is
// without its control codes and their arguments.
func StringWidth(s string) int {
	return runewidth.StringWidth(StripControlCodes(s))
}

// Truncate cuts the displayed text of s so that it fits in width cells. tail
// is appended when s is cut.
func Truncate(s string, width int, tail string) string {
	return runewidth.Truncate(StripControlCodes(s), width, tail)
}
