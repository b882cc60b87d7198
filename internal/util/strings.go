// Package util provides small formatting helpers shared by the renderers.
package util

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncate shortens s to maxWidth visual columns, ending in Ellipsis when
// anything was cut. ANSI escape sequences and wide runes are measured by
// their display width, so styled text can be passed directly.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= len(Ellipsis) {
		return Ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// Plural returns "1 task" or "n tasks".
func Plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// FormatHours renders an effort estimate without trailing zeros: 2 -> "2h",
// 0.5 -> "0.5h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// PadRight pads s with spaces to width visual columns.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
