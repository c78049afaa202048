// Package format provides text helpers for terminal output: ANSI-aware
// widths and padding, and compact offsets relative to an anchor instant.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of s in terminal columns,
// ignoring ANSI escape sequences and counting wide runes as two columns.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// Truncate shortens s to at most maxWidth columns, ending with "..." when
// anything was cut. Colored input loses its escape sequences when it is
// cut. It returns the result and its visible width.
func Truncate(s string, maxWidth int) (string, int) {
	width := DisplayWidth(s)
	if width <= maxWidth {
		return s, width
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", max(maxWidth, 0)), max(maxWidth, 0)
	}
	out := runewidth.Truncate(StripAnsi(s), maxWidth, "...")
	return out, runewidth.StringWidth(out)
}

// PadRight pads s with spaces from visibleWidth up to targetWidth.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}
