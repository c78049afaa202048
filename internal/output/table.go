package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/reltime/internal/format"
)

const (
	colIndex  = 3
	colKey    = 12
	colOffset = 10
	// narrowest expression column worth keeping on a small terminal
	minExprWidth = 10
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	Layout string
	// Width overrides terminal detection when positive.
	Width int
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// exprWidth sizes the expression column to fit the widest expression,
// shrinking it when the table would overflow the terminal.
func (f *TableFormatter) exprWidth(res Result, timeWidth int) int {
	want := len("Expression")
	for _, e := range res.Entries {
		want = max(want, format.DisplayWidth(e.Expression))
	}

	width := f.Width
	if width <= 0 {
		width = terminalWidth()
	}
	if width <= 0 {
		return want
	}

	avail := width - (colIndex + colKey + timeWidth + colOffset + 8)
	return max(min(want, avail), minExprWidth)
}

// Format outputs the result as a table
func (f *TableFormatter) Format(res Result, w io.Writer) error {
	fmt.Fprintf(w, "Now: %s\n\n", res.Now.Format(f.Layout))
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, "No expressions resolved.")
		return nil
	}

	timeWidth := len(f.Layout)
	for _, e := range res.Entries {
		timeWidth = max(timeWidth, len(e.Time.Format(f.Layout)))
	}
	colExpr := f.exprWidth(res, timeWidth)

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %s\n",
		colIndex, "#",
		colKey, "Key",
		colExpr, "Expression",
		timeWidth, "Time",
		"Offset")
	fmt.Fprintln(w, strings.Repeat("-", colIndex+colKey+colExpr+timeWidth+colOffset+8))

	for _, e := range res.Entries {
		key, keyWidth := format.Truncate(e.Key, colKey)
		expr, exprWidth := format.Truncate(e.Expression, colExpr)
		offset := format.Offset(e.Time.Sub(res.Now))

		fmt.Fprintf(w, "%-*s  %s  %s  %-*s  %s\n",
			colIndex, strconv.Itoa(e.Input+1),
			format.PadRight(key, keyWidth, colKey),
			format.PadRight(color.CyanString(expr), exprWidth, colExpr),
			timeWidth, e.Time.Format(f.Layout),
			colorOffset(offset),
		)
	}
	return nil
}

// colorOffset highlights past instants in yellow and future ones in green.
func colorOffset(s string) string {
	switch {
	case strings.HasSuffix(s, " ago"):
		return color.YellowString(s)
	case strings.HasPrefix(s, "in "):
		return color.GreenString(s)
	}
	return s
}
