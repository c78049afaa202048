package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/reltime/internal/format"
)

// MarkdownFormatter formats output as a Markdown table
type MarkdownFormatter struct {
	Layout string
}

// Format outputs the result as a Markdown table
func (f *MarkdownFormatter) Format(res Result, w io.Writer) error {
	fmt.Fprintf(w, "*Anchored at %s*\n\n", res.Now.Format(f.Layout))
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, "No expressions resolved.")
		return nil
	}

	fmt.Fprintln(w, "| # | Key | Expression | Time | Offset |")
	fmt.Fprintln(w, "|---|-----|------------|------|--------|")
	for _, e := range res.Entries {
		fmt.Fprintf(w, "| %d | %s | `%s` | %s | %s |\n",
			e.Input+1,
			escapeMarkdown(e.Key),
			escapeMarkdown(e.Expression),
			e.Time.Format(f.Layout),
			format.Offset(e.Time.Sub(res.Now)),
		)
	}
	return nil
}

// escapeMarkdown escapes characters that would break a table cell
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
