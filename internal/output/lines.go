package output

import (
	"fmt"
	"io"
	"time"
)

// LineFormatter prints one line per entry for use in shell pipelines.
// Plain expressions print only the value; record fields print key=value.
type LineFormatter struct {
	Value func(t time.Time) string
}

// Format outputs one line per entry
func (f *LineFormatter) Format(res Result, w io.Writer) error {
	for _, e := range res.Entries {
		var err error
		if e.Key != "" {
			_, err = fmt.Fprintf(w, "%s=%s\n", e.Key, f.Value(e.Time))
		} else {
			_, err = fmt.Fprintln(w, f.Value(e.Time))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
