package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the result as a single JSON document
func (f *JSONFormatter) Format(res Result, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	if res.Entries == nil {
		res.Entries = []Entry{}
	}
	return encoder.Encode(res)
}
