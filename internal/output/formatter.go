// Package output renders resolved expressions in the CLI's output formats.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spiffcs/reltime/internal/relative"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatUnix     Format = "unix"
	FormatRFC3339  Format = "rfc3339"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatUnix, FormatRFC3339}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown format %q (valid: %s)", s, strings.Join(names, ", "))
}

// Entry is one resolved instant. Plain expressions produce one entry;
// records produce one entry per field, sharing the same Input index.
type Entry struct {
	Input      int       `json:"input" yaml:"input"`
	Key        string    `json:"key,omitempty" yaml:"key,omitempty"`
	Expression string    `json:"expression" yaml:"expression"`
	Time       time.Time `json:"time" yaml:"time"`
	Unix       int64     `json:"unix" yaml:"unix"`
}

// Label names the entry in line-oriented formats: the record key, or the
// expression itself for plain inputs.
func (e Entry) Label() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Expression
}

// Result is everything a formatter renders: the anchor instant every
// expression was resolved against and the resolved entries in input order.
type Result struct {
	Now     time.Time `json:"now" yaml:"now"`
	Entries []Entry   `json:"results" yaml:"results"`
}

// NewResult flattens resolved outputs into entries. inputs and outs must be
// the same length and in the same order, as returned by Resolver.ResolveAll.
// When loc is non-nil every instant is converted to it.
func NewResult(now time.Time, inputs []relative.Input, outs []relative.Output, loc *time.Location) (Result, error) {
	if len(inputs) != len(outs) {
		return Result{}, fmt.Errorf("%d inputs but %d outputs", len(inputs), len(outs))
	}

	conv := func(t time.Time) time.Time {
		if loc == nil {
			return t
		}
		return t.In(loc)
	}

	res := Result{Now: conv(now)}
	for i, in := range inputs {
		switch v := in.(type) {
		case relative.Expr:
			t := conv(outs[i].Time)
			res.Entries = append(res.Entries, Entry{Input: i, Expression: string(v), Time: t, Unix: t.Unix()})
		case *relative.Record:
			if !outs[i].IsRecord() {
				return Result{}, fmt.Errorf("input %d: record resolved to a single instant", i)
			}
			for _, f := range v.Fields() {
				t, ok := outs[i].Record.Get(f.Key)
				if !ok {
					return Result{}, fmt.Errorf("input %d: field %q missing from result", i, f.Key)
				}
				t = conv(t)
				res.Entries = append(res.Entries, Entry{Input: i, Key: f.Key, Expression: f.Expr, Time: t, Unix: t.Unix()})
			}
		default:
			return Result{}, fmt.Errorf("input %d: unsupported input %T", i, in)
		}
	}
	return res, nil
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(res Result, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format. layout is the
// time layout used by the table and markdown formats; empty means
// time.RFC3339.
func NewFormatter(format Format, layout string) Formatter {
	if layout == "" {
		layout = time.RFC3339
	}
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{Layout: layout}
	case FormatUnix:
		return &LineFormatter{Value: func(t time.Time) string { return fmt.Sprint(t.Unix()) }}
	case FormatRFC3339:
		return &LineFormatter{Value: func(t time.Time) string { return t.Format(time.RFC3339Nano) }}
	default:
		return &TableFormatter{Layout: layout}
	}
}
