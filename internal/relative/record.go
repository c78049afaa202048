package relative

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Field is one named expression of a Record.
type Field struct {
	Key  string
	Expr string
}

// Record is an ordered set of named expressions, such as a {from, to} range.
// Keys are unique and keep their insertion order.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord creates a record from fields. A repeated key replaces the
// earlier value in place.
func NewRecord(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Set(f.Key, f.Expr)
	}
	return r
}

// Set assigns expr to key, appending the key if it is new.
func (r *Record) Set(key, expr string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Expr = expr
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Expr: expr})
}

// Get returns the expression stored under key.
func (r *Record) Get(key string) (string, bool) {
	i, ok := r.index[key]
	if !ok {
		return "", false
	}
	return r.fields[i].Expr, true
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the fields in insertion order.
func (r *Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// UnmarshalYAML decodes a mapping of string keys to expression strings,
// keeping the document's key order.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	rec, err := recordFromNode(value)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// MarshalYAML encodes the record as an ordered mapping.
func (r *Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Expr},
		)
	}
	return node, nil
}

// MarshalJSON encodes the record as a JSON object with keys in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return orderedJSON(len(r.fields), func(i int) (string, any) {
		return r.fields[i].Key, r.fields[i].Expr
	})
}

// ResolvedField is one named instant of a Resolved record.
type ResolvedField struct {
	Key  string
	Time time.Time
}

// Resolved is the result of mapping a Record: the same keys in the same
// order, each holding its resolved instant.
type Resolved struct {
	fields []ResolvedField
}

// Get returns the instant stored under key.
func (r *Resolved) Get(key string) (time.Time, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Time, true
		}
	}
	return time.Time{}, false
}

// Len returns the number of fields.
func (r *Resolved) Len() int {
	return len(r.fields)
}

// Keys returns the keys in the order of the source record.
func (r *Resolved) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the resolved fields in order.
func (r *Resolved) Fields() []ResolvedField {
	return append([]ResolvedField(nil), r.fields...)
}

// MarshalJSON encodes the record as an ordered JSON object of RFC 3339
// timestamps.
func (r *Resolved) MarshalJSON() ([]byte, error) {
	return orderedJSON(len(r.fields), func(i int) (string, any) {
		return r.fields[i].Key, r.fields[i].Time
	})
}

// orderedJSON writes n key/value pairs as a JSON object in the order given.
func orderedJSON(n int, pair func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		k, v := pair(i)
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as an ordered mapping of timestamps.
func (r *Resolved) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: f.Time.Format(time.RFC3339Nano)},
		)
	}
	return node, nil
}

// MapRecord resolves every field of rec against a single reading of the
// clock. The first field that fails aborts the call with a *FieldError and
// no partial result.
func (r *Resolver) MapRecord(rec *Record) (*Resolved, error) {
	if rec == nil {
		return nil, &InvalidInputError{Kind: "nil record"}
	}

	now := r.clock.Now()
	out := &Resolved{fields: make([]ResolvedField, 0, len(rec.fields))}
	for _, f := range rec.fields {
		e, err := Parse(f.Expr)
		if err != nil {
			return nil, &FieldError{Key: f.Key, Err: err}
		}
		t, err := r.EvalAt(e, now)
		if err != nil {
			return nil, &FieldError{Key: f.Key, Err: err}
		}
		out.fields = append(out.fields, ResolvedField{Key: f.Key, Time: t})
	}
	return out, nil
}
