package relative

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Input is either a single expression (Expr) or a record of expressions
// (*Record).
type Input interface {
	isInput()
}

// Expr is a single relative-time expression.
type Expr string

func (Expr) isInput()    {}
func (*Record) isInput() {}

// Output holds the result of Resolve. Record is set for record inputs;
// otherwise Time holds the resolved instant.
type Output struct {
	Time   time.Time
	Record *Resolved
}

// IsRecord reports whether the output came from a record input.
func (o Output) IsRecord() bool {
	return o.Record != nil
}

// Resolve dispatches on the input variant: an Expr resolves to a single
// instant, a *Record to a Resolved record with the same keys.
func (r *Resolver) Resolve(in Input) (Output, error) {
	switch v := in.(type) {
	case Expr:
		t, err := r.ResolveString(string(v))
		if err != nil {
			return Output{}, err
		}
		return Output{Time: t}, nil
	case *Record:
		res, err := r.MapRecord(v)
		if err != nil {
			return Output{}, err
		}
		return Output{Record: res}, nil
	}
	return Output{}, &InvalidInputError{Kind: kindOf(in)}
}

// ResolveValue resolves a value decoded from a document. Strings are
// expressions; string-keyed maps and YAML mapping nodes are records. Plain
// Go maps have no order, so their keys are resolved in sorted order; decode
// into a yaml.Node to keep the document's order.
func (r *Resolver) ResolveValue(v any) (Output, error) {
	in, err := InputOf(v)
	if err != nil {
		return Output{}, err
	}
	return r.Resolve(in)
}

// InputOf classifies a decoded value as an Input.
func InputOf(v any) (Input, error) {
	switch v := v.(type) {
	case Input:
		if rec, ok := v.(*Record); ok && rec == nil {
			return nil, &InvalidInputError{Kind: "nil record"}
		}
		return v, nil
	case string:
		return Expr(v), nil
	case map[string]string:
		rec := &Record{}
		for _, k := range sortedKeys(v) {
			rec.Set(k, v[k])
		}
		return rec, nil
	case map[string]any:
		rec := &Record{}
		for _, k := range sortedKeys(v) {
			s, ok := v[k].(string)
			if !ok {
				return nil, &FieldError{Key: k, Err: &InvalidInputError{Kind: kindOf(v[k])}}
			}
			rec.Set(k, s)
		}
		return rec, nil
	case *yaml.Node:
		if v == nil {
			break
		}
		return inputFromNode(v)
	case yaml.Node:
		return inputFromNode(&v)
	}
	return nil, &InvalidInputError{Kind: kindOf(v)}
}

func inputFromNode(n *yaml.Node) (Input, error) {
	n = unwrapNode(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return Expr(n.Value), nil
		}
	case yaml.MappingNode:
		return recordFromNode(n)
	}
	return nil, &InvalidInputError{Kind: nodeKind(n)}
}

func recordFromNode(n *yaml.Node) (*Record, error) {
	n = unwrapNode(n)
	if n.Kind != yaml.MappingNode {
		return nil, &InvalidInputError{Kind: nodeKind(n)}
	}

	rec := &Record{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := unwrapNode(n.Content[i])
		val := unwrapNode(n.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, &InvalidInputError{Kind: "non-scalar key " + nodeKind(key)}
		}
		if val.Kind != yaml.ScalarNode || val.ShortTag() != "!!str" {
			return nil, &FieldError{Key: key.Value, Err: &InvalidInputError{Kind: nodeKind(val)}}
		}
		rec.Set(key.Value, val.Value)
	}
	return rec, nil
}

// unwrapNode steps through document and alias wrappers.
func unwrapNode(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) == 1:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}
		return n.ShortTag()
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	}
	return "empty document"
}

func kindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
