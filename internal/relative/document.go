package relative

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeDocument reads a YAML or JSON document holding a single expression,
// a record of expressions, or a sequence of either. Record keys keep the
// order they have in the document.
func DecodeDocument(data []byte) ([]Input, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	root := unwrapNode(&doc)
	if root.Kind != yaml.SequenceNode {
		in, err := inputFromNode(root)
		if err != nil {
			return nil, err
		}
		return []Input{in}, nil
	}

	inputs := make([]Input, 0, len(root.Content))
	for i, item := range root.Content {
		in, err := inputFromNode(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
