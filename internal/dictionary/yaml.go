package dictionary

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a dictionary kept as YAML, for hand-maintained
// dictionaries. It walks yaml.Node so document order survives and follows
// the same rules as Parse for null and repeated entries.
func ParseYAML(data []byte) (*Dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected an object at the top level, got %s", nodeKind(root))
	}

	d := newDictionary()
	for i := 0; i+1 < len(root.Content); i += 2 {
		col, err := decodeColumnNode(root.Content[i].Value, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		d.put(col)
	}
	return d, nil
}

func decodeColumnNode(name string, node *yaml.Node) (Column, error) {
	if node.Kind != yaml.MappingNode {
		return Column{}, fmt.Errorf("column %s: expected an object, got %s", name, nodeKind(node))
	}

	col := Column{Name: name, Description: name}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "Description":
			switch {
			case isNull(val):
				col.Description = name
			case val.Kind == yaml.ScalarNode:
				col.Description = val.Value
			default:
				return Column{}, fmt.Errorf("column %s: Description must be a string, got %s", name, nodeKind(val))
			}
		case "Values":
			if isNull(val) {
				col.Values = nil
				continue
			}
			if val.Kind != yaml.MappingNode {
				return Column{}, fmt.Errorf("column %s: Values must be an object, got %s", name, nodeKind(val))
			}
			set := newValueSet()
			for j := 0; j+1 < len(val.Content); j += 2 {
				code, label := val.Content[j], val.Content[j+1]
				if label.Kind != yaml.ScalarNode || isNull(label) {
					return Column{}, fmt.Errorf("column %s: label for code %q must be a string, got %s", name, code.Value, nodeKind(label))
				}
				set.put(code.Value, label.Value)
			}
			col.Values = set.values
		}
	}
	return col, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
