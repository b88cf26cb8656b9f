package tree

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlMaxDepth bounds alias expansion so that a self-referencing anchor
// cannot send the decoder into an infinite loop.
const yamlMaxDepth = 1000

// DecodeYAML reads one OMM document from r. The document root must be a
// mapping. yaml.v3 document nodes keep mapping keys in source order, so
// the first-key-is-tag rule survives decoding.
func DecodeYAML(r io.Reader) (*Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("decode yaml: empty document")
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode yaml: document root must be a mapping, got %s", yamlKindName(root.Kind))
	}
	n, err := decodeYAMLMapping(root, 0)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return n, nil
}

func decodeYAMLMapping(m *yaml.Node, depth int) (*Node, error) {
	n := Block()
	for i := 0; i+1 < len(m.Content); i += 2 {
		keyNode := m.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key is not a scalar", keyNode.Line)
		}
		v, err := decodeYAMLValue(m.Content[i+1], depth+1)
		if err != nil {
			return nil, err
		}
		n.Set(keyNode.Value, v)
	}
	return n, nil
}

func decodeYAMLValue(y *yaml.Node, depth int) (Value, error) {
	if depth > yamlMaxDepth {
		return Value{}, fmt.Errorf("line %d: document nested too deeply", y.Line)
	}
	switch y.Kind {
	case yaml.AliasNode:
		return decodeYAMLValue(y.Alias, depth+1)
	case yaml.MappingNode:
		n, err := decodeYAMLMapping(y, depth)
		if err != nil {
			return Value{}, err
		}
		return NodeValue(n), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(y.Content))
		for _, c := range y.Content {
			v, err := decodeYAMLValue(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(y)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %s", y.Line, yamlKindName(y.Kind))
	}
}

func decodeYAMLScalar(y *yaml.Node) (Value, error) {
	switch y.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(y.Value)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: invalid bool %q", y.Line, y.Value)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(y.Value, 64)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: invalid number %q", y.Line, y.Value)
		}
		return numberLit(f, y.Value), nil
	default:
		return String(y.Value), nil
	}
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
