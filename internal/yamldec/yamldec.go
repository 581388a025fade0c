// Package yamldec decodes YAML schema documents into the same ordered
// any-representation produced by internal/jsondec, so YAML-authored
// schemas flow through resolution unchanged.
package yamldec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/schemakit/schemakit/internal/ordered"
)

// Decode parses a single YAML document from b.
func Decode(b []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	return fromNode(root.Content[0])
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := ordered.New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yamldec: non-scalar mapping key at line %d", kn.Line)
			}
			v, err := fromNode(vn)
			if err != nil {
				return nil, err
			}
			obj.Set(kn.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	}
	return nil, fmt.Errorf("yamldec: unsupported node kind %d at line %d", n.Kind, n.Line)
}

func scalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		// keep the textual form, matching json.Number semantics
		return json.Number(n.Value), nil
	default:
		return n.Value, nil
	}
}
