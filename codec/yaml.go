package codec

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	openapifix "github.com/rafactx/openapi-fixer-v2"
)

// DecodeYAML parses a single YAML document into a tree, preserving mapping
// key order via yaml.v3 document nodes. YAML is used for hydration configs
// and rule specifications; JSON documents may also pass through here since
// YAML is a superset.
func DecodeYAML(data []byte) (*openapifix.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		// empty input
		return openapifix.Null(), nil
	}
	return fromYAMLNode(&root)
}

func fromYAMLNode(y *yaml.Node) (*openapifix.Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return openapifix.Null(), nil
		}
		return fromYAMLNode(y.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)
	case yaml.MappingNode:
		out := openapifix.NewMapping()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k := y.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: non-scalar mapping key", k.Line)
			}
			v, err := fromYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(k.Value, v)
		}
		return out, nil
	case yaml.SequenceNode:
		out := openapifix.NewSequence()
		for _, c := range y.Content {
			v, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out.Append(v)
		}
		return out, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(y)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
}

func fromYAMLScalar(y *yaml.Node) (*openapifix.Node, error) {
	switch y.Tag {
	case "!!null", "":
		if y.Tag == "" && y.Value != "" {
			return openapifix.String(y.Value), nil
		}
		return openapifix.Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(y.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bool %q", y.Line, y.Value)
		}
		return openapifix.Bool(b), nil
	case "!!int", "!!float":
		return openapifix.Number(json.Number(y.Value)), nil
	default:
		return openapifix.String(y.Value), nil
	}
}

// EncodeYAML renders the tree as YAML with mapping keys in stored order.
func EncodeYAML(n *openapifix.Node) ([]byte, error) {
	y, err := toYAMLNode(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(y)
}

func toYAMLNode(n *openapifix.Node) (*yaml.Node, error) {
	switch n.Kind() {
	case openapifix.KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			cy, err := toYAMLNode(child)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, cy)
		}
		return out, nil
	case openapifix.KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range n.Items() {
			cy, err := toYAMLNode(it)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, cy)
		}
		return out, nil
	default:
		switch v := n.Value().(type) {
		case nil:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		case bool:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
		case json.Number:
			return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}, nil
		case string:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
		default:
			return nil, fmt.Errorf("unsupported scalar type %T", v)
		}
	}
}
