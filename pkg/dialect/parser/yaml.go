package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"helm-apps/dialect/pkg/dialect/ast"
)

// maxAliasDepth bounds alias expansion so a hostile document cannot recurse
// forever through self-referencing anchors.
const maxAliasDepth = 64

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// decodeYAML parses data into an ast.Value via the yaml.v3 node API, which
// keeps mapping key order.
func decodeYAML(data []byte) (ast.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ast.Value{}, err
	}
	if doc.Kind == 0 {
		return ast.Null(), nil
	}
	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, aliasDepth int) (ast.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ast.Null(), nil
		}
		return fromNode(n.Content[0], aliasDepth)

	case yaml.MappingNode:
		m := ast.NewMapping()
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return ast.Value{}, fmt.Errorf("line %d: only scalar mapping keys are supported", keyNode.Line)
			}
			if keyNode.Tag == "!!merge" {
				merges = append(merges, valueNode)
				continue
			}
			v, err := fromNode(valueNode, aliasDepth)
			if err != nil {
				return ast.Value{}, err
			}
			m.Set(keyNode.Value, v)
		}
		if err := applyMergeKeys(m, merges, aliasDepth); err != nil {
			return ast.Value{}, err
		}
		return ast.MappingValue(m), nil

	case yaml.SequenceNode:
		items := make([]ast.Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child, aliasDepth)
			if err != nil {
				return ast.Value{}, err
			}
			items = append(items, v)
		}
		return ast.Sequence(items...), nil

	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth || n.Alias == nil {
			return ast.Value{}, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return fromNode(n.Alias, aliasDepth+1)

	case yaml.ScalarNode:
		return fromScalar(n), nil

	default:
		return ast.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

// applyMergeKeys fills keys from "<<" sources that the mapping does not set
// itself. Earlier sources win over later ones.
func applyMergeKeys(m *ast.Mapping, merges []*yaml.Node, aliasDepth int) error {
	for _, src := range merges {
		v, err := fromNode(src, aliasDepth)
		if err != nil {
			return err
		}
		sources := []ast.Value{v}
		if v.IsSequence() {
			sources = v.Items
		}
		for _, s := range sources {
			if !s.IsMapping() {
				continue
			}
			s.Map.Each(func(key string, child ast.Value) {
				if !m.Has(key) {
					m.Set(key, child)
				}
			})
		}
	}
	return nil
}

func fromScalar(n *yaml.Node) ast.Value {
	switch n.ShortTag() {
	case "!!null":
		return ast.Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return ast.Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return ast.Number(float64(i), n.Value)
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return ast.Number(f, n.Value)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return ast.Number(f, n.Value)
		}
	}
	return ast.String(n.Value)
}

// Encode renders v as YAML with two-space indentation and the mapping key
// order of the tree.
func Encode(v ast.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNode(v ast.Value) *yaml.Node {
	switch v.Kind {
	case ast.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case ast.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case ast.KindNumber:
		tag := "!!float"
		if _, err := strconv.ParseInt(v.Text, 0, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Text}
	case ast.KindString:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text}
		if strings.Contains(v.Text, "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n
	case ast.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case ast.KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Map.Each(func(key string, child ast.Value) {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				toNode(child),
			)
		})
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// syntaxErrorLine extracts the line number from a yaml.v3 error message.
func syntaxErrorLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 1
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil || n <= 0 {
		return 1
	}
	return n
}
