package astio

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/HicaroD/hexpat/internal/ast"
)

// Encode renders nodes in the canonical document form read by Decode. Every
// node carries an explicit line so a round trip keeps diagnostics stable.
func Encode(nodes []ast.Node) ([]byte, error) {
	root, err := encodeList(nodes)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func intScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: value}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}

type mapping struct {
	node *yaml.Node
}

func newMapping(kind string, line int) *mapping {
	m := &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
	m.set("kind", scalar(kind))
	m.set("line", intScalar(strconv.Itoa(line)))
	return m
}

func (m *mapping) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, scalar(key), value)
}

// setChild stores child under key; absent optional children are left out.
func (m *mapping) setChild(key string, child ast.Node, optional bool) error {
	if ast.IsNil(child) {
		if !optional {
			m.set(key, null())
		}
		return nil
	}
	value, err := encodeNode(child)
	if err != nil {
		return err
	}
	m.set(key, value)
	return nil
}

func encodeList(nodes []ast.Node) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range nodes {
		item, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, item)
	}
	return seq, nil
}

func encodeNode(node ast.Node) (*yaml.Node, error) {
	if ast.IsNil(node) {
		return null(), nil
	}

	var err error
	switch n := node.(type) {
	case *ast.VariableDecl:
		m := newMapping(KIND_VARIABLE_DECL, n.Line())
		m.set("name", scalar(n.Name))
		if err = m.setChild("type", n.Type, false); err == nil {
			err = m.setChild("offset", n.PlacementOffset, true)
		}
		return m.node, err
	case *ast.PointerVariableDecl:
		m := newMapping(KIND_POINTER_VARIABLE_DECL, n.Line())
		m.set("name", scalar(n.Name))
		if err = m.setChild("type", n.Type, false); err == nil {
			if err = m.setChild("size_type", n.SizeType, false); err == nil {
				err = m.setChild("offset", n.PlacementOffset, true)
			}
		}
		return m.node, err
	case *ast.ArrayVariableDecl:
		m := newMapping(KIND_ARRAY_VARIABLE_DECL, n.Line())
		m.set("name", scalar(n.Name))
		if err = m.setChild("type", n.Type, false); err == nil {
			if err = m.setChild("size", n.Size, false); err == nil {
				err = m.setChild("offset", n.PlacementOffset, true)
			}
		}
		return m.node, err
	case *ast.TypeDecl:
		m := newMapping(KIND_TYPE_DECL, n.Line())
		if !n.IsAnonymous() {
			m.set("name", scalar(n.Name))
		}
		if n.Endian != nil {
			m.set("endian", scalar(n.Endian.String()))
		}
		err = m.setChild("type", n.Type, false)
		return m.node, err
	case *ast.Struct:
		m := newMapping(KIND_STRUCT, n.Line())
		members, err := encodeList(n.Members)
		m.set("members", members)
		return m.node, err
	case *ast.Union:
		m := newMapping(KIND_UNION, n.Line())
		members, err := encodeList(n.Members)
		m.set("members", members)
		return m.node, err
	case *ast.Enum:
		m := newMapping(KIND_ENUM, n.Line())
		if err = m.setChild("type", n.UnderlyingType, true); err != nil {
			return nil, err
		}
		entries := &yaml.Node{Kind: yaml.SequenceNode}
		for _, entry := range n.Entries {
			e := &mapping{node: &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}}
			e.set("name", scalar(entry.Name))
			if err := e.setChild("value", entry.Value, false); err != nil {
				return nil, err
			}
			entries.Content = append(entries.Content, e.node)
		}
		m.set("entries", entries)
		return m.node, nil
	case *ast.Bitfield:
		m := newMapping(KIND_BITFIELD, n.Line())
		entries := &yaml.Node{Kind: yaml.SequenceNode}
		for _, entry := range n.Entries {
			e := &mapping{node: &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}}
			e.set("name", scalar(entry.Name))
			if err := e.setChild("size", entry.Size, false); err != nil {
				return nil, err
			}
			entries.Content = append(entries.Content, e.node)
		}
		m.set("entries", entries)
		return m.node, nil
	case *ast.BuiltinType:
		m := newMapping(KIND_BUILTIN_TYPE, n.Line())
		m.set("type", scalar(n.Type.String()))
		return m.node, nil
	case *ast.IntegerLiteral:
		m := newMapping(KIND_INTEGER_LITERAL, n.Line())
		m.set("value", intScalar(n.String()))
		return m.node, nil
	case *ast.NumericExpression:
		m := newMapping(KIND_NUMERIC_EXPR, n.Line())
		m.set("op", scalar(n.Op.String()))
		if err = m.setChild("left", n.Left, false); err == nil {
			err = m.setChild("right", n.Right, false)
		}
		return m.node, err
	case *ast.RValue:
		m := newMapping(KIND_RVALUE, n.Line())
		path := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, p := range n.Path {
			path.Content = append(path.Content, scalar(p))
		}
		m.set("path", path)
		return m.node, nil
	default:
		return nil, fmt.Errorf("cannot encode unknown AST node %T", node)
	}
}
