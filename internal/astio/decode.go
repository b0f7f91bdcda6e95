// Package astio reads and writes pattern ASTs as YAML documents, the form in
// which an external parser hands its output to the checker. JSON documents
// are accepted as well since they are valid YAML.
package astio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HicaroD/hexpat/internal/ast"
)

const (
	KIND_VARIABLE_DECL         = "variable_decl"
	KIND_POINTER_VARIABLE_DECL = "pointer_variable_decl"
	KIND_ARRAY_VARIABLE_DECL   = "array_variable_decl"
	KIND_TYPE_DECL             = "type_decl"
	KIND_STRUCT                = "struct"
	KIND_UNION                 = "union"
	KIND_ENUM                  = "enum"
	KIND_BITFIELD              = "bitfield"
	KIND_BUILTIN_TYPE          = "builtin_type"
	KIND_INTEGER_LITERAL       = "integer_literal"
	KIND_NUMERIC_EXPR          = "numeric_expression"
	KIND_RVALUE                = "rvalue"
)

// DecodeError reports a document that does not describe a tree. It is never
// a validation error: the document has to decode before it can be checked.
type DecodeError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func DecodeFile(path string) ([]ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// Decode parses a document holding a sequence of top-level nodes. YAML nulls
// decode to absent nodes, and so do missing child keys; reporting those is
// the validator's job. A stream with more than one document is rejected.
func Decode(data []byte, file string) ([]ast.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		// an empty stream is an empty program
		if errors.Is(err, io.EOF) {
			return []ast.Node{}, nil
		}
		return nil, &DecodeError{File: file, Message: err.Error()}
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		at := &extra
		if len(extra.Content) > 0 {
			at = extra.Content[0]
		}
		return nil, &DecodeError{
			File:    file,
			Line:    at.Line,
			Column:  at.Column,
			Message: "expected a single document, found another one",
		}
	} else if !errors.Is(err, io.EOF) {
		return nil, &DecodeError{File: file, Message: err.Error()}
	}

	d := &decoder{file: file}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []ast.Node{}, nil
	}

	root := doc.Content[0]
	if isNull(root) {
		return []ast.Node{}, nil
	}
	return d.nodeList(root)
}

type decoder struct {
	file string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return &DecodeError{
		File:    d.file,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func (d *decoder) nodeList(n *yaml.Node) ([]ast.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of nodes")
	}
	nodes := make([]ast.Node, 0, len(n.Content))
	for _, item := range n.Content {
		node, err := d.node(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// fields indexes the keys of a mapping node.
func (d *decoder) fields(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if _, ok := fields[key.Value]; ok {
			return nil, d.errorf(key, "duplicate key '%s'", key.Value)
		}
		fields[key.Value] = n.Content[i+1]
	}
	return fields, nil
}

func (d *decoder) str(fields map[string]*yaml.Node, parent *yaml.Node, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", d.errorf(parent, "missing '%s'", key)
	}
	if v.Kind != yaml.ScalarNode || isNull(v) {
		return "", d.errorf(v, "'%s' must be a string", key)
	}
	return v.Value, nil
}

func (d *decoder) optionalStr(fields map[string]*yaml.Node, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", d.errorf(v, "'%s' must be a string", key)
	}
	return v.Value, nil
}

func (d *decoder) child(fields map[string]*yaml.Node, key string) (ast.Node, error) {
	v, ok := fields[key]
	if !ok {
		return nil, nil
	}
	return d.node(v)
}

func (d *decoder) pos(fields map[string]*yaml.Node, n *yaml.Node) (ast.Pos, error) {
	pos := ast.Pos{Line: n.Line, Column: n.Column}
	v, ok := fields["line"]
	if !ok {
		return pos, nil
	}
	line, err := strconv.Atoi(v.Value)
	if err != nil || line < 1 || v.Kind != yaml.ScalarNode {
		return pos, d.errorf(v, "'line' must be a positive integer")
	}
	return ast.Pos{Line: line}, nil
}

func (d *decoder) node(n *yaml.Node) (ast.Node, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind == yaml.AliasNode {
		return nil, d.errorf(n, "aliases are not allowed, every node must have a single parent")
	}

	fields, err := d.fields(n)
	if err != nil {
		return nil, err
	}
	kind, err := d.str(fields, n, "kind")
	if err != nil {
		return nil, err
	}
	pos, err := d.pos(fields, n)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KIND_VARIABLE_DECL:
		return d.variableDecl(fields, n, pos)
	case KIND_POINTER_VARIABLE_DECL:
		return d.pointerVariableDecl(fields, n, pos)
	case KIND_ARRAY_VARIABLE_DECL:
		return d.arrayVariableDecl(fields, n, pos)
	case KIND_TYPE_DECL:
		return d.typeDecl(fields, pos)
	case KIND_STRUCT:
		members, err := d.members(fields)
		if err != nil {
			return nil, err
		}
		return &ast.Struct{Pos: pos, Members: members}, nil
	case KIND_UNION:
		members, err := d.members(fields)
		if err != nil {
			return nil, err
		}
		return &ast.Union{Pos: pos, Members: members}, nil
	case KIND_ENUM:
		return d.enum(fields, pos)
	case KIND_BITFIELD:
		return d.bitfield(fields, pos)
	case KIND_BUILTIN_TYPE:
		name, err := d.str(fields, n, "type")
		if err != nil {
			return nil, err
		}
		builtin, ok := ast.ParseBuiltinKind(name)
		if !ok {
			return nil, d.errorf(fields["type"], "unknown builtin type '%s'", name)
		}
		return &ast.BuiltinType{Pos: pos, Type: builtin}, nil
	case KIND_INTEGER_LITERAL:
		return d.integerLiteral(fields, n, pos)
	case KIND_NUMERIC_EXPR:
		return d.numericExpression(fields, n, pos)
	case KIND_RVALUE:
		return d.rvalue(fields, n, pos)
	default:
		return nil, d.errorf(fields["kind"], "unknown node kind '%s'", kind)
	}
}

func (d *decoder) variableDecl(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	name, err := d.str(fields, n, "name")
	if err != nil {
		return nil, err
	}
	ty, err := d.child(fields, "type")
	if err != nil {
		return nil, err
	}
	offset, err := d.child(fields, "offset")
	if err != nil {
		return nil, err
	}
	return &ast.VariableDecl{Pos: pos, Name: name, Type: ty, PlacementOffset: offset}, nil
}

func (d *decoder) pointerVariableDecl(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	name, err := d.str(fields, n, "name")
	if err != nil {
		return nil, err
	}
	ty, err := d.child(fields, "type")
	if err != nil {
		return nil, err
	}
	sizeTy, err := d.child(fields, "size_type")
	if err != nil {
		return nil, err
	}
	offset, err := d.child(fields, "offset")
	if err != nil {
		return nil, err
	}
	return &ast.PointerVariableDecl{Pos: pos, Name: name, Type: ty, SizeType: sizeTy, PlacementOffset: offset}, nil
}

func (d *decoder) arrayVariableDecl(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	name, err := d.str(fields, n, "name")
	if err != nil {
		return nil, err
	}
	ty, err := d.child(fields, "type")
	if err != nil {
		return nil, err
	}
	size, err := d.child(fields, "size")
	if err != nil {
		return nil, err
	}
	offset, err := d.child(fields, "offset")
	if err != nil {
		return nil, err
	}
	return &ast.ArrayVariableDecl{Pos: pos, Name: name, Type: ty, Size: size, PlacementOffset: offset}, nil
}

func (d *decoder) typeDecl(fields map[string]*yaml.Node, pos ast.Pos) (ast.Node, error) {
	// anonymous declarations have no name
	name, err := d.optionalStr(fields, "name")
	if err != nil {
		return nil, err
	}
	ty, err := d.child(fields, "type")
	if err != nil {
		return nil, err
	}

	decl := &ast.TypeDecl{Pos: pos, Name: name, Type: ty}

	endian, err := d.optionalStr(fields, "endian")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(endian) {
	case "":
	case "little", "le":
		decl.Endian = ast.EndianPtr(ast.LITTLE_ENDIAN)
	case "big", "be":
		decl.Endian = ast.EndianPtr(ast.BIG_ENDIAN)
	default:
		return nil, d.errorf(fields["endian"], "unknown endianness '%s'", endian)
	}
	return decl, nil
}

func (d *decoder) members(fields map[string]*yaml.Node) ([]ast.Node, error) {
	v, ok := fields["members"]
	if !ok || isNull(v) {
		return []ast.Node{}, nil
	}
	return d.nodeList(v)
}

// entries decodes a list of {name, <valueKey>} mappings.
func (d *decoder) entries(fields map[string]*yaml.Node, valueKey string, add func(name string, value ast.Node)) error {
	v, ok := fields["entries"]
	if !ok || isNull(v) {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		return d.errorf(v, "expected a list of entries")
	}
	for _, item := range v.Content {
		entry, err := d.fields(item)
		if err != nil {
			return err
		}
		name, err := d.str(entry, item, "name")
		if err != nil {
			return err
		}
		value, err := d.child(entry, valueKey)
		if err != nil {
			return err
		}
		add(name, value)
	}
	return nil
}

func (d *decoder) enum(fields map[string]*yaml.Node, pos ast.Pos) (ast.Node, error) {
	underlying, err := d.child(fields, "type")
	if err != nil {
		return nil, err
	}
	enum := &ast.Enum{Pos: pos, UnderlyingType: underlying}
	err = d.entries(fields, "value", func(name string, value ast.Node) {
		enum.Entries = append(enum.Entries, ast.EnumEntry{Name: name, Value: value})
	})
	if err != nil {
		return nil, err
	}
	return enum, nil
}

func (d *decoder) bitfield(fields map[string]*yaml.Node, pos ast.Pos) (ast.Node, error) {
	bitfield := &ast.Bitfield{Pos: pos}
	err := d.entries(fields, "size", func(name string, size ast.Node) {
		bitfield.Entries = append(bitfield.Entries, ast.BitfieldEntry{Name: name, Size: size})
	})
	if err != nil {
		return nil, err
	}
	return bitfield, nil
}

func (d *decoder) integerLiteral(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	raw, err := d.str(fields, n, "value")
	if err != nil {
		return nil, err
	}
	value, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, d.errorf(fields["value"], "invalid integer literal '%s'", raw)
	}
	if !ast.InRange(value) {
		return nil, d.errorf(fields["value"], "integer literal '%s' does not fit in 128 bits", raw)
	}
	return &ast.IntegerLiteral{Pos: pos, Value: value}, nil
}

func (d *decoder) numericExpression(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	lexeme, err := d.str(fields, n, "op")
	if err != nil {
		return nil, err
	}
	op, ok := ast.ParseOperator(lexeme)
	if !ok {
		return nil, d.errorf(fields["op"], "unknown operator '%s'", lexeme)
	}
	left, err := d.child(fields, "left")
	if err != nil {
		return nil, err
	}
	right, err := d.child(fields, "right")
	if err != nil {
		return nil, err
	}
	return &ast.NumericExpression{Pos: pos, Op: op, Left: left, Right: right}, nil
}

func (d *decoder) rvalue(fields map[string]*yaml.Node, n *yaml.Node, pos ast.Pos) (ast.Node, error) {
	v, ok := fields["path"]
	if !ok {
		return nil, d.errorf(n, "missing 'path'")
	}

	var path []string
	switch v.Kind {
	case yaml.ScalarNode:
		path = strings.Split(v.Value, ".")
	case yaml.SequenceNode:
		if err := v.Decode(&path); err != nil {
			return nil, d.errorf(v, "'path' must be a list of strings")
		}
	default:
		return nil, d.errorf(v, "'path' must be a string or a list of strings")
	}
	return &ast.RValue{Pos: pos, Path: path}, nil
}
