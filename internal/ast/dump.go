package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented rendering of nodes to w. It is a development aid:
// nothing in the validation path calls it and its output format is not stable.
func Dump(w io.Writer, nodes []Node) error {
	d := &dumper{w: w}
	d.list(nodes)
	return d.err
}

func DumpString(nodes []Node) string {
	var sb strings.Builder
	_ = Dump(&sb, nodes)
	return sb.String()
}

type dumper struct {
	w      io.Writer
	indent int
	err    error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat(" ", d.indent), fmt.Sprintf(format, args...))
}

func (d *dumper) list(nodes []Node) {
	for _, node := range nodes {
		d.node(node)
	}
}

// child renders n one level deeper.
func (d *dumper) child(n Node) {
	d.indent += 2
	d.node(n)
	d.indent -= 2
}

func (d *dumper) node(node Node) {
	if IsNil(node) {
		d.printf("<missing node>")
		return
	}

	switch n := node.(type) {
	case *VariableDecl:
		if !IsNil(n.PlacementOffset) {
			d.printf("VariableDecl (%s) @", n.Name)
			d.child(n.PlacementOffset)
		} else {
			d.printf("VariableDecl (%s)", n.Name)
		}
		d.child(n.Type)
	case *PointerVariableDecl:
		if !IsNil(n.PlacementOffset) {
			d.printf("PointerVariableDecl (*%s) @", n.Name)
			d.child(n.PlacementOffset)
		} else {
			d.printf("PointerVariableDecl (*%s)", n.Name)
		}
		d.child(n.Type)
		d.child(n.SizeType)
	case *ArrayVariableDecl:
		if !IsNil(n.PlacementOffset) {
			d.printf("ArrayVariableDecl (%s[]) @", n.Name)
			d.child(n.PlacementOffset)
		} else {
			d.printf("ArrayVariableDecl (%s[])", n.Name)
		}
		d.child(n.Size)
		d.child(n.Type)
	case *TypeDecl:
		// no explicit endianness means native, assumed little
		endian := LITTLE_ENDIAN
		if n.Endian != nil {
			endian = *n.Endian
		}
		name := n.Name
		if n.IsAnonymous() {
			name = "<unnamed>"
		}
		d.printf("TypeDecl (%s %s)", endian, name)
		d.child(n.Type)
	case *BuiltinType:
		d.printf("BuiltinType (%s)", n.Type)
	case *IntegerLiteral:
		d.printf("IntegerLiteral %s", n)
	case *NumericExpression:
		d.printf("NumericExpression %s", n.Op)
		d.printf("Left:")
		d.child(n.Left)
		d.printf("Right:")
		d.child(n.Right)
	case *Struct:
		d.printf("Struct")
		d.indent += 2
		d.list(n.Members)
		d.indent -= 2
	case *Union:
		d.printf("Union")
		d.indent += 2
		d.list(n.Members)
		d.indent -= 2
	case *Enum:
		d.printf("Enum")
		if !IsNil(n.UnderlyingType) {
			d.child(n.UnderlyingType)
		}
		for _, entry := range n.Entries {
			d.printf("::%s", entry.Name)
			d.child(entry.Value)
		}
	case *Bitfield:
		d.printf("Bitfield")
		for _, entry := range n.Entries {
			d.printf("%s :", entry.Name)
			d.child(entry.Size)
		}
	case *RValue:
		d.printf("RValue %s", n)
	default:
		d.printf("Invalid AST node! (%s)", node.Kind())
	}
}
