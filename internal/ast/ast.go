// Package ast defines the abstract syntax tree (AST) of the pattern language.
//
// The tree is produced by an external parser, checked by the sema package and
// later handed to the evaluator. Nothing in this package mutates a tree after
// it has been built.
package ast

import "fmt"

type NodeKind int

const (
	DECL_START NodeKind = iota // declaration node start delimiter

	KIND_VARIABLE_DECL
	KIND_POINTER_VARIABLE_DECL
	KIND_ARRAY_VARIABLE_DECL
	KIND_TYPE_DECL

	DECL_END // declaration node end delimiter

	TYPE_START // type node start delimiter

	KIND_STRUCT
	KIND_UNION
	KIND_ENUM
	KIND_BITFIELD
	KIND_BUILTIN_TYPE

	TYPE_END // type node end delimiter

	EXPR_START // expression node start delimiter

	KIND_INTEGER_LITERAL
	KIND_NUMERIC_EXPR
	KIND_RVALUE

	EXPR_END // expression node end delimiter
)

// Kinds lists every concrete node kind, in declaration order.
func Kinds() []NodeKind {
	return []NodeKind{
		KIND_VARIABLE_DECL,
		KIND_POINTER_VARIABLE_DECL,
		KIND_ARRAY_VARIABLE_DECL,
		KIND_TYPE_DECL,
		KIND_STRUCT,
		KIND_UNION,
		KIND_ENUM,
		KIND_BITFIELD,
		KIND_BUILTIN_TYPE,
		KIND_INTEGER_LITERAL,
		KIND_NUMERIC_EXPR,
		KIND_RVALUE,
	}
}

func (k NodeKind) IsDecl() bool { return k > DECL_START && k < DECL_END }
func (k NodeKind) IsType() bool { return k > TYPE_START && k < TYPE_END }
func (k NodeKind) IsExpr() bool { return k > EXPR_START && k < EXPR_END }

func (k NodeKind) String() string {
	switch k {
	case KIND_VARIABLE_DECL:
		return "KIND_VARIABLE_DECL"
	case KIND_POINTER_VARIABLE_DECL:
		return "KIND_POINTER_VARIABLE_DECL"
	case KIND_ARRAY_VARIABLE_DECL:
		return "KIND_ARRAY_VARIABLE_DECL"
	case KIND_TYPE_DECL:
		return "KIND_TYPE_DECL"
	case KIND_STRUCT:
		return "KIND_STRUCT"
	case KIND_UNION:
		return "KIND_UNION"
	case KIND_ENUM:
		return "KIND_ENUM"
	case KIND_BITFIELD:
		return "KIND_BITFIELD"
	case KIND_BUILTIN_TYPE:
		return "KIND_BUILTIN_TYPE"
	case KIND_INTEGER_LITERAL:
		return "KIND_INTEGER_LITERAL"
	case KIND_NUMERIC_EXPR:
		return "KIND_NUMERIC_EXPR"
	case KIND_RVALUE:
		return "KIND_RVALUE"
	default:
		return fmt.Sprintf("Unknown Node Kind: %d", int(k))
	}
}

// Node is implemented by every variant of the tree. The set of variants is
// closed: only types declared in this package satisfy it.
type Node interface {
	Kind() NodeKind
	Line() int
	astNode()
}

// Pos is the source position a node was parsed from. Lines are 1-based.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%d", p.Line)
}

// Is reports whether n is present and of the given kind.
func Is(n Node, kind NodeKind) bool {
	return !IsNil(n) && n.Kind() == kind
}

// IsNil reports whether n is absent, either a nil interface or a typed nil
// pointer to one of the variants.
func IsNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *VariableDecl:
		return n == nil
	case *PointerVariableDecl:
		return n == nil
	case *ArrayVariableDecl:
		return n == nil
	case *TypeDecl:
		return n == nil
	case *Struct:
		return n == nil
	case *Union:
		return n == nil
	case *Enum:
		return n == nil
	case *Bitfield:
		return n == nil
	case *BuiltinType:
		return n == nil
	case *IntegerLiteral:
		return n == nil
	case *NumericExpression:
		return n == nil
	case *RValue:
		return n == nil
	}
	return false
}
