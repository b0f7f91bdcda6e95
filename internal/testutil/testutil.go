package testutil

import (
	"github.com/HicaroD/hexpat/internal/ast"
)

func U8(line int) *ast.BuiltinType  { return ast.NewBuiltinType(ast.U8_TYPE, line) }
func U32(line int) *ast.BuiltinType { return ast.NewBuiltinType(ast.U32_TYPE, line) }

func NewVar(name string, ty ast.Node, line int) *ast.VariableDecl {
	return ast.NewVariableDecl(name, ty, nil, line)
}

func NewVarAt(name string, ty ast.Node, offset int64, line int) *ast.VariableDecl {
	return ast.NewVariableDecl(name, ty, ast.NewIntegerLiteral(offset, line), line)
}

func NewTypeDecl(name string, ty ast.Node, line int) *ast.TypeDecl {
	return ast.NewTypeDecl(name, ty, nil, line)
}

func NewStruct(members ...ast.Node) *ast.Struct {
	return ast.NewStruct(firstLine(members), members...)
}

func NewUnion(members ...ast.Node) *ast.Union {
	return ast.NewUnion(firstLine(members), members...)
}

// NewEnum builds an enum from name/line pairs; each constant gets an integer
// literal value on its line.
func NewEnum(entries ...EnumConst) *ast.Enum {
	enum := ast.NewEnum(U8(1), 1)
	for i, e := range entries {
		enum.Entries = append(enum.Entries, ast.EnumEntry{
			Name:  e.Name,
			Value: ast.NewIntegerLiteral(int64(i), e.Line),
		})
	}
	return enum
}

type EnumConst struct {
	Name string
	Line int
}

func Const(name string, line int) EnumConst { return EnumConst{Name: name, Line: line} }

func Nodes(nodes ...ast.Node) []ast.Node { return nodes }

// NestStructs wraps a single member in depth levels of struct declarations,
// each one a type declaration so every level is a separate scope.
func NestStructs(depth int) []ast.Node {
	var node ast.Node = NewVar("leaf", U8(depth+1), depth+1)
	for i := depth; i > 0; i-- {
		node = NewTypeDecl("level", ast.NewStruct(i, node), i)
	}
	return []ast.Node{node}
}

func firstLine(nodes []ast.Node) int {
	for _, n := range nodes {
		if !ast.IsNil(n) {
			return n.Line()
		}
	}
	return 1
}
