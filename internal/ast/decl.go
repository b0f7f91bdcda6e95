package ast

import "fmt"

// VariableDecl places a value of Type in the data, optionally at an explicit
// PlacementOffset.
type VariableDecl struct {
	Pos             Pos
	Name            string
	Type            Node
	PlacementOffset Node // optional
}

func NewVariableDecl(name string, ty Node, offset Node, line int) *VariableDecl {
	return &VariableDecl{Pos: Pos{Line: line}, Name: name, Type: ty, PlacementOffset: offset}
}

func (v *VariableDecl) Kind() NodeKind { return KIND_VARIABLE_DECL }
func (v *VariableDecl) Line() int      { return v.Pos.Line }
func (v *VariableDecl) astNode()       {}
func (v *VariableDecl) String() string { return fmt.Sprintf("VAR: %s", v.Name) }

// PointerVariableDecl places a pointer whose own width is given by SizeType
// and which points at a value of Type.
type PointerVariableDecl struct {
	Pos             Pos
	Name            string
	Type            Node
	SizeType        Node
	PlacementOffset Node // optional
}

func NewPointerVariableDecl(name string, ty, sizeTy, offset Node, line int) *PointerVariableDecl {
	return &PointerVariableDecl{
		Pos:             Pos{Line: line},
		Name:            name,
		Type:            ty,
		SizeType:        sizeTy,
		PlacementOffset: offset,
	}
}

func (p *PointerVariableDecl) Kind() NodeKind { return KIND_POINTER_VARIABLE_DECL }
func (p *PointerVariableDecl) Line() int      { return p.Pos.Line }
func (p *PointerVariableDecl) astNode()       {}
func (p *PointerVariableDecl) String() string { return fmt.Sprintf("PTR: *%s", p.Name) }

type ArrayVariableDecl struct {
	Pos             Pos
	Name            string
	Type            Node
	Size            Node
	PlacementOffset Node // optional
}

func NewArrayVariableDecl(name string, ty, size, offset Node, line int) *ArrayVariableDecl {
	return &ArrayVariableDecl{
		Pos:             Pos{Line: line},
		Name:            name,
		Type:            ty,
		Size:            size,
		PlacementOffset: offset,
	}
}

func (a *ArrayVariableDecl) Kind() NodeKind { return KIND_ARRAY_VARIABLE_DECL }
func (a *ArrayVariableDecl) Line() int      { return a.Pos.Line }
func (a *ArrayVariableDecl) astNode()       {}
func (a *ArrayVariableDecl) String() string { return fmt.Sprintf("ARRAY: %s[]", a.Name) }

// TypeDecl gives a name to Type. An empty Name marks an anonymous declaration,
// which is what the parser emits for inline struct, union and enum bodies.
type TypeDecl struct {
	Pos    Pos
	Name   string
	Type   Node
	Endian *Endian // optional, native when nil
}

func NewTypeDecl(name string, ty Node, endian *Endian, line int) *TypeDecl {
	return &TypeDecl{Pos: Pos{Line: line}, Name: name, Type: ty, Endian: endian}
}

func (t *TypeDecl) Kind() NodeKind { return KIND_TYPE_DECL }
func (t *TypeDecl) Line() int      { return t.Pos.Line }
func (t *TypeDecl) astNode()       {}

func (t *TypeDecl) IsAnonymous() bool { return t.Name == "" }

func (t *TypeDecl) String() string {
	if t.IsAnonymous() {
		return "TYPE: <unnamed>"
	}
	return fmt.Sprintf("TYPE: %s", t.Name)
}
