package sema

import (
	"github.com/HicaroD/hexpat/internal/ast"
	"github.com/HicaroD/hexpat/internal/scope"
)

type Option func(*Validator)

// WithMaxDepth rejects trees whose node lists nest deeper than depth. Zero
// means no bound; the walk never recurses, so deep input is safe either way.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) { v.maxDepth = depth }
}

// Validator checks identifier uniqueness over a pattern AST. It holds no
// state between calls and can be shared by goroutines.
type Validator struct {
	maxDepth int
}

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks nodes with a default Validator.
func Validate(nodes []ast.Node) error {
	return New().Validate(nodes)
}

// frame is one list of sibling nodes together with the identifiers declared
// so far in that list.
type frame struct {
	nodes       []ast.Node
	next        int
	depth       int
	identifiers *scope.Scope[int]
}

func newFrame(nodes []ast.Node, depth int) *frame {
	return &frame{nodes: nodes, depth: depth, identifiers: scope.New[int]()}
}

// Validate walks nodes depth-first, left to right, and returns the first
// problem found as a *ValidationError, or nil.
//
// Every list of nodes is checked against its own fresh scope: declaration
// types, struct members and union members never see the names of the list
// that contains them, and vice versa.
func (v *Validator) Validate(nodes []ast.Node) error {
	stack := []*frame{newFrame(nodes, 1)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}

		node := top.nodes[top.next]
		top.next++

		children, err := v.checkNode(node, top.identifiers)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			continue
		}
		if v.maxDepth > 0 && top.depth >= v.maxDepth {
			return maxDepthExceeded(v.maxDepth, node.Line())
		}
		stack = append(stack, newFrame(children, top.depth+1))
	}

	return nil
}

// checkNode validates node against the identifiers of its own list and
// returns the child list that must be walked next, if any.
func (v *Validator) checkNode(node ast.Node, identifiers *scope.Scope[int]) ([]ast.Node, error) {
	if ast.IsNil(node) {
		return nil, missingNode()
	}

	switch n := node.(type) {
	case *ast.VariableDecl:
		if err := declare(identifiers, n.Name, n.Line()); err != nil {
			return nil, err
		}
		return []ast.Node{n.Type}, nil
	case *ast.TypeDecl:
		if err := declare(identifiers, n.Name, n.Line()); err != nil {
			return nil, err
		}
		return []ast.Node{n.Type}, nil
	case *ast.Struct:
		return n.Members, nil
	case *ast.Union:
		return n.Members, nil
	case *ast.Enum:
		return nil, checkEnum(n)
	case *ast.PointerVariableDecl,
		*ast.ArrayVariableDecl,
		*ast.Bitfield,
		*ast.BuiltinType,
		*ast.IntegerLiteral,
		*ast.NumericExpression,
		*ast.RValue:
		// Names inside these nodes are not checked here; pointer and array
		// declarations are intentionally not entered either.
		return nil, nil
	default:
		return nil, unknownNode(node)
	}
}

func declare(identifiers *scope.Scope[int], name string, line int) error {
	if err := identifiers.Insert(name, line); err != nil {
		previous, _ := identifiers.Lookup(name)
		return redefinition("identifier", name, line, previous)
	}
	return nil
}

// checkEnum checks that constant names are unique within the enum. Constants
// live in their own namespace: they are never added to the enclosing scope.
func checkEnum(enum *ast.Enum) error {
	constants := scope.New[int]()
	for _, entry := range enum.Entries {
		line := 0
		if !ast.IsNil(entry.Value) {
			line = entry.Value.Line()
		}
		if err := constants.Insert(entry.Name, line); err != nil {
			if ast.IsNil(entry.Value) {
				return missingNode()
			}
			previous, _ := constants.Lookup(entry.Name)
			return redefinition("enum constant", entry.Name, line, previous)
		}
	}
	return nil
}
