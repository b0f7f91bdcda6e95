package sema

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/HicaroD/hexpat/internal/ast"
	. "github.com/HicaroD/hexpat/internal/testutil"
)

func expectError(t *testing.T, err error, kind ErrorKind, line int, msgSubstr string) *ValidationError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error at line %d, got none", kind, line)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Kind != kind {
		t.Errorf("expected kind %s, got %s (%s)", kind, verr.Kind, verr.Message)
	}
	if verr.Line != line {
		t.Errorf("expected line %d, got %d (%s)", line, verr.Line, verr.Message)
	}
	if !strings.Contains(verr.Message, msgSubstr) {
		t.Errorf("expected message containing %q, got %q", msgSubstr, verr.Message)
	}
	return verr
}

func TestValidProgramsPass(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ast.Node
	}{
		{
			name:  "nil list",
			nodes: nil,
		},
		{
			name:  "empty list",
			nodes: []ast.Node{},
		},
		{
			name:  "struct with distinct members",
			nodes: Nodes(NewStruct(NewVar("a", U8(2), 2), NewVar("b", U8(3), 3))),
		},
		{
			name: "struct member shadows outer type name",
			nodes: Nodes(
				NewTypeDecl("x", U32(1), 1),
				NewStruct(NewVar("x", U8(3), 3)),
			),
		},
		{
			name: "declaration type is its own scope",
			nodes: Nodes(
				NewTypeDecl("Header", NewStruct(NewVar("Header", U8(2), 2)), 1),
			),
		},
		{
			name: "union members shadow outer names",
			nodes: Nodes(
				NewVar("value", U32(1), 1),
				NewUnion(NewVar("value", U8(3), 3), NewVar("raw", U32(4), 4)),
			),
		},
		{
			name: "two enums reuse a constant",
			nodes: Nodes(
				NewEnum(Const("A", 2), Const("B", 3)),
				NewEnum(Const("A", 6)),
			),
		},
		{
			name: "enum constant shares a name with a variable",
			nodes: Nodes(
				NewVar("RED", U8(1), 1),
				NewEnum(Const("RED", 3)),
			),
		},
		{
			name: "sibling structs reuse member names",
			nodes: Nodes(
				NewStruct(NewVar("a", U8(1), 1)),
				NewStruct(NewVar("a", U8(4), 4)),
			),
		},
		{
			name: "variable with placement offset",
			nodes: Nodes(
				NewVarAt("magic", U32(1), 0x10, 1),
				NewVarAt("size", U32(2), 0x14, 2),
			),
		},
		{
			name: "bitfield entries are not checked",
			nodes: Nodes(ast.NewBitfield(1,
				ast.BitfieldEntry{Name: "flag", Size: ast.NewIntegerLiteral(1, 2)},
				ast.BitfieldEntry{Name: "flag", Size: ast.NewIntegerLiteral(1, 3)},
			)),
		},
		{
			name: "pointer and array declarations do not enter the scope",
			nodes: Nodes(
				NewVar("data", U8(1), 1),
				ast.NewPointerVariableDecl("data", U8(2), U32(2), nil, 2),
				ast.NewArrayVariableDecl("data", U8(3), ast.NewIntegerLiteral(4, 3), nil, 3),
			),
		},
		{
			name: "pointer type contents are not walked",
			nodes: Nodes(
				ast.NewPointerVariableDecl("p", NewStruct(NewVar("a", U8(2), 2), NewVar("a", U8(3), 3)), U32(1), nil, 1),
			),
		},
		{
			name: "array type and size are not walked",
			nodes: Nodes(
				ast.NewArrayVariableDecl("arr", nil, nil, nil, 1),
			),
		},
		{
			name: "expressions and literals are accepted",
			nodes: Nodes(
				ast.NewNumericExpression(ast.PLUS, ast.NewIntegerLiteral(1, 1), ast.NewRValue(1, "header", "size"), 1),
				ast.NewIntegerLiteral(42, 2),
				ast.NewRValue(3, "a"),
				U8(4),
			),
		},
		{
			name:  "anonymous type declaration",
			nodes: Nodes(NewTypeDecl("", NewStruct(NewVar("a", U8(2), 2)), 1)),
		},
		{
			name:  "empty struct",
			nodes: Nodes(ast.NewStruct(1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.nodes); err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestRedefinition(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []ast.Node
		line     int
		previous int
		msg      string
	}{
		{
			name: "type then variable",
			nodes: Nodes(
				ast.NewTypeDecl("Header", U32(3), nil, 3),
				NewVar("Header", U8(5), 5),
			),
			line:     5,
			previous: 3,
			msg:      "redefinition of identifier 'Header'",
		},
		{
			name: "two variables",
			nodes: Nodes(
				NewVar("a", U8(1), 1),
				NewVar("b", U8(2), 2),
				NewVar("a", U8(7), 7),
			),
			line:     7,
			previous: 1,
			msg:      "redefinition of identifier 'a'",
		},
		{
			name: "two anonymous type declarations",
			nodes: Nodes(
				NewTypeDecl("", U8(1), 1),
				NewTypeDecl("", U8(2), 2),
			),
			line:     2,
			previous: 1,
			msg:      "redefinition of identifier ''",
		},
		{
			name: "struct members",
			nodes: Nodes(
				NewVar("outer", U8(1), 1),
				NewStruct(NewVar("a", U8(3), 3), NewVar("a", U8(4), 4)),
			),
			line:     4,
			previous: 3,
			msg:      "redefinition of identifier 'a'",
		},
		{
			name: "union members",
			nodes: Nodes(
				NewUnion(NewVar("a", U8(3), 3), NewVar("a", U32(9), 9)),
			),
			line:     9,
			previous: 3,
			msg:      "redefinition of identifier 'a'",
		},
		{
			name: "inside declaration type",
			nodes: Nodes(
				NewTypeDecl("Header", NewStruct(
					NewVar("magic", U32(2), 2),
					NewVar("magic", U32(3), 3),
				), 1),
			),
			line:     3,
			previous: 2,
			msg:      "redefinition of identifier 'magic'",
		},
		{
			name: "enum constant",
			nodes: Nodes(
				ast.NewEnum(U8(1), 1,
					ast.EnumEntry{Name: "RED", Value: ast.NewIntegerLiteral(0, 2)},
					ast.EnumEntry{Name: "RED", Value: ast.NewIntegerLiteral(1, 4)},
				),
			),
			line:     4,
			previous: 2,
			msg:      "redefinition of enum constant 'RED'",
		},
		{
			name: "enum inside declaration type",
			nodes: Nodes(
				NewTypeDecl("Color", NewEnum(Const("A", 2), Const("B", 3), Const("A", 5)), 1),
			),
			line:     5,
			previous: 2,
			msg:      "redefinition of enum constant 'A'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nodes)
			verr := expectError(t, err, ERROR_REDEFINITION, tt.line, tt.msg)
			if verr.PreviousLine != tt.previous {
				t.Errorf("expected previous line %d, got %d", tt.previous, verr.PreviousLine)
			}
			if !errors.Is(err, ERR_REDEFINITION) {
				t.Errorf("expected errors.Is(err, ERR_REDEFINITION)")
			}
			if errors.Is(err, ERR_INTERNAL) {
				t.Errorf("redefinition must not match ERR_INTERNAL")
			}
		})
	}
}

func TestMissingNode(t *testing.T) {
	var nilVar *ast.VariableDecl
	var nilStruct *ast.Struct

	tests := []struct {
		name  string
		nodes []ast.Node
	}{
		{
			name:  "nil at top level",
			nodes: Nodes(nil),
		},
		{
			name:  "nil after valid nodes",
			nodes: Nodes(NewVar("a", U8(10), 10), NewVar("b", U8(11), 11), nil),
		},
		{
			name:  "typed nil pointer",
			nodes: Nodes(nilVar),
		},
		{
			name:  "typed nil struct",
			nodes: Nodes(NewVar("a", U8(4), 4), nilStruct),
		},
		{
			name:  "variable without type",
			nodes: Nodes(NewVar("a", nil, 12)),
		},
		{
			name:  "type declaration without type",
			nodes: Nodes(NewTypeDecl("T", nil, 20)),
		},
		{
			name:  "nil struct member",
			nodes: Nodes(NewStruct(NewVar("a", U8(5), 5), nil)),
		},
		{
			name: "deeply nested nil member",
			nodes: Nodes(NewTypeDecl("A", NewStruct(
				NewTypeDecl("B", NewUnion(
					NewVar("c", NewStruct(nil), 30),
				), 20),
			), 10)),
		},
		{
			name: "colliding enum constant without value",
			nodes: Nodes(ast.NewEnum(U8(1), 1,
				ast.EnumEntry{Name: "A", Value: ast.NewIntegerLiteral(0, 2)},
				ast.EnumEntry{Name: "A", Value: nil},
			)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nodes)
			expectError(t, err, ERROR_INTERNAL, INTERNAL_ERROR_LINE, "This is a bug")
			if !errors.Is(err, ERR_INTERNAL) {
				t.Errorf("expected errors.Is(err, ERR_INTERNAL)")
			}
		})
	}
}

func TestEnumEntryWithoutValueIsAcceptedWhenUnique(t *testing.T) {
	nodes := Nodes(ast.NewEnum(U8(1), 1,
		ast.EnumEntry{Name: "A", Value: nil},
		ast.EnumEntry{Name: "B", Value: ast.NewIntegerLiteral(1, 3)},
	))
	if err := Validate(nodes); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestEnumRedefinitionAtLineZero(t *testing.T) {
	nodes := Nodes(ast.NewEnum(U8(1), 1,
		ast.EnumEntry{Name: "A", Value: ast.NewIntegerLiteral(1, 0)},
		ast.EnumEntry{Name: "A", Value: ast.NewIntegerLiteral(2, 0)},
	))
	expectError(t, Validate(nodes), ERROR_REDEFINITION, 0, "enum constant 'A'")
}

func TestEnumRedefinitionWithoutValue(t *testing.T) {
	nodes := Nodes(ast.NewEnum(U8(1), 1,
		ast.EnumEntry{Name: "A", Value: ast.NewIntegerLiteral(1, 2)},
		ast.EnumEntry{Name: "A", Value: nil},
	))
	expectError(t, Validate(nodes), ERROR_INTERNAL, INTERNAL_ERROR_LINE, "missing node in AST")
}

func TestFirstErrorWins(t *testing.T) {
	nodes := Nodes(
		NewStruct(NewVar("a", U8(2), 2), NewVar("a", U8(3), 3)),
		NewVar("b", U8(5), 5),
		NewVar("b", U8(6), 6),
		nil,
	)
	expectError(t, Validate(nodes), ERROR_REDEFINITION, 3, "'a'")
}

func TestDepthFirstOrder(t *testing.T) {
	// The nested collision on line 4 comes before the sibling collision on
	// line 6 in a depth-first walk, even though line 6 is at the top level.
	nodes := Nodes(
		NewVar("x", U8(1), 1),
		NewTypeDecl("T", NewStruct(NewVar("m", U8(3), 3), NewVar("m", U8(4), 4)), 2),
		NewVar("x", U8(6), 6),
	)
	expectError(t, Validate(nodes), ERROR_REDEFINITION, 4, "'m'")
}

func TestUnknownNode(t *testing.T) {
	type foreign struct{ ast.Node }

	err := Validate(Nodes(foreign{}))
	expectError(t, err, ERROR_INTERNAL, INTERNAL_ERROR_LINE, "unknown AST node")
}

func TestEveryKindIsHandled(t *testing.T) {
	samples := map[ast.NodeKind]ast.Node{
		ast.KIND_VARIABLE_DECL:         NewVar("v", U8(1), 1),
		ast.KIND_POINTER_VARIABLE_DECL: ast.NewPointerVariableDecl("p", U8(1), U32(1), nil, 1),
		ast.KIND_ARRAY_VARIABLE_DECL:   ast.NewArrayVariableDecl("a", U8(1), ast.NewIntegerLiteral(2, 1), nil, 1),
		ast.KIND_TYPE_DECL:             NewTypeDecl("T", U8(1), 1),
		ast.KIND_STRUCT:                NewStruct(),
		ast.KIND_UNION:                 NewUnion(),
		ast.KIND_ENUM:                  NewEnum(Const("A", 1)),
		ast.KIND_BITFIELD:              ast.NewBitfield(1),
		ast.KIND_BUILTIN_TYPE:          U8(1),
		ast.KIND_INTEGER_LITERAL:       ast.NewIntegerLiteral(0, 1),
		ast.KIND_NUMERIC_EXPR:          ast.NewNumericExpression(ast.STAR, ast.NewIntegerLiteral(2, 1), ast.NewIntegerLiteral(3, 1), 1),
		ast.KIND_RVALUE:                ast.NewRValue(1, "x"),
	}

	for _, kind := range ast.Kinds() {
		node, ok := samples[kind]
		if !ok {
			t.Fatalf("no sample node for %s", kind)
		}
		if node.Kind() != kind {
			t.Fatalf("sample for %s reports kind %s", kind, node.Kind())
		}
		if err := Validate(Nodes(node)); err != nil {
			t.Errorf("%s: unexpected error: %v", kind, err)
		}
	}
}

func TestIdempotent(t *testing.T) {
	nodes := Nodes(
		NewTypeDecl("Header", U32(3), 3),
		NewVar("Header", U8(5), 5),
	)
	v := New()

	first := v.Validate(nodes)
	for i := 0; i < 5; i++ {
		again := v.Validate(nodes)
		if again == nil || again.Error() != first.Error() {
			t.Fatalf("run %d: expected %v, got %v", i, first, again)
		}
	}

	valid := Nodes(NewStruct(NewVar("a", U8(1), 1)))
	for i := 0; i < 3; i++ {
		if err := v.Validate(valid); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
}

func TestReordering(t *testing.T) {
	a := NewVar("a", U8(1), 1)
	b := NewTypeDecl("b", U8(2), 2)
	if err := Validate(Nodes(a, b)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(Nodes(b, a)); err != nil {
		t.Fatalf("unexpected error after swap: %v", err)
	}

	first := NewVar("x", U8(3), 3)
	second := NewTypeDecl("x", U8(8), 8)
	expectError(t, Validate(Nodes(first, second)), ERROR_REDEFINITION, 8, "'x'")
	expectError(t, Validate(Nodes(second, first)), ERROR_REDEFINITION, 3, "'x'")
}

func TestDeepNestingDoesNotOverflow(t *testing.T) {
	nodes := NestStructs(100_000)
	if err := Validate(nodes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a collision at the very bottom is still found
	var leaf ast.Node = NewStruct(NewVar("z", U8(2), 2), NewVar("z", U8(3), 3))
	for i := 0; i < 100_000; i++ {
		leaf = ast.NewStruct(1, leaf)
	}
	expectError(t, Validate(Nodes(leaf)), ERROR_REDEFINITION, 3, "'z'")
}

func TestMaxDepth(t *testing.T) {
	// [struct] -> [struct] -> [a] -> [u8]: four lists deep
	nodes := Nodes(ast.NewStruct(1, ast.NewStruct(2, NewVar("a", U8(3), 3))))

	if err := New(WithMaxDepth(4)).Validate(nodes); err != nil {
		t.Fatalf("depth 4 should fit, got: %v", err)
	}
	err := New(WithMaxDepth(3)).Validate(nodes)
	expectError(t, err, ERROR_INTERNAL, 3, "maximum nesting depth of 3 exceeded")
}

func TestMaxDepthExceeded(t *testing.T) {
	nodes := Nodes(ast.NewStruct(1, ast.NewStruct(2, ast.NewStruct(5))))

	err := New(WithMaxDepth(1)).Validate(nodes)
	expectError(t, err, ERROR_INTERNAL, 1, "maximum nesting depth of 1 exceeded")

	err = New(WithMaxDepth(2)).Validate(nodes)
	expectError(t, err, ERROR_INTERNAL, 2, "maximum nesting depth of 2 exceeded")

	if err := New(WithMaxDepth(0)).Validate(nodes); err != nil {
		t.Fatalf("zero means unbounded, got: %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	v := New()
	valid := Nodes(NewStruct(NewVar("a", U8(1), 1), NewVar("b", U8(2), 2)))
	invalid := Nodes(NewVar("a", U8(1), 1), NewVar("a", U8(9), 9))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := v.Validate(valid); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			err := v.Validate(invalid)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Line != 9 {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected result: %v", err)
	}
}
