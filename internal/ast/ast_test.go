package ast

import (
	"math/big"
	"testing"
)

func TestIsNil(t *testing.T) {
	var nilDecl *VariableDecl
	var nilEnum *Enum

	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"nil interface", nil, true},
		{"typed nil declaration", nilDecl, true},
		{"typed nil enum", nilEnum, true},
		{"builtin type", NewBuiltinType(U8_TYPE, 1), false},
		{"empty struct", NewStruct(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.node); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIs(t *testing.T) {
	var nilStruct *Struct

	if !Is(NewStruct(1), KIND_STRUCT) {
		t.Errorf("expected struct to be KIND_STRUCT")
	}
	if Is(NewUnion(1), KIND_STRUCT) {
		t.Errorf("union must not be KIND_STRUCT")
	}
	if Is(nilStruct, KIND_STRUCT) {
		t.Errorf("absent node must not match any kind")
	}
}

func TestKindCategories(t *testing.T) {
	for _, kind := range Kinds() {
		categories := 0
		for _, in := range []bool{kind.IsDecl(), kind.IsType(), kind.IsExpr()} {
			if in {
				categories++
			}
		}
		if categories != 1 {
			t.Errorf("%s belongs to %d categories", kind, categories)
		}
	}

	if !KIND_TYPE_DECL.IsDecl() || !KIND_ENUM.IsType() || !KIND_RVALUE.IsExpr() {
		t.Errorf("unexpected categories")
	}
}

func TestBuiltinKinds(t *testing.T) {
	for name, kind := range BUILTIN_TYPES {
		if kind.String() != name {
			t.Errorf("expected %s, got %s", name, kind.String())
		}
		parsed, ok := ParseBuiltinKind(name)
		if !ok || parsed != kind {
			t.Errorf("%s does not parse back", name)
		}
	}

	if _, ok := ParseBuiltinKind("u7"); ok {
		t.Errorf("u7 is not a builtin type")
	}
	if U128_TYPE.Size() != 16 || CHAR16_TYPE.Size() != 2 || PADDING_TYPE.Size() != 0 {
		t.Errorf("unexpected sizes")
	}
	if !S8_TYPE.IsSigned() || U64_TYPE.IsSigned() {
		t.Errorf("unexpected signedness")
	}
}

func TestOperators(t *testing.T) {
	for lexeme, op := range OPERATORS {
		if op.String() != lexeme {
			t.Errorf("expected %s, got %s", lexeme, op.String())
		}
	}
	if INVALID_OP.String() != "???" {
		t.Errorf("expected ??? for invalid operator")
	}
}

func TestIntegerRange(t *testing.T) {
	maxPlusOne := new(big.Int).Add(MAX_INTEGER, big.NewInt(1))
	minMinusOne := new(big.Int).Sub(MIN_INTEGER, big.NewInt(1))

	if !InRange(MAX_INTEGER) || !InRange(MIN_INTEGER) || !InRange(big.NewInt(0)) {
		t.Errorf("bounds must be in range")
	}
	if InRange(maxPlusOne) || InRange(minMinusOne) {
		t.Errorf("values past the bounds must be out of range")
	}
}
