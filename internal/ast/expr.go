package ast

import (
	"fmt"
	"math/big"
	"strings"
)

type Operator int

const (
	INVALID_OP Operator = iota

	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	SHIFT_LEFT  // <<
	SHIFT_RIGHT // >>

	BIT_AND // &
	BIT_OR  // |
	BIT_XOR // ^
)

var OPERATORS map[string]Operator = map[string]Operator{
	"+":  PLUS,
	"-":  MINUS,
	"*":  STAR,
	"/":  SLASH,
	"<<": SHIFT_LEFT,
	">>": SHIFT_RIGHT,
	"&":  BIT_AND,
	"|":  BIT_OR,
	"^":  BIT_XOR,
}

func ParseOperator(op string) (Operator, bool) {
	o, ok := OPERATORS[op]
	return o, ok
}

func (op Operator) String() string {
	for lexeme, o := range OPERATORS {
		if o == op {
			return lexeme
		}
	}
	return "???"
}

var (
	MIN_INTEGER = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	MAX_INTEGER = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// IntegerLiteral holds a value in the signed 128-bit range.
type IntegerLiteral struct {
	Pos   Pos
	Value *big.Int
}

func NewIntegerLiteral(value int64, line int) *IntegerLiteral {
	return &IntegerLiteral{Pos: Pos{Line: line}, Value: big.NewInt(value)}
}

// InRange reports whether v fits the literal's signed 128-bit range.
func InRange(v *big.Int) bool {
	return v.Cmp(MIN_INTEGER) >= 0 && v.Cmp(MAX_INTEGER) <= 0
}

func (i *IntegerLiteral) Kind() NodeKind { return KIND_INTEGER_LITERAL }
func (i *IntegerLiteral) Line() int      { return i.Pos.Line }
func (i *IntegerLiteral) astNode()       {}

func (i *IntegerLiteral) String() string {
	if i.Value == nil {
		return "0"
	}
	return i.Value.String()
}

type NumericExpression struct {
	Pos   Pos
	Op    Operator
	Left  Node
	Right Node
}

func NewNumericExpression(op Operator, left, right Node, line int) *NumericExpression {
	return &NumericExpression{Pos: Pos{Line: line}, Op: op, Left: left, Right: right}
}

func (n *NumericExpression) Kind() NodeKind { return KIND_NUMERIC_EXPR }
func (n *NumericExpression) Line() int      { return n.Pos.Line }
func (n *NumericExpression) astNode()       {}
func (n *NumericExpression) String() string { return fmt.Sprintf("EXPR: %s", n.Op) }

// RValue references a previously placed value, e.g. header.size.
type RValue struct {
	Pos  Pos
	Path []string
}

func NewRValue(line int, path ...string) *RValue {
	return &RValue{Pos: Pos{Line: line}, Path: path}
}

func (r *RValue) Kind() NodeKind { return KIND_RVALUE }
func (r *RValue) Line() int      { return r.Pos.Line }
func (r *RValue) astNode()       {}
func (r *RValue) String() string { return strings.Join(r.Path, ".") }
