package sema

import (
	"errors"
	"fmt"

	"github.com/HicaroD/hexpat/internal/ast"
)

// INTERNAL_ERROR_LINE is reported when there is no node to take a line from.
const INTERNAL_ERROR_LINE = 1

var (
	ERR_REDEFINITION = errors.New("redefinition")
	ERR_INTERNAL     = errors.New("internal consistency error")
)

type ErrorKind int

const (
	// A name was declared twice in one scope; a mistake in the program.
	ERROR_REDEFINITION ErrorKind = iota
	// The tree itself is malformed; a bug in whatever produced it.
	ERROR_INTERNAL
)

func (k ErrorKind) String() string {
	switch k {
	case ERROR_REDEFINITION:
		return "redefinition"
	case ERROR_INTERNAL:
		return "internal"
	}
	return "unknown"
}

type ValidationError struct {
	Kind    ErrorKind
	Message string
	Line    int

	// PreviousLine is where a redefined name was first declared, 0 if unknown.
	PreviousLine int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Is lets errors.Is match a *ValidationError against ERR_REDEFINITION and
// ERR_INTERNAL.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ERR_REDEFINITION:
		return e.Kind == ERROR_REDEFINITION
	case ERR_INTERNAL:
		return e.Kind == ERROR_INTERNAL
	}
	return false
}

func redefinition(what, name string, line, previous int) *ValidationError {
	return &ValidationError{
		Kind:         ERROR_REDEFINITION,
		Message:      fmt.Sprintf("redefinition of %s '%s'", what, name),
		Line:         line,
		PreviousLine: previous,
	}
}

func missingNode() *ValidationError {
	return &ValidationError{
		Kind:    ERROR_INTERNAL,
		Message: "missing node in AST. This is a bug!",
		Line:    INTERNAL_ERROR_LINE,
	}
}

func unknownNode(node ast.Node) *ValidationError {
	return &ValidationError{
		Kind:    ERROR_INTERNAL,
		Message: fmt.Sprintf("unknown AST node %T. This is a bug!", node),
		Line:    INTERNAL_ERROR_LINE,
	}
}

func maxDepthExceeded(depth, line int) *ValidationError {
	return &ValidationError{
		Kind:    ERROR_INTERNAL,
		Message: fmt.Sprintf("maximum nesting depth of %d exceeded", depth),
		Line:    line,
	}
}
