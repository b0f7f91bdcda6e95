// Package scope implements the flat identifier tables used while checking a
// single list of sibling declarations. Tables never chain to an enclosing
// table: a nested list gets a brand new one.
package scope

import (
	"errors"
	"fmt"
)

var (
	SYMBOL_ALREADY_DEFINED_ON_SCOPE error = errors.New("symbol already defined on scope")
	SYMBOL_NOT_FOUND_ON_SCOPE       error = errors.New("symbol not found on scope")
)

type Scope[V any] struct {
	Nodes map[string]V
}

func New[V any]() *Scope[V] {
	return &Scope[V]{Nodes: map[string]V{}}
}

// Insert binds name to element. A name can be bound once; the first binding
// is kept when Insert fails.
func (scope *Scope[V]) Insert(name string, element V) error {
	if _, ok := scope.Nodes[name]; ok {
		return fmt.Errorf("%w: %s", SYMBOL_ALREADY_DEFINED_ON_SCOPE, name)
	}
	scope.Nodes[name] = element
	return nil
}

func (scope *Scope[V]) Lookup(name string) (V, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	// HACK
	var empty V
	return empty, fmt.Errorf("%w: %s", SYMBOL_NOT_FOUND_ON_SCOPE, name)
}
