package ecs

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
	ErrInvalidKind    = errors.New("ecs: invalid component kind")
)

// ComponentID identifies one component storage within a world.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Kind is a typed component identifier. Declare one package-level Kind per
// component type and share it between the code that writes the component and
// the systems that read it.
type Kind[T any] struct {
	id ComponentID
}

// NewKind registers a new component kind. The zero Kind is invalid.
func NewKind[T any]() Kind[T] {
	return Kind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k Kind[T]) ID() ComponentID {
	return k.id
}

func (k Kind[T]) Valid() bool {
	return k.id != 0
}
