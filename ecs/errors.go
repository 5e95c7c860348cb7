package ecs

import "errors"

var (
	// ErrKeyNotFound is returned by DeferredMap.Get for keys that are not committed.
	ErrKeyNotFound = errors.New("key not found")

	// ErrAlreadyAssociated is the panic value raised when an entity is associated twice.
	ErrAlreadyAssociated = errors.New("entity is already associated with a pool")

	// ErrNotCloneable is returned when a component kind cannot be duplicated.
	ErrNotCloneable = errors.New("component cannot be cloned")

	// ErrMissingComponent is the panic value raised when a tracked entity no longer
	// holds a component its system requires.
	ErrMissingComponent = errors.New("tracked entity is missing a required component")

	// ErrPopOnLastState is the panic value raised when popping the only active state.
	ErrPopOnLastState = errors.New("cannot pop the last state in the state stack")

	// ErrUnknownState is returned when a state name was never registered.
	ErrUnknownState = errors.New("unknown state")

	// ErrUnknownComponent is returned when a component name is not registered.
	ErrUnknownComponent = errors.New("unknown component")
)
