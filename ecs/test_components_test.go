package ecs_test

import "github.com/plus3/stagecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

type Handle struct {
	Fd int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent(registry, ecs.WithDefaults(func() Health {
		return Health{Current: 100, Max: 100}
	}))
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent(registry, ecs.WithClone(func(src *Inventory) (*Inventory, error) {
		return &Inventory{Items: append([]string(nil), src.Items...)}, nil
	}))
	ecs.RegisterComponent(registry, ecs.WithClone(func(*Handle) (*Handle, error) {
		return nil, errHandleNotCloneable
	}))
	return registry
}

// spawn creates, populates and associates an entity, leaving it staged.
func spawn(pool *ecs.EntityPool, name string, components ...any) *ecs.Entity {
	e := pool.NewEntity(name)
	for _, c := range components {
		e.AddComponent(c)
	}
	e.Associate(pool)
	return e
}
