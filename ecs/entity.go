package ecs

import (
	"fmt"
	"iter"
	"sort"
)

// EntityId identifies an entity within its pool. Ids start at 1 and are never reused;
// 0 means the entity has not been associated with a pool yet.
type EntityId uint32

// Entity is an identity that exclusively owns at most one component per ComponentType.
// Component additions and removals are staged and only committed by Tick.
type Entity struct {
	id         EntityId
	name       string
	owner      *EntityPool
	registry   *ComponentRegistry
	components *DeferredMap[ComponentType, any]

	loaded bool
	onLoad []func(*Entity)
}

// NewEntity creates an unassociated entity. The registry is used to duplicate components
// when the entity is cloned and may be nil for entities that are never cloned.
func NewEntity(registry *ComponentRegistry, name string) *Entity {
	e := &Entity{
		name:       name,
		registry:   registry,
		components: NewDeferredMap[ComponentType, any](),
	}
	e.components.OnAdd(func(t ComponentType, c any) {
		if e.owner != nil {
			e.owner.componentAdded(e, t, c)
		}
	})
	e.components.OnRemove(func(t ComponentType, c any) {
		if e.owner != nil {
			e.owner.componentRemoved(e, t, c)
		}
	})
	return e
}

// Id returns the entity id, or 0 when unassociated.
func (e *Entity) Id() EntityId { return e.id }

// Name returns the human readable entity name.
func (e *Entity) Name() string { return e.name }

// Owner returns the pool the entity is associated with, if any.
func (e *Entity) Owner() *EntityPool { return e.owner }

// Registry returns the component registry the entity clones with.
func (e *Entity) Registry() *ComponentRegistry { return e.registry }

// Loaded reports whether the entity has been ticked at least once.
func (e *Entity) Loaded() bool { return e.loaded }

func (e *Entity) String() string { return e.name }

// OnLoad registers a listener fired once, on the entity's first Tick.
func (e *Entity) OnLoad(fn func(*Entity)) {
	e.onLoad = append(e.onLoad, fn)
}

// Associate binds the entity to pool, assigning it the pool's next id and staging it for
// addition. Associating an entity twice is a programming error and panics.
func (e *Entity) Associate(pool *EntityPool) {
	if pool == nil {
		panic("ecs: associate with nil pool")
	}
	if e.owner != nil {
		panic(fmt.Errorf("%w: %q has id %d", ErrAlreadyAssociated, e.name, e.id))
	}
	e.owner = pool
	e.id = pool.NewId()
	pool.Stage(e)
}

// AddComponent stages component for addition. Values are stored behind a pointer, so
// AddComponent(Position{}) and AddComponent(&Position{}) both store a *Position.
// A component of a type the entity already holds replaces it on commit.
func (e *Entity) AddComponent(component any) {
	boxed := boxComponent(component)
	e.components.Add(boxed, TypeOf(boxed))
}

// RemoveComponent stages the removal of the component of type t.
func (e *Entity) RemoveComponent(t ComponentType) {
	e.components.Remove(t)
}

// RemoveComponentOf stages the removal of the entity's T component.
func RemoveComponentOf[T any](e *Entity) {
	e.RemoveComponent(TypeFor[T]())
}

// Component returns the committed component of type t.
func (e *Entity) Component(t ComponentType) (any, bool) {
	return e.components.Lookup(t)
}

// HasComponent reports whether a component of type t is committed.
func (e *Entity) HasComponent(t ComponentType) bool {
	return e.components.HasKey(t)
}

// HasComponents reports whether every given type is committed.
func (e *Entity) HasComponents(types ...ComponentType) bool {
	for _, t := range types {
		if !e.components.HasKey(t) {
			return false
		}
	}
	return true
}

// Components returns an iterator over the committed components.
func (e *Entity) Components() iter.Seq[any] {
	return e.components.Values()
}

// ComponentTypes returns the committed component types ordered by name.
func (e *Entity) ComponentTypes() []ComponentType {
	types := make([]ComponentType, 0, e.components.Len())
	for t := range e.components.Keys() {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

// ComponentCount returns the number of committed components.
func (e *Entity) ComponentCount() int {
	return e.components.Len()
}

// PendingComponents returns the number of staged component additions and removals.
func (e *Entity) PendingComponents() (adds int, removes int) {
	return e.components.Pending()
}

// Tick commits staged component changes. The first Tick marks the entity loaded and
// fires the load listeners; later ticks never fire them again.
func (e *Entity) Tick() {
	e.components.Update()

	if !e.loaded {
		e.loaded = true
		for _, fn := range e.onLoad {
			fn(e)
		}
	}
}

// Clone returns a new unassociated entity named name holding duplicates of every
// committed component. Staged changes of e are not carried over. Components are
// duplicated through the registry; ErrNotCloneable is returned if one cannot be.
func (e *Entity) Clone(name string) (*Entity, error) {
	clone := NewEntity(e.registry, name)
	for t, component := range e.components.All() {
		dup, err := e.registry.Clone(component)
		if err != nil {
			return nil, fmt.Errorf("clone %q: %w", e.name, err)
		}
		clone.components.items[t] = dup
	}
	return clone, nil
}

// GetComponent returns the entity's committed T component.
func GetComponent[T any](e *Entity) (*T, bool) {
	c, ok := e.components.Lookup(TypeFor[T]())
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// MustComponent returns the entity's committed T component and panics if it is absent.
func MustComponent[T any](e *Entity) *T {
	c, ok := GetComponent[T](e)
	if !ok {
		panic(fmt.Errorf("%w: entity %d (%s) has no %s", ErrMissingComponent, e.id, e.name, TypeFor[T]()))
	}
	return c
}
