package ecs

import (
	"iter"
	"sort"
)

// ComponentEvent describes a component committed to or dropped from an entity of a pool.
type ComponentEvent struct {
	Entity    *Entity
	Type      ComponentType
	Component any
}

// ComponentHandler receives pool component notifications.
type ComponentHandler func(ComponentEvent)

// EntityPool owns the entities of one simulation state. Entity additions and removals
// are staged and committed by Tick, and the pool republishes every component change of
// its entities as a ComponentEvent. These events are what systems track membership from.
type EntityPool struct {
	nextId   EntityId
	registry *ComponentRegistry
	entities *DeferredMap[EntityId, *Entity]

	onComponentAdd    []ComponentHandler
	onComponentRemove []ComponentHandler
}

// NewEntityPool creates an empty pool whose entities use registry.
func NewEntityPool(registry *ComponentRegistry) *EntityPool {
	p := &EntityPool{
		nextId:   1,
		registry: registry,
		entities: NewDeferredMap[EntityId, *Entity](),
	}
	p.entities.OnAdd(p.entityAdded)
	p.entities.OnRemove(p.entityRemoved)
	return p
}

// Registry returns the pool's component registry.
func (p *EntityPool) Registry() *ComponentRegistry { return p.registry }

// NewId returns the next unused entity id. Ids are never reused.
func (p *EntityPool) NewId() EntityId {
	id := p.nextId
	p.nextId++
	return id
}

// NewEntity creates an unassociated entity using the pool's registry.
func (p *EntityPool) NewEntity(name string) *Entity {
	return NewEntity(p.registry, name)
}

// Spawn associates e with the pool and stages it; a shorthand for e.Associate(p).
func (p *EntityPool) Spawn(e *Entity) EntityId {
	e.Associate(p)
	return e.id
}

// Stage stages an associated entity for addition. Staging an entity that is already
// committed does nothing; re-committing it would drop and re-announce its components.
func (p *EntityPool) Stage(e *Entity) {
	if committed, ok := p.entities.Lookup(e.id); ok && committed == e {
		return
	}
	p.entities.Add(e, e.id)
}

// Remove stages the entity with id for removal.
func (p *EntityPool) Remove(id EntityId) {
	p.entities.Remove(id)
}

// Clear stages the removal of every committed entity.
func (p *EntityPool) Clear() {
	p.entities.Clear()
}

// OnComponentAdd registers a handler for components committed to pool entities.
func (p *EntityPool) OnComponentAdd(fn ComponentHandler) {
	p.onComponentAdd = append(p.onComponentAdd, fn)
}

// OnComponentRemove registers a handler for components dropped from pool entities.
func (p *EntityPool) OnComponentRemove(fn ComponentHandler) {
	p.onComponentRemove = append(p.onComponentRemove, fn)
}

// Tick commits staged entity changes, then ticks every committed entity so that their
// staged component changes are committed too.
func (p *EntityPool) Tick() {
	p.entities.Update()
	for e := range p.entities.Values() {
		e.Tick()
	}
}

// Entity returns the committed entity with id.
func (p *EntityPool) Entity(id EntityId) (*Entity, bool) {
	return p.entities.Lookup(id)
}

// Get returns the committed entity with id, or ErrKeyNotFound.
func (p *EntityPool) Get(id EntityId) (*Entity, error) {
	return p.entities.Get(id)
}

// Has reports whether an entity with id is committed.
func (p *EntityPool) Has(id EntityId) bool {
	return p.entities.HasKey(id)
}

// Len returns the number of committed entities.
func (p *EntityPool) Len() int {
	return p.entities.Len()
}

// Entities returns an iterator over the committed entities.
func (p *EntityPool) Entities() iter.Seq[*Entity] {
	return p.entities.Values()
}

// Sorted returns the committed entities ordered by id.
func (p *EntityPool) Sorted() []*Entity {
	out := make([]*Entity, 0, p.entities.Len())
	for e := range p.entities.Values() {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// entityAdded announces every component an entity already holds when it is committed,
// so systems pick up entities that arrive populated (clones, loaded prototypes).
func (p *EntityPool) entityAdded(_ EntityId, e *Entity) {
	for t, c := range e.components.All() {
		p.componentAdded(e, t, c)
	}
}

// entityRemoved drops every component of a removed entity, raising a removal for each,
// so that no system keeps tracking it.
func (p *EntityPool) entityRemoved(_ EntityId, e *Entity) {
	e.components.Clear()
	e.components.Update()
}

func (p *EntityPool) componentAdded(e *Entity, t ComponentType, c any) {
	ev := ComponentEvent{Entity: e, Type: t, Component: c}
	for _, fn := range p.onComponentAdd {
		fn(ev)
	}
}

func (p *EntityPool) componentRemoved(e *Entity, t ComponentType, c any) {
	ev := ComponentEvent{Entity: e, Type: t, Component: c}
	for _, fn := range p.onComponentRemove {
		fn(ev)
	}
}
