package ecs

import (
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
)

// Tracker maintains the set of pool entities that hold every one of a fixed set of
// required component types. It never scans the pool: membership is updated solely from
// the pool's component notifications.
//
// An entity is tracked when a required component is committed and the entity then holds
// all required types. It is evicted as soon as any required component is removed.
type Tracker struct {
	pool     *EntityPool
	required []ComponentType
	members  *intmap.Map[EntityId, *Entity]
}

// NewTracker creates a Tracker over pool for the given required types and subscribes it
// to the pool for the rest of its lifetime. Entities already committed to the pool are
// picked up once here. At least one type is required.
func NewTracker(pool *EntityPool, required ...ComponentType) *Tracker {
	if len(required) == 0 {
		panic("ecs: tracker requires at least one component type")
	}
	t := &Tracker{
		pool:     pool,
		required: slices.Clone(required),
		members:  intmap.New[EntityId, *Entity](64),
	}
	for e := range pool.Entities() {
		if e.HasComponents(t.required...) {
			t.members.Put(e.Id(), e)
		}
	}
	pool.OnComponentAdd(t.componentAdded)
	pool.OnComponentRemove(t.componentRemoved)
	return t
}

// Required returns the required component types.
func (t *Tracker) Required() []ComponentType {
	return slices.Clone(t.required)
}

// Pool returns the tracked pool.
func (t *Tracker) Pool() *EntityPool {
	return t.pool
}

func (t *Tracker) isRequired(typ ComponentType) bool {
	return slices.Contains(t.required, typ)
}

func (t *Tracker) componentAdded(ev ComponentEvent) {
	if !t.isRequired(ev.Type) {
		return
	}
	id := ev.Entity.Id()
	if t.members.Has(id) {
		return
	}
	if ev.Entity.HasComponents(t.required...) {
		t.members.Put(id, ev.Entity)
	}
}

func (t *Tracker) componentRemoved(ev ComponentEvent) {
	if !t.isRequired(ev.Type) {
		return
	}
	t.members.Del(ev.Entity.Id())
}

// Has reports whether the entity with id is tracked.
func (t *Tracker) Has(id EntityId) bool {
	return t.members.Has(id)
}

// Len returns the number of tracked entities.
func (t *Tracker) Len() int {
	return t.members.Len()
}

// Snapshot returns the tracked entities ordered by id. The slice is a copy, so
// membership changes during iteration do not affect it.
func (t *Tracker) Snapshot() []*Entity {
	out := make([]*Entity, 0, t.members.Len())
	t.members.ForEach(func(_ EntityId, e *Entity) bool {
		out = append(out, e)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Id() < out[j].Id() })
	return out
}
