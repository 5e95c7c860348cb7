package ecs

// Commands is a per-state buffer of id-addressed mutations. Systems that only hold entity
// ids queue work here; the owning State stages it into the pool after all compute systems
// ran, so it is committed by the same pool tick as direct entity mutations.
// Deferred functions run after that tick, once the frame's changes are visible.
type Commands struct {
	spawns  []*Entity
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType ComponentType
}

// Defer queues fn to run after the pool commit of the current frame.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues e for association with the state's pool.
func (c *Commands) Spawn(e *Entity) {
	c.spawns = append(c.spawns, e)
}

// Delete queues the removal of an entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition on an entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal on an entity.
func (c *Commands) RemoveComponent(entity EntityId, compType ComponentType) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// stage stages every queued mutation into pool. Component changes addressed to deleted
// or unknown entities are dropped.
func (c *Commands) stage(pool *EntityPool) {
	deletedEntities := make(map[EntityId]bool, len(c.deletes))

	for _, id := range c.deletes {
		pool.Remove(id)
		deletedEntities[id] = true
	}

	for _, cmd := range c.removes {
		if deletedEntities[cmd.entity] {
			continue
		}
		if e, ok := pool.Entity(cmd.entity); ok {
			e.RemoveComponent(cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if deletedEntities[cmd.entity] {
			continue
		}
		if e, ok := pool.Entity(cmd.entity); ok {
			e.AddComponent(cmd.component)
		}
	}

	for _, e := range c.spawns {
		e.Associate(pool)
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
}

// runDeferred runs and clears the deferred functions. Functions deferred while running
// are kept for the next frame.
func (c *Commands) runDeferred() {
	defers := c.defers
	c.defers = nil
	for _, fn := range defers {
		fn()
	}
}
