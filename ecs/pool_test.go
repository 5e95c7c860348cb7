package ecs_test

import (
	"testing"

	"github.com/plus3/stagecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolIdsAreSequentialAndNeverReused(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())

	var ids []ecs.EntityId
	for i := 0; i < 5; i++ {
		ids = append(ids, spawn(pool, "e").Id())
	}
	assert.Equal(t, []ecs.EntityId{1, 2, 3, 4, 5}, ids)

	pool.Tick()
	pool.Remove(3)
	pool.Tick()

	next := spawn(pool, "late")
	assert.Equal(t, ecs.EntityId(6), next.Id())
}

func TestPoolEntityStaging(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	e := spawn(pool, "e", Position{})

	assert.Equal(t, 0, pool.Len())
	_, err := pool.Get(e.Id())
	assert.ErrorIs(t, err, ecs.ErrKeyNotFound)

	pool.Tick()

	got, err := pool.Get(e.Id())
	require.NoError(t, err)
	assert.Same(t, e, got)
	assert.True(t, e.HasComponent(ecs.TypeFor[Position]()), "pool tick commits entity components")

	pool.Remove(e.Id())
	assert.True(t, pool.Has(e.Id()))
	pool.Tick()
	assert.False(t, pool.Has(e.Id()))
}

func TestPoolComponentEvents(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())

	var added, removed []ecs.ComponentType
	pool.OnComponentAdd(func(ev ecs.ComponentEvent) { added = append(added, ev.Type) })
	pool.OnComponentRemove(func(ev ecs.ComponentEvent) { removed = append(removed, ev.Type) })

	e := spawn(pool, "e", Position{}, Velocity{})
	pool.Tick()
	assert.ElementsMatch(t, []ecs.ComponentType{ecs.TypeFor[Position](), ecs.TypeFor[Velocity]()}, added)

	added = nil
	e.AddComponent(Velocity{DX: 2})
	pool.Tick()
	assert.Equal(t, []ecs.ComponentType{ecs.TypeFor[Velocity]()}, removed, "replacing raises a removal first")
	assert.Equal(t, []ecs.ComponentType{ecs.TypeFor[Velocity]()}, added)

	removed = nil
	pool.Remove(e.Id())
	pool.Tick()
	assert.ElementsMatch(t, []ecs.ComponentType{ecs.TypeFor[Position](), ecs.TypeFor[Velocity]()}, removed,
		"removing an entity removes each of its components")
}

func TestPoolEntityAddedPopulated(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	prototype := ecs.NewEntity(pool.Registry(), "proto")
	prototype.AddComponent(Position{X: 4})
	prototype.Tick()

	var events []ecs.ComponentEvent
	pool.OnComponentAdd(func(ev ecs.ComponentEvent) { events = append(events, ev) })

	clone, err := prototype.Clone("clone")
	require.NoError(t, err)
	pool.Spawn(clone)
	pool.Tick()

	require.Len(t, events, 1)
	assert.Same(t, clone, events[0].Entity)
	assert.Equal(t, float32(4), events[0].Component.(*Position).X)
}

func TestPoolClear(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	for i := 0; i < 3; i++ {
		spawn(pool, "e")
	}
	pool.Tick()

	staged := spawn(pool, "staged")
	pool.Clear()
	pool.Tick()

	assert.Equal(t, 0, pool.Len())
	assert.False(t, pool.Has(staged.Id()), "clear discards staged entities")
}

func TestPoolSorted(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	for _, name := range []string{"a", "b", "c", "d"} {
		spawn(pool, name)
	}
	pool.Tick()

	var names []string
	for _, e := range pool.Sorted() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestPoolCollectStats(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	spawn(pool, "a", Position{}, Velocity{})
	spawn(pool, "b", Position{})
	pool.Tick()
	spawn(pool, "c", Position{})

	stats := pool.CollectStats()

	if stats.EntityCount != 2 {
		t.Errorf("expected 2 entities, got %d", stats.EntityCount)
	}
	if stats.LoadedCount != 2 {
		t.Errorf("expected 2 loaded entities, got %d", stats.LoadedCount)
	}
	if stats.ComponentCount != 3 {
		t.Errorf("expected 3 components, got %d", stats.ComponentCount)
	}
	if stats.PendingAdds != 1 {
		t.Errorf("expected 1 pending add, got %d", stats.PendingAdds)
	}
	if len(stats.Components) != 2 {
		t.Fatalf("expected 2 component types, got %d", len(stats.Components))
	}
	if stats.Components[0].Name != "Position" || stats.Components[0].Count != 2 {
		t.Errorf("unexpected breakdown %+v", stats.Components[0])
	}
}
