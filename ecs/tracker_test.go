package ecs_test

import (
	"testing"

	"github.com/plus3/stagecs/ecs"
	"github.com/stretchr/testify/assert"
)

func TestTrackerMembership(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	tracker := ecs.NewTracker(pool, ecs.TypeFor[Position](), ecs.TypeFor[Velocity]())

	both := spawn(pool, "both", Position{}, Velocity{})
	onlyPos := spawn(pool, "pos", Position{})
	neither := spawn(pool, "neither", Name{Value: "x"})

	assert.Equal(t, 0, tracker.Len(), "staged entities are not tracked")

	pool.Tick()

	assert.True(t, tracker.Has(both.Id()))
	assert.False(t, tracker.Has(onlyPos.Id()))
	assert.False(t, tracker.Has(neither.Id()))

	t.Run("joins when last required type is committed", func(t *testing.T) {
		onlyPos.AddComponent(Velocity{})
		assert.False(t, tracker.Has(onlyPos.Id()))
		pool.Tick()
		assert.True(t, tracker.Has(onlyPos.Id()))
	})

	t.Run("evicted when a required type is removed", func(t *testing.T) {
		ecs.RemoveComponentOf[Velocity](both)
		pool.Tick()
		assert.False(t, tracker.Has(both.Id()))
	})

	t.Run("unrelated components do not matter", func(t *testing.T) {
		onlyPos.AddComponent(Health{})
		pool.Tick()
		ecs.RemoveComponentOf[Health](onlyPos)
		pool.Tick()
		assert.True(t, tracker.Has(onlyPos.Id()))
	})

	t.Run("replacing a required component keeps the entity tracked", func(t *testing.T) {
		onlyPos.AddComponent(Position{X: 3})
		pool.Tick()
		assert.True(t, tracker.Has(onlyPos.Id()))
	})

	t.Run("evicted when the entity is removed", func(t *testing.T) {
		pool.Remove(onlyPos.Id())
		pool.Tick()
		assert.False(t, tracker.Has(onlyPos.Id()))
		assert.Equal(t, 0, tracker.Len())
	})
}

func TestTrackerSeedsFromExistingEntities(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	a := spawn(pool, "a", Position{}, Velocity{})
	spawn(pool, "b", Position{})
	pool.Tick()

	tracker := ecs.NewTracker(pool, ecs.TypeFor[Position](), ecs.TypeFor[Velocity]())
	assert.Equal(t, 1, tracker.Len())
	assert.True(t, tracker.Has(a.Id()))
}

func TestTrackerSnapshotIsOrderedCopy(t *testing.T) {
	pool := ecs.NewEntityPool(newTestRegistry())
	tracker := ecs.NewTracker(pool, ecs.TypeFor[Position]())
	for i := 0; i < 20; i++ {
		spawn(pool, "e", Position{X: float32(i)})
	}
	pool.Tick()

	snapshot := tracker.Snapshot()
	assert.Len(t, snapshot, 20)
	for i, e := range snapshot {
		assert.Equal(t, ecs.EntityId(i+1), e.Id())
	}

	for _, e := range snapshot {
		pool.Remove(e.Id())
	}
	pool.Tick()
	assert.Len(t, snapshot, 20)
	assert.Equal(t, 0, tracker.Len())
}

func TestTrackerRequiresTypes(t *testing.T) {
	assert.Panics(t, func() { ecs.NewTracker(ecs.NewEntityPool(nil)) })
}
