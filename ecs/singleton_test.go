package ecs_test

import (
	"testing"

	"github.com/plus3/stagecs/ecs"
	"github.com/stretchr/testify/assert"
)

type GameScore struct {
	Points int
	Level  int
}

func TestSingleton(t *testing.T) {
	state := ecs.NewState("play", newTestRegistry())

	var unbound ecs.Singleton[GameScore]
	assert.Nil(t, unbound.Get())

	unbound.Init(state)
	assert.False(t, unbound.Exists())

	score := ecs.NewSingleton(state, GameScore{Level: 1})
	assert.True(t, unbound.Exists(), "accessors observe values added later")

	score.Get().Points = 50
	assert.Equal(t, 50, unbound.Get().Points)

	again := ecs.NewSingleton(state, GameScore{Level: 99})
	assert.Equal(t, 1, again.Get().Level, "an existing value is not overwritten")

	ecs.SetSingleton(state, GameScore{Level: 7})
	assert.Equal(t, 7, score.Get().Level)

	v, ok := state.Context(ecs.TypeFor[GameScore]())
	assert.True(t, ok)
	assert.Equal(t, 7, v.(*GameScore).Level)
}

func TestSingletonScopedToState(t *testing.T) {
	registry := newTestRegistry()
	a := ecs.NewState("a", registry)
	b := ecs.NewState("b", registry)

	ecs.NewSingleton(a, GameScore{Points: 1})
	assert.Equal(t, 0, ecs.NewSingleton[GameScore](b).Get().Points)
}
