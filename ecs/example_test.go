package ecs_test

import (
	"fmt"

	"github.com/plus3/stagecs/ecs"
)

// ExampleDeferredMap shows that staged changes only become visible on Update.
func ExampleDeferredMap() {
	m := ecs.NewDeferredMap[string, int]()
	m.OnAdd(func(k string, v int) { fmt.Println("added", k, v) })
	m.OnRemove(func(k string, v int) { fmt.Println("removed", k, v) })

	m.Add(1, "hp")
	fmt.Println("visible before update:", m.HasKey("hp"))
	m.Update()

	m.Add(2, "hp")
	m.Update()

	// Output:
	// visible before update: false
	// added hp 1
	// removed hp 1
	// added hp 2
}

type mover struct {
	*Position
	*Velocity
}

// ExampleNewSystem demonstrates a component system driven by a state stack.
func ExampleNewSystem() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)

	state := ecs.NewState("play", registry)
	state.AddComputeSystem(ecs.NewSystem[mover](state.Pool(), ecs.ProcessorFunc[mover](
		func(frame *ecs.UpdateFrame, m mover) {
			m.X += m.DX * float32(frame.DeltaTime)
			m.Y += m.DY * float32(frame.DeltaTime)
		},
	)))

	ship := state.Pool().NewEntity("ship")
	ship.AddComponent(Position{})
	ship.AddComponent(Velocity{DX: 10})
	ship.Associate(state.Pool())

	stack := ecs.NewStateStack()
	stack.Register(state)
	if err := stack.Start("play"); err != nil {
		panic(err)
	}

	// the first tick commits the ship, the next two move it
	for i := 0; i < 3; i++ {
		stack.Tick(0.5)
	}

	fmt.Printf("%s at (%.0f, %.0f)\n", ship.Name(), ecs.MustComponent[Position](ship).X, ecs.MustComponent[Position](ship).Y)

	// Output:
	// ship at (10, 0)
}

// ExampleNewSingleton demonstrates state-scoped values shared between systems.
func ExampleNewSingleton() {
	state := ecs.NewState("menu", ecs.NewComponentRegistry())

	config := ecs.NewSingleton(state, GameConfig{MaxPlayers: 4, Difficulty: "Normal"})
	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	config.Get().Difficulty = "Hard"

	sameConfig := ecs.NewSingleton[GameConfig](state)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Same config: Hard difficulty
}
