package builtin_test

import (
	"image/color"
	"math"
	"testing"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) *ecs.State {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)
	return ecs.NewState("test", registry)
}

func commit(state *ecs.State) {
	state.Pool().Tick()
}

func TestRegisterDefaults(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)

	tests := []struct {
		name string
		want any
	}{
		{"Transform", &builtin.Transform{Scale: builtin.Vec2{X: 1, Y: 1}}},
		{"Motion", &builtin.Motion{}},
		{"Appearance", &builtin.Appearance{Color: color.RGBA{255, 255, 255, 255}, Scale: builtin.Vec2{X: 1, Y: 1}}},
		{"Animation", &builtin.Animation{Width: 64, Height: 64, MaxX: 8, Speed: 100}},
		{"MouseRotation", &builtin.MouseRotation{RotationPoint: builtin.Vec2{X: 960, Y: 540}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.New(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMotionSystemEndToEnd(t *testing.T) {
	state := newState(t)
	state.AddComputeSystem(builtin.NewMotionSystem(state.Pool()))

	e := state.Pool().NewEntity("mover")
	e.AddComponent(builtin.Transform{Rotation: builtin.Vec2{X: 1, Y: 0}, Scale: builtin.Vec2{X: 1, Y: 1}})
	e.AddComponent(builtin.Motion{Speed: 10})
	e.Associate(state.Pool())
	commit(state)

	stack := ecs.NewStateStack()
	stack.Register(state)
	require.NoError(t, stack.Start("test"))

	stack.Tick(0.5)
	stack.Tick(0.5)

	pos := ecs.MustComponent[builtin.Transform](e).Position
	assert.InDelta(t, 10, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)
	assert.Equal(t, "MotionSystem", state.Stats().Compute[0].Name)
}

func TestAnimationSystem(t *testing.T) {
	state := newState(t)
	system := &builtin.AnimationSystem{}
	state.AddComputeSystem(system)

	e := state.Pool().NewEntity("anim")
	e.AddComponent(builtin.NewAppearance())
	e.AddComponent(builtin.Animation{Width: 32, Height: 16, Y: 2, MinX: 1, MaxX: 2, Speed: 100})
	e.Associate(state.Pool())
	commit(state)

	frame := &ecs.UpdateFrame{DeltaTime: 0.06}
	anim := ecs.MustComponent[builtin.Animation](e)
	app := ecs.MustComponent[builtin.Appearance](e)

	state.Tick(frame)
	assert.Equal(t, 0, anim.X)
	require.NotNil(t, app.Source)
	assert.Equal(t, builtin.Rect{X: 0, Y: 32, Width: 32, Height: 16}, *app.Source)

	state.Tick(frame)
	assert.Equal(t, 1, anim.X)
	assert.InDelta(t, 20, anim.Elapsed, 1e-9)
	assert.Equal(t, 32, app.Source.X)

	state.Tick(frame)
	state.Tick(frame)
	assert.Equal(t, 2, anim.X)

	state.Tick(frame)
	state.Tick(frame)
	assert.Equal(t, 1, anim.X, "wraps to MinX after MaxX")

	anim.Paused = true
	before := anim.Elapsed
	state.Tick(frame)
	assert.Equal(t, before, anim.Elapsed)
}

func TestMouseRotationSystem(t *testing.T) {
	state := newState(t)
	system := &builtin.MouseRotationSystem{Cursor: builtin.FixedCursor{X: 960, Y: 640}}
	state.AddComputeSystem(system)

	e := state.Pool().NewEntity("turret")
	e.AddComponent(builtin.NewTransform())
	e.AddComponent(builtin.NewMouseRotation())
	e.Associate(state.Pool())
	commit(state)

	state.Tick(&ecs.UpdateFrame{})

	rot := ecs.MustComponent[builtin.Transform](e).Rotation
	assert.InDelta(t, 0, rot.X, 1e-9)
	assert.InDelta(t, 1, rot.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, rot.Angle(), 1e-9)
}

func TestCamera(t *testing.T) {
	camera := builtin.NewCamera(800, 600)
	assert.Equal(t, builtin.Vec2{X: 400, Y: 300}, camera.Offset())

	state := newState(t)
	target := state.Pool().NewEntity("target")
	assert.False(t, camera.Follow(target))

	target.AddComponent(builtin.Transform{Position: builtin.Vec2{X: 100, Y: 50}})
	target.Tick()
	require.True(t, camera.Follow(target))

	assert.Equal(t, builtin.Vec2{X: 300, Y: 250}, camera.Offset())
	assert.Equal(t, builtin.Vec2{X: 400, Y: 300}, camera.ToScreen(builtin.Vec2{X: 100, Y: 50}))

	ecs.MustComponent[builtin.Transform](target).Position.X = 200
	assert.Equal(t, 200.0, camera.Offset().X)
}

func TestAppearanceCloneCopiesSource(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)

	app := builtin.NewAppearance()
	app.Source = &builtin.Rect{Width: 8, Height: 8}

	dup, err := registry.Clone(app)
	require.NoError(t, err)
	dup.(*builtin.Appearance).Source.Width = 99
	assert.Equal(t, 8, app.Source.Width)
}

func TestVec2(t *testing.T) {
	v := builtin.Vec2{X: 3, Y: 4}
	assert.Equal(t, 5.0, v.Len())
	assert.InDelta(t, 1, v.Normalize().Len(), 1e-12)
	assert.Equal(t, builtin.Vec2{}, builtin.Vec2{}.Normalize())
	assert.Equal(t, builtin.Vec2{X: 6, Y: 8}, v.Scale(2))
	assert.Equal(t, builtin.Vec2{X: 9, Y: 16}, v.Mul(v))
	assert.True(t, builtin.Rect{Width: 0, Height: 3}.Empty())
}
