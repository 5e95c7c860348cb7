package ebitenhost

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/builtin"
)

func assertPoint(t *testing.T, wantX, wantY, gotX, gotY float64) {
	t.Helper()
	assert.InDelta(t, wantX, gotX, 1e-9)
	assert.InDelta(t, wantY, gotY, 1e-9)
}

func TestSpriteGeoM(t *testing.T) {
	base := builtin.Transform{Position: builtin.Vec2{X: 100, Y: 50}, Scale: builtin.Vec2{X: 1, Y: 1}}
	app := builtin.NewAppearance()
	app.Origin = builtin.Vec2{X: 8, Y: 8}

	t.Run("origin lands on position plus camera offset", func(t *testing.T) {
		m := spriteGeoM(base, app, builtin.Vec2{X: 10})
		x, y := m.Apply(8, 8)
		assertPoint(t, 110, 50, x, y)
	})

	t.Run("rotation follows the transform direction", func(t *testing.T) {
		rotated := base
		rotated.Rotation = builtin.Vec2{X: 0, Y: 1}
		m := spriteGeoM(rotated, app, builtin.Vec2{})
		x, y := m.Apply(9, 8)
		assertPoint(t, 100, 51, x, y)
	})

	t.Run("scales multiply", func(t *testing.T) {
		scaled := base
		scaled.Scale = builtin.Vec2{X: 2, Y: 2}
		a := app
		a.Scale = builtin.Vec2{X: 1.5, Y: 1}
		m := spriteGeoM(scaled, a, builtin.Vec2{})
		x, y := m.Apply(9, 9)
		assertPoint(t, 103, 52, x, y)
	})

	t.Run("flip", func(t *testing.T) {
		a := app
		a.FlipX = true
		m := spriteGeoM(base, a, builtin.Vec2{})
		x, _ := m.Apply(9, 8)
		assert.InDelta(t, 99, x, 1e-9)
	})

	t.Run("appearance rotation adds", func(t *testing.T) {
		rotated := base
		rotated.Rotation = builtin.Vec2{X: 0, Y: 1}
		a := app
		a.Rotation = builtin.Vec2{X: 0, Y: 1}
		m := spriteGeoM(rotated, a, builtin.Vec2{})
		x, y := m.Apply(9, 8)
		assertPoint(t, 99, 50, x, y)
	})
}

func TestSortDrawsByLayer(t *testing.T) {
	draws := []drawCommand{
		{appearance: builtin.Appearance{Texture: "top", LayerDepth: 2}},
		{appearance: builtin.Appearance{Texture: "bottom-a", LayerDepth: 0}},
		{appearance: builtin.Appearance{Texture: "middle", LayerDepth: 1}},
		{appearance: builtin.Appearance{Texture: "bottom-b", LayerDepth: 0}},
	}
	sortDraws(draws)

	var order []string
	for _, d := range draws {
		order = append(order, d.appearance.Texture)
	}
	assert.Equal(t, []string{"bottom-a", "bottom-b", "middle", "top"}, order)
}

func TestRenderSystemCollectsDraws(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)
	state := ecs.NewState("render", registry)

	system := NewRenderSystem(state.Pool(), TextureSet{}, nil)
	state.AddRenderSystem(system)
	assert.Equal(t, "RenderSystem", system.SystemName())

	for i := 0; i < 3; i++ {
		e := state.Pool().NewEntity("sprite")
		e.AddComponent(builtin.NewTransform())
		app := builtin.NewAppearance()
		app.LayerDepth = float64(3 - i)
		e.AddComponent(app)
		e.Associate(state.Pool())
	}
	state.Pool().Tick()

	// no Screen singleton: draws are collected but nothing is drawn
	state.Render(&ecs.UpdateFrame{State: state, Pool: state.Pool()})

	renderer := system.Query()
	assert.Equal(t, 3, renderer.Len())
}

type fakeOverlay struct {
	width, height int
}

func (o *fakeOverlay) BeginFrame()          {}
func (o *fakeOverlay) EndFrame()            {}
func (o *fakeOverlay) Layout(w, h int)      { o.width, o.height = w, h }
func (o *fakeOverlay) Draw(_ *ebiten.Image) {}

func TestGameLayoutForwardsToOverlay(t *testing.T) {
	overlay := &fakeOverlay{}
	game := NewGame(ecs.NewStateStack(), WithOverlay(overlay))

	w, h := game.Layout(640, 480)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, 640, overlay.width)
	assert.Equal(t, 480, overlay.height)
}

func TestCursorIsCursorSource(t *testing.T) {
	var _ builtin.CursorSource = Cursor{}
}
