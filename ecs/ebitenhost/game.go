// Package ebitenhost runs a StateStack inside an ebiten game loop.
package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/builtin"
)

// Screen is the state singleton holding the image render systems draw into. The host
// sets it on the active state before every render pass.
type Screen struct {
	Image *ebiten.Image
}

// Overlay is drawn over the game, typically a Dear ImGui backend. Render systems of the
// active state run between BeginFrame and EndFrame.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Game implements ebiten.Game for a StateStack: Update ticks the active state and Draw
// runs its render systems.
type Game struct {
	stack    *ecs.StateStack
	overlay  Overlay
	quitKeys []ebiten.Key
	log      *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithOverlay draws overlay on top of the render systems.
func WithOverlay(overlay Overlay) Option {
	return func(g *Game) { g.overlay = overlay }
}

// WithQuitKeys sets the keys that end the game. The default is Q and Escape.
func WithQuitKeys(keys ...ebiten.Key) Option {
	return func(g *Game) { g.quitKeys = keys }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Game) { g.log = log }
}

// NewGame creates a Game driving stack. The stack must have been started.
func NewGame(stack *ecs.StateStack, opts ...Option) *Game {
	g := &Game{
		stack:    stack,
		quitKeys: []ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stack returns the driven state stack.
func (g *Game) Stack() *ecs.StateStack { return g.stack }

func (g *Game) Update() error {
	for _, key := range g.quitKeys {
		if ebiten.IsKeyPressed(key) {
			g.log.Info("quit requested", zap.String("key", key.String()))
			return ebiten.Termination
		}
	}

	g.stack.Tick(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	top := g.stack.Top()
	if top == nil {
		return
	}
	ecs.SetSingleton(top, Screen{Image: screen})

	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	g.stack.Render(1.0 / float64(ebiten.TPS()))
	if g.overlay != nil {
		g.overlay.EndFrame()
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Cursor reports the ebiten cursor position.
type Cursor struct{}

func (Cursor) CursorPosition() builtin.Vec2 {
	x, y := ebiten.CursorPosition()
	return builtin.Vec2{X: float64(x), Y: float64(y)}
}
