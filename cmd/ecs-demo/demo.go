package main

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/asset"
	"github.com/plus3/stagecs/ecs/builtin"
	"github.com/plus3/stagecs/ecs/debugui"
	"github.com/plus3/stagecs/ecs/ebitenhost"
	"github.com/plus3/stagecs/ecs/script"
	"github.com/plus3/stagecs/internal/config"
)

const (
	playState  = "main"
	pauseState = "pause"
	playerName = "player"
)

var background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}

// newDemo builds the play and pause states. P switches between them.
func newDemo(cfg *config.Config, log *zap.Logger) (*ecs.StateStack, error) {
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)
	debugui.Register(registry)

	library := asset.NewLibrary(registry, cfg.Assets.Dir,
		asset.WithExtension(cfg.Assets.Extension),
		asset.WithLogger(log))
	var textures ebitenhost.Textures
	if cfg.Assets.Dir != "" {
		if err := library.LoadAll(); err != nil {
			return nil, fmt.Errorf("load prototypes: %w", err)
		}
		set, err := ebitenhost.LoadTextures(cfg.Assets.Dir)
		if err != nil {
			return nil, fmt.Errorf("load textures: %w", err)
		}
		textures = set
	}

	stack := ecs.NewStateStack(ecs.WithLogger(log))
	center := builtin.Vec2{X: float64(cfg.Window.Width) / 2, Y: float64(cfg.Window.Height) / 2}

	play := ecs.NewState(playState, registry, ecs.WithLogger(log))
	ecs.NewSingleton(play, builtin.NewCamera(cfg.Window.Width, cfg.Window.Height))
	play.AddFactory(populate(library, cfg.Simulation.Entities, center))
	for _, path := range cfg.Assets.Scripts {
		play.AddFactory(script.NewFileFactory(path, script.WithLogger(log), script.WithLibrary(library)))
	}
	play.AddComputeSystem(&switchSystem{stack: stack, key: ebiten.KeyP, target: pauseState})
	play.AddComputeSystem(&builtin.MouseRotationSystem{Cursor: ebitenhost.Cursor{}})
	play.AddComputeSystem(builtin.NewMotionSystem(play.Pool()))
	play.AddComputeSystem(&cameraSystem{})
	play.AddComputeSystem(&builtin.AnimationSystem{})
	play.AddRenderSystem(ebitenhost.NewRenderSystem(play.Pool(), textures, background))
	play.AddRenderSystem(&debugui.ImguiSystem{})
	play.AddRenderSystem(debugui.New())

	pause := ecs.NewState(pauseState, registry, ecs.WithLogger(log))
	pause.AddFactory(ecs.FactoryFunc(func(pool *ecs.EntityPool) error {
		e := pool.NewEntity("pause-banner")
		e.AddComponent(debugui.ImguiItem{Render: func() {
			imgui.Begin("Paused")
			imgui.Text("Press P to resume")
			imgui.End()
		}})
		pool.Spawn(e)
		return nil
	}))
	pause.AddComputeSystem(&switchSystem{stack: stack, key: ebiten.KeyP, target: playState})
	pause.AddRenderSystem(&debugui.ImguiSystem{})

	stack.Register(play, pause)
	if err := stack.Start(playState); err != nil {
		return nil, err
	}
	return stack, nil
}

// populate spawns the library prototypes, or a player steered by the mouse and count
// drifting drones when the library is empty.
func populate(library *asset.Library, count int, center builtin.Vec2) ecs.Factory {
	return ecs.FactoryFunc(func(pool *ecs.EntityPool) error {
		if library.Len() > 0 {
			for _, name := range library.Names() {
				if _, err := library.Spawn(pool, name); err != nil {
					return err
				}
			}
			return nil
		}

		player := pool.NewEntity(playerName)
		player.AddComponent(builtin.NewTransform())
		player.AddComponent(builtin.Motion{Speed: 120})
		player.AddComponent(builtin.MouseRotation{RotationPoint: center})
		appearance := builtin.NewAppearance()
		appearance.Texture = "player.png"
		appearance.Color = color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff}
		appearance.LayerDepth = 1
		player.AddComponent(appearance)
		pool.Spawn(player)

		for i := 0; i < count; i++ {
			drone := pool.NewEntity(fmt.Sprintf("drone-%d", i))
			transform := builtin.NewTransform()
			transform.Position = builtin.Vec2{X: rand.Float64()*1600 - 800, Y: rand.Float64()*1200 - 600}
			transform.Rotation = builtin.Vec2{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1}.Normalize()
			drone.AddComponent(transform)
			drone.AddComponent(builtin.Motion{Speed: 10 + rand.Float64()*40})
			appearance := builtin.NewAppearance()
			appearance.Color = color.RGBA{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff}
			drone.AddComponent(appearance)
			pool.Spawn(drone)
		}
		return nil
	})
}

// switchSystem replaces the active state when its key is pressed. The switch is deferred
// until the frame's commit so the current state finishes its tick.
type switchSystem struct {
	stack  *ecs.StateStack
	key    ebiten.Key
	target string
}

func (s *switchSystem) Execute(frame *ecs.UpdateFrame) {
	if !inpututil.IsKeyJustPressed(s.key) {
		return
	}
	frame.Commands.Defer(func() {
		if err := s.stack.Switch(s.target); err != nil {
			panic(err)
		}
	})
}

// cameraSystem points the camera at the player once it has been committed.
type cameraSystem struct {
	Camera ecs.Singleton[builtin.Camera]
}

func (s *cameraSystem) Execute(frame *ecs.UpdateFrame) {
	camera := s.Camera.Get()
	if camera == nil || camera.Target != nil {
		return
	}
	for e := range frame.Pool.Entities() {
		if e.Name() == playerName {
			camera.Follow(e)
			return
		}
	}
}
