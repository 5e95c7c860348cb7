package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/asset"
	"github.com/plus3/stagecs/ecs/builtin"
	"github.com/plus3/stagecs/ecs/script"
	"github.com/plus3/stagecs/internal/config"
)

// The idle state holds the same entities as the main state but runs no compute systems.
const (
	mainState = "main"
	idleState = "idle"
)

type simulation struct {
	stack   *ecs.StateStack
	library *asset.Library
	tick    time.Duration
	log     *zap.Logger
}

func newSimulation(cfg *config.Config, log *zap.Logger) (*simulation, error) {
	registry := ecs.NewComponentRegistry()
	builtin.Register(registry)

	library := asset.NewLibrary(registry, cfg.Assets.Dir,
		asset.WithExtension(cfg.Assets.Extension),
		asset.WithLogger(log))
	if cfg.Assets.Dir != "" {
		if err := library.LoadAll(); err != nil {
			return nil, fmt.Errorf("load prototypes: %w", err)
		}
	}

	active := ecs.NewState(mainState, registry, ecs.WithLogger(log))
	idle := ecs.NewState(idleState, registry, ecs.WithLogger(log))

	cursor := builtin.FixedCursor{X: float64(cfg.Window.Width) / 2, Y: float64(cfg.Window.Height) / 2}
	active.AddComputeSystem(&builtin.MouseRotationSystem{Cursor: cursor})
	active.AddComputeSystem(builtin.NewMotionSystem(active.Pool()))
	active.AddComputeSystem(&builtin.AnimationSystem{})

	for _, state := range []*ecs.State{active, idle} {
		state.AddFactory(populate(library, cfg.Simulation.Entities))
		for _, path := range cfg.Assets.Scripts {
			state.AddFactory(script.NewFileFactory(path,
				script.WithLogger(log),
				script.WithLibrary(library)))
		}
	}

	stack := ecs.NewStateStack(ecs.WithLogger(log))
	stack.Register(active, idle)
	if err := stack.Start(cfg.Simulation.InitialState); err != nil {
		return nil, err
	}

	return &simulation{
		stack:   stack,
		library: library,
		tick:    cfg.Simulation.TickRate,
		log:     log,
	}, nil
}

// populate spawns one entity per loaded prototype, or count generated entities when the
// library is empty.
func populate(library *asset.Library, count int) ecs.Factory {
	return ecs.FactoryFunc(func(pool *ecs.EntityPool) error {
		if library.Len() > 0 {
			for _, name := range library.Names() {
				if _, err := library.Spawn(pool, name); err != nil {
					return err
				}
			}
			return nil
		}

		rng := rand.New(rand.NewPCG(1, uint64(count)))
		for i := 0; i < count; i++ {
			spawnGenerated(pool, rng, i)
		}
		return nil
	})
}

func spawnGenerated(pool *ecs.EntityPool, rng *rand.Rand, i int) {
	e := pool.NewEntity(fmt.Sprintf("entity-%d", i))

	transform := builtin.NewTransform()
	transform.Position = builtin.Vec2{X: rng.Float64() * 1920, Y: rng.Float64() * 1080}
	transform.Rotation = builtin.Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}.Normalize()
	e.AddComponent(transform)
	e.AddComponent(builtin.Motion{Speed: 20 + rng.Float64()*180})

	switch i % 3 {
	case 1:
		e.AddComponent(builtin.NewAppearance())
		e.AddComponent(builtin.NewAnimation())
	case 2:
		e.AddComponent(builtin.NewMouseRotation())
	}
	pool.Spawn(e)
}

// runUntil ticks and renders the active state as fast as possible with a fixed
// simulated step, recording each frame's wall time.
func (s *simulation) runUntil(ctx context.Context, report *Report) {
	dt := s.tick.Seconds()
	for {
		select {
		case <-ctx.Done():
			report.UpdateTime.Finalize()
			return
		default:
			updateStart := time.Now()
			s.stack.Tick(dt)
			s.stack.Render(dt)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}
}

// runFrames advances exactly n frames.
func (s *simulation) runFrames(n int, report *Report) {
	dt := s.tick.Seconds()
	for i := 0; i < n; i++ {
		updateStart := time.Now()
		s.stack.Tick(dt)
		s.stack.Render(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++
	}
	report.UpdateTime.Finalize()
}

// fill copies pool and system statistics of the active state into report.
func (s *simulation) fill(report *Report) {
	top := s.stack.Top()
	report.State = top.Name()
	report.Prototypes = s.library.Len()
	report.Pool = top.Pool().CollectStats()
	report.Systems = top.Stats()
}
