package ecs

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Factory populates a pool when its state is initialised.
type Factory interface {
	Craft(pool *EntityPool) error
}

// FactoryFunc adapts a function to a Factory.
type FactoryFunc func(pool *EntityPool) error

func (f FactoryFunc) Craft(pool *EntityPool) error { return f(pool) }

// Option configures a State or a StateStack.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// StateStats provides execution statistics for the systems of a state.
type StateStats struct {
	Name            string
	Frames          int64
	TotalExecutions int64
	Compute         []SystemStats
	Render          []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

func (s *systemStatsInternal) export() SystemStats {
	out := SystemStats{
		Name:           s.name,
		ExecutionCount: s.executionCount,
		MaxDuration:    s.maxDuration,
		LastDuration:   s.lastDuration,
		TotalDuration:  s.totalDuration,
	}
	if s.executionCount > 0 {
		out.MinDuration = s.minDuration
		out.AvgDuration = s.totalDuration / time.Duration(s.executionCount)
	}
	return out
}

type phase struct {
	systems []System
	stats   []*systemStatsInternal
}

func (p *phase) add(system System) {
	p.systems = append(p.systems, system)
	p.stats = append(p.stats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (p *phase) run(frame *UpdateFrame) {
	for i, system := range p.systems {
		start := time.Now()
		system.Execute(frame)
		p.stats[i].record(time.Since(start))
	}
}

func (p *phase) export() []SystemStats {
	out := make([]SystemStats, len(p.stats))
	for i, s := range p.stats {
		out[i] = s.export()
	}
	return out
}

// State is one simulation mode: it owns an entity pool, the compute and render systems
// that run over it, the factories that populate it and state-scoped singletons such as
// a camera. Systems run in registration order.
type State struct {
	name        string
	pool        *EntityPool
	compute     phase
	render      phase
	factories   []Factory
	initialized bool
	frames      int64
	singletons  map[ComponentType]any
	commands    *Commands
	log         *zap.Logger
}

// NewState creates a state with an empty pool using registry.
func NewState(name string, registry *ComponentRegistry, opts ...Option) *State {
	o := buildOptions(opts)
	return &State{
		name:       name,
		pool:       NewEntityPool(registry),
		singletons: make(map[ComponentType]any),
		commands:   newCommands(),
		log:        o.log.With(zap.String("state", name)),
	}
}

// Name returns the state name.
func (s *State) Name() string { return s.name }

// Pool returns the state's entity pool.
func (s *State) Pool() *EntityPool { return s.pool }

// Commands returns the state's command buffer.
func (s *State) Commands() *Commands { return s.commands }

// Initialized reports whether Initialize has completed.
func (s *State) Initialized() bool { return s.initialized }

// AddComputeSystem registers a system run by Tick.
func (s *State) AddComputeSystem(system System) {
	s.bindFields(system)
	s.compute.add(system)
}

// AddRenderSystem registers a system run by Render.
func (s *State) AddRenderSystem(system System) {
	s.bindFields(system)
	s.render.add(system)
}

// AddFactory registers a factory run once by Initialize.
func (s *State) AddFactory(factory Factory) {
	s.factories = append(s.factories, factory)
}

type poolBinder interface {
	Init(pool *EntityPool)
}

type stateBinder interface {
	Init(state *State)
}

type processorHolder interface {
	processorTarget() any
}

// bindFields initialises the Query and Singleton fields of a system struct. The processor
// of a ComponentSystem is bound the same way.
func (s *State) bindFields(system any) {
	if holder, ok := system.(processorHolder); ok {
		s.bindFields(holder.processorTarget())
	}

	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr {
		return
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		switch binder := field.Addr().Interface().(type) {
		case poolBinder:
			binder.Init(s.pool)
		case stateBinder:
			binder.Init(s)
		}
	}
}

// Initialize runs every factory exactly once. Later calls do nothing. A failing factory
// aborts initialisation and it may be retried.
func (s *State) Initialize() error {
	if s.initialized {
		return nil
	}
	for i, factory := range s.factories {
		if err := factory.Craft(s.pool); err != nil {
			s.log.Error("factory failed", zap.Int("factory", i), zap.Error(err))
			return fmt.Errorf("initialize state %s: factory %d: %w", s.name, i, err)
		}
	}
	s.initialized = true
	s.log.Debug("state initialized",
		zap.Int("factories", len(s.factories)),
		zap.Int("compute_systems", len(s.compute.systems)),
		zap.Int("render_systems", len(s.render.systems)))
	return nil
}

// Tick runs the compute systems, stages queued commands, commits the pool and then runs
// deferred commands.
func (s *State) Tick(frame *UpdateFrame) {
	s.frames++
	s.compute.run(frame)
	s.commands.stage(s.pool)
	s.pool.Tick()
	s.commands.runDeferred()
}

// Render runs the render systems. It does not commit the pool.
func (s *State) Render(frame *UpdateFrame) {
	s.render.run(frame)
}

// Context returns the state-scoped value stored under t, such as a camera.
func (s *State) Context(t ComponentType) (any, bool) {
	v, ok := s.singletons[t]
	return v, ok
}

// Stats returns execution statistics of the state's systems.
func (s *State) Stats() *StateStats {
	stats := &StateStats{
		Name:    s.name,
		Frames:  s.frames,
		Compute: s.compute.export(),
		Render:  s.render.export(),
	}
	for _, sys := range stats.Compute {
		stats.TotalExecutions += sys.ExecutionCount
	}
	for _, sys := range stats.Render {
		stats.TotalExecutions += sys.ExecutionCount
	}
	return stats
}
