package ecs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StateStack selects which State runs. States are registered up front and referred to
// by name; only the top of the stack is ticked and rendered.
type StateStack struct {
	states  map[string]*State
	order   []string
	stack   []*State
	elapsed float64
	frames  uint64
	log     *zap.Logger
}

// NewStateStack creates an empty stack.
func NewStateStack(opts ...Option) *StateStack {
	o := buildOptions(opts)
	return &StateStack{
		states: make(map[string]*State),
		log:    o.log,
	}
}

// Register makes states available to Push and Switch. Registering two states with the
// same name panics.
func (st *StateStack) Register(states ...*State) {
	for _, s := range states {
		if _, ok := st.states[s.name]; ok {
			panic("state " + s.name + " already registered")
		}
		st.states[s.name] = s
		st.order = append(st.order, s.name)
	}
}

// State returns the registered state called name.
func (st *StateStack) State(name string) (*State, bool) {
	s, ok := st.states[name]
	return s, ok
}

// States returns the registered states in registration order.
func (st *StateStack) States() []*State {
	out := make([]*State, len(st.order))
	for i, name := range st.order {
		out[i] = st.states[name]
	}
	return out
}

// Start initialises every registered state and pushes initial.
func (st *StateStack) Start(initial string) error {
	for _, name := range st.order {
		if err := st.states[name].Initialize(); err != nil {
			return err
		}
	}
	if err := st.Push(initial); err != nil {
		return err
	}
	st.log.Info("state stack started",
		zap.String("initial", initial),
		zap.Int("states", len(st.order)))
	return nil
}

func (st *StateStack) lookup(name string) (*State, error) {
	s, ok := st.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Push puts the named state on top of the stack.
func (st *StateStack) Push(name string) error {
	s, err := st.lookup(name)
	if err != nil {
		return err
	}
	st.stack = append(st.stack, s)
	st.log.Info("state pushed", zap.String("state", name), zap.Int("depth", len(st.stack)))
	return nil
}

// Switch replaces the top of the stack with the named state.
func (st *StateStack) Switch(name string) error {
	s, err := st.lookup(name)
	if err != nil {
		return err
	}
	if len(st.stack) == 0 {
		st.stack = append(st.stack, s)
	} else {
		st.stack[len(st.stack)-1] = s
	}
	st.log.Info("state switched", zap.String("state", name))
	return nil
}

// Pop removes the top state. Popping the last state is a programming error: it panics
// with ErrPopOnLastState and leaves the stack unchanged.
func (st *StateStack) Pop() {
	if len(st.stack) <= 1 {
		panic(ErrPopOnLastState)
	}
	st.stack[len(st.stack)-1] = nil
	st.stack = st.stack[:len(st.stack)-1]
	st.log.Info("state popped", zap.String("state", st.Top().name))
}

// Top returns the active state, or nil before Start.
func (st *StateStack) Top() *State {
	if len(st.stack) == 0 {
		return nil
	}
	return st.stack[len(st.stack)-1]
}

// Depth returns the number of states on the stack.
func (st *StateStack) Depth() int {
	return len(st.stack)
}

// Tick advances the simulation by dt seconds on the active state.
func (st *StateStack) Tick(dt float64) {
	top := st.Top()
	if top == nil {
		return
	}
	st.frames++
	st.elapsed += dt
	top.Tick(newUpdateFrame(dt, st.elapsed, st.frames, top))
}

// Render runs the render systems of the active state.
func (st *StateStack) Render(dt float64) {
	top := st.Top()
	if top == nil {
		return
	}
	top.Render(newUpdateFrame(dt, st.elapsed, st.frames, top))
}

// Run ticks and renders the active state at the given interval until ctx is cancelled.
func (st *StateStack) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			st.Tick(dt)
			st.Render(dt)
		}
	}
}
