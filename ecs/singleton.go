package ecs

// Singleton provides access to a single value scoped to a State rather than to an entity.
// Use it for state-specific context such as a camera or per-mode configuration that
// systems and collaborators read.
type Singleton[T any] struct {
	state *State
	ptr   *T
}

// NewSingleton returns a Singleton accessor for state. If the value does not exist yet it
// is created from initializer, or the zero value when none is given. The value is
// guaranteed to exist after the call.
func NewSingleton[T any](state *State, initializer ...T) *Singleton[T] {
	typ := TypeFor[T]()
	if _, ok := state.singletons[typ]; !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		state.singletons[typ] = &value
	}

	s := &Singleton[T]{}
	s.Init(state)
	return s
}

// SetSingleton replaces the state's T value.
func SetSingleton[T any](state *State, value T) {
	state.singletons[TypeFor[T]()] = &value
}

// Init binds the Singleton to state. It is called automatically for Singleton fields of
// systems registered with a State.
func (s *Singleton[T]) Init(state *State) {
	s.state = state
	s.updateCache()
}

// Get returns the value, or nil if it has not been added to the state.
func (s *Singleton[T]) Get() *T {
	s.updateCache()
	return s.ptr
}

// Exists reports whether the value has been added to the state.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.state == nil {
		return
	}
	if v, ok := s.state.singletons[TypeFor[T]()]; ok {
		s.ptr = v.(*T)
	} else {
		s.ptr = nil
	}
}
