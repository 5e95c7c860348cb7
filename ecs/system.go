package ecs

import "reflect"

// System represents a behavior run once per frame. User-defined systems can include
// Query and Singleton fields, which are bound when the system is registered with a
// State, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Processor handles one tracked entity per call. T is a Query struct type.
type Processor[T any] interface {
	Process(frame *UpdateFrame, item T)
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc[T any] func(frame *UpdateFrame, item T)

func (f ProcessorFunc[T]) Process(frame *UpdateFrame, item T) { f(frame, item) }

// PreProcessor is implemented by processors that need a hook before the entity pass.
type PreProcessor interface {
	PreProcess(frame *UpdateFrame)
}

// PostProcessor is implemented by processors that need a hook after the entity pass.
type PostProcessor interface {
	PostProcess(frame *UpdateFrame)
}

// ComponentSystem runs a Processor over every entity tracked by a Query[T].
type ComponentSystem[T any] struct {
	query     *Query[T]
	processor Processor[T]
}

// NewSystem creates a ComponentSystem over pool. Membership tracking starts immediately
// and lasts for the lifetime of the pool.
func NewSystem[T any](pool *EntityPool, processor Processor[T]) *ComponentSystem[T] {
	return &ComponentSystem[T]{
		query:     NewQuery[T](pool),
		processor: processor,
	}
}

// Execute calls PreProcess, then Process for each tracked entity in id order, then
// PostProcess. Entities are taken from a membership snapshot taken when the pass starts;
// the pass can only shrink, since an entity evicted by a Process call is skipped and
// entities that start matching mid-pass wait for the next Execute. A tracked entity that
// lacks a required component panics with ErrMissingComponent.
func (s *ComponentSystem[T]) Execute(frame *UpdateFrame) {
	if pre, ok := s.processor.(PreProcessor); ok {
		pre.PreProcess(frame)
	}
	for item := range s.query.Iter() {
		s.processor.Process(frame, item)
	}
	if post, ok := s.processor.(PostProcessor); ok {
		post.PostProcess(frame)
	}
}

// Query returns the system's query.
func (s *ComponentSystem[T]) Query() *Query[T] {
	return s.query
}

// SystemName names the system after its processor.
func (s *ComponentSystem[T]) SystemName() string {
	return systemName(s.processor)
}

func (s *ComponentSystem[T]) processorTarget() any {
	return s.processor
}

type namedSystem interface {
	SystemName() string
}

func systemName(system any) string {
	if named, ok := system.(namedSystem); ok {
		return named.SystemName()
	}
	t := reflect.TypeOf(system)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
