package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// ComponentType identifies the concrete kind of a component. Pointer types are
// normalised to their element type, so T and *T share the same ComponentType.
type ComponentType struct {
	t reflect.Type
}

// TypeFor returns the ComponentType of T.
func TypeFor[T any]() ComponentType {
	return componentTypeOf(reflect.TypeFor[T]())
}

// TypeOf returns the ComponentType of the given component value.
func TypeOf(component any) ComponentType {
	if component == nil {
		return ComponentType{}
	}
	return componentTypeOf(reflect.TypeOf(component))
}

func componentTypeOf(t reflect.Type) ComponentType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return ComponentType{t: t}
}

// IsZero reports whether the ComponentType is the zero value.
func (c ComponentType) IsZero() bool {
	return c.t == nil
}

// Name returns the unqualified type name.
func (c ComponentType) Name() string {
	if c.t == nil {
		return ""
	}
	return c.t.Name()
}

func (c ComponentType) String() string {
	if c.t == nil {
		return "<nil>"
	}
	return c.t.String()
}

// boxComponent returns component as a pointer so that systems mutate the stored value.
func boxComponent(component any) any {
	if component == nil {
		panic("ecs: nil component")
	}
	v := reflect.ValueOf(component)
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			panic("ecs: nil component pointer")
		}
		if k := v.Elem().Kind(); k == reflect.Ptr || k == reflect.Map || k == reflect.Chan || k == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}
		return component
	case reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface()
}

// ComponentRegistry is the static table of known component kinds. It maps each kind to a
// name, a constructor producing its default state and a duplication function. Each pool
// carries its own registry so independent simulations do not interfere.
type ComponentRegistry struct {
	byType map[ComponentType]*componentInfo
	byName map[string]*componentInfo
}

type componentInfo struct {
	typ   ComponentType
	name  string
	new   func() any
	clone func(any) (any, error)
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[ComponentType]*componentInfo),
		byName: make(map[string]*componentInfo),
	}
}

type componentConfig[T any] struct {
	name     string
	defaults func() T
	clone    func(*T) (*T, error)
}

// ComponentOption customises a component registration.
type ComponentOption[T any] func(*componentConfig[T])

// WithName overrides the registered name, which defaults to the Go type name.
func WithName[T any](name string) ComponentOption[T] {
	return func(c *componentConfig[T]) { c.name = name }
}

// WithDefaults sets the constructor used for a component's default state.
func WithDefaults[T any](fn func() T) ComponentOption[T] {
	return func(c *componentConfig[T]) { c.defaults = fn }
}

// WithClone sets the duplication function. The default copies the value's fields, which
// is enough for components without reference-typed fields.
func WithClone[T any](fn func(*T) (*T, error)) ComponentOption[T] {
	return func(c *componentConfig[T]) { c.clone = fn }
}

// RegisterComponent registers T with the registry and returns its ComponentType.
// Registering a name twice panics.
func RegisterComponent[T any](r *ComponentRegistry, opts ...ComponentOption[T]) ComponentType {
	typ := TypeFor[T]()
	switch typ.t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}

	cfg := componentConfig[T]{
		name: typ.Name(),
		defaults: func() T {
			var zero T
			return zero
		},
		clone: func(src *T) (*T, error) {
			dup := *src
			return &dup, nil
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if existing, ok := r.byName[cfg.name]; ok && existing.typ != typ {
		panic("component name " + cfg.name + " already registered for " + existing.typ.String())
	}

	info := &componentInfo{
		typ:  typ,
		name: cfg.name,
		new: func() any {
			v := cfg.defaults()
			return &v
		},
		clone: func(component any) (any, error) {
			src, ok := component.(*T)
			if !ok {
				v, ok := component.(T)
				if !ok {
					return nil, fmt.Errorf("%w: %T is not %s", ErrNotCloneable, component, typ)
				}
				src = &v
			}
			dup, err := cfg.clone(src)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrNotCloneable, typ, err)
			}
			return dup, nil
		},
	}
	r.byType[typ] = info
	r.byName[cfg.name] = info
	return typ
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t ComponentType) bool {
	if r == nil {
		return false
	}
	_, ok := r.byType[t]
	return ok
}

// NameOf returns the registered name of t.
func (r *ComponentRegistry) NameOf(t ComponentType) (string, bool) {
	if r == nil {
		return "", false
	}
	info, ok := r.byType[t]
	if !ok {
		return "", false
	}
	return info.name, true
}

// TypeByName returns the ComponentType registered under name.
func (r *ComponentRegistry) TypeByName(name string) (ComponentType, bool) {
	if r == nil {
		return ComponentType{}, false
	}
	info, ok := r.byName[name]
	if !ok {
		return ComponentType{}, false
	}
	return info.typ, true
}

// New returns a pointer to a fresh component in its default state.
func (r *ComponentRegistry) New(name string) (any, error) {
	if r != nil {
		if info, ok := r.byName[name]; ok {
			return info.new(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Clone duplicates component using its registered duplication function.
func (r *ComponentRegistry) Clone(component any) (any, error) {
	typ := TypeOf(component)
	if r != nil {
		if info, ok := r.byType[typ]; ok {
			return info.clone(component)
		}
	}
	return nil, fmt.Errorf("%w: %s is not registered", ErrNotCloneable, typ)
}

// Names returns every registered component name in sorted order.
func (r *ComponentRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
