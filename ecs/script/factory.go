// Package script populates entity pools from Lua scripts.
//
// A script builds entities with the functions installed in its environment:
//
//	local id = spawn("ship", {
//	    Transform = { position = { x = 10, y = 20 }, rotation = { x = 1, y = 0 } },
//	    Motion = { speed = 120 },
//	})
//	instantiate("rock", { Transform = { position = { x = 300 } } })
//	log("spawned " .. id)
//
// Component tables are keyed by registered component name and decoded like asset files,
// so fields that are left out keep the registered defaults.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/asset"
)

// Factory is an ecs.Factory backed by a Lua script. Every Craft runs the script in a
// fresh Lua state.
type Factory struct {
	name    string
	path    string
	source  string
	library *asset.Library
	log     *zap.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for the script's log function and for errors.
func WithLogger(log *zap.Logger) Option {
	return func(f *Factory) { f.log = log }
}

// WithLibrary makes the prototypes of lib available to the script's instantiate function.
func WithLibrary(lib *asset.Library) Option {
	return func(f *Factory) { f.library = lib }
}

// NewFileFactory creates a factory running the script at path.
func NewFileFactory(path string, opts ...Option) *Factory {
	return newFactory(&Factory{name: path, path: path}, opts)
}

// NewFactory creates a factory running source. name is used in errors and logs.
func NewFactory(name, source string, opts ...Option) *Factory {
	return newFactory(&Factory{name: name, source: source}, opts)
}

func newFactory(f *Factory, opts []Option) *Factory {
	f.log = zap.NewNop()
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the script name.
func (f *Factory) Name() string { return f.name }

// Craft runs the script against pool. Entities it creates are associated with pool and
// become visible on the pool's next tick.
func (f *Factory) Craft(pool *ecs.EntityPool) error {
	vm := lua.NewState()
	defer vm.Close()

	env := &environment{factory: f, pool: pool}
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("spawn", vm.NewFunction(env.spawn))
	vm.SetGlobal("instantiate", vm.NewFunction(env.instantiate))
	vm.SetGlobal("log", vm.NewFunction(env.logMessage))

	var err error
	if f.path != "" {
		err = vm.DoFile(f.path)
	} else {
		err = vm.DoString(f.source)
	}
	if err != nil {
		f.log.Error("lua script failed", zap.String("script", f.name), zap.Error(err))
		return fmt.Errorf("run script %s: %w", f.name, err)
	}

	f.log.Debug("lua script executed", zap.String("script", f.name), zap.Int("spawned", env.spawned))
	return nil
}

type environment struct {
	factory *Factory
	pool    *ecs.EntityPool
	spawned int
}

// spawn(name, components) creates an entity and returns its id.
func (env *environment) spawn(L *lua.LState) int {
	name := L.CheckString(1)
	components := L.OptTable(2, L.NewTable())

	e := env.pool.NewEntity(name)
	if err := env.applyComponents(e, components); err != nil {
		L.RaiseError("spawn %s: %v", name, err)
		return 0
	}
	e.Associate(env.pool)
	env.spawned++

	L.Push(lua.LNumber(e.Id()))
	return 1
}

// instantiate(prototype, overrides) clones a library prototype, applies the overrides and
// returns the new entity's id.
func (env *environment) instantiate(L *lua.LState) int {
	name := L.CheckString(1)
	overrides := L.OptTable(2, L.NewTable())

	lib := env.factory.library
	if lib == nil {
		L.RaiseError("instantiate %s: no prototype library configured", name)
		return 0
	}
	e, ok := lib.Get(name)
	if !ok {
		L.RaiseError("instantiate %s: unknown prototype", name)
		return 0
	}
	if err := env.applyComponents(e, overrides); err != nil {
		L.RaiseError("instantiate %s: %v", name, err)
		return 0
	}
	e.Associate(env.pool)
	env.spawned++

	L.Push(lua.LNumber(e.Id()))
	return 1
}

func (env *environment) logMessage(L *lua.LState) int {
	env.factory.log.Info(L.CheckString(1), zap.String("script", env.factory.name))
	return 0
}

// applyComponents stages one component per entry of table. Components the entity already
// holds are decoded over the committed value, so prototype fields survive overrides.
func (env *environment) applyComponents(e *ecs.Entity, table *lua.LTable) error {
	registry := env.pool.Registry()

	var err error
	table.ForEach(func(key, value lua.LValue) {
		if err != nil {
			return
		}
		compName := key.String()

		var component any
		if t, ok := registry.TypeByName(compName); ok {
			if existing, ok := e.Component(t); ok {
				component, err = registry.Clone(existing)
				if err != nil {
					return
				}
			}
		}
		if component == nil {
			component, err = registry.New(compName)
			if err != nil {
				return
			}
		}

		if err = decodeInto(value, component); err != nil {
			err = fmt.Errorf("decode %s: %w", compName, err)
			return
		}
		e.AddComponent(component)
	})
	return err
}

// decodeInto converts a Lua value to plain Go values and decodes them into target
// through YAML, the same way asset files are decoded.
func decodeInto(value lua.LValue, target any) error {
	raw, err := yaml.Marshal(toGo(value))
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, target)
}

func toGo(value lua.LValue) any {
	switch v := value.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if n := v.MaxN(); n > 0 {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, toGo(v.RawGetInt(i)))
			}
			return list
		}
		m := make(map[string]any)
		v.ForEach(func(key, value lua.LValue) {
			m[key.String()] = toGo(value)
		})
		return m
	default:
		return nil
	}
}
