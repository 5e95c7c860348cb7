// Package asset loads and saves entity prototypes as YAML documents.
//
// A document names the prototype and lists its components by registered name:
//
//	name: ship
//	components:
//	  Transform:
//	    position: {x: 10, y: 20}
//	  Motion:
//	    speed: 120
//
// Fields that are left out keep the component's registered defaults.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/plus3/stagecs/ecs"
)

// DefaultExtension is the file extension LoadAll looks for unless configured otherwise.
const DefaultExtension = ".entity.yaml"

// ErrDuplicatePrototype is returned when two prototypes are loaded under the same name.
var ErrDuplicatePrototype = errors.New("duplicate prototype")

type document struct {
	Name       string               `yaml:"name"`
	Components map[string]yaml.Node `yaml:"components"`
}

type savedDocument struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

// Library holds loaded entity prototypes. Prototypes are never handed out directly: Get
// returns a fresh clone each time.
type Library struct {
	registry  *ecs.ComponentRegistry
	dir       string
	extension string
	items     map[string]*ecs.Entity
	log       *zap.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithExtension sets the file extension LoadAll looks for.
func WithExtension(ext string) Option {
	return func(l *Library) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l.extension = ext
	}
}

// NewLibrary creates an empty library reading from dir. Components are decoded through
// registry, so every component named in a document must be registered there.
func NewLibrary(registry *ecs.ComponentRegistry, dir string, opts ...Option) *Library {
	l := &Library{
		registry:  registry,
		dir:       dir,
		extension: DefaultExtension,
		items:     make(map[string]*ecs.Entity),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the directory LoadAll reads.
func (l *Library) Dir() string { return l.dir }

// Load reads the prototype at path and stores it under name, replacing any prototype
// already loaded under that name. The name in the document is ignored.
func (l *Library) Load(name, path string) (*ecs.Entity, error) {
	e, err := l.decodeFile(name, path)
	if err != nil {
		return nil, err
	}
	l.items[name] = e
	l.log.Debug("prototype loaded",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("components", e.ComponentCount()))
	return e, nil
}

// LoadFile loads the prototype at path under the name found in the document, or under
// the file name without its extension if the document has none.
func (l *Library) LoadFile(path string) (*ecs.Entity, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	name := doc.Name
	if name == "" {
		name = l.nameFromPath(path)
	}
	e, err := l.build(name, doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.items[name] = e
	return e, nil
}

// LoadAll loads every file under the library directory with the configured extension.
// Loading two prototypes with the same name fails with ErrDuplicatePrototype.
func (l *Library) LoadAll() error {
	loaded := 0
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), l.extension) {
			return nil
		}

		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		name := doc.Name
		if name == "" {
			name = l.nameFromPath(path)
		}
		if _, ok := l.items[name]; ok {
			return fmt.Errorf("%w: %q in %s", ErrDuplicatePrototype, name, path)
		}
		e, err := l.build(name, doc)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		l.items[name] = e
		loaded++
		return nil
	})
	if err != nil {
		return fmt.Errorf("load prototypes from %s: %w", l.dir, err)
	}
	l.log.Info("prototypes loaded", zap.String("dir", l.dir), zap.Int("count", loaded))
	return nil
}

// Get returns a clone of the prototype called name. It returns nil and false when no such
// prototype is loaded or when it cannot be cloned.
func (l *Library) Get(name string) (*ecs.Entity, bool) {
	proto, ok := l.items[name]
	if !ok {
		return nil, false
	}
	e, err := proto.Clone(name)
	if err != nil {
		l.log.Warn("prototype clone failed", zap.String("name", name), zap.Error(err))
		return nil, false
	}
	return e, true
}

// Spawn clones the prototype called name and associates the clone with pool.
func (l *Library) Spawn(pool *ecs.EntityPool, name string) (*ecs.Entity, error) {
	proto, ok := l.items[name]
	if !ok {
		return nil, fmt.Errorf("spawn %q: %w", name, fs.ErrNotExist)
	}
	e, err := proto.Clone(name)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", name, err)
	}
	e.Associate(pool)
	return e, nil
}

// Has reports whether a prototype called name is loaded.
func (l *Library) Has(name string) bool {
	_, ok := l.items[name]
	return ok
}

// Names returns the loaded prototype names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.items))
	for name := range l.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded prototypes.
func (l *Library) Len() int {
	return len(l.items)
}

// Save writes the committed components of e to path. Every component must be registered.
func (l *Library) Save(e *ecs.Entity, path string) error {
	doc := savedDocument{
		Name:       e.Name(),
		Components: make(map[string]any, e.ComponentCount()),
	}
	for _, t := range e.ComponentTypes() {
		name, ok := l.registry.NameOf(t)
		if !ok {
			return fmt.Errorf("save %q: %w: %s", e.Name(), ecs.ErrUnknownComponent, t)
		}
		c, _ := e.Component(t)
		doc.Components[name] = c
	}

	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode %q: %w", e.Name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %q: %w", e.Name(), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("save %q: %w", e.Name(), err)
	}
	l.log.Debug("prototype saved", zap.String("name", e.Name()), zap.String("path", path))
	return nil
}

func (l *Library) nameFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, l.extension) {
		return strings.TrimSuffix(base, l.extension)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (l *Library) decodeFile(name, path string) (*ecs.Entity, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	e, err := l.build(name, doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return e, nil
}

func readDocument(path string) (*document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prototype: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse prototype %s: %w", path, err)
	}
	return &doc, nil
}

// build creates a committed, unassociated prototype from doc.
func (l *Library) build(name string, doc *document) (*ecs.Entity, error) {
	e := ecs.NewEntity(l.registry, name)
	for compName, node := range doc.Components {
		c, err := l.registry.New(compName)
		if err != nil {
			return nil, err
		}
		if err := node.Decode(c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", compName, err)
		}
		e.AddComponent(c)
	}
	// commit without an owner so the prototype holds its components
	e.Tick()
	return e, nil
}
