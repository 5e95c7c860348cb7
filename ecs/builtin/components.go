// Package builtin provides the standard 2D components, the systems that drive them and
// a follow camera.
package builtin

import (
	"image/color"

	"github.com/plus3/stagecs/ecs"
)

// Transform places an entity in the world.
type Transform struct {
	Position Vec2 `yaml:"position"`
	// Rotation is a direction vector; MotionSystem moves along it.
	Rotation Vec2 `yaml:"rotation"`
	Scale    Vec2 `yaml:"scale"`
}

// Motion moves an entity along its rotation.
type Motion struct {
	// Speed in pixels per second.
	Speed float64 `yaml:"speed"`
}

// Appearance describes how an entity is drawn.
type Appearance struct {
	Texture  string     `yaml:"texture"`
	Position Vec2       `yaml:"position"`
	Source   *Rect      `yaml:"source,omitempty"`
	Color    color.RGBA `yaml:"color"`
	Rotation Vec2       `yaml:"rotation"`
	Origin   Vec2       `yaml:"origin"`
	Scale    Vec2       `yaml:"scale"`
	FlipX    bool       `yaml:"flip_x"`
	FlipY    bool       `yaml:"flip_y"`
	// LayerDepth orders draws; lower layers are drawn first.
	LayerDepth float64 `yaml:"layer_depth"`
}

// Animation steps through a row of equally sized tiles in a sprite sheet.
type Animation struct {
	X      int  `yaml:"x"`
	Y      int  `yaml:"y"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	MinX   int  `yaml:"min_x"`
	MaxX   int  `yaml:"max_x"`
	Paused bool `yaml:"paused"`
	// Elapsed is the time since the last tile switch, in milliseconds.
	Elapsed float64 `yaml:"elapsed"`
	// Speed is the time each tile is shown, in milliseconds.
	Speed float64 `yaml:"speed"`
}

// MouseRotation turns an entity to face the cursor.
type MouseRotation struct {
	RotationPoint Vec2 `yaml:"rotation_point"`
}

func NewTransform() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

func NewAppearance() Appearance {
	return Appearance{
		Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Scale: Vec2{1, 1},
	}
}

func NewAnimation() Animation {
	return Animation{Width: 64, Height: 64, MaxX: 8, Speed: 100}
}

func NewMouseRotation() MouseRotation {
	return MouseRotation{RotationPoint: Vec2{960, 540}}
}

// Register adds the builtin components to registry under their type names.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent(registry, ecs.WithDefaults(NewTransform))
	ecs.RegisterComponent[Motion](registry)
	ecs.RegisterComponent(registry,
		ecs.WithDefaults(NewAppearance),
		ecs.WithClone(func(src *Appearance) (*Appearance, error) {
			dup := *src
			if src.Source != nil {
				r := *src.Source
				dup.Source = &r
			}
			return &dup, nil
		}),
	)
	ecs.RegisterComponent(registry, ecs.WithDefaults(NewAnimation))
	ecs.RegisterComponent(registry, ecs.WithDefaults(NewMouseRotation))
}
