package builtin

import "github.com/plus3/stagecs/ecs"

// Camera maps world coordinates to the screen. Origin is the screen point the target
// appears at, usually the centre of the window. Without a target the world origin is
// drawn at Origin.
type Camera struct {
	Origin Vec2
	Target *Transform
}

// NewCamera returns a camera centred on a screen of the given size.
func NewCamera(width, height int) Camera {
	return Camera{Origin: Vec2{float64(width) / 2, float64(height) / 2}}
}

// Follow makes the camera track e's Transform. It reports false if e has none.
func (c *Camera) Follow(e *ecs.Entity) bool {
	t, ok := ecs.GetComponent[Transform](e)
	if !ok {
		return false
	}
	c.Target = t
	return true
}

// Offset returns the translation applied to world positions.
func (c *Camera) Offset() Vec2 {
	if c.Target == nil {
		return c.Origin
	}
	return c.Origin.Sub(c.Target.Position)
}

// ToScreen converts a world position to screen coordinates.
func (c *Camera) ToScreen(world Vec2) Vec2 {
	return world.Add(c.Offset())
}
