package builtin

import "github.com/plus3/stagecs/ecs"

// MotionItem is the component set moved by MotionSystem.
type MotionItem struct {
	*Transform
	*Motion
}

type motionProcessor struct{}

func (motionProcessor) Process(frame *ecs.UpdateFrame, item MotionItem) {
	step := item.Transform.Rotation.Scale(item.Motion.Speed * frame.DeltaTime)
	item.Transform.Position = item.Transform.Position.Add(step)
}

func (motionProcessor) SystemName() string { return "MotionSystem" }

// NewMotionSystem moves every entity with a Transform and a Motion along its rotation.
func NewMotionSystem(pool *ecs.EntityPool) *ecs.ComponentSystem[MotionItem] {
	return ecs.NewSystem[MotionItem](pool, motionProcessor{})
}

// AnimationSystem advances sprite sheet animations and points each Appearance at the
// current tile.
type AnimationSystem struct {
	Animated ecs.Query[struct {
		*Appearance
		*Animation
	}]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	ms := frame.DeltaTime * 1000

	for item := range s.Animated.Iter() {
		anim := item.Animation
		if !anim.Paused {
			anim.Elapsed += ms
			if anim.Elapsed >= anim.Speed {
				anim.Elapsed -= anim.Speed
				anim.X++
				if anim.X > anim.MaxX {
					anim.X = anim.MinX
				}
			}
		}

		item.Appearance.Source = &Rect{
			X:      anim.Width * anim.X,
			Y:      anim.Height * anim.Y,
			Width:  anim.Width,
			Height: anim.Height,
		}
	}
}

// CursorSource reports the cursor position in screen coordinates.
type CursorSource interface {
	CursorPosition() Vec2
}

// FixedCursor is a CursorSource that always reports the same position.
type FixedCursor Vec2

func (c FixedCursor) CursorPosition() Vec2 { return Vec2(c) }

// MouseRotationSystem turns entities with a MouseRotation towards the cursor.
type MouseRotationSystem struct {
	Cursor CursorSource

	Rotated ecs.Query[struct {
		*Transform
		*MouseRotation
	}]
}

func (s *MouseRotationSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Cursor == nil {
		return
	}
	cursor := s.Cursor.CursorPosition()

	for item := range s.Rotated.Iter() {
		item.Transform.Rotation = cursor.Sub(item.MouseRotation.RotationPoint).Normalize()
	}
}
