package ebitenhost

import (
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/stagecs/ecs"
	"github.com/plus3/stagecs/ecs/builtin"
)

// PlaceholderSize is the edge length of the square drawn for appearances without a
// loaded texture.
const PlaceholderSize = 16

// Textures resolves texture names used by Appearance components.
type Textures interface {
	Texture(name string) (*ebiten.Image, bool)
}

// TextureSet is a Textures backed by a map.
type TextureSet map[string]*ebiten.Image

func (t TextureSet) Texture(name string) (*ebiten.Image, bool) {
	img, ok := t[name]
	return img, ok
}

// LoadTextures loads every PNG under dir, keyed by its path relative to dir.
func LoadTextures(dir string) (TextureSet, error) {
	set := make(TextureSet)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		set[filepath.ToSlash(rel)] = img
		return nil
	})
	return set, err
}

// RenderItem is the component set drawn by the render system.
type RenderItem struct {
	*builtin.Transform
	*builtin.Appearance
}

type drawCommand struct {
	transform  builtin.Transform
	appearance builtin.Appearance
}

type spriteRenderer struct {
	Screen ecs.Singleton[Screen]
	Camera ecs.Singleton[builtin.Camera]

	textures   Textures
	background color.Color
	draws      []drawCommand
}

// NewRenderSystem draws every entity with a Transform and an Appearance into the state's
// Screen, ordered by Appearance.LayerDepth and offset by the state's Camera if it has
// one. Register it as a render system.
func NewRenderSystem(pool *ecs.EntityPool, textures Textures, background color.Color) *ecs.ComponentSystem[RenderItem] {
	return ecs.NewSystem[RenderItem](pool, &spriteRenderer{
		textures:   textures,
		background: background,
	})
}

func (r *spriteRenderer) SystemName() string { return "RenderSystem" }

func (r *spriteRenderer) PreProcess(frame *ecs.UpdateFrame) {
	r.draws = r.draws[:0]
}

func (r *spriteRenderer) Process(frame *ecs.UpdateFrame, item RenderItem) {
	r.draws = append(r.draws, drawCommand{
		transform:  *item.Transform,
		appearance: *item.Appearance,
	})
}

func (r *spriteRenderer) PostProcess(frame *ecs.UpdateFrame) {
	screen := r.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	if r.background != nil {
		screen.Image.Fill(r.background)
	}

	var offset builtin.Vec2
	if camera := r.Camera.Get(); camera != nil {
		offset = camera.Offset()
	}

	sortDraws(r.draws)
	for i := range r.draws {
		r.draw(screen.Image, &r.draws[i], offset)
	}
}

func (r *spriteRenderer) draw(screen *ebiten.Image, cmd *drawCommand, offset builtin.Vec2) {
	var texture *ebiten.Image
	if r.textures != nil && cmd.appearance.Texture != "" {
		texture, _ = r.textures.Texture(cmd.appearance.Texture)
	}

	if texture == nil {
		scale := cmd.transform.Scale.Mul(cmd.appearance.Scale)
		pos := cmd.transform.Position.Add(cmd.appearance.Position).Add(offset)
		w := float32(PlaceholderSize * scale.X)
		h := float32(PlaceholderSize * scale.Y)
		vector.DrawFilledRect(screen, float32(pos.X)-w/2, float32(pos.Y)-h/2, w, h, cmd.appearance.Color, false)
		return
	}

	if src := cmd.appearance.Source; src != nil && !src.Empty() {
		texture = texture.SubImage(image.Rect(src.X, src.Y, src.X+src.Width, src.Y+src.Height)).(*ebiten.Image)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM = spriteGeoM(cmd.transform, cmd.appearance, offset)
	opts.ColorScale.ScaleWithColor(cmd.appearance.Color)
	opts.Filter = ebiten.FilterLinear
	screen.DrawImage(texture, opts)
}

// sortDraws orders draws by layer depth. Draws on the same layer keep query order.
func sortDraws(draws []drawCommand) {
	sort.SliceStable(draws, func(i, j int) bool {
		return draws[i].appearance.LayerDepth < draws[j].appearance.LayerDepth
	})
}

// spriteGeoM builds the sprite transform: origin, flip, scale, rotation, then translation
// to the screen position.
func spriteGeoM(t builtin.Transform, a builtin.Appearance, offset builtin.Vec2) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-a.Origin.X, -a.Origin.Y)

	scale := t.Scale.Mul(a.Scale)
	if a.FlipX {
		scale.X = -scale.X
	}
	if a.FlipY {
		scale.Y = -scale.Y
	}
	m.Scale(scale.X, scale.Y)

	angle := 0.0
	if t.Rotation != (builtin.Vec2{}) {
		angle += t.Rotation.Angle()
	}
	if a.Rotation != (builtin.Vec2{}) {
		angle += a.Rotation.Angle()
	}
	m.Rotate(angle)

	pos := t.Position.Add(a.Position).Add(offset)
	m.Translate(pos.X, pos.Y)
	return m
}
