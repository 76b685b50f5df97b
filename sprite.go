package o2

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var whitePixelImage *ebiten.Image

// whitePixel returns a 1x1 white image used for solid color sprites.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}

// Sprite is an image quad placed in UI coordinates. Position is the pivot
// point; the quad is Size wide and tall and rotated by Angle around it.
type Sprite struct {
	Image        *ebiten.Image // nil draws a solid Color quad
	Position     Vec2
	Size         Vec2
	Pivot        Vec2
	Angle        float64
	Color        Color
	Transparency float64

	fade *gween.Tween
	// fadeTarget is the transparency the running fade ends at.
	fadeTarget float64
}

// NewSprite creates a sprite showing img at the given size, pivoted at its
// center.
func NewSprite(img *ebiten.Image, size Vec2) *Sprite {
	return &Sprite{
		Image:        img,
		Size:         size,
		Pivot:        Vec2{0.5, 0.5},
		Color:        ColorWhite,
		Transparency: 1,
		fadeTarget:   1,
	}
}

// NewColorSprite creates a solid colored sprite.
func NewColorSprite(c Color, size Vec2) *Sprite {
	s := NewSprite(nil, size)
	s.Color = c
	return s
}

// Clone returns a copy of the sprite sharing its image. A running fade is
// not copied.
func (s *Sprite) Clone() *Sprite {
	if s == nil {
		return nil
	}
	c := *s
	c.fade = nil
	c.fadeTarget = s.Transparency
	return &c
}

// Basis returns the sprite's quad as a basis: the unit square maps onto the
// sprite's rotated rectangle.
func (s *Sprite) Basis() Basis {
	origin := s.Position.Sub(s.Pivot.Mul(s.Size).Rotate(s.Angle))
	return BuildBasis(origin, s.Size, s.Angle, 0)
}

// Contains reports whether p lies inside the sprite's rotated rectangle.
func (s *Sprite) Contains(p Vec2) bool {
	b := s.Basis()
	if b.IsSingular() {
		return false
	}
	l := b.Inverted().Transform(p)
	return l.X >= 0 && l.X <= 1 && l.Y >= 0 && l.Y <= 1
}

// FadeTo animates Transparency toward target over duration seconds. A
// duration <= 0 sets it immediately. Asking for the target already being
// faded to does not restart the fade.
func (s *Sprite) FadeTo(target, duration float64) {
	target = clamp01(target)
	if target == s.fadeTarget && (s.fade != nil || s.Transparency == target) {
		return
	}
	s.fadeTarget = target
	if duration <= 0 || s.Transparency == target {
		s.fade = nil
		s.Transparency = target
		return
	}
	s.fade = gween.New(float32(s.Transparency), float32(target), float32(duration), ease.OutQuad)
}

// IsFading reports whether a fade is running.
func (s *Sprite) IsFading() bool {
	return s.fade != nil
}

// Update advances a running fade.
func (s *Sprite) Update(dt float64) {
	if s.fade == nil {
		return
	}
	v, done := s.fade.Update(float32(dt))
	s.Transparency = float64(v)
	if done {
		s.Transparency = s.fadeTarget
		s.fade = nil
	}
}

// Draw renders the sprite onto screen. UI coordinates are flipped into
// ebiten's Y-down space using screenHeight.
func (s *Sprite) Draw(screen *ebiten.Image, screenHeight float64) {
	alpha := s.Color.A * s.Transparency
	if alpha <= 0 || s.Size.X == 0 || s.Size.Y == 0 {
		return
	}
	img := s.Image
	if img == nil {
		img = whitePixel()
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(s.Size.X/w, s.Size.Y/h)
	op.GeoM.Translate(-s.Pivot.X*s.Size.X, -(1-s.Pivot.Y)*s.Size.Y)
	// Y is flipped, so counter-clockwise in UI space is clockwise on screen.
	op.GeoM.Rotate(-s.Angle)
	op.GeoM.Translate(s.Position.X, screenHeight-s.Position.Y)

	// ColorScale is premultiplied.
	op.ColorScale.Scale(float32(s.Color.R*alpha), float32(s.Color.G*alpha), float32(s.Color.B*alpha), float32(alpha))
	screen.DrawImage(img, &op)
}
