package o2

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera position.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is an editor view: it maps world coordinates (where handles live)
// onto the screen area given by Viewport. Bind a DragHandle to it to make
// the handle follow panning and zooming.
type Camera struct {
	// Position is the world point shown at the viewport center.
	Position Vec2
	// Zoom is the scale factor (1 = no zoom, >1 = zoom in).
	Zoom float64
	// Rotation is the view rotation in radians, counter-clockwise.
	Rotation float64
	// Viewport is the screen rectangle the camera renders into.
	Viewport Rect

	// BoundsEnabled clamps Position so the visible area stays inside
	// Bounds.
	BoundsEnabled bool
	Bounds        Rect

	view    Basis
	invView Basis
	dirty   bool

	scroll *scrollAnim
}

// NewCamera creates a camera centered on the viewport with zoom 1.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Position: viewport.Center(),
		Zoom:     1,
		Viewport: viewport,
		dirty:    true,
	}
}

// ScrollTo animates Position to p over duration seconds. A nil easeFn is
// linear.
func (c *Camera) ScrollTo(p Vec2, duration float64, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	if duration <= 0 {
		c.scroll = nil
		c.Position = p
		c.MarkDirty()
		return
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.Position.X), float32(p.X), float32(duration), easeFn),
		tweenY: gween.New(float32(c.Position.Y), float32(p.Y), float32(duration), easeFn),
	}
}

// IsScrolling reports whether a ScrollTo is running.
func (c *Camera) IsScrolling() bool {
	return c.scroll != nil
}

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ZoomAt changes the zoom while keeping the world point under screen point
// p fixed.
func (c *Camera) ZoomAt(p Vec2, zoom float64) {
	if zoom <= 0 {
		return
	}
	before := c.ScreenToWorld(p)
	c.Zoom = zoom
	c.MarkDirty()
	after := c.ScreenToWorld(p)
	c.Position = c.Position.Add(before.Sub(after))
	c.MarkDirty()
}

// Update advances scrolling and bounds clamping.
func (c *Camera) Update(dt float64) {
	prevPos, prevZoom, prevRot := c.Position, c.Zoom, c.Rotation

	if c.scroll != nil {
		if !c.scroll.doneX {
			v, done := c.scroll.tweenX.Update(float32(dt))
			c.Position.X = float64(v)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			v, done := c.scroll.tweenY.Update(float32(dt))
			c.Position.Y = float64(v)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}

	if c.Position != prevPos || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

func (c *Camera) clampToBounds() {
	half := c.Viewport.Size().Scale(0.5 / c.Zoom)
	lo := c.Bounds.LeftBottom().Add(half)
	hi := c.Bounds.RightTop().Sub(half)

	// Bounds smaller than the visible area center the camera.
	if lo.X > hi.X {
		c.Position.X = c.Bounds.Center().X
	} else {
		c.Position.X = clamp(c.Position.X, lo.X, hi.X)
	}
	if lo.Y > hi.Y {
		c.Position.Y = c.Bounds.Center().Y
	} else {
		c.Position.Y = clamp(c.Position.Y, lo.Y, hi.Y)
	}
}

// View returns the world to screen basis.
//
//	view = Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-position)
func (c *Camera) View() Basis {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	z := c.Zoom
	xv := Vec2{z, 0}.Rotate(-c.Rotation)
	yv := Vec2{0, z}.Rotate(-c.Rotation)
	scaleRot := Basis{XV: xv, YV: yv}
	origin := c.Viewport.Center().Sub(scaleRot.TransformVector(c.Position))

	c.view = Basis{Origin: origin, XV: xv, YV: yv}
	c.invView = c.view.Inverted()
	return c.view
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return c.View().Transform(p)
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	c.View()
	return c.invView.Transform(p)
}

// VisibleBounds returns the world-space bounds of the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.View()
	corners := [4]Vec2{
		c.Viewport.LeftBottom(),
		{c.Viewport.Right, c.Viewport.Bottom},
		c.Viewport.RightTop(),
		{c.Viewport.Left, c.Viewport.Top},
	}
	p := c.invView.Transform(corners[0])
	r := Rect{p.X, p.Y, p.X, p.Y}
	for _, s := range corners[1:] {
		p = c.invView.Transform(s)
		r.Left = math.Min(r.Left, p.X)
		r.Bottom = math.Min(r.Bottom, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Top = math.Max(r.Top, p.Y)
	}
	return r
}

// MarkDirty forces the view basis to be recomputed.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// Bind makes h live in the camera's world space: cursor positions are
// mapped through ScreenToWorld and the handle is drawn at WorldToScreen.
func (c *Camera) Bind(h Handle) {
	d := h.base()
	d.ScreenToLocal = c.ScreenToWorld
	d.LocalToScreen = c.WorldToScreen
	d.updateScreenPosition()
}
