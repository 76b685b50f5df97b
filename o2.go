package o2

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Vec2 is a 2D vector used for positions, offsets, sizes, anchors and
// directions throughout the API.
type Vec2 struct {
	X, Y float64
}

// Vec2One is the (1, 1) vector.
var Vec2One = Vec2{1, 1}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v multiplied by k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Div returns the component-wise quotient of v and o. Zero components of o
// yield zero instead of Inf.
func (v Vec2) Div(o Vec2) Vec2 {
	var r Vec2
	if o.X != 0 {
		r.X = v.X / o.X
	}
	if o.Y != 0 {
		r.Y = v.Y / o.Y
	}
	return r
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Rotate returns v rotated counter-clockwise by rad radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Floor returns v with both components rounded down.
func (v Vec2) Floor() Vec2 { return Vec2{math.Floor(v.X), math.Floor(v.Y)} }

// Round returns v with both components rounded to the nearest integer.
func (v Vec2) Round() Vec2 { return Vec2{math.Round(v.X), math.Round(v.Y)} }

// Equals reports whether v and o differ by at most eps on each axis.
func (v Vec2) Equals(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Rect is an axis-aligned rectangle. The coordinate system has Y growing
// upward, so Bottom <= Top for a well-formed rectangle.
type Rect struct {
	Left, Bottom, Right, Top float64
}

// NewRect builds a rectangle from its left-bottom and right-top corners.
func NewRect(leftBottom, rightTop Vec2) Rect {
	return Rect{leftBottom.X, leftBottom.Y, rightTop.X, rightTop.Y}
}

// LeftBottom returns the minimum corner.
func (r Rect) LeftBottom() Vec2 { return Vec2{r.Left, r.Bottom} }

// RightTop returns the maximum corner.
func (r Rect) RightTop() Vec2 { return Vec2{r.Right, r.Top} }

// Size returns the width and height of r.
func (r Rect) Size() Vec2 { return Vec2{r.Right - r.Left, r.Top - r.Bottom} }

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Center returns the middle point of r.
func (r Rect) Center() Vec2 { return Vec2{(r.Left + r.Right) / 2, (r.Bottom + r.Top) / 2} }

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right &&
		p.Y >= r.Bottom && p.Y <= r.Top
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.Left <= other.Right &&
		r.Right >= other.Left &&
		r.Bottom <= other.Top &&
		r.Top >= other.Bottom
}

// Moved returns r translated by delta.
func (r Rect) Moved(delta Vec2) Rect {
	return Rect{r.Left + delta.X, r.Bottom + delta.Y, r.Right + delta.X, r.Top + delta.Y}
}

// Shrink returns r with each edge pulled inward by the border.
func (r Rect) Shrink(b Border) Rect {
	return Rect{r.Left + b.Left, r.Bottom + b.Bottom, r.Right - b.Right, r.Top - b.Top}
}

// Equals reports whether every edge of r and o differs by at most eps.
func (r Rect) Equals(o Rect, eps float64) bool {
	return r.LeftBottom().Equals(o.LeftBottom(), eps) && r.RightTop().Equals(o.RightTop(), eps)
}

// Border is a per-edge padding amount.
type Border struct {
	Left, Bottom, Right, Top float64
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// additive reports whether the modifiers request additive selection.
func (m KeyModifiers) additive() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// CursorType is the mouse cursor shape a handle requests while hovered.
type CursorType uint8

const (
	CursorArrow CursorType = iota
	CursorHand
	CursorText
	CursorCrosshair
	CursorSizeEW
	CursorSizeNS
	CursorSizeNESW
	CursorSizeNWSE
	CursorSizeAll
)

// EbitenCursor returns the ebiten cursor shape corresponding to this CursorType.
func (c CursorType) EbitenCursor() ebiten.CursorShapeType {
	switch c {
	case CursorHand:
		return ebiten.CursorShapePointer
	case CursorText:
		return ebiten.CursorShapeText
	case CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case CursorSizeEW:
		return ebiten.CursorShapeEWResize
	case CursorSizeNS:
		return ebiten.CursorShapeNSResize
	case CursorSizeNESW:
		return ebiten.CursorShapeNESWResize
	case CursorSizeNWSE:
		return ebiten.CursorShapeNWSEResize
	case CursorSizeAll:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}

// BaseCorner selects the anchor point used by the Based layout factory.
type BaseCorner uint8

const (
	BaseLeft BaseCorner = iota
	BaseRight
	BaseTop
	BaseBottom
	BaseCenter
	BaseLeftBottom
	BaseLeftTop
	BaseRightBottom
	BaseRightTop
)

// HorAlign is a horizontal alignment for the VerStretch factory.
type HorAlign uint8

const (
	HorAlignLeft HorAlign = iota
	HorAlignMiddle
	HorAlignRight
	HorAlignBoth
)

// VerAlign is a vertical alignment for the HorStretch factory.
type VerAlign uint8

const (
	VerAlignTop VerAlign = iota
	VerAlignMiddle
	VerAlignBottom
	VerAlignBoth
)
