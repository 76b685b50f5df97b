package o2

import "math"

// singularEps is the determinant magnitude below which a basis is treated
// as degenerate.
const singularEps = 1e-12

// Basis is an affine 2D frame: an origin and two basis vectors. XV and YV
// need not be orthogonal or unit length; together they encode scale,
// rotation and shear.
//
// Transforming the unit-square point (u, v) yields Origin + XV*u + YV*v.
//
//	Matrix layout:
//	| XV.X  YV.X  Origin.X |
//	| XV.Y  YV.Y  Origin.Y |
//	|  0     0       1     |
type Basis struct {
	Origin Vec2
	XV     Vec2
	YV     Vec2
}

// IdentityBasis maps every point to itself.
var IdentityBasis = Basis{XV: Vec2{1, 0}, YV: Vec2{0, 1}}

// NewBasis creates a basis from its origin and axis vectors.
func NewBasis(origin, xv, yv Vec2) Basis {
	return Basis{Origin: origin, XV: xv, YV: yv}
}

// RectBasis returns the basis that maps the unit square onto r.
func RectBasis(r Rect) Basis {
	return Basis{
		Origin: r.LeftBottom(),
		XV:     Vec2{r.Width(), 0},
		YV:     Vec2{0, r.Height()},
	}
}

// BuildBasis composes a basis from a position, a size (axis lengths), a
// rotation in radians and a horizontal shear factor.
//
// Composition order:
//
//	Scale(size) -> Shear(shear) -> Rotate(angle) -> Translate(position)
func BuildBasis(position, size Vec2, angle, shear float64) Basis {
	xv := Vec2{size.X, 0}
	yv := Vec2{shear * size.Y, size.Y}
	return Basis{
		Origin: position,
		XV:     xv.Rotate(angle),
		YV:     yv.Rotate(angle),
	}
}

// Transform maps a point through the basis.
func (b Basis) Transform(p Vec2) Vec2 {
	return Vec2{
		b.Origin.X + b.XV.X*p.X + b.YV.X*p.Y,
		b.Origin.Y + b.XV.Y*p.X + b.YV.Y*p.Y,
	}
}

// TransformVector maps a direction through the basis, ignoring the origin.
func (b Basis) TransformVector(v Vec2) Vec2 {
	return Vec2{b.XV.X*v.X + b.YV.X*v.Y, b.XV.Y*v.X + b.YV.Y*v.Y}
}

// Mul composes two bases: result = b * other, so that
// b.Mul(other).Transform(p) == b.Transform(other.Transform(p)).
func (b Basis) Mul(other Basis) Basis {
	return Basis{
		Origin: b.Transform(other.Origin),
		XV:     b.TransformVector(other.XV),
		YV:     b.TransformVector(other.YV),
	}
}

// Determinant returns the signed area scale of the basis.
func (b Basis) Determinant() float64 {
	return b.XV.X*b.YV.Y - b.YV.X*b.XV.Y
}

// Inverted returns the inverse basis.
// Returns IdentityBasis if the basis is singular (determinant ≈ 0).
func (b Basis) Inverted() Basis {
	det := b.Determinant()
	if det > -singularEps && det < singularEps {
		return IdentityBasis
	}
	invDet := 1.0 / det
	xv := Vec2{b.YV.Y * invDet, -b.XV.Y * invDet}
	yv := Vec2{-b.YV.X * invDet, b.XV.X * invDet}
	inv := Basis{XV: xv, YV: yv}
	o := inv.TransformVector(b.Origin)
	inv.Origin = Vec2{-o.X, -o.Y}
	return inv
}

// IsSingular reports whether the basis cannot be inverted.
func (b Basis) IsSingular() bool {
	det := b.Determinant()
	return det > -singularEps && det < singularEps
}

// Angle returns the rotation of the X axis in radians.
func (b Basis) Angle() float64 {
	return math.Atan2(b.XV.Y, b.XV.X)
}

// Scale returns the lengths of both axes.
func (b Basis) Scale() Vec2 {
	return Vec2{b.XV.Length(), b.YV.Length()}
}

// AABB returns the axis-aligned bounds of the transformed unit square.
func (b Basis) AABB() Rect {
	corners := [4]Vec2{
		b.Origin,
		b.Transform(Vec2{1, 0}),
		b.Transform(Vec2{0, 1}),
		b.Transform(Vec2{1, 1}),
	}
	r := Rect{corners[0].X, corners[0].Y, corners[0].X, corners[0].Y}
	for _, c := range corners[1:] {
		r.Left = math.Min(r.Left, c.X)
		r.Bottom = math.Min(r.Bottom, c.Y)
		r.Right = math.Max(r.Right, c.X)
		r.Top = math.Max(r.Top, c.Y)
	}
	return r
}

// Equals reports whether every component of b and o differs by at most eps.
func (b Basis) Equals(o Basis, eps float64) bool {
	return b.Origin.Equals(o.Origin, eps) && b.XV.Equals(o.XV, eps) && b.YV.Equals(o.YV, eps)
}
