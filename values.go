package o2

// Interpolator supplies the arithmetic an animated value type needs: key
// interpolation (Lerp) and weighted blending (Add, Scale).
type Interpolator[T any] interface {
	Lerp(a, b T, t float64) T
	Add(a, b T) T
	Scale(v T, k float64) T
}

// FloatOps animates float64 values.
type FloatOps struct{}

func (FloatOps) Lerp(a, b float64, t float64) float64 { return a + (b-a)*t }
func (FloatOps) Add(a, b float64) float64             { return a + b }
func (FloatOps) Scale(v float64, k float64) float64   { return v * k }

// Vec2Ops animates Vec2 values component-wise.
type Vec2Ops struct{}

func (Vec2Ops) Lerp(a, b Vec2, t float64) Vec2 { return a.Add(b.Sub(a).Scale(t)) }
func (Vec2Ops) Add(a, b Vec2) Vec2             { return a.Add(b) }
func (Vec2Ops) Scale(v Vec2, k float64) Vec2   { return v.Scale(k) }

// ColorOps animates Color values component-wise, alpha included.
type ColorOps struct{}

func (ColorOps) Lerp(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func (ColorOps) Add(a, b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B, a.A + b.A}
}

func (ColorOps) Scale(v Color, k float64) Color {
	return Color{v.R * k, v.G * k, v.B * k, v.A * k}
}

// RectOps animates Rect values edge by edge.
type RectOps struct{}

func (RectOps) Lerp(a, b Rect, t float64) Rect {
	return Rect{
		Left:   a.Left + (b.Left-a.Left)*t,
		Bottom: a.Bottom + (b.Bottom-a.Bottom)*t,
		Right:  a.Right + (b.Right-a.Right)*t,
		Top:    a.Top + (b.Top-a.Top)*t,
	}
}

func (RectOps) Add(a, b Rect) Rect {
	return Rect{a.Left + b.Left, a.Bottom + b.Bottom, a.Right + b.Right, a.Top + b.Top}
}

func (RectOps) Scale(v Rect, k float64) Rect {
	return Rect{v.Left * k, v.Bottom * k, v.Right * k, v.Top * k}
}

// NewFloatValue creates an empty animated float64.
func NewFloatValue() *AnimatedValue[float64] { return NewAnimatedValue[float64](FloatOps{}) }

// NewVec2Value creates an empty animated Vec2.
func NewVec2Value() *AnimatedValue[Vec2] { return NewAnimatedValue[Vec2](Vec2Ops{}) }

// NewColorValue creates an empty animated Color.
func NewColorValue() *AnimatedValue[Color] { return NewAnimatedValue[Color](ColorOps{}) }

// NewRectValue creates an empty animated Rect.
func NewRectValue() *AnimatedValue[Rect] { return NewAnimatedValue[Rect](RectOps{}) }
