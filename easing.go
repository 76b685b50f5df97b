package o2

import (
	"math"

	"github.com/tanema/gween/ease"
)

// CubicBezier is a timing curve through (0,0) and (1,1) with two control
// points, the same shape as a curve key's left and right supports.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// Eval returns the curve's y for a given progress x in [0, 1].
func (c CubicBezier) Eval(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	s := c.solveX(x)
	return bezierCoord(s, c.Y1, c.Y2)
}

// solveX finds the curve parameter whose x coordinate is x. Newton steps
// first, bisection when the derivative vanishes.
func (c CubicBezier) solveX(x float64) float64 {
	s := x
	for i := 0; i < 8; i++ {
		err := bezierCoord(s, c.X1, c.X2) - x
		if math.Abs(err) < 1e-7 {
			return s
		}
		d := bezierSlope(s, c.X1, c.X2)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= err / d
	}

	lo, hi := 0.0, 1.0
	s = x
	for i := 0; i < 32; i++ {
		v := bezierCoord(s, c.X1, c.X2)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

func bezierCoord(s, p1, p2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*s*p1 + 3*inv*s*s*p2 + s*s*s
}

func bezierSlope(s, p1, p2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*p1 + 6*inv*s*(p2-p1) + 3*s*s*(1-p2)
}

// KeyEase is the interpolation control stored on a key. It shapes the
// segment from that key to the next one. Func takes precedence over Bezier;
// with neither set the segment is linear.
type KeyEase struct {
	Func   ease.TweenFunc
	Bezier *CubicBezier
	// Step holds the key's value until the next key.
	Step bool
}

// Apply maps linear progress t in [0, 1] to eased progress.
func (e KeyEase) Apply(t float64) float64 {
	switch {
	case e.Step:
		if t >= 1 {
			return 1
		}
		return 0
	case e.Func != nil:
		return float64(e.Func(float32(t), 0, 1, 1))
	case e.Bezier != nil:
		return e.Bezier.Eval(t)
	default:
		return t
	}
}

// EaseLinear is the default key interpolation.
var EaseLinear = KeyEase{}

// EaseFunc wraps a gween easing function as key control data.
func EaseFunc(fn ease.TweenFunc) KeyEase {
	return KeyEase{Func: fn}
}

// EaseBezier uses a cubic-bezier timing curve as key control data.
func EaseBezier(x1, y1, x2, y2 float64) KeyEase {
	return KeyEase{Bezier: &CubicBezier{x1, y1, x2, y2}}
}

var easeByName = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"outBounce":    ease.OutBounce,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
}

// EaseByName returns the gween easing function registered under name, or
// ease.Linear and false when the name is unknown.
func EaseByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easeByName[name]
	if !ok {
		return ease.Linear, false
	}
	return fn, true
}
