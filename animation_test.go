package o2

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/tanema/gween/ease"
)

// dummy is an animation target with plain fields and one property.
type dummy struct {
	X     float64
	Pos   Vec2
	A, B  float64
	alpha float64
	sets  int

	fields FieldTable
}

func newDummy() *dummy {
	p := &dummy{}
	p.fields.Register("x", Field(&p.X))
	p.fields.Register("pos", Field(&p.Pos))
	p.fields.Register("sub.a", Field(&p.A))
	p.fields.Register("sub.b", Field(&p.B))
	p.fields.Register("alpha", Property(
		func() float64 { return p.alpha },
		func(v float64) { p.alpha = v; p.sets++ },
	))
	return p
}

func (p *dummy) AnimatedField(path string) (FieldRef, bool) { return p.fields.AnimatedField(path) }
func (p *dummy) AnimatedPaths() []string                    { return p.fields.Paths() }

// floatCurve builds a linear float value from (time, value) pairs.
func floatCurve(pairs ...[2]float64) *AnimatedValue[float64] {
	v := NewFloatValue()
	for _, kv := range pairs {
		v.AddKey(kv[0], kv[1], EaseLinear)
	}
	return v
}

// captureLog routes Logger into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { Logger = prev })
	return &buf
}

// --- AnimatedValue ---

func TestAnimatedValueKeysSorted(t *testing.T) {
	v := NewFloatValue()
	if i := v.AddKey(2, 20, EaseLinear); i != 0 {
		t.Errorf("first key index = %d", i)
	}
	if i := v.AddKey(0, 0, EaseLinear); i != 0 {
		t.Errorf("earlier key index = %d, want 0", i)
	}
	if i := v.AddKey(1, 10, EaseLinear); i != 1 {
		t.Errorf("middle key index = %d, want 1", i)
	}
	if i := v.AddKey(1, 15, EaseLinear); i != 1 || v.KeyCount() != 3 {
		t.Errorf("same-time key should replace: index %d, count %d", i, v.KeyCount())
	}
	keys := v.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1].Time >= keys[i].Time {
			t.Fatalf("keys out of order: %+v", keys)
		}
	}
	assertNear(t, "duration", v.Duration(), 2)
}

func TestAnimatedValueScrubbing(t *testing.T) {
	v := floatCurve([2]float64{0, 0}, [2]float64{1, 10}, [2]float64{2, 0})
	var out float64
	v.SetTarget(&out)

	steps := []struct{ t, want float64 }{
		{0.5, 5},
		{1.5, 5},
		{0.25, 2.5},
		{2, 0},
		{1, 10},
		{-1, 0},
		{0.75, 7.5},
	}
	for _, s := range steps {
		v.ForceSetTime(s.t, v.Duration())
		assertNear(t, "value", out, s.want)
		assertNear(t, "Value()", v.Value(), s.want)
	}
}

func TestAnimatedValueClampsToDuration(t *testing.T) {
	v := floatCurve([2]float64{0, 0}, [2]float64{2, 8})
	v.ForceSetTime(5, 2)
	assertNear(t, "time", v.Time(), 2)
	assertNear(t, "value", v.Value(), 8)
}

func TestAnimatedValueWithoutKeys(t *testing.T) {
	v := NewFloatValue()
	out := 3.0
	v.SetTarget(&out)
	v.ForceSetTime(1, 0)
	if out != 3 {
		t.Errorf("empty value wrote %v", out)
	}
	if v.Evaluate(1) != 0 {
		t.Error("empty value should evaluate to zero")
	}
}

func TestAnimatedValueEasing(t *testing.T) {
	tests := []struct {
		name string
		ease KeyEase
		want float64
		eps  float64
	}{
		{"linear", EaseLinear, 5, epsilon},
		{"in quad", EaseFunc(ease.InQuad), 2.5, 1e-6},
		{"step", KeyEase{Step: true}, 0, epsilon},
		{"bezier linear", EaseBezier(0.25, 0.25, 0.75, 0.75), 5, 1e-5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFloatValue()
			v.AddKey(0, 0, tt.ease)
			v.AddKey(1, 10, EaseLinear)
			if got := v.Evaluate(0.5); math.Abs(got-tt.want) > tt.eps {
				t.Errorf("Evaluate(0.5) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	c := CubicBezier{0.42, 0, 0.58, 1}
	assertNear(t, "start", c.Eval(0), 0)
	assertNear(t, "end", c.Eval(1), 1)
	if mid := c.Eval(0.5); math.Abs(mid-0.5) > 1e-5 {
		t.Errorf("symmetric curve at 0.5 = %v", mid)
	}
	if c.Eval(0.2) >= 0.2 {
		t.Error("ease-in-out should start slow")
	}
}

func TestAnimatedValueRemoveKeys(t *testing.T) {
	v := floatCurve([2]float64{0, 0}, [2]float64{1, 1}, [2]float64{3, 2})
	var durations []float64
	v.OnKeysChanged(func(d float64) { durations = append(durations, d) })

	if !v.RemoveKeyAt(3) {
		t.Fatal("RemoveKeyAt(3) failed")
	}
	if v.RemoveKey(5) {
		t.Error("RemoveKey out of range should fail")
	}
	v.RemoveAllKeys()
	if len(durations) != 2 || durations[0] != 1 || durations[1] != 0 {
		t.Errorf("duration notifications = %v", durations)
	}
}

func TestAnimatedValueCloneIsDeep(t *testing.T) {
	v := NewFloatValue()
	v.AddKey(0, 0, EaseBezier(0.1, 0.2, 0.3, 0.4))
	v.AddKey(1, 1, EaseLinear)
	var out float64
	v.SetTarget(&out)

	c := v.Clone()
	if c.IsBound() {
		t.Error("clone should be unbound")
	}
	c.AddKey(2, 5, EaseLinear)
	if v.KeyCount() != 2 {
		t.Error("editing the clone changed the source")
	}
	if c.keys[0].Ease.Bezier == v.keys[0].Ease.Bezier {
		t.Error("bezier control points are shared")
	}
}

func TestAnimatedValueSetter(t *testing.T) {
	v := floatCurve([2]float64{0, 1}, [2]float64{1, 3})
	var got []float64
	v.SetTargetSetter(func(x float64) { got = append(got, x) })
	v.ForceSetTime(0.5, 1)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("setter calls = %v", got)
	}
}

func TestValueOpsInterpolate(t *testing.T) {
	c := ColorOps{}.Lerp(Color{0, 0, 0, 0}, Color{1, 1, 1, 1}, 0.25)
	assertNear(t, "color", c.R, 0.25)
	r := RectOps{}.Lerp(Rect{0, 0, 10, 10}, Rect{10, 10, 30, 30}, 0.5)
	assertRect(t, "rect", r, Rect{5, 5, 20, 20}, epsilon)
	p := Vec2Ops{}.Lerp(Vec2{}, Vec2{4, 8}, 0.5)
	assertVec(t, "vec", p, Vec2{2, 4}, epsilon)
}

// --- Animation ---

func TestAnimationBindsPaths(t *testing.T) {
	target := newDummy()
	anim := NewAnimation()
	x := anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
	alpha := anim.AddValue("alpha", floatCurve([2]float64{0, 0}, [2]float64{1, 1}))
	anim.SetTarget(target, true)

	if !x.IsBound() || !alpha.IsBound() {
		t.Fatal("known paths should bind")
	}
	anim.SetTime(0.5)
	assertNear(t, "x", target.X, 5)
	assertNear(t, "alpha", target.alpha, 0.5)
	if target.sets != 1 {
		t.Errorf("property setter called %d times, want 1", target.sets)
	}
}

func TestAnimationSetTargetReportsUnknownPaths(t *testing.T) {
	buf := captureLog(t)
	target := newDummy()
	anim := NewAnimation()
	missing := anim.AddValue("nope", floatCurve([2]float64{0, 1}))
	mismatched := anim.AddValue("x", NewVec2Value())

	anim.SetTarget(target, false)
	if buf.Len() != 0 {
		t.Errorf("errors=false should not log, got %q", buf.String())
	}
	anim.SetTarget(target, true)
	if missing.IsBound() || mismatched.IsBound() {
		t.Error("unresolvable paths should stay unbound")
	}
	if !strings.Contains(buf.String(), "nope") {
		t.Errorf("missing path not logged: %q", buf.String())
	}
}

func TestAnimationNilTargetUnbinds(t *testing.T) {
	target := newDummy()
	anim := NewAnimation()
	anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
	anim.SetTarget(target, true)
	anim.SetTime(1)
	anim.SetTarget(nil, true)
	anim.SetTime(0)
	assertNear(t, "x after unbind", target.X, 10)
}

func TestAnimationDurationGrowsWithKeys(t *testing.T) {
	target := newDummy()
	anim := NewAnimation()
	anim.SetTarget(target, true)
	x := AnimateField(anim, "x", FloatOps{})
	pos := AnimateField(anim, "pos", Vec2Ops{})

	for _, tm := range []float64{0.5, 1, 2.5, 4} {
		x.AddKey(tm, tm, EaseLinear)
		assertNear(t, "duration", anim.Duration(), tm)
	}
	pos.AddKey(6, Vec2{}, EaseLinear)
	assertNear(t, "duration from pos", anim.Duration(), 6)

	anim.RemoveValue("pos")
	assertNear(t, "after removing pos", anim.Duration(), 4)
	anim.RemoveValue("x")
	assertNear(t, "after removing all", anim.Duration(), 0)
}

func TestAnimationClearResetsDuration(t *testing.T) {
	anim := NewAnimation()
	anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{3, 1}))
	anim.Clear()
	assertNear(t, "duration", anim.Duration(), 0)
	if len(anim.Values()) != 0 {
		t.Error("Clear left values behind")
	}
}

func TestAnimationDurationChangeFiresOnlyOnChange(t *testing.T) {
	anim := NewAnimation()
	x := NewFloatValue()
	anim.AddValue("x", x)

	var fired []float64
	anim.OnDurationChange(func(d float64) { fired = append(fired, d) })

	x.AddKey(0, 0, EaseLinear)
	x.AddKey(2, 1, EaseLinear)
	x.AddKey(1, 5, EaseLinear)
	x.AddKey(1, 6, EaseLinear)
	anim.RecalculateDuration()

	if len(fired) != 1 || fired[0] != 2 {
		t.Errorf("duration changes = %v, want [2]", fired)
	}
}

func TestAnimationEndTimeTracksDuration(t *testing.T) {
	anim := NewAnimation()
	x := floatCurve([2]float64{0, 0}, [2]float64{1, 1})
	anim.AddValue("x", x)
	assertNear(t, "end", anim.EndTime(), 1)

	x.AddKey(2, 2, EaseLinear)
	assertNear(t, "end follows", anim.EndTime(), 2)

	anim.SetEndTime(0.5)
	x.AddKey(3, 3, EaseLinear)
	assertNear(t, "pinned end", anim.EndTime(), 0.5)
}

func TestAnimateFieldTypes(t *testing.T) {
	anim := NewAnimation()
	x := AnimateField(anim, "x", FloatOps{})
	if again := AnimateField(anim, "x", FloatOps{}); again != x {
		t.Error("AnimateField should return the existing value")
	}
	if other := AnimateField(anim, "x", Vec2Ops{}); other != nil {
		t.Error("AnimateField with another type should return nil")
	}
	if v, ok := ValueAs[float64](anim, "x"); !ok || v != x {
		t.Error("ValueAs should find the float value")
	}
	if _, ok := ValueAs[Vec2](anim, "x"); ok {
		t.Error("ValueAs with the wrong type should fail")
	}
	if _, ok := anim.Value("missing"); ok {
		t.Error("Value on a missing path should fail")
	}
}

func TestAnimationPlayback(t *testing.T) {
	tests := []struct {
		name     string
		loop     LoopMode
		speed    float64
		start    float64
		dt       float64
		wantX    float64
		playing  bool
		complete int
	}{
		{"forward", LoopNone, 1, 0, 0.5, 5, true, 0},
		{"finish", LoopNone, 1, 0, 1.5, 10, false, 1},
		{"repeat", LoopRepeat, 1, 0, 1.25, 2.5, true, 0},
		{"ping pong", LoopPingPong, 1, 0, 1.25, 7.5, true, 0},
		{"backward", LoopNone, -1, 1, 0.25, 7.5, true, 0},
		{"backward finish", LoopNone, -1, 1, 2, 0, false, 1},
		{"double speed", LoopNone, 2, 0, 0.25, 5, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newDummy()
			anim := NewAnimation()
			anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
			anim.SetTarget(target, true)
			anim.Loop = tt.loop
			anim.Speed = tt.speed
			anim.SetTime(tt.start)

			completed := 0
			anim.OnComplete(func(*Animation) { completed++ })
			anim.Play()
			anim.Update(tt.dt)

			assertNear(t, "x", target.X, tt.wantX)
			if anim.IsPlaying() != tt.playing {
				t.Errorf("playing = %v, want %v", anim.IsPlaying(), tt.playing)
			}
			if completed != tt.complete {
				t.Errorf("complete fired %d times, want %d", completed, tt.complete)
			}
		})
	}
}

func TestAnimationReplayAfterFinish(t *testing.T) {
	anim := NewAnimation()
	anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
	anim.Play()
	anim.Update(2)
	if anim.IsPlaying() {
		t.Fatal("animation should have finished")
	}
	anim.Play()
	assertNear(t, "restarted time", anim.Time(), 0)

	anim.Stop()
	anim.Update(0.5)
	assertNear(t, "stopped time", anim.Time(), 0)
}

func TestAnimationCloneRebinds(t *testing.T) {
	target := newDummy()
	anim := NewAnimation()
	anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
	anim.SetTarget(target, true)

	c := anim.Clone()
	if c.Target() != target {
		t.Fatal("clone should keep the target")
	}
	for _, d := range c.Values() {
		if !d.IsBound() || !d.Value.IsBound() {
			t.Fatalf("clone value %q not bound", d.Path)
		}
	}
	c.SetTime(0.5)
	assertNear(t, "written by clone", target.X, 5)

	cx, _ := ValueAs[float64](c, "x")
	cx.AddKey(4, 40, EaseLinear)
	assertNear(t, "clone duration", c.Duration(), 4)
	assertNear(t, "source duration", anim.Duration(), 1)

	ox, _ := ValueAs[float64](anim, "x")
	if ox == cx {
		t.Error("clone shares its value with the source")
	}
}

func TestAnimationCloneWithoutTarget(t *testing.T) {
	anim := NewAnimation()
	anim.AddValue("x", floatCurve([2]float64{0, 0}, [2]float64{1, 10}))
	c := anim.Clone()
	if c.Target() != nil || c.Values()[0].Value.IsBound() {
		t.Error("clone of an unbound animation should be unbound")
	}
}

// --- events ---

func TestEventSubscribeRemove(t *testing.T) {
	var e Event[int]
	var got []int
	h1 := e.Subscribe(func(v int) { got = append(got, v) })
	e.Subscribe(func(v int) { got = append(got, v*10) })
	e.Emit(1)
	h1.Remove()
	h1.Remove()
	e.Emit(2)
	if len(got) != 3 || got[0] != 1 || got[1] != 10 || got[2] != 20 {
		t.Errorf("got %v", got)
	}
	if e.Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Len())
	}
	CallbackHandle{}.Remove()
}

func TestEventRemoveDuringEmit(t *testing.T) {
	var e Event[int]
	calls := 0
	var h CallbackHandle
	h = e.Subscribe(func(int) { calls++; h.Remove() })
	e.Subscribe(func(int) { calls++ })
	e.Emit(0)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	e.Emit(0)
	if calls != 3 {
		t.Errorf("calls after removal = %d, want 3", calls)
	}
}

func TestEaseByName(t *testing.T) {
	if _, ok := EaseByName("outQuad"); !ok {
		t.Error("outQuad should be known")
	}
	if fn, ok := EaseByName("wobble"); ok || fn == nil {
		t.Error("unknown names should fall back to linear and report false")
	}
}
