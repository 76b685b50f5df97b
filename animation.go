package o2

import "math"

// LoopMode controls what an Animation does when its time leaves the
// [begin, end] range.
type LoopMode uint8

const (
	// LoopNone stops at the range edge and fires OnComplete.
	LoopNone LoopMode = iota
	// LoopRepeat wraps back to the opposite edge.
	LoopRepeat
	// LoopPingPong reverses direction at each edge.
	LoopPingPong
)

// AnimatedValueDef binds one animated value to a dotted field path on the
// animation's target. Identity is the Value pointer.
type AnimatedValueDef struct {
	Path  string
	Value IAnimatedValue

	bound bool
	keys  CallbackHandle
}

// IsBound reports whether the last SetTarget resolved Path.
func (d *AnimatedValueDef) IsBound() bool {
	return d.bound
}

// Animation is a bundle of animated values bound to paths on a target object.
// Its duration is the longest value duration. Evaluate pushes the current
// time into every value, which writes through to the target.
//
// Inside an Animatable an animation belongs to an AnimationState; its values
// are then read by the blend agents instead of writing to the target directly.
type Animation struct {
	// Speed scales dt in Update. Negative speeds play backward.
	Speed float64
	// Loop selects the behavior at the range edges.
	Loop LoopMode

	values []*AnimatedValueDef
	target Target
	state  *AnimationState

	time           float64
	inDurationTime float64
	duration       float64
	beginTime      float64
	endTime        float64
	playing        bool

	durationChange Event[float64]
	complete       Event[*Animation]
}

// NewAnimation creates an empty animation with Speed 1 and no target.
func NewAnimation() *Animation {
	return &Animation{Speed: 1}
}

// SetTarget resolves every value path against target and binds each value
// to the returned field or property. Paths that cannot be resolved are left
// unbound; with errors set a warning is logged for each. A nil target
// unbinds everything.
func (a *Animation) SetTarget(target Target, errors bool) {
	a.target = target
	for _, def := range a.values {
		a.bindDef(def, errors)
	}
}

// Target returns the current target, or nil.
func (a *Animation) Target() Target {
	return a.target
}

func (a *Animation) bindDef(def *AnimatedValueDef, errors bool) {
	def.bound = false
	if a.target == nil {
		def.Value.unbind()
		return
	}
	ref, ok := a.target.AnimatedField(def.Path)
	if !ok || !ref.IsValid() {
		def.Value.unbind()
		if errors {
			Logger.Warn("o2: can't find field for animating", "path", def.Path)
		}
		return
	}
	if !def.Value.bindRef(ref) {
		if errors {
			Logger.Warn("o2: animated value type does not match field", "path", def.Path)
		}
		return
	}
	def.bound = true
}

// AddValue adds v under path and returns its definition. An existing value
// at the same path is replaced.
func (a *Animation) AddValue(path string, v IAnimatedValue) *AnimatedValueDef {
	if v == nil {
		panic("o2: AddValue with nil value")
	}
	a.removeDef(path)

	def := &AnimatedValueDef{Path: path, Value: v}
	def.keys = v.OnKeysChanged(func(float64) {
		a.RecalculateDuration()
		if a.state != nil {
			v.ForceSetTime(a.inDurationTime, 0)
		}
	})
	a.values = append(a.values, def)

	if a.target != nil {
		a.bindDef(def, true)
	}
	if a.state != nil {
		v.regInAnimatable(a.state, path)
	}
	a.RecalculateDuration()
	return def
}

// AnimateField returns the value at path, creating an empty one with ops when
// the path is new. It returns nil when path already holds a value of another
// type.
func AnimateField[T any](a *Animation, path string, ops Interpolator[T]) *AnimatedValue[T] {
	if def := a.def(path); def != nil {
		v, _ := def.Value.(*AnimatedValue[T])
		return v
	}
	v := NewAnimatedValue(ops)
	a.AddValue(path, v)
	return v
}

// ValueAs returns the value at path when it has type T.
func ValueAs[T any](a *Animation, path string) (*AnimatedValue[T], bool) {
	def := a.def(path)
	if def == nil {
		return nil, false
	}
	v, ok := def.Value.(*AnimatedValue[T])
	return v, ok
}

// Value returns the value at path.
func (a *Animation) Value(path string) (IAnimatedValue, bool) {
	if def := a.def(path); def != nil {
		return def.Value, true
	}
	return nil, false
}

// Values returns the value definitions in insertion order. The slice is a
// copy; the definitions are shared.
func (a *Animation) Values() []*AnimatedValueDef {
	out := make([]*AnimatedValueDef, len(a.values))
	copy(out, a.values)
	return out
}

func (a *Animation) def(path string) *AnimatedValueDef {
	for _, d := range a.values {
		if d.Path == path {
			return d
		}
	}
	return nil
}

// RemoveValue deletes the value at path. Returns false when there is none.
func (a *Animation) RemoveValue(path string) bool {
	if !a.removeDef(path) {
		return false
	}
	a.RecalculateDuration()
	return true
}

func (a *Animation) removeDef(path string) bool {
	for i, d := range a.values {
		if d.Path != path {
			continue
		}
		a.releaseDef(d)
		a.values = append(a.values[:i], a.values[i+1:]...)
		return true
	}
	return false
}

func (a *Animation) releaseDef(d *AnimatedValueDef) {
	d.keys.Remove()
	d.Value.unbind()
	d.bound = false
	if a.state != nil {
		d.Value.unregFromAnimatable(a.state, d.Path)
	}
}

// Clear removes every value. The duration becomes 0.
func (a *Animation) Clear() {
	for _, d := range a.values {
		a.releaseDef(d)
	}
	a.values = nil
	a.RecalculateDuration()
}

// Duration returns the longest value duration.
func (a *Animation) Duration() float64 {
	return a.duration
}

// RecalculateDuration recomputes the duration from the values and fires
// OnDurationChange only when it actually changed. An end time that tracked
// the old duration follows the new one.
func (a *Animation) RecalculateDuration() {
	last := a.duration
	a.duration = 0
	for _, d := range a.values {
		a.duration = math.Max(a.duration, d.Value.Duration())
	}
	if nearlyEqual(last, a.endTime) {
		a.endTime = a.duration
	}
	if !nearlyEqual(last, a.duration) {
		a.durationChange.Emit(a.duration)
	}
}

// OnDurationChange subscribes to duration changes.
func (a *Animation) OnDurationChange(fn func(duration float64)) CallbackHandle {
	return a.durationChange.Subscribe(fn)
}

// OnComplete subscribes to the end of non-looping playback.
func (a *Animation) OnComplete(fn func(*Animation)) CallbackHandle {
	return a.complete.Subscribe(fn)
}

// Evaluate pushes the current in-range time to every value.
func (a *Animation) Evaluate() {
	for _, d := range a.values {
		d.Value.ForceSetTime(a.inDurationTime, a.duration)
	}
}

// BeginTime returns the start of the playback range.
func (a *Animation) BeginTime() float64 { return a.beginTime }

// EndTime returns the end of the playback range.
func (a *Animation) EndTime() float64 { return a.endTime }

// SetBeginTime sets the start of the playback range.
func (a *Animation) SetBeginTime(t float64) {
	a.beginTime = t
}

// SetEndTime sets the end of the playback range. Setting it to the duration
// makes it follow future duration changes again.
func (a *Animation) SetEndTime(t float64) {
	a.endTime = t
}

// Time returns the unwrapped playback time.
func (a *Animation) Time() float64 { return a.time }

// InDurationTime returns the playback time mapped into [begin, end].
func (a *Animation) InDurationTime() float64 { return a.inDurationTime }

// SetTime jumps to t and evaluates. Works in either direction.
func (a *Animation) SetTime(t float64) {
	a.time = t
	a.inDurationTime = a.wrapTime(t)
	a.Evaluate()
}

// GoToBegin jumps to the begin time.
func (a *Animation) GoToBegin() { a.SetTime(a.beginTime) }

// GoToEnd jumps to the end time.
func (a *Animation) GoToEnd() { a.SetTime(a.endTime) }

// Play starts playback. A finished non-looping animation restarts from the
// edge it started at.
func (a *Animation) Play() {
	if a.Loop == LoopNone {
		if a.Speed >= 0 && a.time >= a.endTime {
			a.time = a.beginTime
		} else if a.Speed < 0 && a.time <= a.beginTime {
			a.time = a.endTime
		}
		a.inDurationTime = a.wrapTime(a.time)
	}
	a.playing = true
}

// Stop pauses playback at the current time.
func (a *Animation) Stop() {
	a.playing = false
}

// IsPlaying reports whether Update advances time.
func (a *Animation) IsPlaying() bool {
	return a.playing
}

// Update advances time by dt*Speed while playing and evaluates.
func (a *Animation) Update(dt float64) {
	if !a.playing {
		return
	}
	a.time += dt * a.Speed

	finished := false
	if a.Loop == LoopNone {
		if a.Speed >= 0 && a.time >= a.endTime {
			a.time = a.endTime
			finished = true
		} else if a.Speed < 0 && a.time <= a.beginTime {
			a.time = a.beginTime
			finished = true
		}
	}
	a.inDurationTime = a.wrapTime(a.time)
	a.Evaluate()

	if finished {
		a.playing = false
		a.complete.Emit(a)
	}
}

// wrapTime maps an unwrapped time into [begin, end] according to Loop.
func (a *Animation) wrapTime(t float64) float64 {
	span := a.endTime - a.beginTime
	if span <= 0 {
		return a.beginTime
	}
	switch a.Loop {
	case LoopRepeat:
		p := math.Mod(t-a.beginTime, span)
		if p < 0 {
			p += span
		}
		return a.beginTime + p
	case LoopPingPong:
		p := math.Mod(t-a.beginTime, 2*span)
		if p < 0 {
			p += 2 * span
		}
		if p > span {
			p = 2*span - p
		}
		return a.beginTime + p
	default:
		return clamp(t, a.beginTime, a.endTime)
	}
}

// Clone returns an independent copy: every value is deep-cloned and, when
// the source has a target, rebound against it immediately. Subscribers and
// the animation state are not copied.
func (a *Animation) Clone() *Animation {
	c := &Animation{
		Speed:          a.Speed,
		Loop:           a.Loop,
		time:           a.time,
		inDurationTime: a.inDurationTime,
		beginTime:      a.beginTime,
		endTime:        a.endTime,
		playing:        a.playing,
	}
	for _, d := range a.values {
		cd := &AnimatedValueDef{Path: d.Path, Value: d.Value.CloneValue()}
		cd.keys = cd.Value.OnKeysChanged(func(float64) { c.RecalculateDuration() })
		c.values = append(c.values, cd)
	}
	c.duration = a.duration
	if a.target != nil {
		c.SetTarget(a.target, true)
	}
	return c
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}
