package o2

import (
	"math"
	"sort"
)

// keyTimeEps is the distance below which two key times are the same key.
const keyTimeEps = 1e-6

// Key is one keyframe of an animated value. Ease shapes the segment that
// starts at this key.
type Key[T any] struct {
	Time  float64
	Value T
	Ease  KeyEase
}

// IAnimatedValue is the type-erased view of an AnimatedValue that Animation
// and Animatable work with.
type IAnimatedValue interface {
	// Duration returns the time of the last key.
	Duration() float64
	// Time returns the time last passed to ForceSetTime.
	Time() float64
	// ForceSetTime evaluates the value at t and writes it to the bound sink.
	ForceSetTime(t, duration float64)
	// OnKeysChanged subscribes to key edits. The payload is the new duration.
	OnKeysChanged(fn func(duration float64)) CallbackHandle
	// CloneValue returns a deep copy with the same keys and no binding.
	CloneValue() IAnimatedValue
	// IsBound reports whether the value writes to a target.
	IsBound() bool

	bindRef(ref FieldRef) bool
	unbind()
	regInAnimatable(state *AnimationState, path string)
	unregFromAnimatable(state *AnimationState, path string)
}

// AnimatedValue is a keyframed time series of T. Keys are kept sorted by
// time; evaluation at any time (forward or backward) interpolates the
// bracketing pair.
type AnimatedValue[T any] struct {
	keys     []Key[T]
	ops      Interpolator[T]
	value    T
	time     float64
	sink     ValueSink[T]
	lastSeg  int
	keysEdit Event[float64]
}

// NewAnimatedValue creates an empty animated value using ops for arithmetic.
func NewAnimatedValue[T any](ops Interpolator[T]) *AnimatedValue[T] {
	return &AnimatedValue[T]{ops: ops}
}

// AddKey inserts a key, replacing any key at the same time, and returns its
// index.
func (v *AnimatedValue[T]) AddKey(time float64, value T, ease KeyEase) int {
	idx := v.insertKey(Key[T]{Time: time, Value: value, Ease: ease})
	v.onKeysChanged()
	return idx
}

// AddKeys inserts several keys and notifies once.
func (v *AnimatedValue[T]) AddKeys(keys ...Key[T]) {
	for _, k := range keys {
		v.insertKey(k)
	}
	v.onKeysChanged()
}

// SetKeys replaces every key.
func (v *AnimatedValue[T]) SetKeys(keys []Key[T]) {
	v.keys = v.keys[:0]
	for _, k := range keys {
		v.insertKey(k)
	}
	v.onKeysChanged()
}

func (v *AnimatedValue[T]) insertKey(k Key[T]) int {
	i := sort.Search(len(v.keys), func(i int) bool { return v.keys[i].Time >= k.Time-keyTimeEps })
	if i < len(v.keys) && math.Abs(v.keys[i].Time-k.Time) <= keyTimeEps {
		v.keys[i] = k
		return i
	}
	v.keys = append(v.keys, Key[T]{})
	copy(v.keys[i+1:], v.keys[i:])
	v.keys[i] = k
	return i
}

// RemoveKey deletes the key at index i. Returns false when i is out of range.
func (v *AnimatedValue[T]) RemoveKey(i int) bool {
	if i < 0 || i >= len(v.keys) {
		return false
	}
	v.keys = append(v.keys[:i], v.keys[i+1:]...)
	v.onKeysChanged()
	return true
}

// RemoveKeyAt deletes the key at the given time, if any.
func (v *AnimatedValue[T]) RemoveKeyAt(time float64) bool {
	for i := range v.keys {
		if math.Abs(v.keys[i].Time-time) <= keyTimeEps {
			return v.RemoveKey(i)
		}
	}
	return false
}

// RemoveAllKeys deletes every key.
func (v *AnimatedValue[T]) RemoveAllKeys() {
	v.keys = v.keys[:0]
	v.onKeysChanged()
}

// Keys returns a copy of the key list.
func (v *AnimatedValue[T]) Keys() []Key[T] {
	out := make([]Key[T], len(v.keys))
	copy(out, v.keys)
	return out
}

// KeyCount returns the number of keys.
func (v *AnimatedValue[T]) KeyCount() int {
	return len(v.keys)
}

// Duration returns the time of the last key, or 0 with no keys.
func (v *AnimatedValue[T]) Duration() float64 {
	if len(v.keys) == 0 {
		return 0
	}
	return v.keys[len(v.keys)-1].Time
}

// Time returns the time last passed to ForceSetTime.
func (v *AnimatedValue[T]) Time() float64 {
	return v.time
}

// Value returns the value computed by the last ForceSetTime.
func (v *AnimatedValue[T]) Value() T {
	return v.value
}

// ForceSetTime evaluates the value at t and writes it to the bound sink.
// t may move in either direction. A positive duration clamps t to it.
// A value with no keys neither changes nor writes.
func (v *AnimatedValue[T]) ForceSetTime(t, duration float64) {
	if duration > 0 && t > duration {
		t = duration
	}
	v.time = t
	if len(v.keys) == 0 {
		return
	}
	v.value = v.evaluate(t)
	if v.sink != nil {
		v.sink.Write(v.value)
	}
}

// Evaluate returns the interpolated value at t without storing or writing it.
func (v *AnimatedValue[T]) Evaluate(t float64) T {
	if len(v.keys) == 0 {
		var zero T
		return zero
	}
	return v.evaluate(t)
}

func (v *AnimatedValue[T]) evaluate(t float64) T {
	n := len(v.keys)
	if n == 1 || t <= v.keys[0].Time {
		return v.keys[0].Value
	}
	if t >= v.keys[n-1].Time {
		return v.keys[n-1].Value
	}

	seg := v.segment(t)
	k0, k1 := v.keys[seg], v.keys[seg+1]
	span := k1.Time - k0.Time
	if span <= 0 {
		return k1.Value
	}
	u := k0.Ease.Apply((t - k0.Time) / span)
	return v.ops.Lerp(k0.Value, k1.Value, u)
}

// segment returns i such that keys[i].Time <= t < keys[i+1].Time. The last
// segment is checked first so sequential playback stays O(1).
func (v *AnimatedValue[T]) segment(t float64) int {
	n := len(v.keys)
	if s := v.lastSeg; s >= 0 && s < n-1 && v.keys[s].Time <= t && t < v.keys[s+1].Time {
		return s
	}
	i := sort.Search(n, func(i int) bool { return v.keys[i].Time > t })
	v.lastSeg = i - 1
	return v.lastSeg
}

// SetTarget binds the value to a plain field.
func (v *AnimatedValue[T]) SetTarget(p *T) {
	if p == nil {
		v.sink = nil
		return
	}
	v.sink = fieldSink[T]{ptr: p}
}

// SetTargetSetter binds the value to a property setter.
func (v *AnimatedValue[T]) SetTargetSetter(set func(T)) {
	if set == nil {
		v.sink = nil
		return
	}
	v.sink = setterSink[T]{set: set}
}

// IsBound reports whether the value writes to a target.
func (v *AnimatedValue[T]) IsBound() bool {
	return v.sink != nil
}

// OnKeysChanged subscribes to key edits. The payload is the new duration.
func (v *AnimatedValue[T]) OnKeysChanged(fn func(duration float64)) CallbackHandle {
	return v.keysEdit.Subscribe(fn)
}

func (v *AnimatedValue[T]) onKeysChanged() {
	v.lastSeg = 0
	v.keysEdit.Emit(v.Duration())
}

// Clone returns a deep copy with the same keys, no binding and no subscribers.
func (v *AnimatedValue[T]) Clone() *AnimatedValue[T] {
	c := &AnimatedValue[T]{
		keys:  make([]Key[T], len(v.keys)),
		ops:   v.ops,
		value: v.value,
		time:  v.time,
	}
	copy(c.keys, v.keys)
	for i := range c.keys {
		if b := c.keys[i].Ease.Bezier; b != nil {
			bc := *b
			c.keys[i].Ease.Bezier = &bc
		}
	}
	return c
}

// CloneValue implements IAnimatedValue.
func (v *AnimatedValue[T]) CloneValue() IAnimatedValue {
	return v.Clone()
}

func (v *AnimatedValue[T]) bindRef(ref FieldRef) bool {
	sink, ok := bindSink[T](ref)
	if !ok {
		v.sink = nil
		return false
	}
	v.sink = sink
	return true
}

func (v *AnimatedValue[T]) unbind() {
	v.sink = nil
}

func (v *AnimatedValue[T]) regInAnimatable(state *AnimationState, path string) {
	if state == nil || state.owner == nil {
		return
	}
	regAnimatedValue(state.owner, v, path, state)
}

func (v *AnimatedValue[T]) unregFromAnimatable(state *AnimationState, path string) {
	if state == nil || state.owner == nil {
		return
	}
	state.owner.unregAnimatedValue(v, path, state)
}
