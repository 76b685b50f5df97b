package o2

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// weightSumEps is the total weight below which a blend agent writes nothing.
const weightSumEps = 1e-9

// valueAgent blends every state's value for one field path and writes the
// result to the target.
type valueAgent interface {
	fieldPath() string
	update()
	removeValue(v IAnimatedValue, state *AnimationState)
	isEmpty() bool
}

type agentEntry[T any] struct {
	state *AnimationState
	value *AnimatedValue[T]
}

type typedAgent[T any] struct {
	path    string
	entries []agentEntry[T]
	ops     Interpolator[T]
	sink    ValueSink[T]
}

func (a *typedAgent[T]) fieldPath() string { return a.path }
func (a *typedAgent[T]) isEmpty() bool     { return len(a.entries) == 0 }

func (a *typedAgent[T]) removeValue(v IAnimatedValue, state *AnimationState) {
	for i, e := range a.entries {
		if e.state == state && IAnimatedValue(e.value) == v {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			return
		}
	}
}

// update writes Σ wᵢ·vᵢ / Σ wᵢ. A zero weight sum leaves the field unchanged.
// Values without keys take no part.
func (a *typedAgent[T]) update() {
	if a.sink == nil || len(a.entries) == 0 {
		return
	}
	var (
		sum    T
		wsum   float64
		seeded bool
	)
	for _, e := range a.entries {
		if e.value.KeyCount() == 0 {
			continue
		}
		w := e.state.contribution(a.path)
		if w <= 0 {
			continue
		}
		scaled := a.ops.Scale(e.value.Value(), w)
		if !seeded {
			sum = scaled
			seeded = true
		} else {
			sum = a.ops.Add(sum, scaled)
		}
		wsum += w
	}
	if wsum < weightSumEps {
		return
	}
	a.sink.Write(a.ops.Scale(sum, 1/wsum))
}

// blendState cross-fades from a set of states to one state.
type blendState struct {
	offStates []*AnimationState
	onState   *AnimationState
	tween     *gween.Tween
}

func (b *blendState) active() bool {
	return b.tween != nil
}

// update advances the fade. The tween runs 1 → 0: off states take the
// value, the on state takes its complement.
func (b *blendState) update(dt float64) {
	if b.tween == nil {
		return
	}
	k, done := b.tween.Update(float32(dt))
	coef := clamp01(float64(k))
	if done {
		coef = 0
	}
	for _, s := range b.offStates {
		s.workWeight = coef
	}
	if b.onState != nil {
		b.onState.workWeight = 1 - coef
	}
	if done {
		for _, s := range b.offStates {
			s.animation.Stop()
		}
		b.reset()
	}
}

func (b *blendState) reset() {
	b.offStates = nil
	b.onState = nil
	b.tween = nil
}

func (b *blendState) forget(s *AnimationState) {
	if b.onState == s {
		b.onState = nil
	}
	for i, o := range b.offStates {
		if o == s {
			b.offStates = append(b.offStates[:i], b.offStates[i+1:]...)
			break
		}
	}
}

// Animatable carries several named animation states over one target and
// blends their values per field by weight.
type Animatable struct {
	// BlendEase shapes BlendTo cross-fades. Nil means linear.
	BlendEase ease.TweenFunc

	target Target
	states []*AnimationState
	agents []valueAgent
	blend  blendState
	nextID int
}

// NewAnimatable creates a blend engine writing into target.
func NewAnimatable(target Target) *Animatable {
	return &Animatable{target: target}
}

// Target returns the object the blended values are written to.
func (a *Animatable) Target() Target {
	return a.target
}

// AddState adds state and registers its animation's values.
func (a *Animatable) AddState(state *AnimationState) *AnimationState {
	if state == nil {
		panic("o2: AddState with nil state")
	}
	if state.owner == a {
		return state
	}
	if state.owner != nil {
		state.owner.RemoveState(state)
	}
	state.owner = a
	a.states = append(a.states, state)
	state.attach()
	state.Mask.Check(a.target)
	return state
}

// AddNewState creates a state from a clone of anim and adds it.
func (a *Animatable) AddNewState(name string, anim *Animation, mask AnimationMask, weight float64) *AnimationState {
	s := NewAnimationState(name, cloneOrNew(anim))
	s.Mask = mask
	s.Weight = weight
	return a.AddState(s)
}

func cloneOrNew(anim *Animation) *Animation {
	if anim == nil {
		return NewAnimation()
	}
	return anim.Clone()
}

// RemoveState unregisters state's values and drops it.
func (a *Animatable) RemoveState(state *AnimationState) {
	for i, s := range a.states {
		if s != state {
			continue
		}
		s.detach()
		s.owner = nil
		s.workWeight = 0
		a.blend.forget(s)
		a.states = append(a.states[:i], a.states[i+1:]...)
		return
	}
}

// RemoveStateByName removes the first state called name.
func (a *Animatable) RemoveStateByName(name string) {
	if s := a.State(name); s != nil {
		a.RemoveState(s)
	}
}

// RemoveAllStates removes every state.
func (a *Animatable) RemoveAllStates() {
	for len(a.states) > 0 {
		a.RemoveState(a.states[len(a.states)-1])
	}
	a.blend.reset()
}

// State returns the state called name, or nil.
func (a *Animatable) State(name string) *AnimationState {
	for _, s := range a.states {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// States returns the states in insertion order.
func (a *Animatable) States() []*AnimationState {
	out := make([]*AnimationState, len(a.states))
	copy(out, a.states)
	return out
}

// ensureState returns the state called name, replacing its animation with a
// clone of anim, or creates one. An empty name gets a generated one.
func (a *Animatable) ensureState(anim *Animation, name string) *AnimationState {
	if name == "" {
		a.nextID++
		name = fmt.Sprintf("animation%d", a.nextID)
	}
	if s := a.State(name); s != nil {
		s.SetAnimation(cloneOrNew(anim))
		return s
	}
	return a.AddState(NewAnimationState(name, cloneOrNew(anim)))
}

// PlayAnimation creates or reuses the state called name with a clone of anim
// and plays it.
func (a *Animatable) PlayAnimation(anim *Animation, name string) *AnimationState {
	return a.playState(a.ensureState(anim, name))
}

// Play plays the existing state called name. Returns nil when there is none.
func (a *Animatable) Play(name string) *AnimationState {
	s := a.State(name)
	if s == nil {
		Logger.Warn("o2: can't play unknown animation state", "name", name)
		return nil
	}
	return a.playState(s)
}

func (a *Animatable) playState(s *AnimationState) *AnimationState {
	a.blend.forget(s)
	s.workWeight = 1
	s.animation.Play()
	return s
}

// BlendToAnimation creates or reuses the state called name with a clone of
// anim and cross-fades to it.
func (a *Animatable) BlendToAnimation(anim *Animation, name string, duration float64) *AnimationState {
	return a.BlendToState(a.ensureState(anim, name), duration)
}

// BlendTo cross-fades to the existing state called name. Returns nil when
// there is none.
func (a *Animatable) BlendTo(name string, duration float64) *AnimationState {
	s := a.State(name)
	if s == nil {
		Logger.Warn("o2: can't blend to unknown animation state", "name", name)
		return nil
	}
	return a.BlendToState(s, duration)
}

// BlendToState plays state and fades its work weight in over duration
// seconds while every other contributing state fades out. A non-positive
// duration switches immediately.
func (a *Animatable) BlendToState(state *AnimationState, duration float64) *AnimationState {
	if state.owner != a {
		a.AddState(state)
	}
	a.finishBlend()

	var off []*AnimationState
	for _, s := range a.states {
		if s != state && s.workWeight > 0 {
			off = append(off, s)
		}
	}

	state.animation.Play()
	if duration <= 0 {
		for _, s := range off {
			s.workWeight = 0
			s.animation.Stop()
		}
		state.workWeight = 1
		return state
	}

	fn := a.BlendEase
	if fn == nil {
		fn = ease.Linear
	}
	state.workWeight = 0
	a.blend = blendState{
		offStates: off,
		onState:   state,
		tween:     gween.New(1, 0, float32(duration), fn),
	}
	return state
}

// finishBlend jumps an in-progress cross-fade to its end.
func (a *Animatable) finishBlend() {
	if !a.blend.active() {
		return
	}
	for _, s := range a.blend.offStates {
		s.workWeight = 0
		s.animation.Stop()
	}
	if a.blend.onState != nil {
		a.blend.onState.workWeight = 1
	}
	a.blend.reset()
}

// IsBlending reports whether a BlendTo cross-fade is in progress.
func (a *Animatable) IsBlending() bool {
	return a.blend.active()
}

// Stop stops the state called name. It no longer contributes to blending.
func (a *Animatable) Stop(name string) {
	s := a.State(name)
	if s == nil {
		return
	}
	a.blend.forget(s)
	s.animation.Stop()
	s.workWeight = 0
}

// StopAll stops every state.
func (a *Animatable) StopAll() {
	a.blend.reset()
	for _, s := range a.states {
		s.animation.Stop()
		s.workWeight = 0
	}
}

// Update advances the cross-fade and every state, then writes one blended
// value per animated field. All weights are settled before any field is
// written.
func (a *Animatable) Update(dt float64) {
	a.blend.update(dt)
	for _, s := range a.states {
		s.update(dt)
	}
	for _, ag := range a.agents {
		ag.update()
	}
}

// AgentCount returns the number of animated field paths.
func (a *Animatable) AgentCount() int {
	return len(a.agents)
}

func (a *Animatable) agent(path string) valueAgent {
	for _, ag := range a.agents {
		if ag.fieldPath() == path {
			return ag
		}
	}
	return nil
}

// regAnimatedValue adds (state → v) to the agent for path, creating the agent
// and resolving its field binding on first use. Registering the same pair
// twice is a no-op. v is evaluated at the state's current time so a state
// that is no longer updating still blends a fresh value.
func regAnimatedValue[T any](a *Animatable, v *AnimatedValue[T], path string, state *AnimationState) {
	v.ForceSetTime(state.animation.InDurationTime(), 0)
	if ag := a.agent(path); ag != nil {
		typed, ok := ag.(*typedAgent[T])
		if !ok {
			Logger.Warn("o2: can't work with animated value, type differs from agent", "path", path)
			return
		}
		for i, e := range typed.entries {
			if e.state == state {
				typed.entries[i].value = v
				return
			}
		}
		typed.entries = append(typed.entries, agentEntry[T]{state: state, value: v})
		return
	}

	ag := &typedAgent[T]{
		path:    path,
		entries: []agentEntry[T]{{state: state, value: v}},
		ops:     v.ops,
	}
	a.agents = append(a.agents, ag)

	if a.target == nil {
		return
	}
	ref, ok := a.target.AnimatedField(path)
	if !ok {
		Logger.Warn("o2: can't animate value, field not found", "path", path)
		return
	}
	sink, ok := bindSink[T](ref)
	if !ok {
		Logger.Warn("o2: can't animate value, field type differs", "path", path)
		return
	}
	ag.sink = sink
}

// unregAnimatedValue removes (state → v) from the agent for path and drops
// the agent once it is empty.
func (a *Animatable) unregAnimatedValue(v IAnimatedValue, path string, state *AnimationState) {
	for i, ag := range a.agents {
		if ag.fieldPath() != path {
			continue
		}
		ag.removeValue(v, state)
		if ag.isEmpty() {
			a.agents = append(a.agents[:i], a.agents[i+1:]...)
		}
		return
	}
}
