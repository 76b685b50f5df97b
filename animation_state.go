package o2

import "strings"

// AnimationMask scales how strongly a state affects individual fields.
// Weights are keyed by dotted path; a key also covers every path below it.
type AnimationMask struct {
	Weights map[string]float64
}

// NodeWeight returns the weight of the longest key that is path itself or a
// dotted prefix of it, or 1 when none matches.
func (m AnimationMask) NodeWeight(path string) float64 {
	if len(m.Weights) == 0 {
		return 1
	}
	for p := path; ; {
		if w, ok := m.Weights[p]; ok {
			return w
		}
		i := strings.LastIndexByte(p, '.')
		if i < 0 {
			return 1
		}
		p = p[:i]
	}
}

// SetWeight sets the weight for path and everything below it.
func (m *AnimationMask) SetWeight(path string, w float64) {
	if m.Weights == nil {
		m.Weights = make(map[string]float64)
	}
	m.Weights[path] = w
}

// PathLister is implemented by targets that can enumerate their animatable
// paths. AnimationMask.Check uses it to accept prefix keys.
type PathLister interface {
	AnimatedPaths() []string
}

// Check logs a warning for every mask key that names nothing on target and
// returns the offending keys. Unknown keys are otherwise harmless.
func (m AnimationMask) Check(target Target) []string {
	if target == nil {
		return nil
	}
	var paths []string
	if pl, ok := target.(PathLister); ok {
		paths = pl.AnimatedPaths()
	}

	var bad []string
	for key := range m.Weights {
		if _, ok := target.AnimatedField(key); ok {
			continue
		}
		if hasPathPrefix(paths, key) {
			continue
		}
		Logger.Warn("o2: animation mask names unknown field", "path", key)
		bad = append(bad, key)
	}
	return bad
}

func hasPathPrefix(paths []string, prefix string) bool {
	for _, p := range paths {
		if strings.HasPrefix(p, prefix+".") {
			return true
		}
	}
	return false
}

// AnimationState is one named, independently weighted instance of an
// Animation inside an Animatable.
type AnimationState struct {
	Name string
	Mask AnimationMask
	// Weight is the user-controlled blend weight.
	Weight float64

	animation  *Animation
	workWeight float64
	owner      *Animatable
}

// NewAnimationState creates a state around anim with weight 1.
func NewAnimationState(name string, anim *Animation) *AnimationState {
	if anim == nil {
		anim = NewAnimation()
	}
	return &AnimationState{Name: name, Weight: 1, animation: anim}
}

// Animation returns the played animation.
func (s *AnimationState) Animation() *Animation {
	return s.animation
}

// SetAnimation replaces the played animation. Inside an Animatable the old
// animation's values are unregistered and the new ones registered.
func (s *AnimationState) SetAnimation(anim *Animation) {
	if anim == nil {
		anim = NewAnimation()
	}
	if s.owner != nil {
		s.detach()
	}
	s.animation = anim
	if s.owner != nil {
		s.attach()
	}
}

// WorkWeight returns the playback-driven weight in [0, 1]: 0 while stopped,
// 1 while playing, and ramping during BlendTo.
func (s *AnimationState) WorkWeight() float64 {
	return s.workWeight
}

// Owner returns the Animatable the state belongs to, or nil.
func (s *AnimationState) Owner() *Animatable {
	return s.owner
}

// IsPlaying reports whether the animation is playing.
func (s *AnimationState) IsPlaying() bool {
	return s.animation.IsPlaying()
}

func (s *AnimationState) contribution(path string) float64 {
	return s.Weight * s.workWeight * s.Mask.NodeWeight(path)
}

// attach routes the animation's values through the owner's blend agents.
func (s *AnimationState) attach() {
	anim := s.animation
	anim.state = s
	anim.SetTarget(nil, false)
	for _, d := range anim.values {
		d.Value.regInAnimatable(s, d.Path)
	}
	anim.Evaluate()
}

func (s *AnimationState) detach() {
	anim := s.animation
	for _, d := range anim.values {
		d.Value.unregFromAnimatable(s, d.Path)
	}
	anim.state = nil
}

func (s *AnimationState) update(dt float64) {
	s.animation.Update(dt)
}
