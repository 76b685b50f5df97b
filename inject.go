package o2

// syntheticCursorEvent represents a single injected cursor event. Positions
// are in UI coordinates (Y up), the same space handles and widgets use.
type syntheticCursorEvent struct {
	cursor  int
	pos     Vec2
	pressed bool
	button  MouseButton
	mods    KeyModifiers
}

// InjectPress queues a left-button press at p. The event is consumed on the
// next frame's input pass.
func (s *Scene) InjectPress(p Vec2, mods KeyModifiers) {
	s.inject(p, true, mods)
}

// InjectMove queues a cursor move to p with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(p Vec2, mods KeyModifiers) {
	s.inject(p, true, mods)
}

// InjectHover queues a cursor move to p with no button held.
func (s *Scene) InjectHover(p Vec2) {
	s.inject(p, false, 0)
}

// InjectRelease queues a left-button release at p.
func (s *Scene) InjectRelease(p Vec2, mods KeyModifiers) {
	s.inject(p, false, mods)
}

// InjectClick queues a press followed by a release at p. Consumes two
// frames.
func (s *Scene) InjectClick(p Vec2, mods KeyModifiers) {
	s.InjectPress(p, mods)
	s.InjectRelease(p, mods)
}

// InjectDrag queues a full drag: press at from, frames-2 linearly
// interpolated moves ending at to, and release at to. Minimum frames is 2,
// which is a press and a release with no move in between.
func (s *Scene) InjectDrag(from, to Vec2, frames int, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(from, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.InjectMove(from.Add(to.Sub(from).Scale(t)), mods)
	}
	s.InjectRelease(to, mods)
}

// PendingInjections reports how many injected events are still queued.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

func (s *Scene) inject(p Vec2, pressed bool, mods KeyModifiers) {
	s.injectQueue = append(s.injectQueue, syntheticCursorEvent{
		pos:     p,
		pressed: pressed,
		button:  MouseButtonLeft,
		mods:    mods,
	})
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the cursor state machine. Returns true if an event was consumed,
// in which case real input is skipped this frame.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.input.ProcessCursor(evt.cursor, evt.pos, evt.pressed, evt.button, evt.mods)
	return true
}
