package o2

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxCursors = 10 // cursor 0 = mouse, 1-9 = touch

// Cursor is the state delivered with every cursor event. Positions are in
// UI coordinates (Y grows upward).
type Cursor struct {
	ID        int
	Position  Vec2
	Delta     Vec2
	IsPressed bool
	Button    MouseButton
	Modifiers KeyModifiers
}

// CursorListener receives cursor events from an Input dispatcher. Embed
// CursorListenerBase to implement only the events you need.
type CursorListener interface {
	// IsUnderPoint reports whether p hits the listener.
	IsUnderPoint(p Vec2) bool
	// IsInteractable reports whether the listener takes part in hit tests.
	IsInteractable() bool

	OnCursorEnter(c Cursor)
	OnCursorExit(c Cursor)
	OnCursorPressed(c Cursor)
	OnCursorStillDown(c Cursor)
	OnCursorReleased(c Cursor)
	OnCursorReleasedOutside(c Cursor)
	OnCursorPressBreak(c Cursor)
	OnCursorMoved(c Cursor)
}

// CursorListenerBase is a CursorListener whose events do nothing.
type CursorListenerBase struct{}

func (CursorListenerBase) IsUnderPoint(Vec2) bool         { return false }
func (CursorListenerBase) IsInteractable() bool           { return true }
func (CursorListenerBase) OnCursorEnter(Cursor)           {}
func (CursorListenerBase) OnCursorExit(Cursor)            {}
func (CursorListenerBase) OnCursorPressed(Cursor)         {}
func (CursorListenerBase) OnCursorStillDown(Cursor)       {}
func (CursorListenerBase) OnCursorReleased(Cursor)        {}
func (CursorListenerBase) OnCursorReleasedOutside(Cursor) {}
func (CursorListenerBase) OnCursorPressBreak(Cursor)      {}
func (CursorListenerBase) OnCursorMoved(Cursor)           {}

// cursorShaper is implemented by listeners that request a cursor shape while
// hovered.
type cursorShaper interface {
	CursorShape() CursorType
}

type cursorState struct {
	down    bool
	seen    bool
	pos     Vec2
	button  MouseButton
	pressed CursorListener // captured from press until release or break
	hover   CursorListener
}

// Input routes cursor events to registered listeners. Later registrations
// are on top and win hit tests. A pressed listener keeps receiving events
// for that cursor until release.
type Input struct {
	listeners []CursorListener
	cursors   [maxCursors]cursorState

	touchMap     [maxCursors]ebiten.TouchID
	touchUsed    [maxCursors]bool
	prevTouchIDs []ebiten.TouchID
}

// NewInput creates an empty dispatcher.
func NewInput() *Input {
	return &Input{}
}

// Register adds l on top of every listener already registered. Registering
// twice is a no-op.
func (in *Input) Register(l CursorListener) {
	for _, x := range in.listeners {
		if x == l {
			return
		}
	}
	in.listeners = append(in.listeners, l)
}

// Unregister removes l. A press it captured is broken and a cursor over it
// exits, so l is left neither pressed nor hovered.
func (in *Input) Unregister(l CursorListener) {
	for i, x := range in.listeners {
		if x == l {
			copy(in.listeners[i:], in.listeners[i+1:])
			in.listeners[len(in.listeners)-1] = nil
			in.listeners = in.listeners[:len(in.listeners)-1]
			break
		}
	}
	for i := range in.cursors {
		cs := &in.cursors[i]
		if cs.pressed == l {
			cs.pressed = nil
			l.OnCursorPressBreak(in.cursorAt(i))
		}
		if cs.hover == l {
			cs.hover = nil
			l.OnCursorExit(in.cursorAt(i))
		}
	}
}

// Listeners returns the registered listeners bottom to top. The returned
// slice MUST NOT be mutated.
func (in *Input) Listeners() []CursorListener {
	return in.listeners
}

// Pressed returns the listener captured by cursor id, or nil.
func (in *Input) Pressed(id int) CursorListener {
	if id < 0 || id >= maxCursors {
		return nil
	}
	return in.cursors[id].pressed
}

// Hovered returns the listener under cursor id, or nil.
func (in *Input) Hovered(id int) CursorListener {
	if id < 0 || id >= maxCursors {
		return nil
	}
	return in.cursors[id].hover
}

// BreakPress aborts the press held by cursor id. The captured listener gets
// OnCursorPressBreak and no release.
func (in *Input) BreakPress(id int) {
	if id < 0 || id >= maxCursors {
		return
	}
	cs := &in.cursors[id]
	if cs.pressed == nil {
		return
	}
	l := cs.pressed
	cs.pressed = nil
	l.OnCursorPressBreak(in.cursorAt(id))
}

// cursorAt describes cursor id where it was last seen.
func (in *Input) cursorAt(id int) Cursor {
	cs := &in.cursors[id]
	return Cursor{ID: id, Position: cs.pos, IsPressed: cs.down, Button: cs.button}
}

// endCursor retires cursor id: a held press is released where the cursor
// was last seen, the hovered listener gets OnCursorExit and the slot starts
// over with no position history.
func (in *Input) endCursor(id int, mods KeyModifiers) {
	if id < 0 || id >= maxCursors {
		return
	}
	cs := &in.cursors[id]
	if cs.down {
		in.ProcessCursor(id, cs.pos, false, cs.button, mods)
	}
	if cs.hover != nil {
		l := cs.hover
		cs.hover = nil
		l.OnCursorExit(Cursor{ID: id, Position: cs.pos, Modifiers: mods})
	}
	*cs = cursorState{}
}

// CursorShape returns the shape requested by the listener the mouse is
// over or dragging, or CursorArrow.
func (in *Input) CursorShape() CursorType {
	cs := &in.cursors[0]
	l := cs.pressed
	if l == nil {
		l = cs.hover
	}
	if sh, ok := l.(cursorShaper); ok {
		return sh.CursorShape()
	}
	return CursorArrow
}

// hitTest returns the topmost interactable listener under p.
func (in *Input) hitTest(p Vec2) CursorListener {
	for i := len(in.listeners) - 1; i >= 0; i-- {
		l := in.listeners[i]
		if l.IsInteractable() && l.IsUnderPoint(p) {
			return l
		}
	}
	return nil
}

// ProcessCursor runs the cursor state machine for one cursor and one frame.
func (in *Input) ProcessCursor(id int, pos Vec2, pressed bool, button MouseButton, mods KeyModifiers) {
	if id < 0 || id >= maxCursors {
		return
	}
	cs := &in.cursors[id]
	delta := Vec2{}
	if cs.seen {
		delta = pos.Sub(cs.pos)
	}
	if cs.down {
		button = cs.button
	}
	c := Cursor{ID: id, Position: pos, Delta: delta, IsPressed: pressed, Button: button, Modifiers: mods}

	// Fire enter/exit when the hovered listener changes.
	hovered := in.hitTest(pos)
	if hovered != cs.hover {
		if cs.hover != nil {
			cs.hover.OnCursorExit(c)
		}
		if hovered != nil {
			hovered.OnCursorEnter(c)
		}
		cs.hover = hovered
	}

	switch {
	case pressed && !cs.down:
		cs.down = true
		cs.button = button
		cs.pressed = hovered
		if hovered != nil {
			hovered.OnCursorPressed(c)
		}
	case !pressed && cs.down:
		l := cs.pressed
		cs.down = false
		cs.pressed = nil
		if l != nil {
			if l.IsUnderPoint(pos) {
				l.OnCursorReleased(c)
			} else {
				l.OnCursorReleasedOutside(c)
			}
		}
	case pressed && cs.down:
		if cs.pressed != nil {
			cs.pressed.OnCursorStillDown(c)
		}
	default:
		if hovered != nil && delta != (Vec2{}) {
			hovered.OnCursorMoved(c)
		}
	}

	cs.pos = pos
	cs.seen = true
}

// --- ebiten polling ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// screenToUI flips ebiten's Y-down screen coordinates into UI coordinates.
func screenToUI(x, y int, screenHeight float64) Vec2 {
	return Vec2{float64(x), screenHeight - float64(y)}
}

// Poll reads mouse and touch state from ebiten and dispatches it.
func (in *Input) Poll(screenHeight float64) {
	mods := readModifiers()
	in.pollMouse(screenHeight, mods)
	in.pollTouches(screenHeight, mods)
}

func (in *Input) pollMouse(screenHeight float64, mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}
	in.ProcessCursor(0, screenToUI(mx, my, screenHeight), pressed, button, mods)
}

func (in *Input) pollTouches(screenHeight float64, mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var active [maxCursors]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		in.ProcessCursor(slot, screenToUI(tx, ty, screenHeight), true, MouseButtonLeft, mods)
	}

	// Release slots whose touch ended.
	for i := 1; i < maxCursors; i++ {
		if in.touchUsed[i] && !active[i] {
			in.endCursor(i, mods)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a cursor slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *Input) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxCursors; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxCursors; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
