package o2

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// boxListener records the events it receives.
type boxListener struct {
	CursorListenerBase
	area   Rect
	events []string
	off    bool
}

func (b *boxListener) IsUnderPoint(p Vec2) bool { return b.area.Contains(p) }
func (b *boxListener) IsInteractable() bool     { return !b.off }

func (b *boxListener) OnCursorEnter(Cursor)           { b.events = append(b.events, "enter") }
func (b *boxListener) OnCursorExit(Cursor)            { b.events = append(b.events, "exit") }
func (b *boxListener) OnCursorPressed(Cursor)         { b.events = append(b.events, "pressed") }
func (b *boxListener) OnCursorStillDown(Cursor)       { b.events = append(b.events, "down") }
func (b *boxListener) OnCursorReleased(Cursor)        { b.events = append(b.events, "released") }
func (b *boxListener) OnCursorReleasedOutside(Cursor) { b.events = append(b.events, "outside") }
func (b *boxListener) OnCursorPressBreak(Cursor)      { b.events = append(b.events, "break") }
func (b *boxListener) OnCursorMoved(Cursor)           { b.events = append(b.events, "moved") }

func (b *boxListener) log() string { return strings.Join(b.events, " ") }

type frame struct {
	p       Vec2
	pressed bool
}

func TestInputEventSequences(t *testing.T) {
	tests := []struct {
		name   string
		frames []frame
		want   string
	}{
		{
			name:   "click",
			frames: []frame{{Vec2{5, 5}, true}, {Vec2{5, 5}, false}},
			want:   "enter pressed released",
		},
		{
			name:   "hover and leave",
			frames: []frame{{Vec2{5, 5}, false}, {Vec2{6, 5}, false}, {Vec2{50, 5}, false}},
			want:   "enter moved exit",
		},
		{
			name:   "release outside",
			frames: []frame{{Vec2{5, 5}, true}, {Vec2{50, 5}, true}, {Vec2{50, 5}, false}},
			want:   "enter pressed exit down outside",
		},
		{
			name:   "press outside then enter",
			frames: []frame{{Vec2{50, 5}, true}, {Vec2{5, 5}, true}, {Vec2{5, 5}, false}},
			want:   "enter",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			box := &boxListener{area: Rect{0, 0, 10, 10}}
			in.Register(box)
			for _, f := range tt.frames {
				in.ProcessCursor(0, f.p, f.pressed, MouseButtonLeft, 0)
			}
			if got := box.log(); got != tt.want {
				t.Errorf("events = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputBreakPress(t *testing.T) {
	in := NewInput()
	box := &boxListener{area: Rect{0, 0, 10, 10}}
	in.Register(box)
	in.ProcessCursor(0, Vec2{5, 5}, true, MouseButtonLeft, 0)
	in.BreakPress(0)
	in.BreakPress(0)
	in.ProcessCursor(0, Vec2{6, 5}, true, MouseButtonLeft, 0)
	in.ProcessCursor(0, Vec2{6, 5}, false, MouseButtonLeft, 0)
	if got, want := box.log(), "enter pressed break"; got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
	in.BreakPress(-1)
	in.BreakPress(maxCursors)
}

func TestInputSkipsNonInteractable(t *testing.T) {
	in := NewInput()
	below := &boxListener{area: Rect{0, 0, 10, 10}}
	above := &boxListener{area: Rect{0, 0, 10, 10}, off: true}
	in.Register(below)
	in.Register(above)
	in.ProcessCursor(0, Vec2{5, 5}, true, MouseButtonLeft, 0)
	if len(above.events) != 0 || below.log() != "enter pressed" {
		t.Errorf("above=%q below=%q", above.log(), below.log())
	}
}

func TestInputCursorsAreIndependent(t *testing.T) {
	in := NewInput()
	left := &boxListener{area: Rect{0, 0, 10, 10}}
	right := &boxListener{area: Rect{20, 0, 30, 10}}
	in.Register(left)
	in.Register(right)

	in.ProcessCursor(0, Vec2{5, 5}, true, MouseButtonLeft, 0)
	in.ProcessCursor(3, Vec2{25, 5}, true, MouseButtonLeft, 0)
	if in.Pressed(0) != left || in.Pressed(3) != right {
		t.Fatal("each cursor should capture its own listener")
	}
	in.ProcessCursor(3, Vec2{25, 5}, false, MouseButtonLeft, 0)
	if in.Pressed(0) != left || in.Pressed(3) != nil {
		t.Error("releasing one cursor should not affect the other")
	}
	in.ProcessCursor(maxCursors, Vec2{}, true, MouseButtonLeft, 0)
	if in.Pressed(maxCursors) != nil || in.Hovered(-1) != nil {
		t.Error("out of range cursors should be ignored")
	}
}

func TestInputKeepsPressButton(t *testing.T) {
	in := NewInput()
	var buttons []MouseButton
	box := &buttonListener{area: Rect{0, 0, 10, 10}, got: &buttons}
	in.Register(box)
	in.ProcessCursor(0, Vec2{5, 5}, true, MouseButtonRight, ModAlt)
	in.ProcessCursor(0, Vec2{7, 5}, true, MouseButtonLeft, ModAlt)
	if len(buttons) != 2 || buttons[1] != MouseButtonRight {
		t.Errorf("buttons = %v, want the press button throughout", buttons)
	}
}

type buttonListener struct {
	CursorListenerBase
	area Rect
	got  *[]MouseButton
}

func (b *buttonListener) IsUnderPoint(p Vec2) bool { return b.area.Contains(p) }
func (b *buttonListener) OnCursorPressed(c Cursor) { *b.got = append(*b.got, c.Button) }
func (b *buttonListener) OnCursorStillDown(c Cursor) {
	*b.got = append(*b.got, c.Button)
}

func TestScreenToUI(t *testing.T) {
	assertVec(t, "flip", screenToUI(30, 20, 100), Vec2{30, 80}, 0)
}

func TestTouchSlots(t *testing.T) {
	in := NewInput()
	a := in.touchSlot(101)
	b := in.touchSlot(202)
	if a != 1 || b != 2 || in.touchSlot(101) != 1 {
		t.Fatalf("slots = %d, %d", a, b)
	}
	for i := 3; i < maxCursors; i++ {
		in.touchSlot(ebiten.TouchID(1000 + i))
	}
	if in.touchSlot(9999) != -1 {
		t.Error("slots should run out after cursor 9")
	}
}

func TestEndCursorResetsSlot(t *testing.T) {
	tests := []struct {
		name   string
		frames []frame
		want   string
	}{
		{"after release", []frame{{Vec2{5, 5}, true}, {Vec2{5, 5}, false}}, "enter pressed released exit"},
		{"still down", []frame{{Vec2{5, 5}, true}, {Vec2{6, 5}, true}}, "enter pressed down released exit"},
		{"hovering", []frame{{Vec2{5, 5}, false}}, "enter exit"},
		{"elsewhere", []frame{{Vec2{50, 5}, false}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			box := &boxListener{area: Rect{0, 0, 10, 10}}
			in.Register(box)
			for _, f := range tt.frames {
				in.ProcessCursor(1, f.p, f.pressed, MouseButtonLeft, 0)
			}
			in.endCursor(1, 0)
			if got := box.log(); got != tt.want {
				t.Errorf("events = %q, want %q", got, tt.want)
			}
			if in.Hovered(1) != nil || in.Pressed(1) != nil {
				t.Error("ended cursor should hold no listener")
			}

			// The next touch in the slot starts fresh: no movement from
			// the old position.
			box.events = nil
			in.ProcessCursor(1, Vec2{8, 8}, false, MouseButtonLeft, 0)
			if got := box.log(); got != "enter" {
				t.Errorf("next touch events = %q, want %q", got, "enter")
			}
		})
	}
}

func TestEndCursorUnhoversHandle(t *testing.T) {
	in := NewInput()
	h := newTestHandle(Vec2{50, 50})
	in.Register(h)
	done := recordCompletions(h)

	in.ProcessCursor(1, Vec2{50, 50}, true, MouseButtonLeft, 0)
	in.ProcessCursor(1, Vec2{60, 50}, true, MouseButtonLeft, 0)
	in.endCursor(1, 0)

	if h.IsHovered() || h.IsPressed() || h.IsDragging() {
		t.Errorf("hovered=%v pressed=%v dragging=%v after the touch ended",
			h.IsHovered(), h.IsPressed(), h.IsDragging())
	}
	assertVec(t, "position", h.Position(), Vec2{60, 50}, 0)
	if len(*done) != 1 {
		t.Errorf("completions = %d, want 1", len(*done))
	}
	in.endCursor(-1, 0)
	in.endCursor(maxCursors, 0)
}

func TestUnregisterBreaksPressAndHover(t *testing.T) {
	in := NewInput()
	box := &boxListener{area: Rect{0, 0, 10, 10}}
	other := &boxListener{area: Rect{0, 0, 10, 10}}
	in.Register(other)
	in.Register(box)
	in.ProcessCursor(0, Vec2{5, 5}, true, MouseButtonLeft, 0)
	in.ProcessCursor(2, Vec2{6, 6}, false, MouseButtonLeft, 0)

	in.Unregister(box)
	if got, want := box.log(), "enter pressed enter break exit exit"; got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
	if in.Pressed(0) != nil || in.Hovered(0) != nil || in.Hovered(2) != nil {
		t.Error("unregistered listener should not stay referenced")
	}

	in.ProcessCursor(0, Vec2{5, 5}, false, MouseButtonLeft, 0)
	if got := box.log(); got != "enter pressed enter break exit exit" {
		t.Errorf("unregistered listener got more events: %q", got)
	}
	if len(other.events) != 1 || other.events[0] != "enter" {
		t.Errorf("listener below = %q, want a fresh enter", other.log())
	}
}
