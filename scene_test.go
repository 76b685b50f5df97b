package o2

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingStore struct {
	events []HandleEvent
}

func (r *recordingStore) EmitEvent(ev HandleEvent) {
	r.events = append(r.events, ev)
}

func (r *recordingStore) types() []HandleEventType {
	out := make([]HandleEventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// drain runs frames until the inject queue is empty.
func drain(s *Scene) {
	for i := 0; i < 100 && s.PendingInjections() > 0; i++ {
		s.Update(1.0 / 60)
	}
}

func sameTypes(a, b []HandleEventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- handles ---

func TestSceneInjectedClickAndDrag(t *testing.T) {
	s := NewScene(200, 200)
	h := newSelectable(Vec2{50, 50})
	s.AddHandle(h)
	store := &recordingStore{}
	s.SetEventStore(store)

	s.InjectClick(Vec2{50, 50}, 0)
	drain(s)
	if !h.IsSelected() {
		t.Fatal("click should select")
	}
	want := []HandleEventType{HandlePressed, HandleReleased, HandleSelected}
	if !sameTypes(store.types(), want) {
		t.Fatalf("click events = %v, want %v", store.types(), want)
	}

	store.events = nil
	s.InjectDrag(Vec2{50, 50}, Vec2{80, 50}, 5, 0)
	drain(s)
	assertVec(t, "position", h.Position(), Vec2{80, 50}, 0)
	if !h.IsSelected() {
		t.Error("drag should not toggle the selection")
	}
	want = []HandleEventType{HandlePressed, HandleReleased, HandleChangeCompleted}
	if !sameTypes(store.types(), want) {
		t.Fatalf("drag events = %v, want %v", store.types(), want)
	}
	last := store.events[len(store.events)-1]
	if last.HandleID != h.ID {
		t.Errorf("event handle = %d, want %d", last.HandleID, h.ID)
	}
	assertVec(t, "before", last.Before, Vec2{50, 50}, 0)
	assertVec(t, "after", last.After, Vec2{80, 50}, 0)
}

func TestSceneAppliesConfigToHandles(t *testing.T) {
	s := NewScene(200, 200)
	early := newTestHandle(Vec2{})
	s.AddHandle(early)
	assertNear(t, "default threshold", early.DragDistanceThreshold, DefaultDragDistanceThreshold)

	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 200, 200
	cfg.DragDistanceThreshold = 12
	cfg.PixelPerfect = false
	cfg.HandleFadeDuration = 0.5
	s.ApplyConfig(cfg)

	late := newTestHandle(Vec2{})
	s.AddHandle(late)
	for name, h := range map[string]*DragHandle{"early": early, "late": late} {
		if h.DragDistanceThreshold != 12 || h.PixelPerfect || h.FadeDuration != 0.5 {
			t.Errorf("%s handle did not get the config: %+v", name, h)
		}
	}
}

func TestSceneRemoveHandle(t *testing.T) {
	s := NewScene(200, 200)
	h := newTestHandle(Vec2{50, 50})
	s.AddHandle(h)
	s.AddHandle(h)
	if len(s.Handles()) != 1 {
		t.Fatalf("handles = %d, want 1", len(s.Handles()))
	}

	s.RemoveHandle(h)
	s.RemoveHandle(h)
	if len(s.Handles()) != 0 || len(s.Input().Listeners()) != 0 {
		t.Fatal("remove should unregister the handle")
	}
	s.InjectPress(Vec2{50, 50}, 0)
	drain(s)
	if h.IsPressed() {
		t.Error("removed handle should not get input")
	}
}

func TestSceneRemoveHandleMidDrag(t *testing.T) {
	s := NewScene(200, 200)
	h := newTestHandle(Vec2{50, 50})
	s.AddHandle(h)
	done := recordCompletions(h)

	s.InjectPress(Vec2{50, 50}, 0)
	s.InjectMove(Vec2{70, 50}, 0)
	drain(s)
	if !h.IsDragging() {
		t.Fatal("handle should be dragging")
	}

	s.RemoveHandle(h)
	if h.IsPressed() || h.IsDragging() || h.IsHovered() {
		t.Errorf("pressed=%v dragging=%v hovered=%v after removal",
			h.IsPressed(), h.IsDragging(), h.IsHovered())
	}
	assertVec(t, "position restored", h.Position(), Vec2{50, 50}, 0)

	s.InjectRelease(Vec2{70, 50}, 0)
	drain(s)
	if len(*done) != 0 {
		t.Errorf("completions = %d, want none", len(*done))
	}
}

func TestSceneMovesHandleBetweenScenes(t *testing.T) {
	a, b := NewScene(100, 100), NewScene(100, 100)
	h := newTestHandle(Vec2{})
	a.AddHandle(h)
	b.AddHandle(h)
	if len(a.Handles()) != 0 || len(b.Handles()) != 1 {
		t.Error("adding to another scene should move the handle")
	}
}

func TestSceneHoverInjection(t *testing.T) {
	s := NewScene(200, 200)
	h := newTestHandle(Vec2{50, 50})
	s.AddHandle(h)
	s.InjectHover(Vec2{50, 50})
	drain(s)
	if !h.IsHovered() {
		t.Error("hover injection should hover the handle")
	}
}

// --- widgets ---

func TestSceneResizeRelayouts(t *testing.T) {
	s := NewScene(200, 100)
	panel := NewWidgetWithLayout("panel", BothStretch(10, 10, 10, 10))
	s.Root().AddChild(panel)
	s.Update(0)
	assertRect(t, "panel", panel.WorldRect(), Rect{10, 10, 190, 90}, 1e-9)

	s.Resize(400, 300)
	s.Update(0)
	assertRect(t, "root", s.Root().WorldRect(), Rect{0, 0, 400, 300}, 1e-9)
	assertRect(t, "panel resized", panel.WorldRect(), Rect{10, 10, 390, 290}, 1e-9)
	assertVec(t, "size", s.Size(), Vec2{400, 300}, 0)
}

func TestSceneBlendToUsesConfig(t *testing.T) {
	s := NewScene(200, 200)
	w := NewWidget("fader")
	s.Root().AddChild(w)
	a := w.Animatable()
	a.AddNewState("dim", constAnim("transparency", 0.2), AnimationMask{}, 1)
	a.AddNewState("bright", constAnim("transparency", 0.8), AnimationMask{}, 1)
	a.Play("dim")

	if st := s.BlendTo(w, "bright"); st == nil || !a.IsBlending() {
		t.Fatal("BlendTo should start a cross-fade")
	}
	s.Update(s.Config().DefaultBlendDuration / 2)
	if math.Abs(w.Transparency-0.5) > 1e-6 {
		t.Errorf("mid blend transparency = %v, want 0.5", w.Transparency)
	}
	s.Update(s.Config().DefaultBlendDuration)
	if a.IsBlending() || math.Abs(w.Transparency-0.8) > 1e-9 {
		t.Errorf("after blend: blending=%v transparency=%v", a.IsBlending(), w.Transparency)
	}
	if s.BlendTo(w, "missing") != nil {
		t.Error("blending to an unknown state should return nil")
	}
}

func TestSceneStatsText(t *testing.T) {
	s := NewScene(200, 200)
	s.Root().AddChild(NewWidget("a"))
	s.Root().AddChild(NewWidget("b"))
	picked := newSelectable(Vec2{})
	picked.Select()
	s.AddHandle(picked)
	s.AddHandle(newSelectable(Vec2{}))
	s.AddHandle(newTestHandle(Vec2{}))

	got := s.statsText(59.5, 60)
	for _, want := range []string{"FPS: 59.5", "TPS: 60.0", "widgets: 3", "handles: 3 (1 selected)"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats %q missing %q", got, want)
		}
	}
}

// --- camera ---

func TestSceneCameraBindsHandles(t *testing.T) {
	s := NewScene(200, 100)
	early := newTestHandle(Vec2{110, 50})
	s.AddHandle(early)

	cam := NewCamera(Rect{0, 0, 200, 100})
	cam.Zoom = 2
	s.SetCamera(cam)
	late := newTestHandle(Vec2{})
	s.AddHandle(late)
	late.SetPosition(Vec2{90, 50})

	assertVec(t, "early screen", early.ScreenPosition(), Vec2{120, 50}, 1e-9)
	assertVec(t, "late screen", late.ScreenPosition(), Vec2{80, 50}, 1e-9)

	// 20 screen units at zoom 2 is 10 world units.
	s.InjectDrag(Vec2{120, 50}, Vec2{140, 50}, 4, 0)
	drain(s)
	assertVec(t, "world", early.Position(), Vec2{120, 50}, 1e-9)
	assertVec(t, "screen", early.ScreenPosition(), Vec2{140, 50}, 1e-9)
}

// --- injection ---

func TestInjectQueueLengths(t *testing.T) {
	tests := []struct {
		name   string
		inject func(s *Scene)
		want   int
	}{
		{"press", func(s *Scene) { s.InjectPress(Vec2{}, 0) }, 1},
		{"click", func(s *Scene) { s.InjectClick(Vec2{}, 0) }, 2},
		{"drag", func(s *Scene) { s.InjectDrag(Vec2{}, Vec2{10, 0}, 5, 0) }, 5},
		{"short drag", func(s *Scene) { s.InjectDrag(Vec2{}, Vec2{10, 0}, 0, 0) }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene(100, 100)
			tt.inject(s)
			if got := s.PendingInjections(); got != tt.want {
				t.Errorf("pending = %d, want %d", got, tt.want)
			}
			s.Update(0)
			if got := s.PendingInjections(); got != tt.want-1 {
				t.Errorf("after one frame pending = %d, want %d", got, tt.want-1)
			}
		})
	}
}

func TestInjectDragEndsAtTarget(t *testing.T) {
	s := NewScene(100, 100)
	s.InjectDrag(Vec2{0, 0}, Vec2{30, 60}, 5, ModShift)
	var got []syntheticCursorEvent
	got = append(got, s.injectQueue...)
	if len(got) != 5 {
		t.Fatalf("events = %d, want 5", len(got))
	}
	assertVec(t, "last move", got[3].pos, Vec2{30, 60}, 1e-12)
	assertVec(t, "first move", got[1].pos, Vec2{10, 20}, 1e-12)
	if got[4].pressed || !got[3].pressed || got[4].mods != ModShift {
		t.Error("drag should end with a shifted release")
	}
}

// --- test runner ---

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		errHas string
	}{
		{"bad json", `{`, "parse test script"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"jump"}]}`, `unknown action "jump"`},
		{"bad modifier", `{"steps":[{"action":"click","modifiers":"ctrl,hyper"}]}`, "unknown modifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.errHas) {
				t.Errorf("err = %v, want it to mention %q", err, tt.errHas)
			}
		})
	}
}

func TestParseModifiers(t *testing.T) {
	mods, err := parseModifiers(" Shift, cmd ,control,alt")
	if err != nil {
		t.Fatal(err)
	}
	if mods != ModShift|ModMeta|ModCtrl|ModAlt {
		t.Errorf("mods = %b", mods)
	}
}

func TestTestRunnerDrivesScene(t *testing.T) {
	s := NewScene(300, 200)
	g := NewSelectableDragHandlesGroup()
	a, b := newSelectable(Vec2{50, 50}), newSelectable(Vec2{150, 50})
	for _, h := range []*SelectableDragHandle{a, b} {
		g.AddHandle(h)
		s.AddHandle(h)
	}

	r, err := LoadTestScript([]byte(`{"steps":[
		{"action":"click","x":50,"y":50},
		{"action":"click","x":150,"y":50,"modifiers":"ctrl"},
		{"action":"drag","fromX":150,"fromY":50,"toX":150,"toY":80,"frames":4},
		{"action":"wait","frames":3},
		{"action":"log","label":"dragged"},
		{"action":"screenshot","label":"after drag"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)
	for i := 0; i < 100 && !r.Done(); i++ {
		s.Update(1.0 / 60)
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	if !selectedIn(g, a, b) {
		t.Errorf("selected %d handles, want 2", len(g.SelectedHandles()))
	}
	assertVec(t, "a", a.Position(), Vec2{50, 80}, 0)
	assertVec(t, "b", b.Position(), Vec2{150, 80}, 0)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after drag" {
		t.Errorf("screenshot queue = %q", s.screenshotQueue)
	}
}

// --- screenshots ---

// solidFrame reads back as one premultiplied color.
type solidFrame struct {
	w, h int
	pix  [4]byte
}

func (f solidFrame) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

func (f solidFrame) ReadPixels(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		copy(pixels[i:i+4], f.pix[:])
	}
}

func TestSceneFlushScreenshots(t *testing.T) {
	s := NewScene(100, 100)
	s.cfg.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	if got := s.flushScreenshots(solidFrame{w: 4, h: 3}); got != nil {
		t.Errorf("empty queue wrote %q", got)
	}

	s.Screenshot("after drag")
	s.Screenshot("")
	saved := s.flushScreenshots(solidFrame{w: 4, h: 3, pix: [4]byte{64, 0, 0, 128}})
	if len(saved) != 2 {
		t.Fatalf("saved %d files, want 2", len(saved))
	}
	if !strings.HasSuffix(saved[0], "_00_after_drag.png") || !strings.HasSuffix(saved[1], "_01_unlabeled.png") {
		t.Errorf("file names = %q", saved)
	}
	if len(s.screenshotQueue) != 0 {
		t.Errorf("queue = %q after flush", s.screenshotQueue)
	}

	f, err := os.Open(saved[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("size = %v, want 4x3", b)
	}
	got := color.NRGBAModel.Convert(img.At(2, 1)).(color.NRGBA)
	if want := (color.NRGBA{127, 0, 0, 128}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestSceneFlushScreenshotsBadDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewScene(100, 100)
	s.cfg.ScreenshotDir = filepath.Join(blocker, "shots")
	buf := captureLog(t)

	s.Screenshot("x")
	if saved := s.flushScreenshots(solidFrame{w: 1, h: 1}); saved != nil {
		t.Errorf("saved %q into an unusable dir", saved)
	}
	if len(s.screenshotQueue) != 0 {
		t.Error("queue should be cleared after a failed flush")
	}
	if !strings.Contains(buf.String(), "screenshot") {
		t.Errorf("log = %q, want a screenshot warning", buf.String())
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"after drag", "after_drag"},
		{"v1.2-final", "v1.2-final"},
		{"../etc/passwd", ".._etc_passwd"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{
		255, 127, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("pix = %v, want %v", img.Pix, want)
		}
	}
}
