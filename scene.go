package o2

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EventStore is the interface for optional action/ECS integration. When set
// on a Scene, handle events are forwarded to it.
type EventStore interface {
	EmitEvent(event HandleEvent)
}

// HandleEventType identifies what happened to a handle.
type HandleEventType uint8

const (
	HandlePressed HandleEventType = iota
	HandleReleased
	HandleChangeCompleted
	HandleSelected
	HandleDeselected
)

var handleEventNames = [...]string{
	HandlePressed:         "pressed",
	HandleReleased:        "released",
	HandleChangeCompleted: "change-completed",
	HandleSelected:        "selected",
	HandleDeselected:      "deselected",
}

func (t HandleEventType) String() string {
	if int(t) < len(handleEventNames) {
		return handleEventNames[t]
	}
	return fmt.Sprintf("HandleEventType(%d)", t)
}

// HandleEvent carries enough to build an undoable action: which handle, and
// where it was before and after.
type HandleEvent struct {
	Type     HandleEventType
	HandleID int
	Before   Vec2
	After    Vec2
}

// Scene owns the widget tree, the input dispatcher and the drag handles,
// and drives them once per frame.
type Scene struct {
	root    *Widget
	input   *Input
	handles []Handle
	store   EventStore
	debug   bool
	cfg     Config

	width, height float64

	injectQueue     []syntheticCursorEvent
	testRunner      *TestRunner
	watcher         *ConfigWatcher
	screenshotQueue []string
	camera          *Camera

	// polling is set by Run; without it the scene only sees injected input.
	polling     bool
	cursorShape CursorType
}

// NewScene creates a scene whose root widget covers a width x height
// screen.
func NewScene(width, height float64) *Scene {
	root := NewWidgetWithLayout("root", Based(BaseLeftBottom, Vec2{width, height}, Vec2{}))
	s := &Scene{
		root:   root,
		input:  NewInput(),
		cfg:    DefaultConfig(),
		width:  width,
		height: height,
	}
	root.UpdateLayout()
	return s
}

// Root returns the root widget.
func (s *Scene) Root() *Widget { return s.root }

// Input returns the cursor dispatcher.
func (s *Scene) Input() *Input { return s.input }

// Config returns the settings last applied.
func (s *Scene) Config() Config { return s.cfg }

// Size returns the screen size the scene lays out against.
func (s *Scene) Size() Vec2 { return Vec2{s.width, s.height} }

// Resize changes the screen size. The whole tree re-lays out on the next
// Update.
func (s *Scene) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.root.Layout().SetRect(Rect{Right: width, Top: height})
}

// SetEventStore sets the optional handle event sink.
func (s *Scene) SetEventStore(store EventStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed
// widgets panic on use, tree depth and child counts are checked, and frame
// timings go to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that widget
// tree operations can check it without a scene back-pointer.
var globalDebug bool

// --- handles ---

// AddHandle registers h for input, update and draw. Later handles are on
// top. The scene's config is applied to the handle.
func (s *Scene) AddHandle(h Handle) {
	d := h.base()
	if d.scene == s {
		return
	}
	if d.scene != nil {
		d.scene.RemoveHandle(h)
	}
	d.scene = s
	s.applyHandleConfig(d)
	if s.camera != nil {
		s.camera.Bind(h)
	}
	s.handles = append(s.handles, h)
	s.input.Register(h)
}

// RemoveHandle unregisters h. Removing a handle not in the scene is a no-op.
func (s *Scene) RemoveHandle(h Handle) {
	for i, x := range s.handles {
		if x == h {
			copy(s.handles[i:], s.handles[i+1:])
			s.handles[len(s.handles)-1] = nil
			s.handles = s.handles[:len(s.handles)-1]
			s.input.Unregister(h)
			h.base().scene = nil
			return
		}
	}
}

// Handles returns a copy of the registered handles, bottom to top.
func (s *Scene) Handles() []Handle {
	out := make([]Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Camera returns the view camera, or nil.
func (s *Scene) Camera() *Camera { return s.camera }

// SetCamera makes every handle, current and future, live in cam's world
// space. The camera is updated with the scene. A nil cam keeps existing
// handle bindings.
func (s *Scene) SetCamera(cam *Camera) {
	s.camera = cam
	if cam == nil {
		return
	}
	for _, h := range s.handles {
		cam.Bind(h)
	}
}

// --- config ---

// ApplyConfig pushes cfg into the scene and every registered handle.
func (s *Scene) ApplyConfig(cfg Config) {
	s.cfg = cfg
	s.SetDebugMode(cfg.Debug)
	for _, h := range s.handles {
		s.applyHandleConfig(h.base())
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		s.Resize(float64(cfg.Width), float64(cfg.Height))
	}
}

func (s *Scene) applyHandleConfig(d *DragHandle) {
	d.DragDistanceThreshold = s.cfg.DragDistanceThreshold
	d.PixelPerfect = s.cfg.PixelPerfect
	d.FadeDuration = s.cfg.HandleFadeDuration
}

// WatchConfig reloads the config file at path whenever it changes and
// applies it at the start of the next Update.
func (s *Scene) WatchConfig(path string) error {
	w, err := WatchConfig(path)
	if err != nil {
		return err
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.watcher = w
	return nil
}

// StopWatchingConfig stops a watcher started by WatchConfig.
func (s *Scene) StopWatchingConfig() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *Scene) drainConfig() {
	if s.watcher == nil {
		return
	}
	select {
	case cfg := <-s.watcher.Configs:
		Logger.Info("o2: config reloaded", "path", s.watcher.path)
		s.ApplyConfig(cfg)
	default:
	}
	select {
	case err := <-s.watcher.Errors:
		Logger.Warn("o2: config reload failed", "path", s.watcher.path, "err", err)
	default:
	}
}

// BlendTo cross-fades w's animatable to the named state using the
// configured default duration and easing.
func (s *Scene) BlendTo(w *Widget, name string) *AnimationState {
	a := w.Animatable()
	a.BlendEase, _ = EaseByName(s.cfg.BlendEase)
	return a.BlendTo(name, s.cfg.DefaultBlendDuration)
}

// --- frame ---

// Update runs one frame: config reload, input, widget tree, handles.
func (s *Scene) Update(dt float64) {
	var stats debugStats
	start := time.Now()

	s.drainConfig()
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if !s.processInjectedInput() && s.polling {
		s.input.Poll(s.height)
		if shape := s.input.CursorShape(); shape != s.cursorShape {
			s.cursorShape = shape
			ebiten.SetCursorShape(shape.EbitenCursor())
		}
	}
	t := time.Now()
	stats.inputTime = t.Sub(start)

	if s.camera != nil {
		s.camera.Update(dt)
	}

	s.root.Update(dt)
	t2 := time.Now()
	stats.treeTime = t2.Sub(t)

	for _, h := range s.handles {
		h.Update(dt)
	}
	stats.handleTime = time.Since(t2)
	stats.handleCount = len(s.handles)

	s.debugLog(stats)
}

// Draw renders debug outlines (when DebugDraw is set) and the handles, then
// writes any queued screenshots of the finished frame.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.cfg.DebugDraw {
		s.drawWidgetRects(screen, s.root)
	}
	for _, h := range s.handles {
		h.Draw(screen, s.height)
	}
	if s.cfg.DebugDraw {
		s.drawStats(screen)
	}
	s.flushScreenshots(screen)
}

var debugRectColor = color.RGBA{R: 0, G: 200, B: 255, A: 160}

func (s *Scene) drawWidgetRects(screen *ebiten.Image, w *Widget) {
	if !w.Visible {
		return
	}
	r := w.WorldRect()
	vector.StrokeRect(screen,
		float32(r.Left), float32(s.height-r.Top),
		float32(r.Width()), float32(r.Height()),
		1, debugRectColor, false)
	for _, c := range w.children {
		s.drawWidgetRects(screen, c)
	}
}
