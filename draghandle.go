package o2

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultDragDistanceThreshold is how far, in screen units, the cursor must
// travel from the press point before a press turns into a drag.
const DefaultDragDistanceThreshold = 5.0

// DefaultHandleFadeDuration is how long hover and press sprites take to fade
// in or out, in seconds.
const DefaultHandleFadeDuration = 0.12

var handleIDCounter int

func nextHandleID() int {
	handleIDCounter++
	return handleIDCounter
}

// Handle is anything the Scene can host as a drag handle.
type Handle interface {
	CursorListener
	Update(dt float64)
	Draw(screen *ebiten.Image, screenHeight float64)

	base() *DragHandle
}

// DragHandle is a point in local space that can be hovered, pressed and
// dragged. Screen space is the UI space cursors are delivered in; the
// ScreenToLocal and LocalToScreen funcs map between the two and default to
// identity.
//
// While dragging, the point under the cursor at press time stays under the
// cursor: the handle keeps the offset between its position and the
// pressed point.
type DragHandle struct {
	ID int

	CursorType            CursorType
	PixelPerfect          bool
	DragDistanceThreshold float64
	FadeDuration          float64

	ScreenToLocal func(Vec2) Vec2
	LocalToScreen func(Vec2) Vec2
	// CheckPosition constrains a candidate position before it is applied.
	CheckPosition func(Vec2) Vec2
	// IsPointInside overrides the hit test, which otherwise uses the
	// regular sprite.
	IsPointInside func(Vec2) bool

	OnChangedPos      func(pos Vec2)
	OnPressed         func()
	OnReleased        func()
	OnChangeCompleted func(before, after Vec2)
	OnHoverEnter      func()
	OnHoverExit       func()

	position       Vec2
	screenPosition Vec2
	angle          float64
	enabled        bool

	regularSprite *Sprite
	hoverSprite   *Sprite
	pressedSprite *Sprite

	isHovered  bool
	isPressed  bool
	isDragging bool

	pressedCursorID   int
	pressedCursorPos  Vec2
	dragOffset        Vec2
	dragPosition      Vec2
	dragBeginPosition Vec2

	scene *Scene
}

// NewDragHandle creates an enabled handle at the origin. Any sprite may be
// nil. The handle owns the sprites it is given.
func NewDragHandle(regular, hover, pressed *Sprite) *DragHandle {
	d := &DragHandle{}
	d.init(regular, hover, pressed)
	return d
}

func (d *DragHandle) init(regular, hover, pressed *Sprite) {
	d.ID = nextHandleID()
	d.DragDistanceThreshold = DefaultDragDistanceThreshold
	d.FadeDuration = DefaultHandleFadeDuration
	d.enabled = true
	d.regularSprite = regular
	d.hoverSprite = hover
	d.pressedSprite = pressed
	if hover != nil {
		hover.Transparency, hover.fadeTarget = 0, 0
	}
	if pressed != nil {
		pressed.Transparency, pressed.fadeTarget = 0, 0
	}
	d.updateScreenPosition()
}

// Clone returns a copy of the handle with its own sprites and a new ID.
// Callbacks and transform funcs are shared; interaction state is not
// copied.
func (d *DragHandle) Clone() *DragHandle {
	c := &DragHandle{}
	d.cloneInto(c)
	return c
}

func (d *DragHandle) cloneInto(c *DragHandle) {
	c.init(d.regularSprite.Clone(), d.hoverSprite.Clone(), d.pressedSprite.Clone())
	c.CursorType = d.CursorType
	c.PixelPerfect = d.PixelPerfect
	c.DragDistanceThreshold = d.DragDistanceThreshold
	c.FadeDuration = d.FadeDuration
	c.ScreenToLocal = d.ScreenToLocal
	c.LocalToScreen = d.LocalToScreen
	c.CheckPosition = d.CheckPosition
	c.IsPointInside = d.IsPointInside
	c.OnChangedPos = d.OnChangedPos
	c.OnPressed = d.OnPressed
	c.OnReleased = d.OnReleased
	c.OnChangeCompleted = d.OnChangeCompleted
	c.OnHoverEnter = d.OnHoverEnter
	c.OnHoverExit = d.OnHoverExit
	c.enabled = d.enabled
	c.SetAngle(d.angle)
	c.SetPosition(d.position)
}

func (d *DragHandle) base() *DragHandle { return d }

// --- position ---

// Position returns the handle position in local space.
func (d *DragHandle) Position() Vec2 { return d.position }

// SetPosition moves the handle to p after passing it through CheckPosition.
// It does not fire OnChangedPos.
func (d *DragHandle) SetPosition(p Vec2) {
	if d.CheckPosition != nil {
		p = d.CheckPosition(p)
	}
	d.position = p
	d.updateScreenPosition()
}

// SetDragPosition moves the handle as a drag would and records p as the
// current drag position.
func (d *DragHandle) SetDragPosition(p Vec2) {
	d.dragPosition = p
	d.SetPosition(p)
}

// ScreenPosition returns the handle position in screen space.
func (d *DragHandle) ScreenPosition() Vec2 { return d.screenPosition }

// DragOffset returns the offset between the handle and the point grabbed at
// press time, in local space.
func (d *DragHandle) DragOffset() Vec2 { return d.dragOffset }

// DragBeginPosition returns the position the current or last drag started
// from.
func (d *DragHandle) DragBeginPosition() Vec2 { return d.dragBeginPosition }

func (d *DragHandle) screenToLocal(p Vec2) Vec2 {
	if d.ScreenToLocal != nil {
		return d.ScreenToLocal(p)
	}
	return p
}

func (d *DragHandle) localToScreen(p Vec2) Vec2 {
	if d.LocalToScreen != nil {
		return d.LocalToScreen(p)
	}
	return p
}

func (d *DragHandle) updateScreenPosition() {
	d.screenPosition = d.localToScreen(d.position)
	if d.PixelPerfect {
		d.screenPosition = d.screenPosition.Round()
	}
	for _, s := range d.sprites() {
		s.Position = d.screenPosition
	}
}

// --- appearance ---

// Angle returns the sprite rotation in radians.
func (d *DragHandle) Angle() float64 { return d.angle }

// SetAngle rotates the handle sprites.
func (d *DragHandle) SetAngle(rad float64) {
	d.angle = rad
	for _, s := range d.sprites() {
		s.Angle = rad
	}
}

// IsEnabled reports whether the handle is drawn and hit-tested.
func (d *DragHandle) IsEnabled() bool { return d.enabled }

// SetEnabled shows or hides the handle. A hidden handle gets no cursor
// events.
func (d *DragHandle) SetEnabled(enabled bool) { d.enabled = enabled }

// RegularSprite returns the always-visible sprite, or nil.
func (d *DragHandle) RegularSprite() *Sprite { return d.regularSprite }

// SetRegularSprite replaces the always-visible sprite.
func (d *DragHandle) SetRegularSprite(s *Sprite) {
	d.regularSprite = s
	d.updateScreenPosition()
	d.SetAngle(d.angle)
}

// HoverSprite returns the sprite shown while hovered, or nil.
func (d *DragHandle) HoverSprite() *Sprite { return d.hoverSprite }

// SetHoverSprite replaces the sprite shown while hovered.
func (d *DragHandle) SetHoverSprite(s *Sprite) {
	d.hoverSprite = s
	d.updateScreenPosition()
	d.SetAngle(d.angle)
}

// PressedSprite returns the sprite shown while pressed, or nil.
func (d *DragHandle) PressedSprite() *Sprite { return d.pressedSprite }

// SetPressedSprite replaces the sprite shown while pressed.
func (d *DragHandle) SetPressedSprite(s *Sprite) {
	d.pressedSprite = s
	d.updateScreenPosition()
	d.SetAngle(d.angle)
}

func (d *DragHandle) sprites() []*Sprite {
	out := make([]*Sprite, 0, 3)
	for _, s := range [...]*Sprite{d.regularSprite, d.hoverSprite, d.pressedSprite} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// IsHovered reports whether a cursor is over the handle.
func (d *DragHandle) IsHovered() bool { return d.isHovered }

// IsPressed reports whether a cursor holds the handle.
func (d *DragHandle) IsPressed() bool { return d.isPressed }

// IsDragging reports whether the handle is being dragged.
func (d *DragHandle) IsDragging() bool { return d.isDragging }

// CursorShape implements the optional cursor shape query of Input.
func (d *DragHandle) CursorShape() CursorType { return d.CursorType }

// --- CursorListener ---

// IsUnderPoint implements CursorListener.
func (d *DragHandle) IsUnderPoint(p Vec2) bool {
	if d.IsPointInside != nil {
		return d.IsPointInside(p)
	}
	if d.regularSprite != nil {
		return d.regularSprite.Contains(p)
	}
	return false
}

// IsInteractable implements CursorListener.
func (d *DragHandle) IsInteractable() bool { return d.enabled }

// OnCursorEnter implements CursorListener.
func (d *DragHandle) OnCursorEnter(Cursor) {
	d.isHovered = true
	if d.OnHoverEnter != nil {
		d.OnHoverEnter()
	}
}

// OnCursorExit implements CursorListener.
func (d *DragHandle) OnCursorExit(Cursor) {
	d.isHovered = false
	if d.OnHoverExit != nil {
		d.OnHoverExit()
	}
}

// OnCursorPressed implements CursorListener.
func (d *DragHandle) OnCursorPressed(c Cursor) {
	d.isPressed = true
	d.isDragging = false
	d.pressedCursorID = c.ID
	d.pressedCursorPos = c.Position
	d.dragOffset = d.position.Sub(d.screenToLocal(c.Position))
	d.dragPosition = d.position
	d.dragBeginPosition = d.position

	if d.OnPressed != nil {
		d.OnPressed()
	}
	d.emit(HandleEvent{Type: HandlePressed, Before: d.position, After: d.position})
}

// OnCursorStillDown implements CursorListener.
func (d *DragHandle) OnCursorStillDown(c Cursor) {
	if !d.tracks(c) {
		return
	}
	if !d.isDragging {
		if !d.passedThreshold(c.Position) {
			return
		}
		d.beginDrag()
	}
	d.dragTo(c.Position)
}

// OnCursorReleased implements CursorListener.
func (d *DragHandle) OnCursorReleased(c Cursor) {
	if !d.isPressed || c.ID != d.pressedCursorID {
		return
	}
	if d.endPress() && d.moved() {
		d.completeChange()
	}
}

// OnCursorReleasedOutside implements CursorListener.
func (d *DragHandle) OnCursorReleasedOutside(c Cursor) {
	d.OnCursorReleased(c)
}

// OnCursorPressBreak implements CursorListener. The drag is aborted: the
// handle returns to where it started and no completion fires.
func (d *DragHandle) OnCursorPressBreak(Cursor) {
	if !d.isPressed {
		return
	}
	if d.endPress() && d.moved() {
		d.SetPosition(d.dragBeginPosition)
		d.dragPosition = d.position
		if d.OnChangedPos != nil {
			d.OnChangedPos(d.position)
		}
	}
}

// OnCursorMoved implements CursorListener.
func (d *DragHandle) OnCursorMoved(Cursor) {}

// tracks reports whether c is the pressing cursor and actually moved.
func (d *DragHandle) tracks(c Cursor) bool {
	return d.isPressed && c.ID == d.pressedCursorID && c.Delta.Length() >= 0.5
}

func (d *DragHandle) passedThreshold(p Vec2) bool {
	return p.Sub(d.pressedCursorPos).Length() > d.DragDistanceThreshold
}

func (d *DragHandle) beginDrag() {
	d.isDragging = true
	d.dragBeginPosition = d.position
}

// dragTo moves the handle so the grabbed point follows the cursor.
func (d *DragHandle) dragTo(cursorPos Vec2) {
	d.dragPosition = d.screenToLocal(cursorPos).Add(d.dragOffset)
	d.SetPosition(d.dragPosition)
	if d.OnChangedPos != nil {
		d.OnChangedPos(d.position)
	}
}

// endPress clears the press state, fires OnReleased and reports whether the
// press had become a drag.
func (d *DragHandle) endPress() bool {
	wasDragging := d.isDragging
	d.isPressed = false
	d.isDragging = false
	if d.OnReleased != nil {
		d.OnReleased()
	}
	d.emit(HandleEvent{Type: HandleReleased, Before: d.dragBeginPosition, After: d.position})
	return wasDragging
}

func (d *DragHandle) moved() bool {
	return d.position != d.dragBeginPosition
}

func (d *DragHandle) completeChange() {
	if d.OnChangeCompleted != nil {
		d.OnChangeCompleted(d.dragBeginPosition, d.position)
	}
	d.emit(HandleEvent{Type: HandleChangeCompleted, Before: d.dragBeginPosition, After: d.position})
}

func (d *DragHandle) emit(ev HandleEvent) {
	if d.scene == nil || d.scene.store == nil {
		return
	}
	ev.HandleID = d.ID
	d.scene.store.EmitEvent(ev)
}

// --- frame ---

// Update refreshes the screen position and advances sprite fades.
func (d *DragHandle) Update(dt float64) {
	d.updateScreenPosition()
	d.fadeSprite(d.hoverSprite, d.isHovered)
	d.fadeSprite(d.pressedSprite, d.isPressed)
	for _, s := range d.sprites() {
		s.Update(dt)
	}
}

func (d *DragHandle) fadeSprite(s *Sprite, on bool) {
	if s == nil {
		return
	}
	target := 0.0
	if on {
		target = 1
	}
	s.FadeTo(target, d.FadeDuration)
}

// Draw renders the handle sprites. It does not change handle state.
func (d *DragHandle) Draw(screen *ebiten.Image, screenHeight float64) {
	if !d.enabled {
		return
	}
	for _, s := range d.sprites() {
		s.Draw(screen, screenHeight)
	}
}
