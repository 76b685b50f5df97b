package o2

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SelectableDragHandle is a DragHandle that can be selected. A press and
// release that never passes the drag threshold is a click: it toggles the
// selection, or lets the handle's group apply its policy. A drag never
// toggles; dragging an unselected handle selects it.
type SelectableDragHandle struct {
	DragHandle

	OnSelected   func()
	OnDeselected func()

	selectedSprite *Sprite
	isSelected     bool
	group          *SelectableDragHandlesGroup
}

// NewSelectableDragHandle creates a selectable handle. Any sprite may be
// nil.
func NewSelectableDragHandle(regular, hover, pressed, selected *Sprite) *SelectableDragHandle {
	h := &SelectableDragHandle{}
	h.DragHandle.init(regular, hover, pressed)
	h.selectedSprite = selected
	if selected != nil {
		selected.Transparency, selected.fadeTarget = 0, 0
	}
	h.updateScreenPosition()
	return h
}

// Clone returns an unselected copy outside of any group.
func (h *SelectableDragHandle) Clone() *SelectableDragHandle {
	c := &SelectableDragHandle{}
	h.DragHandle.cloneInto(&c.DragHandle)
	c.OnSelected = h.OnSelected
	c.OnDeselected = h.OnDeselected
	c.selectedSprite = h.selectedSprite.Clone()
	if c.selectedSprite != nil {
		c.selectedSprite.Transparency, c.selectedSprite.fadeTarget = 0, 0
	}
	c.SetAngle(h.angle)
	c.updateScreenPosition()
	return c
}

// IsSelected reports whether the handle is selected.
func (h *SelectableDragHandle) IsSelected() bool { return h.isSelected }

// SetSelected selects or deselects the handle, through its group if it has
// one.
func (h *SelectableDragHandle) SetSelected(selected bool) {
	if h.isSelected == selected {
		return
	}
	if h.group != nil {
		if selected {
			h.group.SelectHandle(h)
		} else {
			h.group.DeselectHandle(h)
		}
		return
	}
	h.setSelectedState(selected)
}

// Select is SetSelected(true).
func (h *SelectableDragHandle) Select() { h.SetSelected(true) }

// Deselect is SetSelected(false).
func (h *SelectableDragHandle) Deselect() { h.SetSelected(false) }

// setSelectedState flips the flag and fires notifications without
// consulting the group.
func (h *SelectableDragHandle) setSelectedState(selected bool) {
	if h.isSelected == selected {
		return
	}
	h.isSelected = selected
	if selected {
		if h.OnSelected != nil {
			h.OnSelected()
		}
		h.emit(HandleEvent{Type: HandleSelected, Before: h.position, After: h.position})
		return
	}
	if h.OnDeselected != nil {
		h.OnDeselected()
	}
	h.emit(HandleEvent{Type: HandleDeselected, Before: h.position, After: h.position})
}

// SelectionGroup returns the group the handle belongs to, or nil.
func (h *SelectableDragHandle) SelectionGroup() *SelectableDragHandlesGroup { return h.group }

// SetSelectionGroup moves the handle into g, leaving its previous group.
// A nil g just leaves the current group.
func (h *SelectableDragHandle) SetSelectionGroup(g *SelectableDragHandlesGroup) {
	if h.group == g {
		return
	}
	if h.group != nil {
		h.group.RemoveHandle(h)
	}
	if g != nil {
		g.AddHandle(h)
	}
}

// SelectedSprite returns the sprite shown while selected, or nil.
func (h *SelectableDragHandle) SelectedSprite() *Sprite { return h.selectedSprite }

// SetSelectedSprite replaces the sprite shown while selected.
func (h *SelectableDragHandle) SetSelectedSprite(s *Sprite) {
	h.selectedSprite = s
	h.updateScreenPosition()
	h.SetAngle(h.angle)
}

// SetAngle rotates all handle sprites including the selection sprite.
func (h *SelectableDragHandle) SetAngle(rad float64) {
	h.DragHandle.SetAngle(rad)
	if h.selectedSprite != nil {
		h.selectedSprite.Angle = rad
	}
}

func (h *SelectableDragHandle) updateScreenPosition() {
	h.DragHandle.updateScreenPosition()
	if h.selectedSprite != nil {
		h.selectedSprite.Position = h.screenPosition
	}
}

// SetPosition moves the handle and its selection sprite.
func (h *SelectableDragHandle) SetPosition(p Vec2) {
	h.DragHandle.SetPosition(p)
	h.updateScreenPosition()
}

// OnCursorPressed implements CursorListener.
func (h *SelectableDragHandle) OnCursorPressed(c Cursor) {
	h.DragHandle.OnCursorPressed(c)
	if h.group != nil {
		h.group.onHandlePressed(h, c)
	}
}

// OnCursorStillDown implements CursorListener.
func (h *SelectableDragHandle) OnCursorStillDown(c Cursor) {
	if !h.tracks(c) {
		return
	}
	if !h.isDragging {
		if !h.passedThreshold(c.Position) {
			return
		}
		h.beginDrag()
		if h.group != nil {
			h.group.onHandleBeganDragging(h, c.Modifiers)
		} else {
			h.Select()
		}
	}
	h.dragTo(c.Position)
	h.updateScreenPosition()
	if h.group != nil {
		h.group.onHandleMoved(h, c)
	}
}

// OnCursorReleased implements CursorListener.
func (h *SelectableDragHandle) OnCursorReleased(c Cursor) {
	h.release(c, true)
}

// OnCursorReleasedOutside implements CursorListener. A finished drag still
// completes; a click that ended off the handle deselects it.
func (h *SelectableDragHandle) OnCursorReleasedOutside(c Cursor) {
	h.release(c, false)
}

func (h *SelectableDragHandle) release(c Cursor, inside bool) {
	if !h.isPressed || c.ID != h.pressedCursorID {
		return
	}
	if h.endPress() {
		if !h.moved() {
			return
		}
		if h.group != nil {
			h.group.onHandleCompletedChange()
		} else {
			h.completeChange()
		}
		return
	}

	switch {
	case !inside:
		if h.group == nil {
			h.Deselect()
		}
	case h.group != nil:
		h.group.onHandleClicked(h, c.Modifiers)
	default:
		h.SetSelected(!h.isSelected)
	}
}

// OnCursorPressBreak implements CursorListener. Every handle the drag moved
// returns to where it started.
func (h *SelectableDragHandle) OnCursorPressBreak(c Cursor) {
	if !h.isPressed {
		return
	}
	dragging := h.isDragging
	h.DragHandle.OnCursorPressBreak(c)
	h.updateScreenPosition()
	if dragging && h.group != nil {
		h.group.onHandleDragAborted(h)
	}
}

// Update refreshes sprite positions and fades.
func (h *SelectableDragHandle) Update(dt float64) {
	h.DragHandle.Update(dt)
	if h.selectedSprite != nil {
		h.selectedSprite.Position = h.screenPosition
		target := 0.0
		if h.isSelected {
			target = 1
		}
		h.selectedSprite.FadeTo(target, h.FadeDuration)
		h.selectedSprite.Update(dt)
	}
}

// Draw renders the handle sprites with the selection sprite on top.
func (h *SelectableDragHandle) Draw(screen *ebiten.Image, screenHeight float64) {
	if !h.enabled {
		return
	}
	h.DragHandle.Draw(screen, screenHeight)
	if h.selectedSprite != nil {
		h.selectedSprite.Draw(screen, screenHeight)
	}
}
