package o2

import "slices"

// SelectableDragHandlesGroup owns the selection policy of a set of
// selectable handles. It does not own the handles themselves. The selected
// handles are always a subset of the group's handles.
//
// A click without Ctrl or Meta selects only the clicked handle; with one
// held the clicked handle is added to the selection. Dragging any selected
// handle drags every selected handle, each keeping its own grab offset.
type SelectableDragHandlesGroup struct {
	// OnSelectionChanged fires after any change to the selected set.
	OnSelectionChanged func()

	handles  []*SelectableDragHandle
	selected []*SelectableDragHandle
}

// NewSelectableDragHandlesGroup creates an empty group.
func NewSelectableDragHandlesGroup() *SelectableDragHandlesGroup {
	return &SelectableDragHandlesGroup{}
}

// AllHandles returns a copy of the group's handles in insertion order.
func (g *SelectableDragHandlesGroup) AllHandles() []*SelectableDragHandle {
	return slices.Clone(g.handles)
}

// SelectedHandles returns a copy of the selected handles in selection order.
func (g *SelectableDragHandlesGroup) SelectedHandles() []*SelectableDragHandle {
	return slices.Clone(g.selected)
}

// Contains reports whether h belongs to the group.
func (g *SelectableDragHandlesGroup) Contains(h *SelectableDragHandle) bool {
	return slices.Contains(g.handles, h)
}

// AddHandle adds h to the group, taking it out of any other group. A handle
// that is already selected joins the selection.
func (g *SelectableDragHandlesGroup) AddHandle(h *SelectableDragHandle) {
	if h == nil {
		panic("o2: cannot add nil handle to selection group")
	}
	if g.Contains(h) {
		return
	}
	if h.group != nil {
		h.group.RemoveHandle(h)
	}
	h.group = g
	g.handles = append(g.handles, h)
	if h.isSelected {
		g.selected = append(g.selected, h)
		g.selectionChanged()
	}
}

// RemoveHandle takes h out of the group and its selection. h ends up
// deselected and groupless. Removing a handle that is not a member is a
// no-op.
func (g *SelectableDragHandlesGroup) RemoveHandle(h *SelectableDragHandle) {
	i := slices.Index(g.handles, h)
	if i < 0 {
		return
	}
	g.handles = slices.Delete(g.handles, i, i+1)
	h.group = nil
	if j := slices.Index(g.selected, h); j >= 0 {
		g.selected = slices.Delete(g.selected, j, j+1)
		h.setSelectedState(false)
		g.selectionChanged()
	}
}

// SelectHandle selects h. Handles outside the group are ignored.
func (g *SelectableDragHandlesGroup) SelectHandle(h *SelectableDragHandle) {
	if !g.Contains(h) || slices.Contains(g.selected, h) {
		return
	}
	g.selected = append(g.selected, h)
	h.setSelectedState(true)
	g.selectionChanged()
}

// DeselectHandle deselects h.
func (g *SelectableDragHandlesGroup) DeselectHandle(h *SelectableDragHandle) {
	i := slices.Index(g.selected, h)
	if i < 0 {
		return
	}
	g.selected = slices.Delete(g.selected, i, i+1)
	h.setSelectedState(false)
	g.selectionChanged()
}

// SelectAll selects every handle in the group.
func (g *SelectableDragHandlesGroup) SelectAll() {
	for _, h := range g.AllHandles() {
		g.SelectHandle(h)
	}
}

// DeselectAll clears the selection.
func (g *SelectableDragHandlesGroup) DeselectAll() {
	for _, h := range g.SelectedHandles() {
		g.DeselectHandle(h)
	}
}

// Dispose detaches every handle from the group. The handles stay usable on
// their own and keep their selection flags.
func (g *SelectableDragHandlesGroup) Dispose() {
	for _, h := range g.handles {
		h.group = nil
	}
	g.handles = nil
	g.selected = nil
	g.OnSelectionChanged = nil
}

func (g *SelectableDragHandlesGroup) selectionChanged() {
	if g.OnSelectionChanged != nil {
		g.OnSelectionChanged()
	}
}

func (g *SelectableDragHandlesGroup) deselectOthers(keep *SelectableDragHandle) {
	for _, h := range g.SelectedHandles() {
		if h != keep {
			g.DeselectHandle(h)
		}
	}
}

// onHandlePressed records every selected handle's grab offset so they can
// all follow the cursor.
func (g *SelectableDragHandlesGroup) onHandlePressed(pressed *SelectableDragHandle, c Cursor) {
	for _, h := range g.selected {
		if h == pressed {
			continue
		}
		h.dragOffset = h.position.Sub(h.screenToLocal(c.Position))
		h.dragPosition = h.position
		h.dragBeginPosition = h.position
	}
}

func (g *SelectableDragHandlesGroup) onHandleClicked(h *SelectableDragHandle, mods KeyModifiers) {
	if !mods.additive() {
		g.deselectOthers(h)
	}
	g.SelectHandle(h)
}

func (g *SelectableDragHandlesGroup) onHandleBeganDragging(h *SelectableDragHandle, mods KeyModifiers) {
	if h.isSelected {
		return
	}
	if !mods.additive() {
		g.deselectOthers(h)
	}
	g.SelectHandle(h)
}

// onHandleMoved moves every other selected handle under the cursor using
// its own offset and transform.
func (g *SelectableDragHandlesGroup) onHandleMoved(dragged *SelectableDragHandle, c Cursor) {
	for _, h := range g.SelectedHandles() {
		if h == dragged {
			continue
		}
		h.dragTo(c.Position)
		h.updateScreenPosition()
	}
}

// onHandleCompletedChange completes the change on every selected handle
// that moved.
func (g *SelectableDragHandlesGroup) onHandleCompletedChange() {
	for _, h := range g.SelectedHandles() {
		if h.moved() {
			h.completeChange()
		}
	}
}

// onHandleDragAborted returns the other selected handles to where the drag
// found them.
func (g *SelectableDragHandlesGroup) onHandleDragAborted(dragged *SelectableDragHandle) {
	for _, h := range g.SelectedHandles() {
		if h == dragged || !h.moved() {
			continue
		}
		h.SetPosition(h.dragBeginPosition)
		h.dragPosition = h.position
		if h.OnChangedPos != nil {
			h.OnChangedPos(h.position)
		}
	}
}
