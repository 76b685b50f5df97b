package o2

import "math"

// snapEps keeps float noise such as 89.99999 from flooring a whole pixel away.
const snapEps = 1e-6

// WidgetLayout places a widget inside its parent's children rectangle using
// anchors and offsets. Anchors are fractions of the parent size; offsets are
// pixels added to the anchored points. Every convenience setter (position,
// size, rect) only ever rewrites anchors and offsets.
//
// Rect, Position and Size are parent-local: relative to the left-bottom
// corner of the parent's children rectangle. WorldRect is the resolved,
// clamped and pixel-snapped result of the last Update.
type WidgetLayout struct {
	anchorMin Vec2
	anchorMax Vec2
	offsetMin Vec2
	offsetMax Vec2
	pivot     Vec2
	minSize   Vec2
	maxSize   Vec2
	weight    Vec2

	checkMinMax sizePolicy

	drivenByParent bool
	dirty          bool
	owner          *Widget

	position  Vec2
	size      Vec2
	worldRect Rect
}

// NewWidgetLayout creates a detached layout from anchors and offsets.
func NewWidgetLayout(anchorMin, anchorMax, offsetMin, offsetMax Vec2) *WidgetLayout {
	l := newLayout()
	l.anchorMin = anchorMin
	l.anchorMax = anchorMax
	l.offsetMin = offsetMin
	l.offsetMax = offsetMax
	return l
}

func newLayout() *WidgetLayout {
	return &WidgetLayout{
		pivot:       Vec2{0.5, 0.5},
		anchorMax:   Vec2One,
		maxSize:     Vec2{math.Inf(1), math.Inf(1)},
		weight:      Vec2One,
		checkMinMax: noClamp{},
		dirty:       true,
	}
}

// CopyFrom copies anchors, offsets, pivot, size limits, weight and the clamp
// policy from other. Owner and resolved state are kept.
func (l *WidgetLayout) CopyFrom(other *WidgetLayout) {
	l.anchorMin = other.anchorMin
	l.anchorMax = other.anchorMax
	l.offsetMin = other.offsetMin
	l.offsetMax = other.offsetMax
	l.pivot = other.pivot
	l.minSize = other.minSize
	l.maxSize = other.maxSize
	l.weight = other.weight
	l.checkMinMax = other.checkMinMax
	l.SetDirty()
}

// Equals reports whether both layouts have the same anchors and offsets.
func (l *WidgetLayout) Equals(other *WidgetLayout) bool {
	return l.anchorMin == other.anchorMin && l.anchorMax == other.anchorMax &&
		l.offsetMin == other.offsetMin && l.offsetMax == other.offsetMax
}

// Owner returns the widget this layout belongs to, or nil.
func (l *WidgetLayout) Owner() *Widget { return l.owner }

// --- dirtiness ---

// SetDirty schedules a re-layout. A layout driven by its parent also asks
// the parent to re-layout, since the parent decides its rectangle.
func (l *WidgetLayout) SetDirty() {
	l.setDirty(false)
}

// SetDirtyForcibly schedules a re-layout of this layout only, without
// delegating to a driving parent.
func (l *WidgetLayout) SetDirtyForcibly() {
	l.setDirty(true)
}

func (l *WidgetLayout) setDirty(fromParent bool) {
	if !fromParent && l.drivenByParent && l.owner != nil && l.owner.Parent != nil {
		l.owner.Parent.layout.setDirty(false)
	}
	l.dirty = true
}

// IsDirty reports whether a re-layout is pending.
func (l *WidgetLayout) IsDirty() bool { return l.dirty }

// IsDrivenByParent reports whether a parent container arranges this layout.
func (l *WidgetLayout) IsDrivenByParent() bool { return l.drivenByParent }

// SetDrivenByParent marks the layout as arranged by its parent container.
func (l *WidgetLayout) SetDrivenByParent(driven bool) {
	l.drivenByParent = driven
	l.setDirty(true)
}

// --- parent rectangle ---

// ParentRect returns the rectangle this layout resolves against: the
// parent's children rectangle, or a zero rectangle at the root.
func (l *WidgetLayout) ParentRect() Rect {
	if l.owner == nil || l.owner.Parent == nil {
		return Rect{}
	}
	return l.owner.Parent.childrenWorldRect
}

// Resolve returns the world rectangle anchors and offsets describe inside
// parent, before clamping and snapping.
func (l *WidgetLayout) Resolve(parent Rect) Rect {
	lb := parent.LeftBottom()
	ps := parent.Size()
	return NewRect(
		lb.Add(l.offsetMin).Add(l.anchorMin.Mul(ps)),
		lb.Add(l.offsetMax).Add(l.anchorMax.Mul(ps)),
	)
}

// Rect returns the parent-local rectangle described by anchors and offsets.
func (l *WidgetLayout) Rect() Rect {
	ps := l.ParentRect().Size()
	return NewRect(
		l.offsetMin.Add(l.anchorMin.Mul(ps)),
		l.offsetMax.Add(l.anchorMax.Mul(ps)),
	)
}

// SetRect keeps the anchors and sets the offsets so that Rect returns rect.
func (l *WidgetLayout) SetRect(rect Rect) {
	l.setRect(rect, false)
}

func (l *WidgetLayout) setRect(rect Rect, fromParent bool) {
	ps := l.ParentRect().Size()
	l.offsetMin = rect.LeftBottom().Sub(l.anchorMin.Mul(ps))
	l.offsetMax = rect.RightTop().Sub(l.anchorMax.Mul(ps))
	l.setDirty(fromParent)
}

// SetWorldRect is SetRect with rect given in world coordinates.
func (l *WidgetLayout) SetWorldRect(rect Rect) {
	lb := l.ParentRect().LeftBottom()
	l.SetRect(rect.Moved(lb.Scale(-1)))
}

// --- position and size ---

// Position returns the parent-local pivot point.
func (l *WidgetLayout) Position() Vec2 {
	r := l.Rect()
	return r.LeftBottom().Add(r.Size().Mul(l.pivot))
}

// SetPosition moves the rectangle so that its pivot point lands on p.
func (l *WidgetLayout) SetPosition(p Vec2) {
	delta := p.Sub(l.Position())
	l.offsetMin = l.offsetMin.Add(delta)
	l.offsetMax = l.offsetMax.Add(delta)
	l.SetDirty()
}

// Size returns the unclamped size described by anchors and offsets.
func (l *WidgetLayout) Size() Vec2 {
	return l.Rect().Size()
}

// SetSize resizes around the pivot: pivot 0 pins the min edge, 1 pins the
// max edge.
func (l *WidgetLayout) SetSize(size Vec2) {
	delta := size.Sub(l.Size())
	l.offsetMax = l.offsetMax.Add(delta.Mul(Vec2One.Sub(l.pivot)))
	l.offsetMin = l.offsetMin.Sub(delta.Mul(l.pivot))
	l.SetDirty()
}

// Width returns the unclamped width.
func (l *WidgetLayout) Width() float64 { return l.Rect().Width() }

// SetWidth resizes horizontally around the pivot.
func (l *WidgetLayout) SetWidth(w float64) {
	delta := w - l.Width()
	l.offsetMax.X += delta * (1 - l.pivot.X)
	l.offsetMin.X -= delta * l.pivot.X
	l.SetDirty()
}

// Height returns the unclamped height.
func (l *WidgetLayout) Height() float64 { return l.Rect().Height() }

// SetHeight resizes vertically around the pivot.
func (l *WidgetLayout) SetHeight(h float64) {
	delta := h - l.Height()
	l.offsetMax.Y += delta * (1 - l.pivot.Y)
	l.offsetMin.Y -= delta * l.pivot.Y
	l.SetDirty()
}

// Pivot returns the fixed point used by position and size setters, as a
// fraction of the rectangle.
func (l *WidgetLayout) Pivot() Vec2 { return l.pivot }

// SetPivot sets the pivot.
func (l *WidgetLayout) SetPivot(p Vec2) {
	l.pivot = p
	l.SetDirty()
}

// --- anchors and offsets ---

func (l *WidgetLayout) AnchorMin() Vec2 { return l.anchorMin }
func (l *WidgetLayout) AnchorMax() Vec2 { return l.anchorMax }
func (l *WidgetLayout) OffsetMin() Vec2 { return l.offsetMin }
func (l *WidgetLayout) OffsetMax() Vec2 { return l.offsetMax }

func (l *WidgetLayout) SetAnchorMin(v Vec2) { l.anchorMin = v; l.SetDirty() }
func (l *WidgetLayout) SetAnchorMax(v Vec2) { l.anchorMax = v; l.SetDirty() }
func (l *WidgetLayout) SetOffsetMin(v Vec2) { l.offsetMin = v; l.SetDirty() }
func (l *WidgetLayout) SetOffsetMax(v Vec2) { l.offsetMax = v; l.SetDirty() }

func (l *WidgetLayout) AnchorLeft() float64   { return l.anchorMin.X }
func (l *WidgetLayout) AnchorRight() float64  { return l.anchorMax.X }
func (l *WidgetLayout) AnchorBottom() float64 { return l.anchorMin.Y }
func (l *WidgetLayout) AnchorTop() float64    { return l.anchorMax.Y }

func (l *WidgetLayout) SetAnchorLeft(v float64)   { l.anchorMin.X = v; l.SetDirty() }
func (l *WidgetLayout) SetAnchorRight(v float64)  { l.anchorMax.X = v; l.SetDirty() }
func (l *WidgetLayout) SetAnchorBottom(v float64) { l.anchorMin.Y = v; l.SetDirty() }
func (l *WidgetLayout) SetAnchorTop(v float64)    { l.anchorMax.Y = v; l.SetDirty() }

func (l *WidgetLayout) OffsetLeft() float64   { return l.offsetMin.X }
func (l *WidgetLayout) OffsetRight() float64  { return l.offsetMax.X }
func (l *WidgetLayout) OffsetBottom() float64 { return l.offsetMin.Y }
func (l *WidgetLayout) OffsetTop() float64    { return l.offsetMax.Y }

func (l *WidgetLayout) SetOffsetLeft(v float64)   { l.offsetMin.X = v; l.SetDirty() }
func (l *WidgetLayout) SetOffsetRight(v float64)  { l.offsetMax.X = v; l.SetDirty() }
func (l *WidgetLayout) SetOffsetBottom(v float64) { l.offsetMin.Y = v; l.SetDirty() }
func (l *WidgetLayout) SetOffsetTop(v float64)    { l.offsetMax.Y = v; l.SetDirty() }

// --- size limits and weight ---

// MinimalSize returns the lower size limit.
func (l *WidgetLayout) MinimalSize() Vec2 { return l.minSize }

// MaximalSize returns the upper size limit. Unlimited axes are +Inf.
func (l *WidgetLayout) MaximalSize() Vec2 { return l.maxSize }

// SetMinimalSize sets the lower limit and enables clamping.
func (l *WidgetLayout) SetMinimalSize(v Vec2) {
	l.minSize = v
	l.enableClamp()
}

// SetMinimalWidth sets the lower width limit and enables clamping.
func (l *WidgetLayout) SetMinimalWidth(v float64) {
	l.minSize.X = v
	l.enableClamp()
}

// SetMinimalHeight sets the lower height limit and enables clamping.
func (l *WidgetLayout) SetMinimalHeight(v float64) {
	l.minSize.Y = v
	l.enableClamp()
}

// SetMaximalSize sets the upper limit and enables clamping.
func (l *WidgetLayout) SetMaximalSize(v Vec2) {
	l.maxSize = v
	l.enableClamp()
}

// SetMaximalWidth sets the upper width limit and enables clamping.
func (l *WidgetLayout) SetMaximalWidth(v float64) {
	l.maxSize.X = v
	l.enableClamp()
}

// SetMaximalHeight sets the upper height limit and enables clamping.
func (l *WidgetLayout) SetMaximalHeight(v float64) {
	l.maxSize.Y = v
	l.enableClamp()
}

// DisableMinMaxSizes turns clamping off. The limits are kept.
func (l *WidgetLayout) DisableMinMaxSizes() {
	l.checkMinMax = noClamp{}
	l.SetDirty()
}

// IsClamped reports whether Update clamps the size.
func (l *WidgetLayout) IsClamped() bool {
	_, ok := l.checkMinMax.(minMaxClamp)
	return ok
}

func (l *WidgetLayout) enableClamp() {
	l.checkMinMax = minMaxClamp{}
	l.SetDirty()
}

// Weight is the share of free space a stack container gives this layout.
func (l *WidgetLayout) Weight() Vec2 { return l.weight }

// SetWeight sets both weights.
func (l *WidgetLayout) SetWeight(w Vec2) { l.weight = w; l.SetDirty() }

// SetWidthWeight sets the horizontal weight.
func (l *WidgetLayout) SetWidthWeight(w float64) { l.weight.X = w; l.SetDirty() }

// SetHeightWeight sets the vertical weight.
func (l *WidgetLayout) SetHeightWeight(w float64) { l.weight.Y = w; l.SetDirty() }

// sizePolicy is the size check Update applies before snapping.
type sizePolicy interface {
	apply(l *WidgetLayout, size Vec2) Vec2
}

type noClamp struct{}

func (noClamp) apply(_ *WidgetLayout, size Vec2) Vec2 { return size }

// minMaxClamp clamps to [min size with children, max size].
type minMaxClamp struct{}

func (minMaxClamp) apply(l *WidgetLayout, size Vec2) Vec2 {
	lo := l.minSize
	if l.owner != nil {
		lo = l.owner.MinSizeWithChildren()
	}
	return Vec2{
		clamp(size.X, lo.X, math.Max(lo.X, l.maxSize.X)),
		clamp(size.Y, lo.Y, math.Max(lo.Y, l.maxSize.Y)),
	}
}

// --- resolved state ---

// WorldRect returns the rectangle computed by the last Update.
func (l *WidgetLayout) WorldRect() Rect { return l.worldRect }

// ResolvedPosition returns the snapped pivot point relative to the parent
// rectangle, as computed by the last Update.
func (l *WidgetLayout) ResolvedPosition() Vec2 { return l.position }

// ResolvedSize returns the clamped, snapped size from the last Update.
func (l *WidgetLayout) ResolvedSize() Vec2 { return l.size }

// Update re-resolves the world rectangle against the parent's children
// rectangle: clamp the size around the pivot, snap to whole pixels, store
// the result on the owner and notify it.
func (l *WidgetLayout) Update() {
	parent := l.ParentRect()
	world := l.Resolve(parent)

	size := world.Size()
	pivotPt := world.LeftBottom().Add(size.Mul(l.pivot))
	size = l.checkMinMax.apply(l, size)

	lb := snap(pivotPt.Sub(size.Mul(l.pivot)))
	size = snap(size)

	l.size = size
	l.worldRect = NewRect(lb, lb.Add(size))
	l.position = lb.Sub(parent.LeftBottom()).Add(size.Mul(l.pivot))
	l.dirty = false

	if l.owner != nil {
		l.owner.onLayoutUpdated(l.worldRect)
	}
}

func snap(v Vec2) Vec2 {
	return Vec2{math.Floor(v.X + snapEps), math.Floor(v.Y + snapEps)}
}
