package o2

// widgetIDCounter is a plain counter; the UI tree is single-threaded.
var widgetIDCounter uint32

func nextWidgetID() uint32 {
	widgetIDCounter++
	return widgetIDCounter
}

// Arranger is a container algorithm that positions a widget's children
// itself. Children of an arranged widget are driven by their parent.
type Arranger interface {
	// Arrange lays the children of w out inside w's children rectangle.
	Arrange(w *Widget)
	// MinSize returns the smallest size w can have and still fit its
	// children.
	MinSize(w *Widget) Vec2
}

// Widget is a node of the UI tree. Its rectangle is resolved by its layout
// against the parent's children rectangle once per Update, top-down.
type Widget struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Widget
	children []*Widget

	// Transparency is multiplied down the tree. It is animatable as the
	// plain field "transparency".
	Transparency float64
	Visible      bool

	// Metadata
	UserData any

	// OnTransformUpdated fires after the layout resolved a new rectangle.
	OnTransformUpdated func(*Widget)

	layout            *WidgetLayout
	arranger          Arranger
	childrenInset     Border
	worldRect         Rect
	childrenWorldRect Rect
	resTransparency   float64

	animatable *Animatable
	fields     FieldTable

	disposed bool
}

// NewWidget creates a widget that stretches over its parent.
func NewWidget(name string) *Widget {
	w := &Widget{
		ID:              nextWidgetID(),
		Name:            name,
		Transparency:    1,
		Visible:         true,
		resTransparency: 1,
	}
	w.layout = newLayout()
	w.layout.owner = w
	w.registerFields()
	return w
}

// NewWidgetWithLayout creates a widget and copies l into its layout.
func NewWidgetWithLayout(name string, l *WidgetLayout) *Widget {
	w := NewWidget(name)
	w.layout.CopyFrom(l)
	return w
}

// Layout returns the widget's layout.
func (w *Widget) Layout() *WidgetLayout {
	return w.layout
}

// SetLayout copies l into the widget's layout. l itself is not retained.
func (w *Widget) SetLayout(l *WidgetLayout) {
	w.layout.CopyFrom(l)
}

// ChildrenInset returns the padding reserved inside the widget's rectangle.
func (w *Widget) ChildrenInset() Border {
	return w.childrenInset
}

// SetChildrenInset sets the padding children are laid out inside of.
func (w *Widget) SetChildrenInset(b Border) {
	w.childrenInset = b
	w.layout.SetDirtyForcibly()
}

// WorldRect returns the resolved rectangle.
func (w *Widget) WorldRect() Rect {
	return w.worldRect
}

// ChildrenWorldRect returns the rectangle children resolve against: the
// world rectangle shrunk by the children inset.
func (w *Widget) ChildrenWorldRect() Rect {
	return w.childrenWorldRect
}

// Basis returns the frame spanned by the world rectangle.
func (w *Widget) Basis() Basis {
	return RectBasis(w.worldRect)
}

// LocalToWorld converts a point relative to the widget's left-bottom corner
// to world coordinates.
func (w *Widget) LocalToWorld(p Vec2) Vec2 {
	return w.worldRect.LeftBottom().Add(p)
}

// WorldToLocal is the inverse of LocalToWorld.
func (w *Widget) WorldToLocal(p Vec2) Vec2 {
	return p.Sub(w.worldRect.LeftBottom())
}

// ResTransparency returns Transparency multiplied by every ancestor's, as
// of the last Update.
func (w *Widget) ResTransparency() float64 {
	return w.resTransparency
}

// --- containers ---

// Arranger returns the container algorithm, or nil.
func (w *Widget) Arranger() Arranger {
	return w.arranger
}

// SetArranger installs a container algorithm. Existing children become
// driven by this widget. A nil arranger releases them.
func (w *Widget) SetArranger(a Arranger) {
	w.arranger = a
	for _, c := range w.children {
		c.layout.SetDrivenByParent(a != nil)
	}
	w.layout.SetDirtyForcibly()
}

// MinSizeWithChildren returns the layout's minimal size, grown to what the
// arranger needs for the children.
func (w *Widget) MinSizeWithChildren() Vec2 {
	lo := w.layout.minSize
	if w.arranger == nil {
		return lo
	}
	need := w.arranger.MinSize(w)
	if need.X > lo.X {
		lo.X = need.X
	}
	if need.Y > lo.Y {
		lo.Y = need.Y
	}
	return lo
}

// --- animation ---

// Animatable returns the widget's blend engine, creating it on first use.
func (w *Widget) Animatable() *Animatable {
	if w.animatable == nil {
		w.animatable = NewAnimatable(w)
	}
	return w.animatable
}

// AnimatedField implements Target.
func (w *Widget) AnimatedField(path string) (FieldRef, bool) {
	return w.fields.AnimatedField(path)
}

// AnimatedPaths implements PathLister.
func (w *Widget) AnimatedPaths() []string {
	return w.fields.Paths()
}

// RegisterField exposes an extra animatable field under path.
func (w *Widget) RegisterField(path string, ref FieldRef) {
	w.fields.Register(path, ref)
}

func (w *Widget) registerFields() {
	l := w.layout
	t := &w.fields
	t.Register("transparency", Field(&w.Transparency))

	vec := func(path string, get func() Vec2, set func(Vec2)) {
		t.Register("layout."+path, Property(get, set))
	}
	vec("anchorMin", l.AnchorMin, l.SetAnchorMin)
	vec("anchorMax", l.AnchorMax, l.SetAnchorMax)
	vec("offsetMin", l.OffsetMin, l.SetOffsetMin)
	vec("offsetMax", l.OffsetMax, l.SetOffsetMax)
	vec("position", l.Position, l.SetPosition)
	vec("size", l.Size, l.SetSize)
	vec("pivot", l.Pivot, l.SetPivot)

	num := func(path string, get func() float64, set func(float64)) {
		t.Register("layout."+path, Property(get, set))
	}
	num("width", l.Width, l.SetWidth)
	num("height", l.Height, l.SetHeight)
	num("anchorLeft", l.AnchorLeft, l.SetAnchorLeft)
	num("anchorRight", l.AnchorRight, l.SetAnchorRight)
	num("anchorBottom", l.AnchorBottom, l.SetAnchorBottom)
	num("anchorTop", l.AnchorTop, l.SetAnchorTop)
	num("offsetLeft", l.OffsetLeft, l.SetOffsetLeft)
	num("offsetRight", l.OffsetRight, l.SetOffsetRight)
	num("offsetBottom", l.OffsetBottom, l.SetOffsetBottom)
	num("offsetTop", l.OffsetTop, l.SetOffsetTop)
}

// --- update ---

// Update advances animations and re-resolves dirty layouts for the widget
// and its subtree. Parents always resolve before their children.
func (w *Widget) Update(dt float64) {
	parentTransparency := 1.0
	if w.Parent != nil {
		parentTransparency = w.Parent.resTransparency
	}
	w.update(dt, false, parentTransparency)
}

func (w *Widget) update(dt float64, parentRecomputed bool, parentTransparency float64) {
	if w.disposed {
		return
	}
	if w.animatable != nil {
		w.animatable.Update(dt)
	}
	recomputed := w.resolveLayout(parentRecomputed)
	w.resTransparency = parentTransparency * w.Transparency
	for _, c := range w.children {
		c.update(dt, recomputed, w.resTransparency)
	}
}

// UpdateLayout re-resolves this widget and its whole subtree immediately,
// dirty or not, without advancing animations.
func (w *Widget) UpdateLayout() {
	w.updateLayoutTree(true)
}

func (w *Widget) updateLayoutTree(force bool) {
	recomputed := w.resolveLayout(force)
	for _, c := range w.children {
		c.updateLayoutTree(recomputed)
	}
}

// resolveLayout runs the layout when it or an ancestor changed, then the
// arranger. It reports whether the rectangle was recomputed.
func (w *Widget) resolveLayout(parentRecomputed bool) bool {
	if !parentRecomputed && !w.layout.dirty {
		return false
	}
	w.layout.Update()
	if w.arranger != nil {
		w.arranger.Arrange(w)
	}
	return true
}

func (w *Widget) onLayoutUpdated(world Rect) {
	w.worldRect = world
	w.childrenWorldRect = world.Shrink(w.childrenInset)
	if w.OnTransformUpdated != nil {
		w.OnTransformUpdated(w)
	}
}

// --- tree manipulation ---

// AddChild appends child to this widget's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this widget (cycle).
func (w *Widget) AddChild(child *Widget) {
	w.AddChildAt(child, len(w.children))
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (w *Widget) AddChildAt(child *Widget, index int) {
	if child == nil {
		panic("o2: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(w, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, w) {
		panic("o2: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.detachChild(child)
	}
	if index < 0 || index > len(w.children) {
		panic("o2: child index out of range")
	}
	child.Parent = w
	w.children = append(w.children, nil)
	copy(w.children[index+1:], w.children[index:])
	w.children[index] = child

	child.layout.drivenByParent = w.arranger != nil
	child.layout.SetDirtyForcibly()
	if w.arranger != nil {
		w.layout.SetDirtyForcibly()
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(w)
	}
}

// RemoveChild detaches child from this widget.
// Panics if child.Parent != w.
func (w *Widget) RemoveChild(child *Widget) {
	if child.Parent != w {
		panic("o2: child's parent is not this widget")
	}
	w.detachChild(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (w *Widget) RemoveChildAt(index int) *Widget {
	if index < 0 || index >= len(w.children) {
		panic("o2: child index out of range")
	}
	child := w.children[index]
	w.detachChild(child)
	return child
}

// RemoveFromParent detaches this widget from its parent.
// No-op if this widget has no parent.
func (w *Widget) RemoveFromParent() {
	if w.Parent == nil {
		return
	}
	w.Parent.RemoveChild(w)
}

// RemoveChildren detaches all children. Children are NOT disposed.
func (w *Widget) RemoveChildren() {
	for len(w.children) > 0 {
		w.detachChild(w.children[len(w.children)-1])
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated
// by the caller.
func (w *Widget) Children() []*Widget {
	return w.children
}

// NumChildren returns the number of children.
func (w *Widget) NumChildren() int {
	return len(w.children)
}

// ChildAt returns the child at the given index.
func (w *Widget) ChildAt(index int) *Widget {
	return w.children[index]
}

// ChildByName returns the first descendant called name, depth first, or nil.
func (w *Widget) ChildByName(name string) *Widget {
	for _, c := range w.children {
		if c.Name == name {
			return c
		}
		if found := c.ChildByName(name); found != nil {
			return found
		}
	}
	return nil
}

// detachChild removes child without the parent check. The backing array is
// compacted with copy+nil so no dangling pointer is retained.
func (w *Widget) detachChild(child *Widget) {
	for i, c := range w.children {
		if c != child {
			continue
		}
		copy(w.children[i:], w.children[i+1:])
		w.children[len(w.children)-1] = nil
		w.children = w.children[:len(w.children)-1]
		break
	}
	child.Parent = nil
	child.layout.drivenByParent = false
	child.layout.SetDirtyForcibly()
	if w.arranger != nil {
		w.layout.SetDirtyForcibly()
	}
}

// --- disposal ---

// Dispose removes this widget from its parent, stops its animations and
// recursively disposes all descendants.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.RemoveFromParent()
	w.dispose()
}

func (w *Widget) dispose() {
	w.disposed = true
	w.ID = 0
	if w.animatable != nil {
		w.animatable.RemoveAllStates()
		w.animatable = nil
	}
	for _, c := range w.children {
		c.Parent = nil
		c.dispose()
	}
	w.children = nil
	w.Parent = nil
	w.arranger = nil
	w.UserData = nil
	w.OnTransformUpdated = nil
}

// IsDisposed reports whether this widget has been disposed.
func (w *Widget) IsDisposed() bool {
	return w.disposed
}

// isAncestor reports whether candidate is an ancestor of w (or w itself).
func isAncestor(candidate, w *Widget) bool {
	for p := w; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}
