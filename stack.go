package o2

// VerticalStack arranges children top to bottom. Each child spans the full
// width; heights share the free space by height weight, never going below a
// child's minimal height.
type VerticalStack struct {
	Spacing float64
	Border  Border
}

// Arrange implements Arranger.
func (s *VerticalStack) Arrange(w *Widget) {
	arrangeStack(w, true, s.Spacing, s.Border)
}

// MinSize implements Arranger.
func (s *VerticalStack) MinSize(w *Widget) Vec2 {
	return stackMinSize(w, true, s.Spacing, s.Border)
}

// HorizontalStack arranges children left to right. Each child spans the
// full height; widths share the free space by width weight.
type HorizontalStack struct {
	Spacing float64
	Border  Border
}

// Arrange implements Arranger.
func (s *HorizontalStack) Arrange(w *Widget) {
	arrangeStack(w, false, s.Spacing, s.Border)
}

// MinSize implements Arranger.
func (s *HorizontalStack) MinSize(w *Widget) Vec2 {
	return stackMinSize(w, false, s.Spacing, s.Border)
}

// arrangeStack writes each child's rectangle relative to w's children
// rectangle. Writes are forcible so children do not bounce dirtiness back
// to w.
func arrangeStack(w *Widget, vertical bool, spacing float64, border Border) {
	n := len(w.children)
	if n == 0 {
		return
	}
	size := w.childrenWorldRect.Size()
	area := Rect{Left: border.Left, Bottom: border.Bottom, Right: size.X - border.Right, Top: size.Y - border.Top}

	mainLen := area.Width()
	if vertical {
		mainLen = area.Height()
	}
	lengths := distribute(w.children, vertical, mainLen-spacing*float64(n-1))

	cursor := area.Left
	if vertical {
		cursor = area.Top
	}
	for i, c := range w.children {
		var r Rect
		if vertical {
			r = Rect{Left: area.Left, Bottom: cursor - lengths[i], Right: area.Right, Top: cursor}
			cursor -= lengths[i] + spacing
		} else {
			r = Rect{Left: cursor, Bottom: area.Bottom, Right: cursor + lengths[i], Top: area.Top}
			cursor += lengths[i] + spacing
		}
		l := c.layout
		l.drivenByParent = true
		l.anchorMin = Vec2{}
		l.anchorMax = Vec2{}
		l.setRect(r, true)
	}
}

// distribute splits avail along the main axis by weight. Children whose
// share falls below their minimal length are pinned to it and the rest is
// shared again among the others.
func distribute(children []*Widget, vertical bool, avail float64) []float64 {
	n := len(children)
	lengths := make([]float64, n)
	pinned := make([]bool, n)

	axis := func(v Vec2) float64 {
		if vertical {
			return v.Y
		}
		return v.X
	}

	for {
		free := avail
		weights := 0.0
		for i, c := range children {
			if pinned[i] {
				free -= lengths[i]
				continue
			}
			weights += axis(c.layout.weight)
		}
		if free < 0 {
			free = 0
		}

		changed := false
		for i, c := range children {
			if pinned[i] {
				continue
			}
			share := 0.0
			if weights > 0 {
				share = free * axis(c.layout.weight) / weights
			}
			lo := axis(c.MinSizeWithChildren())
			if share < lo {
				lengths[i] = lo
				pinned[i] = true
				changed = true
				continue
			}
			lengths[i] = share
		}
		if !changed {
			return lengths
		}
	}
}

func stackMinSize(w *Widget, vertical bool, spacing float64, border Border) Vec2 {
	var main, cross float64
	for _, c := range w.children {
		m := c.MinSizeWithChildren()
		if vertical {
			main += m.Y
			cross = max(cross, m.X)
		} else {
			main += m.X
			cross = max(cross, m.Y)
		}
	}
	if n := len(w.children); n > 1 {
		main += spacing * float64(n-1)
	}
	if vertical {
		return Vec2{cross + border.Left + border.Right, main + border.Bottom + border.Top}
	}
	return Vec2{main + border.Left + border.Right, cross + border.Bottom + border.Top}
}
