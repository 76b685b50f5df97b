package o2

// BothStretch fills the parent on both axes, inset by the given borders.
func BothStretch(left, bottom, right, top float64) *WidgetLayout {
	return NewWidgetLayout(Vec2{0, 0}, Vec2{1, 1}, Vec2{left, bottom}, Vec2{-right, -top})
}

// Based docks a fixed-size rectangle to one of nine reference points of the
// parent, shifted by offset.
func Based(corner BaseCorner, size, offset Vec2) *WidgetLayout {
	var anchor, lo Vec2
	switch corner {
	case BaseLeft:
		anchor, lo = Vec2{0, 0.5}, Vec2{0, -size.Y / 2}
	case BaseRight:
		anchor, lo = Vec2{1, 0.5}, Vec2{-size.X, -size.Y / 2}
	case BaseTop:
		anchor, lo = Vec2{0.5, 1}, Vec2{-size.X / 2, -size.Y}
	case BaseBottom:
		anchor, lo = Vec2{0.5, 0}, Vec2{-size.X / 2, 0}
	case BaseCenter:
		anchor, lo = Vec2{0.5, 0.5}, Vec2{-size.X / 2, -size.Y / 2}
	case BaseLeftBottom:
		anchor, lo = Vec2{0, 0}, Vec2{0, 0}
	case BaseLeftTop:
		anchor, lo = Vec2{0, 1}, Vec2{0, -size.Y}
	case BaseRightBottom:
		anchor, lo = Vec2{1, 0}, Vec2{-size.X, 0}
	case BaseRightTop:
		anchor, lo = Vec2{1, 1}, Vec2{-size.X, -size.Y}
	default:
		panic("o2: unknown base corner")
	}
	lo = lo.Add(offset)
	return NewWidgetLayout(anchor, anchor, lo, lo.Add(size))
}

// VerStretch stretches vertically between top and bottom borders and keeps a
// fixed width aligned left, middle or right, shifted by offsX. HorAlignBoth
// stretches horizontally as well.
func VerStretch(align HorAlign, top, bottom, width, offsX float64) *WidgetLayout {
	l := newLayout()
	l.anchorMin.Y, l.anchorMax.Y = 0, 1
	l.offsetMin.Y, l.offsetMax.Y = bottom, -top

	switch align {
	case HorAlignLeft:
		l.anchorMin.X, l.anchorMax.X = 0, 0
		l.offsetMin.X, l.offsetMax.X = offsX, offsX+width
	case HorAlignMiddle:
		l.anchorMin.X, l.anchorMax.X = 0.5, 0.5
		l.offsetMin.X, l.offsetMax.X = offsX-width/2, offsX+width/2
	case HorAlignRight:
		l.anchorMin.X, l.anchorMax.X = 1, 1
		l.offsetMin.X, l.offsetMax.X = -offsX-width, -offsX
	case HorAlignBoth:
		l.anchorMin.X, l.anchorMax.X = 0, 1
	}
	return l
}

// HorStretch stretches horizontally between left and right borders and keeps
// a fixed height aligned top, middle or bottom, shifted by offsY. VerAlignBoth
// stretches vertically as well.
func HorStretch(align VerAlign, left, right, height, offsY float64) *WidgetLayout {
	l := newLayout()
	l.anchorMin.X, l.anchorMax.X = 0, 1
	l.offsetMin.X, l.offsetMax.X = left, -right

	switch align {
	case VerAlignTop:
		l.anchorMin.Y, l.anchorMax.Y = 1, 1
		l.offsetMin.Y, l.offsetMax.Y = -offsY-height, -offsY
	case VerAlignMiddle:
		l.anchorMin.Y, l.anchorMax.Y = 0.5, 0.5
		l.offsetMin.Y, l.offsetMax.Y = offsY-height/2, offsY+height/2
	case VerAlignBottom:
		l.anchorMin.Y, l.anchorMax.Y = 0, 0
		l.offsetMin.Y, l.offsetMax.Y = offsY, offsY+height
	case VerAlignBoth:
		l.anchorMin.Y, l.anchorMax.Y = 0, 1
	}
	return l
}
