package geometry

import "math"

// SubRegions partitions the screen around a selection.
type SubRegions struct {
	Center      Rect
	TopLeft     Rect
	Top         Rect
	TopRight    Rect
	Left        Rect
	Right       Rect
	BottomLeft  Rect
	Bottom      Rect
	BottomRight Rect
	Handles     []HandleBox
}

// ComputeSubRegions derives the nine partitions and the handle squares for
// sel on a screen of the given size.
func ComputeSubRegions(sel Rect, screen Size) SubRegions {
	l, t := sel.X, sel.Y
	r, b := sel.Right(), sel.Bottom()
	rw := nonNeg(screen.W - r)
	bh := nonNeg(screen.H - b)
	return SubRegions{
		Center:      sel,
		TopLeft:     Rect{0, 0, nonNeg(l), nonNeg(t)},
		Top:         Rect{l, 0, sel.W, nonNeg(t)},
		TopRight:    Rect{r, 0, rw, nonNeg(t)},
		Left:        Rect{0, t, nonNeg(l), sel.H},
		Right:       Rect{r, t, rw, sel.H},
		BottomLeft:  Rect{0, b, nonNeg(l), bh},
		Bottom:      Rect{l, b, sel.W, bh},
		BottomRight: Rect{r, b, rw, bh},
		Handles:     HandleBoxes(sel),
	}
}

// NonOverlappingOuterRegions returns the top, bottom, left and right strips
// that cover the screen outside sel without overlapping each other. The side
// strips stop one unit short of the selection border.
func NonOverlappingOuterRegions(sel Rect, screen Size) [4]Rect {
	top := Rect{0, 0, screen.W, nonNeg(sel.Y)}
	bottom := Rect{0, sel.Bottom(), screen.W, nonNeg(screen.H - sel.Bottom())}
	left := Rect{0, sel.Y, nonNeg(sel.X - 1), sel.H}
	right := Rect{sel.Right() + 1, sel.Y, nonNeg(screen.W - sel.Right() - 1), sel.H}
	return [4]Rect{top, bottom, left, right}
}

// ClampToScreen translates r so it lies inside the screen. The top-left edge
// is corrected first, then the bottom-right. A rectangle larger than the
// screen is pinned to the screen edges.
func ClampToScreen(r Rect, screen Size) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if over := r.Right() - screen.W; over > 0 {
		r.X -= over
	}
	if over := r.Bottom() - screen.H; over > 0 {
		r.Y -= over
	}
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	r.W = math.Min(nonNeg(r.W), screen.W)
	r.H = math.Min(nonNeg(r.H), screen.H)
	return r
}

// ResizeFrom moves the edges named by h to p and returns the re-normalized
// corners. The bool is false when h does not name a resize handle, in which
// case the corners come back unchanged.
func ResizeFrom(start, end Point, h Handle, p Point) (Point, Point, bool) {
	if !h.Resizes() {
		return start, end, false
	}
	n := Normalize(start, end)
	s, e := n.Min(), n.Max()
	switch h {
	case TopLeft:
		s = p
	case Top:
		s.Y = p.Y
	case TopRight:
		s.Y = p.Y
		e.X = p.X
	case Left:
		s.X = p.X
	case Right:
		e.X = p.X
	case BottomLeft:
		s.X = p.X
		e.Y = p.Y
	case Bottom:
		e.Y = p.Y
	case BottomRight:
		e = p
	}
	out := Normalize(s, e)
	return out.Min(), out.Max(), true
}

func nonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
