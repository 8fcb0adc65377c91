package geometry

// Selection tracks the selection rectangle during an interactive session.
// It is not safe for concurrent use; callers serialize access through a
// single event loop.
type Selection struct {
	screen Size

	start, end Point
	active     bool

	dragVec  Point
	dragging bool
}

// NewSelection returns an empty selection on a screen of the given logical size.
func NewSelection(screen Size) *Selection {
	return &Selection{screen: screen}
}

// Screen returns the logical screen size.
func (s *Selection) Screen() Size { return s.screen }

// Active reports whether a selection rectangle exists.
func (s *Selection) Active() bool { return s.active }

// Begin starts a drag-select at p.
func (s *Selection) Begin(p Point) {
	s.start, s.end = p, p
	s.active = true
	s.dragging = false
}

// Extend moves the free corner of a drag-select to p.
func (s *Selection) Extend(p Point) {
	if !s.active {
		s.Begin(p)
		return
	}
	s.end = p
}

// Finish normalizes the corners so start is the top-left.
func (s *Selection) Finish() {
	if !s.active {
		return
	}
	r := Normalize(s.start, s.end)
	s.start, s.end = r.Min(), r.Max()
}

// Rect returns the normalized selection rectangle.
func (s *Selection) Rect() Rect {
	if !s.active {
		return Rect{}
	}
	return Normalize(s.start, s.end)
}

// Reset discards the selection.
func (s *Selection) Reset() {
	*s = Selection{screen: s.screen}
}

// Classify maps p to the handle it hits, or None without a selection.
func (s *Selection) Classify(p Point) Handle {
	if !s.active {
		return None
	}
	return Classify(s.Rect(), p)
}

// BeginDrag records the vector from the selection's top-left to p.
func (s *Selection) BeginDrag(p Point) {
	s.dragVec = p.Sub(s.Rect().Min())
	s.dragging = true
}

// Dragging reports whether a move gesture is in progress.
func (s *Selection) Dragging() bool { return s.dragging }

// EndDrag finishes a move gesture.
func (s *Selection) EndDrag() { s.dragging = false }

// DragTo returns the unclamped top-left the selection would have if the
// drag point moved to p.
func (s *Selection) DragTo(p Point) Point {
	return p.Sub(s.dragVec)
}

// MoveTo places the selection's top-left at tl, clamped to the screen, and
// returns the resulting rectangle.
func (s *Selection) MoveTo(tl Point) Rect {
	r := s.Rect()
	r.X, r.Y = tl.X, tl.Y
	r = ClampToScreen(r, s.screen)
	s.start, s.end = r.Min(), r.Max()
	return r
}

// ResizeFrom moves the edges named by h to p. It returns false and leaves the
// selection untouched when h is not a resize handle.
func (s *Selection) ResizeFrom(h Handle, p Point) bool {
	if !s.active {
		return false
	}
	start, end, ok := ResizeFrom(s.start, s.end, h, p)
	if !ok {
		return false
	}
	s.start, s.end = start, end
	return true
}

// SubRegions returns the partitions around the current selection.
func (s *Selection) SubRegions() SubRegions {
	return ComputeSubRegions(s.Rect(), s.screen)
}

// OuterRegions returns the mask strips around the current selection.
func (s *Selection) OuterRegions() [4]Rect {
	if !s.active {
		return [4]Rect{{0, 0, s.screen.W, s.screen.H}}
	}
	return NonOverlappingOuterRegions(s.Rect(), s.screen)
}
