package geometry

// PlaceToolbar picks a top-left for a toolbar of size bar next to sel. It
// prefers just below the bottom-right corner, then just above the top-right
// corner, and finally inside the bottom-right corner. The x coordinate never
// goes negative.
func PlaceToolbar(sel Rect, bar, screen Size, margin float64) Point {
	x := sel.Right() - bar.W
	if x < 0 {
		x = 0
	}
	if below := sel.Bottom() + margin; below+bar.H <= screen.H {
		return Point{x, below}
	}
	if above := sel.Y - margin - bar.H; above >= 0 {
		return Point{x, above}
	}
	x = sel.Right() - bar.W - margin
	if x < 0 {
		x = 0
	}
	y := sel.Bottom() - bar.H - margin
	if y < 0 {
		y = 0
	}
	return Point{x, y}
}

// SizeLabelAnchor returns the top-left for a label of the given size naming
// the selection's dimensions: above the top-left corner when there is room,
// otherwise just inside it.
func SizeLabelAnchor(sel Rect, label Size) Point {
	if y := sel.Y - label.H - 2; y >= 0 {
		return Point{sel.X, y}
	}
	return Point{sel.X + 2, sel.Y + 2}
}
