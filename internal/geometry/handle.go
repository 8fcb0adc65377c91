package geometry

// Handle names a hit-test region of the selection.
type Handle int

const (
	None Handle = iota
	TopLeft
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

// HandleSize is the edge length of a resize handle square in logical units.
const HandleSize = 15

var handleNames = [...]string{
	None:        "none",
	TopLeft:     "top-left",
	Top:         "top",
	TopRight:    "top-right",
	Left:        "left",
	Center:      "center",
	Right:       "right",
	BottomLeft:  "bottom-left",
	Bottom:      "bottom",
	BottomRight: "bottom-right",
}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "invalid"
	}
	return handleNames[h]
}

// Resizes reports whether the handle starts a resize gesture.
func (h Handle) Resizes() bool {
	return h != None && h != Center && h >= 0 && int(h) < len(handleNames)
}

// HandleBox pairs a handle with its square.
type HandleBox struct {
	Handle Handle
	Rect   Rect
}

// HandleBoxes returns the eight handle squares centered on the corners and
// edge midpoints of sel, in the order they are hit-tested.
func HandleBoxes(sel Rect) []HandleBox {
	l, t := sel.X, sel.Y
	r, b := sel.Right(), sel.Bottom()
	cx, cy := sel.X+sel.W/2, sel.Y+sel.H/2
	return []HandleBox{
		{TopLeft, square(l, t)},
		{Top, square(cx, t)},
		{TopRight, square(r, t)},
		{Left, square(l, cy)},
		{Right, square(r, cy)},
		{BottomLeft, square(l, b)},
		{Bottom, square(cx, b)},
		{BottomRight, square(r, b)},
	}
}

func square(cx, cy float64) Rect {
	half := float64(HandleSize) / 2
	return Rect{X: cx - half, Y: cy - half, W: HandleSize, H: HandleSize}
}

// Classify maps p to the handle it hits. Handle squares win over the body of
// the selection; points outside both map to None.
func Classify(sel Rect, p Point) Handle {
	for _, hb := range HandleBoxes(sel) {
		if hb.Rect.Contains(p) {
			return hb.Handle
		}
	}
	if sel.Contains(p) {
		return Center
	}
	return None
}
