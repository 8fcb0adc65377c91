package geometry

import (
	"image"
	"math"
)

// Point is a position in logical (display-scaled) coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Image rounds the point to the nearest pixel.
func (p Point) Image() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// FromImagePoint converts a pixel position to a Point.
func FromImagePoint(p image.Point) Point { return Point{float64(p.X), float64(p.Y)} }

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle described by its top-left corner and
// extent. A normalized Rect has W >= 0 and H >= 0.
type Rect struct {
	X, Y, W, H float64
}

// Normalize returns the rectangle spanned by p1 and p2 regardless of the
// order the corners are given in.
func Normalize(p1, p2 Point) Rect {
	x0, x1 := p1.X, p2.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := p1.Y, p2.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// RectFromImage converts a pixel rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

func (r Rect) Min() Point { return Point{r.X, r.Y} }

func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

func (r Rect) Right() float64 { return r.X + r.W }

func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Size() Size { return Size{r.W, r.H} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Inset shrinks the rectangle by n on every side. Negative n grows it.
func (r Rect) Inset(n float64) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

// Scale multiplies position and extent by k.
func (r Rect) Scale(k float64) Rect {
	return Rect{X: r.X * k, Y: r.Y * k, W: r.W * k, H: r.H * k}
}

// Image rounds the rectangle to whole pixels.
func (r Rect) Image() image.Rectangle {
	min := r.Min().Image()
	max := r.Max().Image()
	return image.Rectangle{Min: min, Max: max}
}

// ToPhysical scales a logical rectangle into device pixels.
func ToPhysical(r Rect, ratio float64) Rect {
	return r.Scale(sanitizeRatio(ratio))
}

// ToLogical scales a device-pixel rectangle into logical coordinates.
func ToLogical(r Rect, ratio float64) Rect {
	return r.Scale(1 / sanitizeRatio(ratio))
}

// PointToLogical scales a device-pixel position into logical coordinates.
func PointToLogical(p Point, ratio float64) Point {
	return p.Scale(1 / sanitizeRatio(ratio))
}

func sanitizeRatio(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 1
	}
	return ratio
}
