package editlog

import (
	"image/color"
	"math"
	"strings"

	"github.com/example/hydrashot/internal/geometry"
)

// Kind identifies an annotation variant.
type Kind int

const (
	KindRectangle Kind = iota
	KindEllipse
	KindArrow
	KindFreehand
	KindNumberMarker
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindArrow:
		return "arrow"
	case KindFreehand:
		return "freehand"
	case KindNumberMarker:
		return "number"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Action is one committed annotation. The set of implementations is closed:
// Rectangle, Ellipse, Arrow, Freehand, NumberMarker and Text.
type Action interface {
	Kind() Kind
	// Bounds returns the logical area covered by the action's geometry.
	Bounds() geometry.Rect
	action()
}

// Stroke is the pen used by outlined shapes.
type Stroke struct {
	Color color.RGBA
	Width int
}

// Font describes the face used by text annotations.
type Font struct {
	Family string
	Size   float64
}

type Rectangle struct {
	Stroke
	Start, End geometry.Point
}

type Ellipse struct {
	Stroke
	Start, End geometry.Point
}

type Arrow struct {
	Stroke
	Start, End geometry.Point
}

type Freehand struct {
	Stroke
	Points []geometry.Point
}

// NumberMarker is a filled circle labelled with its sequence number.
type NumberMarker struct {
	Stroke
	Seq    int
	Radius float64
	Center geometry.Point
}

type Text struct {
	Color   color.RGBA
	Font    Font
	Box     geometry.Rect
	Content string
}

func (Rectangle) Kind() Kind    { return KindRectangle }
func (Ellipse) Kind() Kind      { return KindEllipse }
func (Arrow) Kind() Kind        { return KindArrow }
func (Freehand) Kind() Kind     { return KindFreehand }
func (NumberMarker) Kind() Kind { return KindNumberMarker }
func (Text) Kind() Kind         { return KindText }

func (Rectangle) action()    {}
func (Ellipse) action()      {}
func (Arrow) action()        {}
func (Freehand) action()     {}
func (NumberMarker) action() {}
func (Text) action()         {}

func (a Rectangle) Bounds() geometry.Rect { return geometry.Normalize(a.Start, a.End) }

func (a Ellipse) Bounds() geometry.Rect { return geometry.Normalize(a.Start, a.End) }

func (a Arrow) Bounds() geometry.Rect { return geometry.Normalize(a.Start, a.End) }

func (a Freehand) Bounds() geometry.Rect {
	if len(a.Points) == 0 {
		return geometry.Rect{}
	}
	min, max := a.Points[0], a.Points[0]
	for _, p := range a.Points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return geometry.Normalize(min, max)
}

func (a NumberMarker) Bounds() geometry.Rect {
	r := geometry.Pt(a.Radius, a.Radius)
	return geometry.Normalize(a.Center.Sub(r), a.Center.Add(r))
}

func (a Text) Bounds() geometry.Rect { return a.Box }

// MarkerRadius is the circle radius used for number markers drawn with the
// given line width.
func MarkerRadius(width int) float64 { return float64(width) * 5 }

// MarkerFontSize is the label size used inside number markers.
func MarkerFontSize(width int) float64 { return float64(width) * 3 }

// degenerate reports whether a would draw nothing meaningful.
func degenerate(a Action) bool {
	switch a := a.(type) {
	case Rectangle:
		return a.Bounds().Empty()
	case Ellipse:
		return a.Bounds().Empty()
	case Arrow:
		return a.Start == a.End
	case Freehand:
		for _, p := range a.Points[min(1, len(a.Points)):] {
			if p != a.Points[0] {
				return false
			}
		}
		return true
	case NumberMarker:
		return a.Radius <= 0
	case Text:
		return strings.TrimSpace(a.Content) == "" || a.Box.Empty()
	case nil:
		return true
	}
	return false
}
