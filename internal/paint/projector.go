package paint

import (
	"image/color"
	"math"
	"strconv"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
)

// Target selects what a paint plan is for.
type Target int

const (
	// TargetScreen decorates text boxes with a dashed outline.
	TargetScreen Target = iota
	// TargetExport produces only what ends up in the saved image.
	TargetExport
)

// Kind is the shape of a draw primitive.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
	KindLine
	KindPolyline
	KindPolygon
	KindMarker
	KindText
	KindDashedRect
	KindFilledRect
)

// Primitive is one draw instruction in logical coordinates.
//
// Rect carries the geometry for rectangles, ellipses, markers (circle
// bounds), text boxes and fills. Points carries lines, polylines and
// polygons. Text is the text content or the marker label.
type Primitive struct {
	Kind   Kind
	Color  color.RGBA
	Width  float64
	Rect   geometry.Rect
	Points []geometry.Point
	Text   string
	Font   editlog.Font
}

// Project turns committed actions plus an optional in-progress draft into an
// ordered paint plan. Actions are emitted in log order and the draft last.
func Project(actions []editlog.Action, draft editlog.Action, target Target) []Primitive {
	plan := make([]Primitive, 0, len(actions)+2)
	for _, a := range actions {
		plan = appendAction(plan, a, target)
	}
	if draft != nil {
		plan = appendAction(plan, draft, target)
	}
	return plan
}

func appendAction(plan []Primitive, a editlog.Action, target Target) []Primitive {
	switch a := a.(type) {
	case editlog.Rectangle:
		return append(plan, Primitive{
			Kind:  KindRect,
			Color: a.Color,
			Width: float64(a.Width),
			Rect:  a.Bounds(),
		})
	case editlog.Ellipse:
		return append(plan, Primitive{
			Kind:  KindEllipse,
			Color: a.Color,
			Width: float64(a.Width),
			Rect:  a.Bounds(),
		})
	case editlog.Arrow:
		h1, h2 := ArrowHead(a.Start, a.End, a.Width)
		return append(plan,
			Primitive{Kind: KindLine, Color: a.Color, Width: float64(a.Width), Points: []geometry.Point{a.Start, a.End}},
			Primitive{Kind: KindPolygon, Color: a.Color, Width: float64(a.Width), Points: []geometry.Point{h1, a.End, h2}},
		)
	case editlog.Freehand:
		pts := make([]geometry.Point, len(a.Points))
		copy(pts, a.Points)
		return append(plan, Primitive{
			Kind:   KindPolyline,
			Color:  a.Color,
			Width:  float64(a.Width),
			Points: pts,
		})
	case editlog.NumberMarker:
		return append(plan, Primitive{
			Kind:  KindMarker,
			Color: a.Color,
			Width: float64(a.Width),
			Rect:  a.Bounds(),
			Text:  strconv.Itoa(a.Seq),
			Font:  editlog.Font{Family: DefaultFamily, Size: editlog.MarkerFontSize(a.Width)},
		})
	case editlog.Text:
		plan = append(plan, Primitive{
			Kind:  KindText,
			Color: a.Color,
			Rect:  a.Box,
			Text:  a.Content,
			Font:  a.Font,
		})
		if target == TargetScreen {
			plan = append(plan, Primitive{
				Kind:  KindDashedRect,
				Color: a.Color,
				Width: 1,
				Rect:  a.Box,
			})
		}
		return plan
	}
	return plan
}

// ArrowHead returns the two barb points of an arrow ending at end. The barbs
// sit width*4 back along the shaft and spread half that distance to either
// side.
func ArrowHead(start, end geometry.Point, width int) (geometry.Point, geometry.Point) {
	size := float64(width) * 4
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	cos, sin := math.Cos(angle), math.Sin(angle)
	h1 := geometry.Pt(end.X-size*cos+size/2*sin, end.Y-size*sin-size/2*cos)
	h2 := geometry.Pt(end.X-size*cos-size/2*sin, end.Y-size*sin+size/2*cos)
	return h1, h2
}
