package editlog

import (
	"image/color"
	"testing"

	"github.com/example/hydrashot/internal/geometry"
)

var red = color.RGBA{R: 255, A: 255}

func rect(x0, y0, x1, y1 float64) Rectangle {
	return Rectangle{Stroke: Stroke{Color: red, Width: 2}, Start: geometry.Pt(x0, y0), End: geometry.Pt(x1, y1)}
}

func TestAppendUndoScenario(t *testing.T) {
	l := New()
	for i, want := range []int{1, 2, 3} {
		if !l.Append(rect(0, 0, float64(10+i), 10)) {
			t.Fatalf("append %d rejected", i)
		}
		if l.Len() != want {
			t.Fatalf("len after append %d = %d, want %d", i, l.Len(), want)
		}
	}

	a, exit := l.UndoLast()
	if exit || l.Len() != 2 {
		t.Fatalf("first undo: exit=%v len=%d", exit, l.Len())
	}
	if got := a.(Rectangle).End.X; got != 12 {
		t.Fatalf("undo returned the wrong action: end.x=%v", got)
	}
	if _, exit = l.UndoLast(); exit || l.Len() != 1 {
		t.Fatalf("second undo: exit=%v len=%d", exit, l.Len())
	}
	if _, exit = l.UndoLast(); !exit || l.Len() != 0 {
		t.Fatalf("last undo should empty the log and signal exit: exit=%v len=%d", exit, l.Len())
	}
	a, exit = l.UndoLast()
	if a != nil || !exit {
		t.Fatalf("undo on empty log = %v, %v", a, exit)
	}
}

func TestAppendThenUndoRestoresLength(t *testing.T) {
	l := New()
	l.Append(rect(0, 0, 5, 5))
	before := l.Len()
	added := rect(1, 1, 9, 9)
	l.Append(added)
	got, _ := l.UndoLast()
	if got != Action(added) {
		t.Fatalf("UndoLast returned %#v, want %#v", got, added)
	}
	if l.Len() != before {
		t.Fatalf("len = %d, want %d", l.Len(), before)
	}
}

func TestAppendRejectsDegenerate(t *testing.T) {
	stroke := Stroke{Color: red, Width: 2}
	cases := []struct {
		name string
		a    Action
	}{
		{"flat rect", rect(10, 10, 40, 10)},
		{"point ellipse", Ellipse{Stroke: stroke, Start: geometry.Pt(5, 5), End: geometry.Pt(5, 5)}},
		{"zero arrow", Arrow{Stroke: stroke, Start: geometry.Pt(3, 3), End: geometry.Pt(3, 3)}},
		{"single point freehand", Freehand{Stroke: stroke, Points: []geometry.Point{{X: 1, Y: 1}}}},
		{"stationary freehand", Freehand{Stroke: stroke, Points: []geometry.Point{{X: 1, Y: 1}, {X: 1, Y: 1}}}},
		{"empty marker", NumberMarker{Stroke: stroke, Center: geometry.Pt(1, 1)}},
		{"blank text", Text{Color: red, Box: geometry.Rect{W: 10, H: 10}, Content: "  \n"}},
		{"nil", nil},
	}
	for _, tc := range cases {
		l := New()
		if l.Append(tc.a) {
			t.Errorf("%s: degenerate action committed", tc.name)
		}
		if l.Len() != 0 {
			t.Errorf("%s: log length %d", tc.name, l.Len())
		}
	}
}

func TestHorizontalArrowIsCommitted(t *testing.T) {
	l := New()
	if !l.Append(Arrow{Stroke: Stroke{Color: red, Width: 2}, Start: geometry.Pt(0, 10), End: geometry.Pt(50, 10)}) {
		t.Fatalf("horizontal arrow rejected")
	}
}

func TestMarkerSequence(t *testing.T) {
	l := New()
	marker := NumberMarker{Stroke: Stroke{Color: red, Width: 2}, Radius: 10}
	for i := 1; i <= 3; i++ {
		if l.PeekMarkerSeq() != i {
			t.Fatalf("PeekMarkerSeq = %d, want %d", l.PeekMarkerSeq(), i)
		}
		marker.Center = geometry.Pt(float64(i*30), 20)
		l.Append(marker)
	}
	l.UndoLast()
	if l.PeekMarkerSeq() != 4 {
		t.Fatalf("undo must not rewind the marker counter, got %d", l.PeekMarkerSeq())
	}
	acts := l.Actions()
	if acts[1].(NumberMarker).Seq != 2 {
		t.Fatalf("second marker seq = %d", acts[1].(NumberMarker).Seq)
	}
	l.Clear()
	if l.Len() != 0 || l.PeekMarkerSeq() != 1 {
		t.Fatalf("clear: len=%d next=%d", l.Len(), l.PeekMarkerSeq())
	}
}

func TestTakeAtPrefersMostRecent(t *testing.T) {
	l := New()
	first := Text{Color: red, Box: geometry.Rect{X: 0, Y: 0, W: 100, H: 40}, Content: "first"}
	second := Text{Color: red, Box: geometry.Rect{X: 50, Y: 20, W: 100, H: 40}, Content: "second"}
	l.Append(first)
	l.Append(rect(0, 0, 200, 200))
	l.Append(second)

	got, at, ok := l.TakeAt(geometry.Pt(60, 30))
	if !ok || got.Content != "second" || at != 2 {
		t.Fatalf("TakeAt overlap = %q at %d, %v", got.Content, at, ok)
	}
	if l.Len() != 2 {
		t.Fatalf("len after take = %d", l.Len())
	}
	got, at, ok = l.TakeAt(geometry.Pt(60, 30))
	if !ok || got.Content != "first" || at != 0 {
		t.Fatalf("second TakeAt = %q at %d, %v", got.Content, at, ok)
	}
	acts := l.Actions()
	if len(acts) != 1 || acts[0].Kind() != KindRectangle {
		t.Fatalf("remaining actions = %v", acts)
	}
	if _, _, ok := l.TakeAt(geometry.Pt(60, 30)); ok {
		t.Fatalf("rectangle should not be taken as text")
	}
}

func TestInsertAtRestoresDepth(t *testing.T) {
	l := New()
	below := Text{Color: red, Box: geometry.Rect{X: 10, Y: 10, W: 80, H: 30}, Content: "below"}
	l.Append(below)
	l.Append(rect(0, 0, 200, 200))
	l.Append(rect(5, 5, 50, 50))

	got, at, ok := l.TakeAt(geometry.Pt(20, 20))
	if !ok || at != 0 {
		t.Fatalf("TakeAt = %q at %d, %v", got.Content, at, ok)
	}
	if !l.InsertAt(at, got) {
		t.Fatalf("InsertAt rejected a committed text")
	}
	acts := l.Actions()
	if len(acts) != 3 || acts[0].Kind() != KindText || acts[1].Kind() != KindRectangle || acts[2].Kind() != KindRectangle {
		t.Fatalf("z-order after reinsert = %v", acts)
	}

	l.InsertAt(99, Text{Color: red, Box: geometry.Rect{W: 10, H: 10}, Content: "top"})
	l.InsertAt(-3, Text{Color: red, Box: geometry.Rect{W: 10, H: 10}, Content: "bottom"})
	acts = l.Actions()
	if acts[0].(Text).Content != "bottom" || acts[len(acts)-1].(Text).Content != "top" {
		t.Fatalf("out of range inserts not clamped: %v", acts)
	}
	if l.InsertAt(1, rect(0, 0, 0, 0)) {
		t.Fatalf("degenerate action inserted")
	}
}

func TestActionsIsACopy(t *testing.T) {
	l := New()
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}
	l.Append(Freehand{Stroke: Stroke{Color: red, Width: 1}, Points: pts})
	pts[1] = geometry.Pt(99, 99)
	acts := l.Actions()
	if acts[0].(Freehand).Points[1] != geometry.Pt(5, 5) {
		t.Fatalf("log aliases caller's points")
	}
	acts[0] = nil
	if l.Actions()[0] == nil {
		t.Fatalf("Actions exposes internal slice")
	}
}

func TestBounds(t *testing.T) {
	f := Freehand{Points: []geometry.Point{{X: 5, Y: 9}, {X: 1, Y: 3}, {X: 7, Y: 4}}}
	if got := f.Bounds(); got != (geometry.Rect{X: 1, Y: 3, W: 6, H: 6}) {
		t.Fatalf("freehand bounds = %+v", got)
	}
	m := NumberMarker{Radius: 10, Center: geometry.Pt(50, 50)}
	if got := m.Bounds(); got != (geometry.Rect{X: 40, Y: 40, W: 20, H: 20}) {
		t.Fatalf("marker bounds = %+v", got)
	}
}
