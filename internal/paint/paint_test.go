package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"testing"

	"golang.org/x/image/font"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
)

var red = color.RGBA{R: 255, A: 255}

func stroke(w int) editlog.Stroke { return editlog.Stroke{Color: red, Width: w} }

func kinds(plan []Primitive) []Kind {
	out := make([]Kind, len(plan))
	for i, p := range plan {
		out[i] = p.Kind
	}
	return out
}

func sameKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProjectOrderAndDraft(t *testing.T) {
	actions := []editlog.Action{
		editlog.Rectangle{Stroke: stroke(2), Start: geometry.Pt(0, 0), End: geometry.Pt(10, 10)},
		editlog.Arrow{Stroke: stroke(2), Start: geometry.Pt(0, 0), End: geometry.Pt(30, 0)},
		editlog.Text{Color: red, Box: geometry.Rect{X: 5, Y: 5, W: 40, H: 20}, Content: "hi"},
	}
	draft := editlog.Ellipse{Stroke: stroke(4), Start: geometry.Pt(1, 1), End: geometry.Pt(9, 5)}

	screen := Project(actions, draft, TargetScreen)
	want := []Kind{KindRect, KindLine, KindPolygon, KindText, KindDashedRect, KindEllipse}
	if got := kinds(screen); !sameKinds(got, want) {
		t.Fatalf("screen plan kinds = %v, want %v", got, want)
	}

	export := Project(actions, nil, TargetExport)
	want = []Kind{KindRect, KindLine, KindPolygon, KindText}
	if got := kinds(export); !sameKinds(got, want) {
		t.Fatalf("export plan kinds = %v, want %v", got, want)
	}
}

func TestProjectMarker(t *testing.T) {
	l := editlog.New()
	l.Append(editlog.NumberMarker{Stroke: stroke(4), Radius: editlog.MarkerRadius(4), Center: geometry.Pt(50, 50)})
	plan := Project(l.Actions(), nil, TargetExport)
	if len(plan) != 1 {
		t.Fatalf("plan length %d", len(plan))
	}
	p := plan[0]
	if p.Kind != KindMarker || p.Text != "1" {
		t.Fatalf("marker primitive = %+v", p)
	}
	if p.Rect != (geometry.Rect{X: 30, Y: 30, W: 40, H: 40}) {
		t.Fatalf("marker bounds = %+v", p.Rect)
	}
	if p.Font.Size != 12 {
		t.Fatalf("marker font size = %v", p.Font.Size)
	}
}

func TestArrowHead(t *testing.T) {
	h1, h2 := ArrowHead(geometry.Pt(0, 0), geometry.Pt(100, 0), 2)
	// size 8 back along +x, spread 4 either side.
	if !near(h1, geometry.Pt(92, -4)) || !near(h2, geometry.Pt(92, 4)) {
		t.Fatalf("head = %v %v", h1, h2)
	}
	h1, h2 = ArrowHead(geometry.Pt(0, 0), geometry.Pt(0, 50), 1)
	if !near(h1, geometry.Pt(2, 46)) || !near(h2, geometry.Pt(-2, 46)) {
		t.Fatalf("vertical head = %v %v", h1, h2)
	}
}

func near(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestFreehandPlanDoesNotAlias(t *testing.T) {
	f := editlog.Freehand{Stroke: stroke(1), Points: []geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}}
	plan := Project(nil, f, TargetScreen)
	f.Points[0] = geometry.Pt(9, 9)
	if plan[0].Points[0] != (geometry.Point{}) {
		t.Fatalf("plan aliases action points")
	}
}

func whiteScreen(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func isRed(c color.RGBA) bool { return c.R > 200 && c.G < 60 && c.B < 60 }

func isWhite(c color.RGBA) bool { return c.R == 255 && c.G == 255 && c.B == 255 }

func TestFlattenPhysicalSize(t *testing.T) {
	r := NewRasterizer(nil)
	screen := whiteScreen(200, 200)
	actions := []editlog.Action{
		editlog.Rectangle{Stroke: stroke(2), Start: geometry.Pt(20, 20), End: geometry.Pt(40, 40)},
	}
	out, err := r.Flatten(screen, geometry.Rect{X: 10, Y: 10, W: 40, H: 40}, 2, actions)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 80, 80) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if c := out.RGBAAt(20, 40); !isRed(c) {
		t.Fatalf("left edge pixel = %v, want red", c)
	}
	if c := out.RGBAAt(40, 40); !isWhite(c) {
		t.Fatalf("interior pixel = %v, want white", c)
	}
	if c := out.RGBAAt(5, 5); !isWhite(c) {
		t.Fatalf("outside pixel = %v, want white", c)
	}
}

func TestFlattenExcludesTextOutline(t *testing.T) {
	r := NewRasterizer(nil)
	screen := whiteScreen(100, 100)
	box := geometry.Rect{X: 10, Y: 10, W: 60, H: 30}
	actions := []editlog.Action{
		editlog.Text{Color: red, Font: editlog.Font{Size: 12}, Box: box, Content: "x"},
	}
	out, err := r.Flatten(screen, geometry.Rect{W: 100, H: 100}, 1, actions)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	// The right edge of the box is far from the glyph and only the
	// on-screen dashed outline would touch it.
	if c := out.RGBAAt(70, 25); !isWhite(c) {
		t.Fatalf("box edge pixel = %v, want white", c)
	}
}

func TestFlattenEmptySelection(t *testing.T) {
	r := NewRasterizer(nil)
	if _, err := r.Flatten(whiteScreen(10, 10), geometry.Rect{X: 50, Y: 50, W: 5, H: 5}, 1, nil); err != ErrEmptySelection {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
}

func TestRasterizeMarker(t *testing.T) {
	r := NewRasterizer(nil)
	dst := whiteScreen(100, 100)
	l := editlog.New()
	l.Append(editlog.NumberMarker{Stroke: stroke(2), Radius: editlog.MarkerRadius(2), Center: geometry.Pt(50, 50)})
	if err := r.Rasterize(dst, Project(l.Actions(), nil, TargetExport), geometry.Point{}, 1); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if c := dst.RGBAAt(50, 43); !isRed(c) {
		t.Fatalf("disc pixel = %v, want red", c)
	}
	if c := dst.RGBAAt(50, 35); !isWhite(c) {
		t.Fatalf("outside disc = %v, want white", c)
	}
}

func TestRasterizeRejectsOffsetDestination(t *testing.T) {
	r := NewRasterizer(nil)
	dst := image.NewRGBA(image.Rect(5, 5, 10, 10))
	if err := r.Rasterize(dst, nil, geometry.Point{}, 1); err == nil {
		t.Fatalf("expected error for offset destination")
	}
}

func TestMeasureGrowsWithText(t *testing.T) {
	fs := NewFonts()
	f := editlog.Font{Family: "go", Size: 16}
	short := fs.Measure(f, "ab")
	long := fs.Measure(f, "abcdef")
	if long.W <= short.W {
		t.Fatalf("measure widths %v <= %v", long.W, short.W)
	}
	two := fs.Measure(f, "ab\ncd")
	if two.H <= short.H {
		t.Fatalf("two lines %v not taller than one %v", two.H, short.H)
	}
	if empty := fs.Measure(f, ""); empty.W <= 0 || empty.H <= 0 {
		t.Fatalf("empty text measured as %+v", empty)
	}
	box := fs.TextBox(f, "ab", geometry.Pt(3, 4))
	if box.X != 3 || box.Y != 4 || box.W != short.W+2*TextPadding {
		t.Fatalf("text box = %+v", box)
	}
}

func TestFaceFallsBackToDefault(t *testing.T) {
	fs := NewFonts()
	var want, got font.Metrics
	_ = fs.Use(editlog.Font{Family: "go", Size: 10}, 1, func(f font.Face) error { want = f.Metrics(); return nil })
	if err := fs.Use(editlog.Font{Family: "no-such-font", Size: 10}, 1, func(f font.Face) error { got = f.Metrics(); return nil }); err != nil {
		t.Fatalf("face: %v", err)
	}
	if got != want {
		t.Fatalf("unknown family metrics %+v, want default %+v", got, want)
	}
	if !KnownFamily(" Go-Mono ") || KnownFamily("comic") {
		t.Fatalf("KnownFamily mismatch")
	}
	if len(Families()) != 4 {
		t.Fatalf("families = %v", Families())
	}
}

func TestRasterizeWhileMeasuring(t *testing.T) {
	r := NewRasterizer(nil)
	f := editlog.Font{Family: "go", Size: 16}
	plan := []Primitive{
		{Kind: KindText, Color: red, Width: 1, Rect: geometry.Rect{W: 200, H: 40}, Text: "hello\nworld", Font: f},
		{Kind: KindMarker, Color: red, Width: 2, Rect: geometry.Rect{X: 100, W: 30, H: 30}, Text: "7", Font: f},
	}
	dst := image.NewRGBA(image.Rect(0, 0, 220, 60))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := r.Rasterize(dst, plan, geometry.Point{}, 1); err != nil {
				t.Errorf("rasterize: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if box := r.Fonts().TextBox(f, "measure me", geometry.Point{}); box.W <= 0 {
				t.Errorf("text box = %+v", box)
				return
			}
		}
	}()
	wg.Wait()
}
