package stitch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/example/hydrashot/internal/geometry"
)

func noise(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
			continue
		}
		img.Pix[i] = uint8(r.Intn(256))
	}
	return img
}

func rows(src *image.RGBA, y0, y1 int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), y1-y0))
	draw.Draw(out, out.Bounds(), src, image.Pt(0, y0), draw.Src)
	return out
}

func sameRows(a *image.RGBA, ay int, b *image.RGBA, by, n int) bool {
	w := a.Bounds().Dx()
	for i := 0; i < n; i++ {
		for x := 0; x < w; x++ {
			if a.RGBAAt(x, ay+i) != b.RGBAAt(x, by+i) {
				return false
			}
		}
	}
	return true
}

func TestMergeSyntheticOverlap(t *testing.T) {
	first := noise(100, 200, 1)
	second := noise(100, 200, 2)
	// The second capture starts 120 rows further down the page.
	draw.Draw(second, image.Rect(0, 0, 100, 80), first, image.Pt(0, 120), draw.Src)

	out, p, err := Merge(first, second, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Y != 120 || p.Cut != 10 || p.Overlap != 80 {
		t.Fatalf("placement = %+v", p)
	}
	if got := out.Bounds().Dy(); got != 320 {
		t.Fatalf("height = %d, want 320", got)
	}
	if got, want := out.Bounds().Dy(), first.Bounds().Dy()-p.Overlap+second.Bounds().Dy(); got != want {
		t.Fatalf("height %d does not follow from placement (%d)", got, want)
	}
	if !sameRows(out, 0, first, 0, 130) {
		t.Fatalf("composite rows were not kept")
	}
	if !sameRows(out, 130, second, 10, 190) {
		t.Fatalf("capture rows were not appended")
	}
}

func TestMergeBottomBandOverlap(t *testing.T) {
	first := noise(100, 200, 1)
	second := noise(100, 200, 5)
	// The bottom 15% of first reappears as the template band of second.
	draw.Draw(second, image.Rect(0, 10, 100, 40), first, image.Pt(0, 170), draw.Src)

	out, p, err := Merge(first, second, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Y != 160 || p.Cut != 10 || p.Overlap != 40 || p.Score != 0 {
		t.Fatalf("placement = %+v", p)
	}
	if got := out.Bounds().Dy(); got != 360 {
		t.Fatalf("height = %d, want 360", got)
	}
	if !sameRows(out, 0, first, 0, 170) || !sameRows(out, 170, second, 10, 190) {
		t.Fatalf("merged rows are not first[0,170) + second[10,200)")
	}
}

type recordingMatcher struct {
	SqDiffMatcher
	heights []int
}

func (m *recordingMatcher) Match(src, tmpl *Gray) (Match, error) {
	m.heights = append(m.heights, src.H)
	return m.SqDiffMatcher.Match(src, tmpl)
}

func TestMergeSearchesCompositeTail(t *testing.T) {
	composite := noise(100, 1000, 1)
	capture := noise(100, 200, 6)
	draw.Draw(capture, image.Rect(0, 0, 100, 120), composite, image.Pt(0, 880), draw.Src)
	// An identical band far up the page must not win over the tail.
	draw.Draw(composite, image.Rect(0, 100, 100, 130), capture, image.Pt(0, 10), draw.Src)

	m := &recordingMatcher{SqDiffMatcher: SqDiffMatcher{MaxShiftX: 16}}
	out, p, err := Merge(composite, capture, m)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Y != 880 || p.Overlap != 120 {
		t.Fatalf("placement = %+v", p)
	}
	if out.Bounds().Dy() != 1080 {
		t.Fatalf("height = %d, want 1080", out.Bounds().Dy())
	}
	if len(m.heights) != 1 || m.heights[0] != 1000-SearchWindow(1000, 200) {
		t.Fatalf("searched heights %v", m.heights)
	}
	if w := SearchWindow(1000, 200); w != 770 {
		t.Fatalf("window = %d, want 770", w)
	}
	if w := SearchWindow(150, 200); w != 0 {
		t.Fatalf("short composite window = %d", w)
	}
}

func TestMergeRejectsUnrelated(t *testing.T) {
	first := noise(100, 200, 1)
	second := noise(100, 200, 3)
	out, p, err := Merge(first, second, nil)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
	var nm *NoMatchError
	if !errors.As(err, &nm) || nm.Score <= Threshold {
		t.Fatalf("no-match score = %v", err)
	}
	if out != nil || p.Score != nm.Score {
		t.Fatalf("rejected merge returned %v %+v", out, p)
	}
}

func TestMergeBoundaryOverlap(t *testing.T) {
	first := noise(100, 200, 1)

	// No shared rows: the page moved by a full capture height.
	if _, _, err := Merge(first, noise(100, 200, 4), nil); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("0%% overlap: err = %v", err)
	}

	// Identical capture: nothing scrolled.
	out, p, err := Merge(first, rows(first, 0, 200), nil)
	if err != nil {
		t.Fatalf("100%% overlap: %v", err)
	}
	if p.Y != 0 || p.Overlap != 200 || p.Score != 0 {
		t.Fatalf("100%% overlap placement = %+v", p)
	}
	if out.Bounds().Dy() != 200 || !sameRows(out, 0, first, 0, 200) {
		t.Fatalf("100%% overlap changed the composite")
	}
}

func TestMergeWidthMismatch(t *testing.T) {
	if _, _, err := Merge(noise(100, 50, 1), noise(90, 50, 1), nil); err == nil {
		t.Fatalf("expected width mismatch error")
	}
}

func TestSqDiffMatcherFindsExactWindow(t *testing.T) {
	src := ToGray(noise(60, 80, 7))
	tmpl := src.Crop(image.Rect(13, 21, 33, 31))
	for _, m := range []*SqDiffMatcher{{MaxShiftX: -1}, {MaxShiftX: -1, Workers: 1}, {MaxShiftX: 40, Workers: 3}} {
		got, err := m.Match(src, tmpl)
		if err != nil {
			t.Fatalf("match: %v", err)
		}
		if got.X != 13 || got.Y != 21 || got.Score != 0 {
			t.Fatalf("matcher %+v found %+v", *m, got)
		}
	}
	if _, err := (&SqDiffMatcher{}).Match(tmpl, src); !errors.Is(err, ErrTemplateTooLarge) {
		t.Fatalf("oversized template err = %v", err)
	}
}

func TestSqDiffNormedFlatWindow(t *testing.T) {
	if s := sqDiffNormed(0, 0, 0); s != 1 {
		t.Fatalf("zero energy score = %v", s)
	}
	if s := sqDiffNormed(4, 0, 1); s != 1 {
		t.Fatalf("score not clamped: %v", s)
	}
}

func TestToGrayWeights(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(2, 0, color.RGBA{B: 255, A: 255})
	g := ToGray(img)
	want := []float64{76, 150, 29}
	for i, w := range want {
		if g.Pix[i] != w {
			t.Fatalf("pixel %d = %v, want %v", i, g.Pix[i], w)
		}
	}
	if sub := ToGray(img.SubImage(image.Rect(1, 0, 3, 1))); sub.W != 2 || sub.Pix[0] != 150 {
		t.Fatalf("sub-image gray = %+v", sub)
	}
}

// pager serves successive windows of a tall page, like a region captured
// while the user scrolls.
type pager struct {
	mu     sync.Mutex
	page   *image.RGBA
	frames []int
	rects  []image.Rectangle
	height int
}

func (p *pager) Grab(r image.Rectangle) (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rects = append(p.rects, r)
	if len(p.frames) == 0 {
		return nil, errors.New("no more frames")
	}
	y := p.frames[0]
	p.frames = p.frames[1:]
	if y < 0 {
		return noise(p.page.Bounds().Dx(), p.height, int64(-y)), nil
	}
	return rows(p.page, y, y+p.height), nil
}

func TestStitcherScrollSequence(t *testing.T) {
	page := noise(100, 600, 11)
	g := &pager{page: page, frames: []int{0, 60, 120, -5}, height: 200}
	var merges []Placement
	var missScores []float64
	st := New(geometry.Rect{X: 0, Y: 0, W: 50, H: 100}, 2, g, WithOnMerge(func(_ *image.RGBA, p Placement) {
		merges = append(merges, p)
	}), WithOnMiss(func(score float64) { missScores = append(missScores, score) }))
	if st.State() != Idle || st.Composite() != nil {
		t.Fatalf("new stitcher not idle")
	}

	inside := geometry.Pt(25, 50)
	if ok, _ := st.WheelScroll(geometry.Pt(80, 50), 0, -1); ok {
		t.Fatalf("scroll outside region triggered a capture")
	}
	if ok, _ := st.WheelScroll(inside, 0, 1); ok {
		t.Fatalf("upward scroll triggered a capture")
	}
	if ok, _ := st.WheelScroll(inside, 3, 0); ok {
		t.Fatalf("horizontal scroll triggered a capture")
	}
	if len(g.rects) != 0 {
		t.Fatalf("ignored scrolls grabbed %d times", len(g.rects))
	}

	for i, want := range []int{200, 260, 320} {
		ok, err := st.WheelScroll(inside, 0, -1)
		if !ok || err != nil {
			t.Fatalf("scroll %d: ok=%v err=%v", i, ok, err)
		}
		if st.State() != Accumulating || st.Len() != 1 {
			t.Fatalf("scroll %d: state=%v len=%d", i, st.State(), st.Len())
		}
		if h := st.Composite().Bounds().Dy(); h != want {
			t.Fatalf("scroll %d: height=%d want %d", i, h, want)
		}
	}
	if g.rects[0] != image.Rect(0, 0, 100, 200) {
		t.Fatalf("grabbed physical rect %v", g.rects[0])
	}
	if !sameRows(st.Composite(), 0, page, 0, 320) {
		t.Fatalf("composite does not match the page")
	}

	before := st.Composite()
	_, err := st.WheelScroll(inside, 0, -1)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("junk frame err = %v", err)
	}
	if st.Composite() != before || st.Len() != 1 || st.Misses() != 1 {
		t.Fatalf("failed merge changed state: len=%d misses=%d", st.Len(), st.Misses())
	}
	if len(merges) != 3 || merges[1].Y != 60 || merges[2].Y != 120 {
		t.Fatalf("merge callbacks = %+v", merges)
	}
	if len(missScores) != 1 || missScores[0] <= Threshold {
		t.Fatalf("miss callbacks = %v", missScores)
	}

	st.Reset()
	if st.State() != Idle || st.Composite() != nil || st.Len() != 0 || st.Misses() != 0 {
		t.Fatalf("reset left state behind")
	}
}

func TestFeedKeepsLatest(t *testing.T) {
	f := NewFeed()
	for i := 1; i <= 3; i++ {
		f.Publish(ScrollEvent{DY: float64(-i)})
	}
	select {
	case ev := <-f.Events():
		if ev.DY != -3 {
			t.Fatalf("got event %+v, want the latest", ev)
		}
	default:
		t.Fatalf("feed is empty")
	}
	select {
	case ev := <-f.Events():
		t.Fatalf("unexpected second event %+v", ev)
	default:
	}
}

func TestPumpDrivesStitcher(t *testing.T) {
	grabbed := make(chan struct{}, 4)
	page := noise(40, 100, 5)
	st := New(geometry.Rect{W: 40, H: 40}, 1, GrabberFunc(func(r image.Rectangle) (*image.RGBA, error) {
		grabbed <- struct{}{}
		return rows(page, 0, 40), nil
	}))
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Pump(ctx, f, st, nil)
		close(done)
	}()

	f.Publish(ScrollEvent{Point: geometry.Pt(10, 10), DY: -1})
	select {
	case <-grabbed:
	case <-time.After(5 * time.Second):
		t.Fatalf("pump did not capture")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("pump did not stop")
	}
	if st.State() != Accumulating {
		t.Fatalf("state = %v", st.State())
	}
}
