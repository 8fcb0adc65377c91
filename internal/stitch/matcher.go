package stitch

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Match is the best template position found by a Matcher. Score is the
// normalized squared difference at that position: 0 is a perfect match.
type Match struct {
	X, Y  int
	Score float64
}

// Matcher locates tmpl inside src using normalized squared-difference
// scoring and returns the global minimum.
type Matcher interface {
	Match(src, tmpl *Gray) (Match, error)
}

// ErrTemplateTooLarge is returned when the template does not fit in the
// search image.
var ErrTemplateTooLarge = errors.New("template larger than search image")

// SqDiffMatcher is a pure Go normalized squared-difference matcher.
//
// The search runs over every vertical offset. Horizontally it is limited to
// MaxShiftX columns either side of the position that centres tmpl in src; a
// negative MaxShiftX searches every column.
type SqDiffMatcher struct {
	MaxShiftX int
	// Workers caps the goroutines used to scan row bands. Zero uses
	// GOMAXPROCS.
	Workers int
}

func (m *SqDiffMatcher) Match(src, tmpl *Gray) (Match, error) {
	if tmpl.W == 0 || tmpl.H == 0 || tmpl.W > src.W || tmpl.H > src.H {
		return Match{}, ErrTemplateTooLarge
	}
	xlo, xhi := 0, src.W-tmpl.W
	if m.MaxShiftX >= 0 {
		c := xhi / 2
		xlo = max(c-m.MaxShiftX, 0)
		xhi = min(c+m.MaxShiftX, xhi)
	}
	ylast := src.H - tmpl.H

	sq := newSquareIntegral(src)
	var tt float64
	for y := 0; y < tmpl.H; y++ {
		row := tmpl.Row(y)
		tt += floats.Dot(row, row)
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, ylast+1)
	band := (ylast + workers) / workers

	results := make([]Match, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * band
		y1 := min(y0+band, ylast+1)
		results[i] = Match{Score: math.Inf(1)}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(i, y0, y1 int) {
			defer wg.Done()
			best := Match{Score: math.Inf(1)}
			for y := y0; y < y1; y++ {
				for x := xlo; x <= xhi; x++ {
					var ti float64
					for r := 0; r < tmpl.H; r++ {
						ti += floats.Dot(tmpl.Row(r), src.Row(y + r)[x:x+tmpl.W])
					}
					s := sqDiffNormed(tt, ti, sq.sum(x, y, tmpl.W, tmpl.H))
					if s < best.Score {
						best = Match{X: x, Y: y, Score: s}
					}
				}
			}
			results[i] = best
		}(i, y0, y1)
	}
	wg.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.Score < best.Score {
			best = r
		}
	}
	return best, nil
}

// sqDiffNormed scores one window from Σt², Σt·i and Σi². A window with no
// energy on either side scores 1.
func sqDiffNormed(tt, ti, ii float64) float64 {
	num := max(tt-2*ti+ii, 0)
	den := math.Sqrt(tt * ii)
	if den == 0 {
		return 1
	}
	return min(num/den, 1)
}

// squareIntegral is a summed-area table of squared pixel values with a zero
// first row and column.
type squareIntegral struct {
	w    int
	sum2 []float64
}

func newSquareIntegral(g *Gray) *squareIntegral {
	w := g.W + 1
	s := &squareIntegral{w: w, sum2: make([]float64, w*(g.H+1))}
	for y := 0; y < g.H; y++ {
		var acc float64
		for x, v := range g.Row(y) {
			acc += v * v
			s.sum2[(y+1)*w+x+1] = s.sum2[y*w+x+1] + acc
		}
	}
	return s
}

func (s *squareIntegral) sum(x, y, w, h int) float64 {
	a := s.sum2[y*s.w+x]
	b := s.sum2[y*s.w+x+w]
	c := s.sum2[(y+h)*s.w+x]
	d := s.sum2[(y+h)*s.w+x+w]
	return d - b - c + a
}
