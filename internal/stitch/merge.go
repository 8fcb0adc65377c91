package stitch

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// Template band taken from each new capture, as fractions of its size. The
// band skips the top rows and the side margins where sticky headers, scroll
// bars and the cursor tend to sit.
const (
	TemplateTop    = 0.05
	TemplateBottom = 0.20
	TemplateSide   = 0.10
	// Threshold is the worst normalized squared difference accepted as a
	// match.
	Threshold = 0.01
)

// ErrNoMatch is the sentinel for a capture that could not be located in the
// composite.
var ErrNoMatch = errors.New("stitch: target not found")

// NoMatchError carries the best score of a rejected merge.
type NoMatchError struct {
	Score float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("stitch: target not found (best score %.4f > %.2f)", e.Score, Threshold)
}

func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatch }

// Placement describes where a capture landed in the composite. All offsets
// are rows of the new capture's frame mapped onto the composite:
//
//   - Y is the composite row that holds the capture's row 0.
//   - Cut is the first capture row appended; composite rows from Y+Cut on
//     are replaced.
//   - Overlap is how many composite rows the capture covers, compositeH-Y.
//
// The merged height is compositeH - Overlap + captureH.
type Placement struct {
	Y       int
	Cut     int
	Overlap int
	Score   float64
}

// Merge stitches capture below composite. The template band of capture is
// searched for in the tail of composite, its last captureH plus band height
// rows; on success the result is composite rows [0, Y+Cut) followed by
// capture rows [Cut, h). A nil matcher uses the package default.
func Merge(composite, capture *image.RGBA, m Matcher) (*image.RGBA, Placement, error) {
	if m == nil {
		m = defaultMatcher()
	}
	cb, nb := composite.Bounds(), capture.Bounds()
	if cb.Dx() != nb.Dx() {
		return nil, Placement{}, fmt.Errorf("stitch: width mismatch %d != %d", cb.Dx(), nb.Dx())
	}
	w, h := nb.Dx(), nb.Dy()
	top, bottom := int(float64(h)*TemplateTop), int(float64(h)*TemplateBottom)
	left, right := int(float64(w)*TemplateSide), int(float64(w)*(1-TemplateSide))
	if bottom <= top || right <= left {
		return nil, Placement{}, fmt.Errorf("stitch: capture %dx%d too small for a template", w, h)
	}

	tmpl := ToGray(capture).Crop(image.Rect(left, top, right, bottom))
	window := SearchWindow(cb.Dy(), h)
	src := ToGray(composite.SubImage(image.Rect(cb.Min.X, cb.Min.Y+window, cb.Max.X, cb.Max.Y)))
	match, err := m.Match(src, tmpl)
	if err != nil {
		return nil, Placement{}, err
	}
	match.Y += window
	if match.Score > Threshold {
		return nil, Placement{Score: match.Score}, &NoMatchError{Score: match.Score}
	}

	y := match.Y - top
	p := Placement{Y: y, Cut: top, Overlap: cb.Dy() - y, Score: match.Score}
	keep := match.Y
	out := image.NewRGBA(image.Rect(0, 0, w, keep+h-top))
	draw.Draw(out, image.Rect(0, 0, w, keep), composite, cb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, keep, w, out.Bounds().Dy()), capture, image.Pt(nb.Min.X, nb.Min.Y+top), draw.Src)
	return out, p, nil
}

// SearchWindow is the first composite row Merge searches when stitching a
// capture of height captureH. Earlier rows are already settled: a frame that
// scrolled forward cannot place its template above them.
func SearchWindow(compositeH, captureH int) int {
	band := int(float64(captureH)*TemplateBottom) - int(float64(captureH)*TemplateTop)
	return max(0, compositeH-captureH-band)
}
