//go:build gocv

package stitch

import (
	"fmt"

	"gocv.io/x/gocv"
)

// CVMatcher runs the match through OpenCV.
type CVMatcher struct{}

func (CVMatcher) Match(src, tmpl *Gray) (Match, error) {
	if tmpl.W == 0 || tmpl.H == 0 || tmpl.W > src.W || tmpl.H > src.H {
		return Match{}, ErrTemplateTooLarge
	}
	srcMat, err := gocv.NewMatFromBytes(src.H, src.W, gocv.MatTypeCV8UC1, src.Bytes())
	if err != nil {
		return Match{}, fmt.Errorf("source mat: %w", err)
	}
	defer srcMat.Close()
	tmplMat, err := gocv.NewMatFromBytes(tmpl.H, tmpl.W, gocv.MatTypeCV8UC1, tmpl.Bytes())
	if err != nil {
		return Match{}, fmt.Errorf("template mat: %w", err)
	}
	defer tmplMat.Close()

	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(srcMat, tmplMat, &res, gocv.TmSqdiffNormed, mask)
	minVal, _, minLoc, _ := gocv.MinMaxLoc(res)
	return Match{X: minLoc.X, Y: minLoc.Y, Score: float64(minVal)}, nil
}

func defaultMatcher() Matcher {
	return CVMatcher{}
}
