//go:build !gocv

package stitch

// defaultMatcher searches a few columns either side of centre so small
// horizontal jitter between captures still lines up.
func defaultMatcher() Matcher {
	return &SqDiffMatcher{MaxShiftX: 16}
}
