// Package render decorates exported captures for display outside the
// overlay.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ShadowOptions configures the drop shadow drawn behind a pinned capture.
type ShadowOptions struct {
	// Radius is how far the shadow spreads past the image edge.
	Radius  int
	Offset  image.Point
	Opacity float64
}

// Shadowed is an image composited over its drop shadow.
type Shadowed struct {
	Image *image.NRGBA
	// Offset is where the original image's top-left corner ended up inside
	// Image, so callers can keep the content at a stable screen position.
	Offset image.Point
}

// DefaultShadowOptions returns the shadow used for pinned captures.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  12,
		Offset:  image.Pt(6, 6),
		Opacity: 0.5,
	}
}

// ApplyShadow composites img over a blurred silhouette of itself. The result
// always starts at (0,0).
func ApplyShadow(img image.Image, opts ShadowOptions) Shadowed {
	if img == nil {
		return Shadowed{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return Shadowed{Image: imaging.Clone(img)}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	src := image.Rect(0, 0, w, h)
	shadow := src.Inset(-radius).Add(opts.Offset)
	canvas := src.Union(shadow)

	sil := imaging.New(shadow.Dx(), shadow.Dy(), color.NRGBA{})
	sil = imaging.Paste(sil, silhouette(img), image.Pt(radius, radius))
	if radius > 0 {
		sil = imaging.Blur(sil, float64(radius)/3)
	}

	out := imaging.New(canvas.Dx(), canvas.Dy(), color.NRGBA{})
	out = imaging.Overlay(out, sil, shadow.Min.Sub(canvas.Min), opacity)
	shift := src.Min.Sub(canvas.Min)
	out = imaging.Overlay(out, img, shift, 1)
	return Shadowed{Image: out, Offset: shift}
}

// silhouette keeps the alpha of img and paints every pixel black.
func silhouette(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 0, 0, 0
	}
	return out
}
