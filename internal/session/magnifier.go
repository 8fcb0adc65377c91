package session

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/hydrashot/internal/paint"
)

// MagnifierSize is the side of the sampled square in device pixels.
const MagnifierSize = 20

// Readout is what the magnifier shows under the cursor.
type Readout struct {
	// Pos is the sampled device pixel.
	Pos   image.Point
	RGB   color.RGBA
	Hex   string
	Patch *image.RGBA
}

// Text formats the readout the way it is copied to the clipboard.
func (r Readout) Text() string {
	return fmt.Sprintf("pos: (%d, %d)\nRGB: %d, %d, %d\nHEX: %s",
		r.Pos.X, r.Pos.Y, r.RGB.R, r.RGB.G, r.RGB.B, r.Hex)
}

// Sample copies a size×size patch of img centred on p. Parts outside img are
// transparent. The colour is read from p clamped into img.
func Sample(img *image.RGBA, p image.Point, size int) Readout {
	if size <= 0 {
		size = MagnifierSize
	}
	tl := p.Sub(image.Pt(size/2, size/2))
	patch := paint.Crop(img, image.Rectangle{Min: tl, Max: tl.Add(image.Pt(size, size))})

	b := img.Bounds()
	q := p
	q.X = max(b.Min.X, min(q.X, b.Max.X-1))
	q.Y = max(b.Min.Y, min(q.Y, b.Max.Y-1))
	var c color.RGBA
	if !b.Empty() {
		c = img.RGBAAt(q.X, q.Y)
		c.A = 255
	}
	return Readout{
		Pos:   p,
		RGB:   c,
		Hex:   fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		Patch: patch,
	}
}
