package stitch

import (
	"image"
	"math"
)

// Gray is a single-channel image with 8-bit luma values stored as float64 so
// matchers can feed rows straight into vector routines.
type Gray struct {
	W, H int
	Pix  []float64
}

// NewGray allocates a black w×h image.
func NewGray(w, h int) *Gray {
	return &Gray{W: w, H: h, Pix: make([]float64, w*h)}
}

// Row returns row y as a slice into Pix.
func (g *Gray) Row(y int) []float64 {
	return g.Pix[y*g.W : (y+1)*g.W]
}

// At returns the luma at (x, y).
func (g *Gray) At(x, y int) float64 { return g.Pix[y*g.W+x] }

// Crop copies r out of g. r is clipped to g's bounds.
func (g *Gray) Crop(r image.Rectangle) *Gray {
	r = r.Intersect(image.Rect(0, 0, g.W, g.H))
	out := NewGray(r.Dx(), r.Dy())
	for y := 0; y < out.H; y++ {
		copy(out.Row(y), g.Row(r.Min.Y + y)[r.Min.X:r.Max.X])
	}
	return out
}

// Bytes returns the luma values as one byte per pixel, row-major.
func (g *Gray) Bytes() []byte {
	out := make([]byte, len(g.Pix))
	for i, v := range g.Pix {
		out[i] = uint8(v)
	}
	return out
}

// ToGray converts img with the ITU-R BT.601 luma weights and rounds each value
// to a whole 8-bit level.
func ToGray(img image.Image) *Gray {
	b := img.Bounds()
	g := NewGray(b.Dx(), b.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < g.H; y++ {
			off := rgba.PixOffset(b.Min.X, b.Min.Y+y)
			row := g.Row(y)
			for x := range row {
				i := off + x*4
				row[x] = luma(float64(rgba.Pix[i]), float64(rgba.Pix[i+1]), float64(rgba.Pix[i+2]))
			}
		}
		return g
	}
	for y := 0; y < g.H; y++ {
		row := g.Row(y)
		for x := range row {
			r, gg, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = luma(float64(r>>8), float64(gg>>8), float64(bb>>8))
		}
	}
	return g
}

func luma(r, g, b float64) float64 {
	return math.Round(0.299*r + 0.587*g + 0.114*b)
}
