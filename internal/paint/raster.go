package paint

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/example/hydrashot/internal/geometry"
)

// Rasterizer draws paint plans onto RGBA buffers.
type Rasterizer struct {
	fonts *Fonts
}

// NewRasterizer returns a rasterizer that resolves text faces through fonts.
// A nil fonts gets a private cache.
func NewRasterizer(fonts *Fonts) *Rasterizer {
	if fonts == nil {
		fonts = NewFonts()
	}
	return &Rasterizer{fonts: fonts}
}

// Fonts returns the font cache used for text primitives.
func (r *Rasterizer) Fonts() *Fonts { return r.fonts }

// Rasterize draws plan onto dst. Logical point p lands on pixel
// (p-origin)*ratio, so origin is the logical position of dst's top-left
// corner. dst must start at (0,0).
func (r *Rasterizer) Rasterize(dst *image.RGBA, plan []Primitive, origin geometry.Point, ratio float64) error {
	if dst.Bounds().Min != (image.Point{}) {
		return fmt.Errorf("rasterize: destination must start at the origin, got %v", dst.Bounds().Min)
	}
	if ratio <= 0 {
		ratio = 1
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	px := func(p geometry.Point) (float64, float64) {
		q := p.Sub(origin).Scale(ratio)
		return q.X, q.Y
	}
	box := func(rc geometry.Rect) (x, y, w, h float64) {
		x, y = px(rc.Min())
		return x, y, rc.W * ratio, rc.H * ratio
	}

	for _, p := range plan {
		dc.SetColor(p.Color)
		dc.SetLineWidth(max(p.Width*ratio, 1))
		switch p.Kind {
		case KindRect:
			x, y, w, h := box(p.Rect)
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
		case KindFilledRect:
			x, y, w, h := box(p.Rect)
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
		case KindDashedRect:
			x, y, w, h := box(p.Rect)
			dc.SetDash(4*ratio, 3*ratio)
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
			dc.SetDash()
		case KindEllipse:
			x, y, w, h := box(p.Rect)
			dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
			dc.Stroke()
		case KindLine, KindPolyline:
			switch len(p.Points) {
			case 0:
				continue
			case 1:
				x, y := px(p.Points[0])
				dc.DrawCircle(x, y, max(p.Width*ratio, 1)/2)
				dc.Fill()
				continue
			}
			dc.MoveTo(px(p.Points[0]))
			for _, pt := range p.Points[1:] {
				dc.LineTo(px(pt))
			}
			dc.Stroke()
		case KindPolygon:
			if len(p.Points) < 3 {
				continue
			}
			dc.MoveTo(px(p.Points[0]))
			for _, pt := range p.Points[1:] {
				dc.LineTo(px(pt))
			}
			dc.ClosePath()
			dc.FillPreserve()
			dc.Stroke()
		case KindMarker:
			x, y, w, h := box(p.Rect)
			dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
			dc.Fill()
			err := r.fonts.Use(p.Font, ratio, func(face font.Face) error {
				dc.SetFontFace(face)
				dc.SetColor(labelColor(p.Color))
				dc.DrawStringAnchored(p.Text, x+w/2, y+h/2, 0.5, 0.35)
				return nil
			})
			if err != nil {
				return err
			}
		case KindText:
			x, y, _, _ := box(p.Rect)
			x += TextPadding * ratio
			y += TextPadding * ratio
			err := r.fonts.Use(p.Font, ratio, func(face font.Face) error {
				dc.SetFontFace(face)
				m := face.Metrics()
				ascent := float64(m.Ascent.Ceil())
				lh := float64(m.Height.Ceil())
				for i, line := range strings.Split(p.Text, "\n") {
					dc.DrawString(line, x, y+ascent+float64(i)*lh)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// labelColor picks black or white, whichever reads better on bg.
func labelColor(bg color.Color) color.Color {
	cr, cg, cb, _ := bg.RGBA()
	brightness := 0.299*float64(cr>>8) + 0.587*float64(cg>>8) + 0.114*float64(cb>>8)
	if brightness < 128 {
		return color.White
	}
	return color.Black
}
