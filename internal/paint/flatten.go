package paint

import (
	"errors"
	"image"
	"image/draw"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
)

// ErrEmptySelection is returned when a flatten request covers no pixels.
var ErrEmptySelection = errors.New("selection is empty")

// Crop copies the physical rectangle rect out of img. Areas of rect outside
// img stay transparent.
func Crop(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}

// Flatten crops the logical selection sel out of a physical screen capture
// and burns the committed actions into it. The result has physical size.
func (r *Rasterizer) Flatten(screen *image.RGBA, sel geometry.Rect, ratio float64, actions []editlog.Action) (*image.RGBA, error) {
	phys := geometry.ToPhysical(sel, ratio).Image().Intersect(screen.Bounds())
	if phys.Empty() {
		return nil, ErrEmptySelection
	}
	out := Crop(screen, phys)
	origin := geometry.PointToLogical(geometry.FromImagePoint(phys.Min), ratio)
	if err := r.Rasterize(out, Project(actions, nil, TargetExport), origin, ratio); err != nil {
		return nil, err
	}
	return out, nil
}
