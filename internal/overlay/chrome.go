package overlay

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/paint"
	"github.com/example/hydrashot/internal/session"
	"github.com/example/hydrashot/internal/theme"
)

const (
	// magnifierZoom is how many logical units one sampled pixel covers.
	magnifierZoom = 5
	// magnifierOffset keeps the magnifier clear of the cursor.
	magnifierOffset = 20
	handleDot       = 4
)

var (
	labelFont     = editlog.Font{Family: paint.DefaultFamily, Size: 12}
	readoutFont   = editlog.Font{Family: paint.DefaultFamily, Size: 11}
	statusFont    = editlog.Font{Family: paint.DefaultFamily, Size: 14}
	magnifierSide = float64(session.MagnifierSize * magnifierZoom)
)

// chrome builds the plan for everything except the magnifier patch: the mask,
// annotations, selection outline, handles, size label, toolbar and status.
func chrome(f session.Frame, th *theme.Theme, tb toolbar, st toolbarState, fonts *paint.Fonts, status string) []paint.Primitive {
	plan := make([]paint.Primitive, 0, len(f.Mask)+len(f.Plan)+len(f.Handles)+8)
	for _, r := range f.Mask {
		plan = append(plan, paint.Primitive{Kind: paint.KindFilledRect, Color: th.Mask, Rect: r})
	}
	plan = append(plan, f.Plan...)
	if f.HasSelection {
		plan = append(plan, paint.Primitive{Kind: paint.KindRect, Color: th.Border, Width: 1, Rect: f.Selection})
		for _, h := range f.Handles {
			c := h.Rect.Center()
			dot := geometry.Rect{X: c.X - handleDot, Y: c.Y - handleDot, W: 2 * handleDot, H: 2 * handleDot}
			plan = append(plan, paint.Primitive{Kind: paint.KindFilledRect, Color: th.Handle, Rect: dot})
		}
		if f.SizeLabel != "" {
			box := fonts.TextBox(labelFont, f.SizeLabel, geometry.Point{})
			box = box.Translate(geometry.SizeLabelAnchor(f.Selection, box.Size()))
			plan = append(plan,
				paint.Primitive{Kind: paint.KindFilledRect, Color: th.LabelBackground, Rect: box},
				paint.Primitive{Kind: paint.KindText, Color: th.LabelText, Rect: box, Text: f.SizeLabel, Font: labelFont},
			)
		}
	}
	if f.Toolbar != nil {
		plan = append(plan, tb.plan(*f.Toolbar, st, th)...)
	}
	if status != "" {
		box := fonts.TextBox(statusFont, status, geometry.Point{})
		box = box.Translate(geometry.Pt((f.Screen.W-box.W)/2, (f.Screen.H-box.H)/2))
		plan = append(plan,
			paint.Primitive{Kind: paint.KindFilledRect, Color: th.LabelBackground, Rect: box.Inset(-4)},
			paint.Primitive{Kind: paint.KindText, Color: th.LabelText, Rect: box, Text: status, Font: statusFont},
		)
	}
	return plan
}

// magnifierLayout places the zoomed patch and its readout panel next to the
// cursor, flipping to the other side near the right and bottom edges.
type magnifierLayout struct {
	patch geometry.Rect
	panel geometry.Rect
}

func layoutMagnifier(cursor geometry.Point, screen geometry.Size, panel geometry.Size) magnifierLayout {
	w := max(magnifierSide, panel.W)
	h := magnifierSide + panel.H
	x := cursor.X + magnifierOffset
	if x+w > screen.W {
		x = cursor.X - magnifierOffset - w
	}
	y := cursor.Y + magnifierOffset
	if y+h > screen.H {
		y = cursor.Y - magnifierOffset - h
	}
	x = max(0, x)
	y = max(0, y)
	return magnifierLayout{
		patch: geometry.Rect{X: x, Y: y, W: magnifierSide, H: magnifierSide},
		panel: geometry.Rect{X: x, Y: y + magnifierSide, W: w, H: panel.H},
	}
}

func magnifierPlan(l magnifierLayout, r session.Readout, th *theme.Theme) []paint.Primitive {
	c := l.patch.Center()
	cell := float64(magnifierZoom)
	return []paint.Primitive{
		{Kind: paint.KindLine, Color: th.MagnifierCrosshair, Width: 1, Points: []geometry.Point{{X: l.patch.X, Y: c.Y}, {X: l.patch.Right(), Y: c.Y}}},
		{Kind: paint.KindLine, Color: th.MagnifierCrosshair, Width: 1, Points: []geometry.Point{{X: c.X, Y: l.patch.Y}, {X: c.X, Y: l.patch.Bottom()}}},
		{Kind: paint.KindRect, Color: th.MagnifierBorder, Width: 1, Rect: geometry.Rect{X: c.X, Y: c.Y, W: cell, H: cell}},
		{Kind: paint.KindRect, Color: th.MagnifierBorder, Width: 1, Rect: l.patch},
		{Kind: paint.KindFilledRect, Color: th.MagnifierBackground, Rect: l.panel},
		{Kind: paint.KindText, Color: th.MagnifierText, Rect: l.panel, Text: r.Text(), Font: readoutFont},
	}
}

// drawPatch scales the sampled pixels into dst without smoothing.
func drawPatch(dst *image.RGBA, box geometry.Rect, patch *image.RGBA, ratio float64) {
	if patch == nil {
		return
	}
	target := box.Scale(ratio).Image()
	draw.Draw(dst, target, image.Black, image.Point{}, draw.Src)
	xdraw.NearestNeighbor.Scale(dst, target, patch, patch.Bounds(), draw.Over, nil)
}
