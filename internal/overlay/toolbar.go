package overlay

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/paint"
	"github.com/example/hydrashot/internal/session"
	"github.com/example/hydrashot/internal/theme"
)

type command int

const (
	cmdRect command = iota
	cmdEllipse
	cmdArrow
	cmdPen
	cmdNumber
	cmdText
	cmdWidth
	cmdColor
	cmdUndo
	cmdPin
	cmdLong
	cmdSave
	cmdCopy
)

var commandLabels = [...]string{"Rect", "Oval", "Arrow", "Pen", "Num", "Text", "Medium", "Color", "Undo", "Pin", "Long", "Save", "Copy"}

var commandTools = map[command]session.Tool{
	cmdRect:    session.ToolRectangle,
	cmdEllipse: session.ToolEllipse,
	cmdArrow:   session.ToolArrow,
	cmdPen:     session.ToolFreehand,
	cmdNumber:  session.ToolNumber,
	cmdText:    session.ToolText,
}

var widthLabels = [...]string{session.Thin: "Thin", session.Medium: "Medium", session.Thick: "Thick"}

// DefaultPalette is cycled by the colour button.
var DefaultPalette = []color.RGBA{
	colornames.Red,
	colornames.Orange,
	colornames.Gold,
	colornames.Limegreen,
	colornames.Dodgerblue,
	colornames.Blueviolet,
	colornames.Black,
	colornames.White,
}

var toolbarFont = editlog.Font{Family: paint.DefaultFamily, Size: 12}

const (
	buttonHeight  = 24
	buttonPadding = 8
	swatchHeight  = 3
)

type button struct {
	cmd command
	// rect is relative to the toolbar's top-left.
	rect geometry.Rect
}

type toolbar struct {
	buttons []button
	size    geometry.Size
}

// newToolbar lays the buttons out in one row, all as wide as the widest
// label.
func newToolbar(fonts *paint.Fonts) toolbar {
	var w float64
	for _, lbl := range append(commandLabels[:], widthLabels[:]...) {
		w = max(w, fonts.Measure(toolbarFont, lbl).W+2*buttonPadding)
	}
	tb := toolbar{size: geometry.Size{W: w * float64(len(commandLabels)), H: buttonHeight}}
	for i := range commandLabels {
		tb.buttons = append(tb.buttons, button{
			cmd:  command(i),
			rect: geometry.Rect{X: float64(i) * w, W: w, H: buttonHeight},
		})
	}
	return tb
}

// hit returns the button under p for a toolbar placed at tl.
func (tb toolbar) hit(tl, p geometry.Point) (command, bool) {
	for _, b := range tb.buttons {
		if b.rect.Translate(tl).Contains(p) {
			return b.cmd, true
		}
	}
	return 0, false
}

type toolbarState struct {
	tool  session.Tool
	width session.Width
	color color.RGBA
}

func (tb toolbar) plan(tl geometry.Point, st toolbarState, th *theme.Theme) []paint.Primitive {
	plan := []paint.Primitive{{
		Kind:  paint.KindFilledRect,
		Color: th.ToolbarBackground,
		Rect:  geometry.Rect{X: tl.X, Y: tl.Y, W: tb.size.W, H: tb.size.H},
	}}
	for _, b := range tb.buttons {
		r := b.rect.Translate(tl)
		bg := th.ButtonBackground
		if t, ok := commandTools[b.cmd]; ok && t == st.tool {
			bg = th.ButtonActive
		}
		label := commandLabels[b.cmd]
		if b.cmd == cmdWidth {
			label = widthLabels[st.width]
		}
		plan = append(plan,
			paint.Primitive{Kind: paint.KindFilledRect, Color: bg, Rect: r.Inset(1)},
			paint.Primitive{Kind: paint.KindRect, Color: th.ButtonBorder, Width: 1, Rect: r.Inset(1)},
			paint.Primitive{
				Kind:  paint.KindText,
				Color: th.ButtonText,
				Rect:  geometry.Rect{X: r.X + buttonPadding - paint.TextPadding, Y: r.Y + 1, W: r.W, H: r.H},
				Text:  label,
				Font:  toolbarFont,
			},
		)
		if b.cmd == cmdColor {
			plan = append(plan, paint.Primitive{
				Kind:  paint.KindFilledRect,
				Color: st.color,
				Rect:  geometry.Rect{X: r.X + 3, Y: r.Bottom() - 3 - swatchHeight, W: r.W - 6, H: swatchHeight},
			})
		}
	}
	return plan
}

// nextColor returns the palette entry after c, or the first one when c is
// not in the palette.
func nextColor(palette []color.RGBA, c color.RGBA) color.RGBA {
	if len(palette) == 0 {
		return c
	}
	for i, p := range palette {
		if p == c {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
