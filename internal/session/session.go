package session

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/paint"
)

// Tool is the active annotation tool.
type Tool int

const (
	ToolNone Tool = iota
	ToolRectangle
	ToolEllipse
	ToolArrow
	ToolFreehand
	ToolNumber
	ToolText
)

var toolNames = [...]string{"none", "rectangle", "ellipse", "arrow", "freehand", "number", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "invalid"
	}
	return toolNames[t]
}

// Width is a stroke width preset.
type Width int

const (
	Thin Width = iota
	Medium
	Thick
)

// Mode is the interaction stage, derived from the session state.
type Mode int

const (
	// Selecting means no selection exists yet.
	Selecting Mode = iota
	// Adjusting means a selection exists and no tool is active.
	Adjusting
	// Drawing means an annotation tool is active.
	Drawing
	// TextInput means a text box is being edited.
	TextInput
)

func (m Mode) String() string {
	switch m {
	case Selecting:
		return "selecting"
	case Adjusting:
		return "adjusting"
	case Drawing:
		return "drawing"
	case TextInput:
		return "text"
	}
	return "invalid"
}

// ErrNoSelection is returned by Export before a region is chosen.
var ErrNoSelection = errors.New("no selection")

type gesture int

const (
	gestureNone gesture = iota
	gestureSelect
	gestureMove
	gestureResize
	gestureDraw
)

type textDraft struct {
	anchor  geometry.Point
	content string
	color   color.RGBA
	font    editlog.Font
	// orig is the committed text this draft re-opened, restored at index at
	// on cancel.
	orig *editlog.Text
	at   int
}

// Session is the overlay's interaction state: the selection, the edit log
// and whatever gesture is in progress. It is driven by one event loop and is
// not safe for concurrent use, with the exception of the ColorBus.
type Session struct {
	screen *image.RGBA
	ratio  float64

	sel    *geometry.Selection
	log    *editlog.Log
	tool   Tool
	width  Width
	widths [3]int
	color  color.RGBA
	font   editlog.Font
	keys   Shortcuts

	bus    *ColorBus
	fonts  *paint.Fonts
	raster *paint.Rasterizer
	logger *slog.Logger

	toolbar geometry.Size

	gesture gesture
	handle  geometry.Handle
	draft   editlog.Action
	text    *textDraft
	cursor  geometry.Point
}

// Option configures a Session.
type Option func(*Session)

// WithWidths sets the thin, medium and thick stroke widths.
func WithWidths(thin, medium, thick int) Option {
	return func(s *Session) { s.widths = [3]int{thin, medium, thick} }
}

// WithWidth picks the initial width preset.
func WithWidth(w Width) Option { return func(s *Session) { s.width = clampWidth(w) } }

// WithColor sets the initial pen colour.
func WithColor(c color.RGBA) Option { return func(s *Session) { s.color = c } }

// WithFont sets the text tool font.
func WithFont(f editlog.Font) Option { return func(s *Session) { s.font = f } }

// WithShortcuts replaces the default key bindings.
func WithShortcuts(k Shortcuts) Option { return func(s *Session) { s.keys = k } }

// WithRasterizer shares a rasterizer and its font cache.
func WithRasterizer(r *paint.Rasterizer) Option { return func(s *Session) { s.raster = r } }

// WithToolbarSize sets the footprint used to place the toolbar.
func WithToolbarSize(sz geometry.Size) Option { return func(s *Session) { s.toolbar = sz } }

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = l } }

// New starts a session over a physical screen capture shown at the given
// device pixel ratio.
func New(screen *image.RGBA, ratio float64, opts ...Option) *Session {
	if ratio <= 0 {
		ratio = 1
	}
	phys := geometry.RectFromImage(screen.Bounds())
	s := &Session{
		screen:  screen,
		ratio:   ratio,
		sel:     geometry.NewSelection(geometry.ToLogical(phys, ratio).Size()),
		log:     editlog.New(),
		width:   Medium,
		widths:  [3]int{2, 4, 6},
		color:   color.RGBA{R: 255, A: 255},
		font:    editlog.Font{Family: paint.DefaultFamily, Size: 16},
		keys:    DefaultShortcuts(),
		bus:     &ColorBus{},
		toolbar: geometry.Size{W: 360, H: 32},
	}
	for _, o := range opts {
		o(s)
	}
	if s.raster == nil {
		s.raster = paint.NewRasterizer(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.fonts = s.raster.Fonts()
	s.bus.Subscribe(func(c color.RGBA) {
		if s.text != nil {
			s.text.color = c
		}
	})
	return s
}

func clampWidth(w Width) Width { return max(Thin, min(w, Thick)) }

// Mode reports the current interaction stage.
func (s *Session) Mode() Mode {
	switch {
	case s.text != nil:
		return TextInput
	case !s.sel.Active() || s.gesture == gestureSelect:
		return Selecting
	case s.tool != ToolNone:
		return Drawing
	}
	return Adjusting
}

func (s *Session) Tool() Tool { return s.tool }

// SetTool switches the annotation tool. Switching commits pending text.
func (s *Session) SetTool(t Tool) {
	if !s.sel.Active() {
		return
	}
	s.commitText()
	s.tool = t
	s.logger.Debug("tool", "tool", t)
}

func (s *Session) Color() color.RGBA { return s.color }

// SetColor changes the pen colour and notifies the ColorBus.
func (s *Session) SetColor(c color.RGBA) {
	s.color = c
	s.bus.Publish(c)
}

// Colors returns the bus that carries pen colour changes.
func (s *Session) Colors() *ColorBus { return s.bus }

func (s *Session) Width() Width { return s.width }

func (s *Session) SetWidth(w Width) { s.width = clampWidth(w) }

// StrokeWidth is the pixel width of the current preset.
func (s *Session) StrokeWidth() int { return s.widths[s.width] }

func (s *Session) Font() editlog.Font { return s.font }

// SetFont changes the text tool font, including the box being edited.
func (s *Session) SetFont(f editlog.Font) {
	s.font = f
	if s.text != nil {
		s.text.font = f
	}
}

// Selection returns the logical selection rectangle and whether one exists.
func (s *Session) Selection() (geometry.Rect, bool) {
	return s.sel.Rect(), s.sel.Active()
}

// Log exposes the committed annotations.
func (s *Session) Log() *editlog.Log { return s.log }

// Ratio is the device pixel ratio of the screen capture.
func (s *Session) Ratio() float64 { return s.ratio }

func (s *Session) stroke() editlog.Stroke {
	return editlog.Stroke{Color: s.color, Width: s.StrokeWidth()}
}

// Handle applies one input event and returns the work the host must do.
func (s *Session) Handle(ev Event) Effect {
	switch ev := ev.(type) {
	case Press:
		s.cursor = ev.Point
		if ev.Button == Secondary {
			return s.secondary()
		}
		return s.press(ev)
	case Move:
		s.cursor = ev.Point
		s.move(ev.Point)
	case Release:
		s.cursor = ev.Point
		if ev.Button == Primary {
			s.release()
		}
	case Key:
		return s.key(ev)
	case Wheel:
		s.cursor = ev.Point
		if s.tool != ToolNone && s.gesture == gestureNone {
			switch {
			case ev.DY > 0:
				s.SetWidth(s.width + 1)
			case ev.DY < 0:
				s.SetWidth(s.width - 1)
			}
		}
	}
	return EffectNone
}

func (s *Session) press(ev Press) Effect {
	p := ev.Point
	if s.text != nil {
		if s.textBox().Contains(p) {
			return EffectNone
		}
		s.commitText()
		return EffectNone
	}
	if !s.sel.Active() {
		s.sel.Begin(p)
		s.gesture = gestureSelect
		return EffectNone
	}
	if s.tool == ToolNone {
		h := s.sel.Classify(p)
		switch {
		case h == geometry.Center && ev.Double:
			return EffectCopy
		case h == geometry.Center:
			s.sel.BeginDrag(p)
			s.gesture = gestureMove
		case h.Resizes():
			s.handle = h
			s.gesture = gestureResize
		}
		return EffectNone
	}

	st := s.stroke()
	switch s.tool {
	case ToolRectangle:
		s.draft = editlog.Rectangle{Stroke: st, Start: p, End: p}
	case ToolEllipse:
		s.draft = editlog.Ellipse{Stroke: st, Start: p, End: p}
	case ToolArrow:
		s.draft = editlog.Arrow{Stroke: st, Start: p, End: p}
	case ToolFreehand:
		s.draft = editlog.Freehand{Stroke: st, Points: []geometry.Point{p}}
	case ToolNumber:
		s.draft = editlog.NumberMarker{
			Stroke: st,
			Seq:    s.log.PeekMarkerSeq(),
			Radius: editlog.MarkerRadius(st.Width),
			Center: p,
		}
	case ToolText:
		if t, at, ok := s.log.TakeAt(p); ok {
			orig := t
			s.text = &textDraft{anchor: t.Box.Min(), content: t.Content, color: t.Color, font: t.Font, orig: &orig, at: at}
		} else {
			s.text = &textDraft{anchor: p, color: s.color, font: s.font}
		}
		return EffectNone
	}
	s.gesture = gestureDraw
	return EffectNone
}

func (s *Session) move(p geometry.Point) {
	switch s.gesture {
	case gestureSelect:
		s.sel.Extend(p)
	case gestureMove:
		s.sel.MoveTo(s.sel.DragTo(p))
	case gestureResize:
		s.sel.ResizeFrom(s.handle, p)
	case gestureDraw:
		switch d := s.draft.(type) {
		case editlog.Rectangle:
			d.End = p
			s.draft = d
		case editlog.Ellipse:
			d.End = p
			s.draft = d
		case editlog.Arrow:
			d.End = p
			s.draft = d
		case editlog.Freehand:
			d.Points = append(d.Points, p)
			s.draft = d
		}
	}
}

func (s *Session) release() {
	switch s.gesture {
	case gestureSelect:
		s.sel.Finish()
		if s.sel.Rect().Empty() {
			s.sel.Reset()
		}
	case gestureMove:
		s.sel.EndDrag()
	case gestureDraw:
		if s.log.Append(s.draft) {
			s.logger.Debug("annotation committed", "kind", s.draft.Kind(), "count", s.log.Len())
		}
		s.draft = nil
	}
	s.gesture = gestureNone
	s.handle = geometry.None
}

// secondary clears annotations first, then the selection, then quits. A
// re-opened text box counts as an annotation.
func (s *Session) secondary() Effect {
	s.gesture = gestureNone
	s.draft = nil
	if s.text != nil {
		s.cancelText()
	}
	if !s.sel.Active() {
		return EffectQuit
	}
	if !s.log.Empty() {
		s.log.Clear()
		s.tool = ToolNone
		return EffectNone
	}
	s.Reset()
	return EffectNone
}

// Reset drops the selection, every annotation and any gesture in progress.
func (s *Session) Reset() {
	s.sel.Reset()
	s.log.Clear()
	s.tool = ToolNone
	s.gesture = gestureNone
	s.handle = geometry.None
	s.draft = nil
	s.text = nil
}

func (s *Session) key(k Key) Effect {
	if s.text != nil {
		s.textKey(k)
		return EffectNone
	}
	active := s.sel.Active()
	switch {
	case s.keys.Cancel.Matches(k):
		return EffectQuit
	case s.keys.Undo.Matches(k):
		s.Undo()
	case s.keys.Copy.Matches(k), k.Mods == 0 && k.Name == KeyEnter:
		if active {
			return EffectCopy
		}
		return EffectCopyColor
	case k.Mods == 0 && k.Name == "c" && !active:
		return EffectCopyColor
	case s.keys.Save.Matches(k) && active:
		return EffectSave
	case s.keys.Pin.Matches(k) && active:
		return EffectPin
	case s.keys.Long.Matches(k) && active:
		return EffectLong
	}
	return EffectNone
}

// Undo removes the newest annotation. Emptying the log leaves edit mode.
func (s *Session) Undo() {
	if s.text != nil {
		return
	}
	if _, exit := s.log.UndoLast(); exit {
		s.tool = ToolNone
	}
}

func (s *Session) textKey(k Key) {
	t := s.text
	switch {
	case k.Name == KeyEscape:
		s.cancelText()
	case k.Name == KeyEnter && k.Mods&ModCtrl != 0:
		s.commitText()
	case k.Name == KeyEnter:
		t.content += "\n"
	case k.Name == KeyBackspace:
		if _, n := utf8.DecodeLastRuneInString(t.content); n > 0 {
			t.content = t.content[:len(t.content)-n]
		}
	case k.Mods&(ModCtrl|ModAlt|ModMeta) == 0 && k.Rune != 0 && unicode.IsPrint(k.Rune):
		t.content += string(k.Rune)
	}
}

func (s *Session) textAction() editlog.Text {
	t := s.text
	return editlog.Text{
		Color:   t.color,
		Font:    t.font,
		Box:     s.fonts.TextBox(t.font, t.content, t.anchor),
		Content: t.content,
	}
}

func (s *Session) textBox() geometry.Rect { return s.textAction().Box }

// commitText stores the text box being edited. Blank text is dropped.
func (s *Session) commitText() {
	if s.text == nil {
		return
	}
	s.text.content = strings.TrimRight(s.text.content, "\n")
	s.log.Append(s.textAction())
	s.text = nil
}

func (s *Session) cancelText() {
	if s.text.orig != nil {
		s.log.InsertAt(s.text.at, *s.text.orig)
	}
	s.text = nil
}

// Draft returns the annotation being drawn or typed, if any.
func (s *Session) Draft() editlog.Action {
	if s.text != nil {
		return s.textAction()
	}
	return s.draft
}

// Export flattens the committed annotations into the selected region of the
// screen capture at physical resolution.
func (s *Session) Export() (*image.RGBA, error) {
	if !s.sel.Active() {
		return nil, ErrNoSelection
	}
	s.commitText()
	return s.raster.Flatten(s.screen, s.sel.Rect(), s.ratio, s.log.Actions())
}

// Magnifier samples the screen under the cursor.
func (s *Session) Magnifier() Readout {
	return Sample(s.screen, s.cursor.Scale(s.ratio).Image(), MagnifierSize)
}

// Cursor is the last pointer position seen.
func (s *Session) Cursor() geometry.Point { return s.cursor }
