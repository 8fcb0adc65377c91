// Package overlay hosts a capture session in a shiny window showing the
// frozen screen.
package overlay

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/hydrashot/internal/clipboard"
	"github.com/example/hydrashot/internal/geometry"
	hpaint "github.com/example/hydrashot/internal/paint"
	"github.com/example/hydrashot/internal/session"
	"github.com/example/hydrashot/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be cancelled
// before a draw is allowed to complete.
const frameDropThreshold = 10

const statusDuration = 2 * time.Second

// Outcome is how the overlay closed.
type Outcome struct {
	// Effect is EffectCopy, EffectSave, EffectPin, EffectLong or EffectQuit.
	Effect session.Effect
	// Image is the flattened selection for copy, save and pin.
	Image *image.RGBA
	// Selection is the logical region for a long screenshot.
	Selection geometry.Rect
}

// Overlay owns the session and the window state around it.
type Overlay struct {
	screen  *image.RGBA
	sess    *session.Session
	theme   *theme.Theme
	raster  *hpaint.Rasterizer
	logger  *slog.Logger
	toolbar toolbar
	palette []color.RGBA
	title   string
	pick    bool

	sessOpts  []session.Option
	writeText func(string) error

	clicks      clickTracker
	swatch      color.RGBA
	status      string
	statusUntil time.Time
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(o *Overlay) { o.theme = t } }

// WithLogger sets the overlay logger. It is passed on to the session.
func WithLogger(l *slog.Logger) Option { return func(o *Overlay) { o.logger = l } }

// WithSessionOptions forwards options to the session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *Overlay) { o.sessOpts = append(o.sessOpts, opts...) }
}

// WithPalette sets the colours the colour button cycles through.
func WithPalette(p []color.RGBA) Option { return func(o *Overlay) { o.palette = p } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(o *Overlay) { o.title = title } }

// WithRegionPicker turns copy, save and pin into "use this region": the
// overlay closes with EffectLong and the selection.
func WithRegionPicker() Option { return func(o *Overlay) { o.pick = true } }

// New prepares an overlay over a physical screen capture shown at the given
// device pixel ratio.
func New(screenshot *image.RGBA, ratio float64, opts ...Option) *Overlay {
	o := &Overlay{
		screen:    screenshot,
		theme:     theme.Default(),
		raster:    hpaint.NewRasterizer(nil),
		palette:   DefaultPalette,
		title:     "hydrashot",
		writeText: clipboard.WriteText,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.toolbar = newToolbar(o.raster.Fonts())
	sessOpts := append([]session.Option{
		session.WithRasterizer(o.raster),
		session.WithLogger(o.logger),
	}, o.sessOpts...)
	sessOpts = append(sessOpts, session.WithToolbarSize(o.toolbar.size))
	o.sess = session.New(screenshot, ratio, sessOpts...)
	o.swatch = o.sess.Color()
	o.sess.Colors().Subscribe(func(c color.RGBA) { o.swatch = c })
	return o
}

// Session exposes the interaction state.
func (o *Overlay) Session() *session.Session { return o.sess }

func (o *Overlay) setStatus(msg string, now time.Time) {
	o.status = msg
	o.statusUntil = now.Add(statusDuration)
	o.logger.Info(msg)
}

func (o *Overlay) currentStatus(now time.Time) string {
	if o.status != "" && now.Before(o.statusUntil) {
		return o.status
	}
	return ""
}

// dispatch feeds one window event to the session. It reports the resulting
// effect and whether the frame changed.
func (o *Overlay) dispatch(e any, now time.Time) (session.Effect, bool) {
	ratio := o.sess.Ratio()
	switch e := e.(type) {
	case mouse.Event:
		ev, ok := translateMouse(e, ratio)
		if !ok {
			return session.EffectNone, false
		}
		if p, ok := ev.(session.Press); ok {
			o.statusUntil = time.Time{}
			if p.Button == session.Primary {
				if tl := o.sess.Frame().Toolbar; tl != nil {
					if cmd, ok := o.toolbar.hit(*tl, p.Point); ok {
						return o.activate(cmd), true
					}
				}
				p.Double = o.clicks.press(p.Point, now)
				ev = p
			}
		}
		return o.sess.Handle(ev), true
	case key.Event:
		k, ok := translateKey(e)
		if !ok {
			return session.EffectNone, false
		}
		return o.sess.Handle(k), true
	}
	return session.EffectNone, false
}

// activate runs a toolbar command.
func (o *Overlay) activate(cmd command) session.Effect {
	if t, ok := commandTools[cmd]; ok {
		if o.sess.Tool() == t {
			t = session.ToolNone
		}
		o.sess.SetTool(t)
		return session.EffectNone
	}
	switch cmd {
	case cmdWidth:
		o.sess.SetWidth((o.sess.Width() + 1) % (session.Thick + 1))
	case cmdColor:
		o.sess.SetColor(nextColor(o.palette, o.sess.Color()))
	case cmdUndo:
		o.sess.Undo()
	case cmdPin:
		return session.EffectPin
	case cmdLong:
		return session.EffectLong
	case cmdSave:
		return session.EffectSave
	case cmdCopy:
		return session.EffectCopy
	}
	return session.EffectNone
}

// apply performs the effects the overlay handles itself and reports whether
// the window should close with out.
func (o *Overlay) apply(eff session.Effect, now time.Time) (out Outcome, done bool) {
	if o.pick && (eff == session.EffectCopy || eff == session.EffectSave || eff == session.EffectPin) {
		eff = session.EffectLong
	}
	switch eff {
	case session.EffectNone:
		return Outcome{}, false
	case session.EffectCopyColor:
		r := o.sess.Magnifier()
		if err := o.writeText(r.Hex); err != nil {
			o.logger.Warn("copy colour", "error", err)
			o.setStatus("copy failed", now)
			return Outcome{}, false
		}
		o.setStatus("copied "+r.Hex, now)
		return Outcome{}, false
	case session.EffectQuit:
		return Outcome{Effect: eff}, true
	case session.EffectLong:
		sel, ok := o.sess.Selection()
		if !ok {
			return Outcome{}, false
		}
		return Outcome{Effect: eff, Selection: sel}, true
	}
	img, err := o.sess.Export()
	if err != nil {
		o.logger.Warn("export selection", "effect", eff, "error", err)
		o.setStatus(err.Error(), now)
		return Outcome{}, false
	}
	sel, _ := o.sess.Selection()
	return Outcome{Effect: eff, Image: img, Selection: sel}, true
}

type paintState struct {
	width, height int
	plan          []hpaint.Primitive
	magnifier     *magnifierLayout
	readout       session.Readout
}

func (o *Overlay) snapshot(width, height int, now time.Time) paintState {
	f := o.sess.Frame()
	st := paintState{width: width, height: height}
	tbs := toolbarState{tool: o.sess.Tool(), width: o.sess.Width(), color: o.swatch}
	st.plan = chrome(f, o.theme, o.toolbar, tbs, o.raster.Fonts(), o.currentStatus(now))
	if f.Magnifier != nil {
		panel := o.raster.Fonts().TextBox(readoutFont, f.Magnifier.Text(), geometry.Point{})
		l := layoutMagnifier(o.sess.Cursor(), f.Screen, panel.Size())
		st.magnifier = &l
		st.readout = *f.Magnifier
	}
	return st
}

// Main runs the window loop on s and returns how it closed.
func (o *Overlay) Main(s screen.Screen) Outcome {
	b := o.screen.Bounds()
	width, height := b.Dx(), b.Dy()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: o.title})
	if err != nil {
		o.logger.Error("new window", "error", err)
		return Outcome{Effect: session.EffectQuit}
	}
	defer w.Release()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	painterDone := make(chan struct{})
	defer func() {
		close(paintCh)
		<-painterDone
	}()
	go func() {
		defer close(painterDone)
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			o.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		e := w.NextEvent()
		now := time.Now()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return Outcome{Effect: session.EffectQuit}
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := o.snapshot(width, height, now)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event, key.Event:
			eff, changed := o.dispatch(e, now)
			if out, done := o.apply(eff, now); done {
				stopPaint()
				o.logger.Debug("overlay closed", "effect", out.Effect)
				return out
			}
			if changed || eff != session.EffectNone {
				w.Send(paint.Event{})
			}
		case error:
			o.logger.Error("window", "error", e)
		}
	}
}

func (o *Overlay) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		o.logger.Error("new buffer", "error", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), o.screen, o.screen.Bounds().Min, draw.Src)
	if ctx.Err() != nil {
		return
	}
	ratio := o.sess.Ratio()
	if err := o.raster.Rasterize(dst, st.plan, geometry.Point{}, ratio); err != nil {
		o.logger.Warn("rasterize frame", "error", err)
	}
	if ctx.Err() != nil {
		return
	}
	if st.magnifier != nil {
		drawPatch(dst, st.magnifier.patch, st.readout.Patch, ratio)
		if err := o.raster.Rasterize(dst, magnifierPlan(*st.magnifier, st.readout, o.theme), geometry.Point{}, ratio); err != nil {
			o.logger.Warn("rasterize magnifier", "error", err)
		}
	}
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
