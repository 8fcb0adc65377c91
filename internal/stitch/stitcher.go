package stitch

import (
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/example/hydrashot/internal/geometry"
)

// State is the stitcher's lifecycle stage.
type State int

const (
	// Idle means nothing has been captured yet.
	Idle State = iota
	// Accumulating means a composite exists and new captures are merged
	// into it.
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Grabber captures a physical screen rectangle.
type Grabber interface {
	Grab(r image.Rectangle) (*image.RGBA, error)
}

// GrabberFunc adapts a function to Grabber.
type GrabberFunc func(r image.Rectangle) (*image.RGBA, error)

func (f GrabberFunc) Grab(r image.Rectangle) (*image.RGBA, error) { return f(r) }

// Option configures a Stitcher.
type Option func(*Stitcher)

// WithLogger sets the logger used for merge reports.
func WithLogger(l *slog.Logger) Option { return func(s *Stitcher) { s.logger = l } }

// WithMatcher replaces the default template matcher.
func WithMatcher(m Matcher) Option { return func(s *Stitcher) { s.matcher = m } }

// WithOnMerge registers a callback run after every capture that changed the
// composite. It runs on the goroutine that called CaptureAndMerge.
func WithOnMerge(fn func(composite *image.RGBA, p Placement)) Option {
	return func(s *Stitcher) { s.onMerge = fn }
}

// WithOnMiss registers a callback run with the best score whenever a capture
// could not be placed.
func WithOnMiss(fn func(score float64)) Option { return func(s *Stitcher) { s.onMiss = fn } }

// Stitcher grows a long screenshot from repeated captures of one fixed
// region. It holds at most two images: the composite and, during a merge,
// the newest raw capture.
//
// Methods are safe to call from several goroutines, but captures should be
// driven from one place (see Pump).
type Stitcher struct {
	region  geometry.Rect
	phys    image.Rectangle
	grab    Grabber
	matcher Matcher
	logger  *slog.Logger
	onMerge func(*image.RGBA, Placement)
	onMiss  func(float64)

	mu     sync.Mutex
	images []*image.RGBA
	misses int
}

// New returns an idle stitcher for the logical region on a display with the
// given device pixel ratio.
func New(region geometry.Rect, ratio float64, grab Grabber, opts ...Option) *Stitcher {
	s := &Stitcher{
		region: region,
		phys:   geometry.ToPhysical(region, ratio).Image(),
		grab:   grab,
	}
	for _, o := range opts {
		o(s)
	}
	if s.matcher == nil {
		s.matcher = defaultMatcher()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Region returns the logical capture region.
func (s *Stitcher) Region() geometry.Rect { return s.region }

// CaptureAndMerge grabs the region once. The first capture becomes the
// composite; later captures are merged below it. A capture that cannot be
// placed is dropped, the composite is kept and a *NoMatchError is returned.
func (s *Stitcher) CaptureAndMerge() error {
	raw, err := s.grab.Grab(s.phys)
	if err != nil {
		return err
	}

	img, p, err := s.merge(raw)
	if err != nil {
		var nm *NoMatchError
		if s.onMiss != nil && errors.As(err, &nm) {
			s.onMiss(nm.Score)
		}
		return err
	}
	if s.onMerge != nil {
		s.onMerge(img, p)
	}
	return nil
}

func (s *Stitcher) merge(raw *image.RGBA) (*image.RGBA, Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		s.images = []*image.RGBA{raw}
		s.logger.Debug("stitch started", "width", raw.Bounds().Dx(), "height", raw.Bounds().Dy())
		return raw, Placement{}, nil
	}

	s.images = append(s.images[:1], raw)
	merged, p, err := Merge(s.images[0], raw, s.matcher)
	if err != nil {
		s.images = s.images[:1]
		s.misses++
		var nm *NoMatchError
		if errors.As(err, &nm) {
			s.logger.Info("stitch: target not found", "score", nm.Score, "misses", s.misses)
		} else {
			s.logger.Warn("stitch: merge failed", "error", err)
		}
		return nil, p, err
	}
	s.images = []*image.RGBA{merged}
	s.logger.Debug("stitch merged", "y", p.Y, "overlap", p.Overlap, "score", p.Score, "height", merged.Bounds().Dy())
	return merged, p, nil
}

// WheelScroll captures and merges when the wheel moved down with the cursor
// inside the region. It reports whether a capture was attempted.
func (s *Stitcher) WheelScroll(p geometry.Point, dx, dy float64) (bool, error) {
	if dy >= 0 || !s.region.Contains(p) {
		return false, nil
	}
	return true, s.CaptureAndMerge()
}

// Composite returns the current long screenshot, or nil when idle.
func (s *Stitcher) Composite() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return nil
	}
	return s.images[0]
}

// State reports whether a composite exists.
func (s *Stitcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return Idle
	}
	return Accumulating
}

// Len is the number of images currently held.
func (s *Stitcher) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Misses counts captures that could not be placed since the last reset.
func (s *Stitcher) Misses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.misses
}

// Reset drops every held image and returns to Idle.
func (s *Stitcher) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = nil
	s.misses = 0
}
