package session

import (
	"fmt"

	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/paint"
)

// HandleMinSize is the smallest selection side that still shows handle dots.
const HandleMinSize = 100

// Frame is everything the overlay draws for one repaint, in logical
// coordinates.
type Frame struct {
	Mode         Mode
	Screen       geometry.Size
	Selection    geometry.Rect
	HasSelection bool
	// Mask lists the dimmed areas around the selection, or the whole screen.
	Mask []geometry.Rect
	// Handles is empty when the selection is smaller than HandleMinSize.
	Handles []geometry.HandleBox
	// SizeLabel names the selection size in device pixels.
	SizeLabel string
	Toolbar   *geometry.Point
	Magnifier *Readout
	// Plan holds the annotations, with the draft last.
	Plan []paint.Primitive
}

// Frame builds the current frame.
func (s *Session) Frame() Frame {
	screen := s.sel.Screen()
	f := Frame{
		Mode:   s.Mode(),
		Screen: screen,
		Plan:   paint.Project(s.log.Actions(), s.Draft(), paint.TargetScreen),
	}
	for _, r := range s.sel.OuterRegions() {
		if !r.Empty() {
			f.Mask = append(f.Mask, r)
		}
	}
	if s.sel.Active() {
		sel := s.sel.Rect()
		f.Selection = sel
		f.HasSelection = true
		if sel.W >= HandleMinSize && sel.H >= HandleMinSize {
			f.Handles = geometry.HandleBoxes(sel)
		}
		phys := geometry.ToPhysical(sel, s.ratio).Image()
		f.SizeLabel = fmt.Sprintf("%d × %d", phys.Dx(), phys.Dy())
		if s.gesture == gestureNone || s.gesture == gestureDraw {
			tl := geometry.PlaceToolbar(sel, s.toolbar, screen, 5)
			f.Toolbar = &tl
		}
	}
	if !s.sel.Active() || s.gesture == gestureSelect || s.gesture == gestureResize {
		m := s.Magnifier()
		f.Magnifier = &m
	}
	return f
}
