package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/vova616/screenshot"
)

// ErrEmptyRegion is returned when asked to capture a zero-area rectangle.
var ErrEmptyRegion = errors.New("capture region is empty")

// Options tune how pixels are fetched.
type Options struct {
	// IncludeCursor asks for the pointer to be painted into the capture.
	// Only the desktop portal can do that, so it skips the direct grabbers.
	IncludeCursor bool
}

var (
	screenRectFn       = screenshot.ScreenRect
	captureRectFn      = screenshot.CaptureRect
	rootImageFn        = func(r image.Rectangle) (*image.RGBA, error) { return backend.RootImage(r) }
	portalScreenshotFn = portalScreenshot
	waylandFn          = runningOnWayland
)

// ScreenBounds returns the desktop rectangle in device pixels.
func ScreenBounds() (image.Rectangle, error) {
	if r, err := screenRectFn(); err == nil && !r.Empty() {
		return r, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("screen bounds: %w", err)
	}
	var union image.Rectangle
	for _, m := range monitors {
		union = union.Union(m.Rect)
	}
	if union.Empty() {
		return image.Rectangle{}, errNoMonitors
	}
	return union, nil
}

// Desktop captures every monitor at once.
func Desktop(opts Options) (*image.RGBA, error) {
	bounds, err := ScreenBounds()
	if err != nil {
		img, perr := portalScreenshotFn(false, opts)
		if perr != nil {
			return nil, errors.Join(err, fmt.Errorf("portal fallback: %w", perr))
		}
		return img, nil
	}
	return Rect(bounds, opts)
}

// Display captures a single monitor chosen with a FindMonitor selector and
// returns the monitor's rectangle alongside the pixels.
func Display(selector string, opts Options) (*image.RGBA, image.Rectangle, error) {
	monitors, err := ListMonitors()
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	img, err := Rect(mon.Rect, opts)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("capture display %q: %w", selector, err)
	}
	return img, mon.Rect, nil
}

// Rect captures rect, given in global device pixels. The result always starts
// at (0,0). Backends are tried in order: a direct rectangle grab, the X11
// root window and finally a desktop portal screenshot cropped to rect. The
// first two are skipped under Wayland, where they only see XWayland clients.
func Rect(rect image.Rectangle, opts Options) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	var errs []error
	if !opts.IncludeCursor && !waylandFn() {
		img, err := captureRectFn(rect)
		if err == nil {
			return rebase(img), nil
		}
		errs = append(errs, fmt.Errorf("direct capture: %w", err))
		img, err = rootImageFn(rect)
		if err == nil {
			return img, nil
		}
		errs = append(errs, fmt.Errorf("x11 capture: %w", err))
	}
	shot, err := portalScreenshotFn(false, opts)
	if err != nil {
		errs = append(errs, fmt.Errorf("portal capture: %w", err))
		return nil, errors.Join(errs...)
	}
	return cropToRect(shot, rect)
}

// Interactive lets the desktop portal ask the user for a region.
func Interactive(opts Options) (*image.RGBA, error) {
	return portalScreenshotFn(true, opts)
}

// Grabber captures a fixed rectangle on demand.
type Grabber struct {
	Options Options
}

// Grab captures r in global device pixels.
func (g Grabber) Grab(r image.Rectangle) (*image.RGBA, error) {
	return Rect(r, g.Options)
}

// CursorPosition returns the pointer position in global device pixels.
func CursorPosition() (image.Point, error) {
	return backend.CursorPosition()
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

func rebase(img *image.RGBA) *image.RGBA {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	out, _ := cropToRect(img, img.Bounds())
	return out
}
