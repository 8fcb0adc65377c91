package main

import (
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/hydrashot/internal/capture"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/overlay"
	"github.com/example/hydrashot/internal/render"
	"github.com/example/hydrashot/internal/session"
)

var (
	captureScreenFn = grabScreen
	captureRectFn   = capture.Rect
	runUIFn         = driver.Main
)

type captureCmd struct {
	*root
	fs *flag.FlagSet
	outputFlags
	display       string
	rect          string
	includeCursor bool
	delay         time.Duration
	shadowRadius  int
	shadowOffset  string
	shadowPoint   image.Point
	shadowOpacity float64
}

func (c *captureCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	c := &captureCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	defaults := render.DefaultShadowOptions()
	c.outputFlags.register(fs)
	fs.StringVar(&c.display, "display", "", "freeze only this monitor: index, #index, primary or a name fragment")
	fs.StringVar(&c.rect, "rect", "", "capture the rectangle x0,y0,x1,y1 in device pixels without the overlay")
	fs.BoolVar(&c.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.DurationVar(&c.delay, "delay", 0, "wait this long before freezing the screen")
	fs.IntVar(&c.shadowRadius, "shadow-radius", defaults.Radius, "pinned image drop shadow radius in pixels")
	fs.StringVar(&c.shadowOffset, "shadow-offset", formatShadowOffset(defaults.Offset), "pinned image drop shadow offset as dx,dy")
	fs.Float64Var(&c.shadowOpacity, "shadow-opacity", defaults.Opacity, "pinned image drop shadow opacity between 0 and 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	if err := c.outputFlags.validate(); err != nil {
		return nil, err
	}
	pt, err := parseShadowOffset(c.shadowOffset)
	if err != nil {
		return nil, err
	}
	c.shadowPoint = pt
	return c, nil
}

func (c *captureCmd) options() capture.Options {
	return capture.Options{IncludeCursor: c.includeCursor}
}

func (c *captureCmd) Run() error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if strings.TrimSpace(c.rect) != "" {
		rect, err := parseRect(c.rect)
		if err != nil {
			return err
		}
		img, err := captureRectFn(rect, c.options())
		if err != nil {
			return fmt.Errorf("failed to capture region: %w", err)
		}
		detail := "region " + c.rect
		c.notifyCapture(detail, img)
		return c.deliver(img, c.outputFlags, detail)
	}

	shot, bounds, err := captureScreenFn(c.display, c.options())
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	ratio := c.ratio()
	c.log().Debug("screen frozen", "bounds", bounds, "ratio", ratio)
	ov := overlay.New(shot, ratio, c.overlayOptions()...)
	var runErr error
	runUIFn(func(s screen.Screen) {
		runErr = c.finish(s, ov.Main(s), bounds, ratio)
	})
	return runErr
}

// finish performs what the overlay was closed for.
func (c *captureCmd) finish(s screen.Screen, out overlay.Outcome, bounds image.Rectangle, ratio float64) error {
	switch out.Effect {
	case session.EffectCopy:
		c.notifyCapture("selection", out.Image)
		return c.copyImage(out.Image, "selection", c.clipWait)
	case session.EffectSave:
		c.notifyCapture("selection", out.Image)
		if c.stdout {
			return c.deliver(out.Image, outputFlags{stdout: true}, "selection")
		}
		_, err := c.saveImage(out.Image, c.output)
		return err
	case session.EffectPin:
		return overlay.Pin(s, out.Image, c.shadowOptions(), c.log())
	case session.EffectLong:
		region := out.Selection.Translate(geometry.PointToLogical(geometry.FromImagePoint(bounds.Min), ratio))
		ctx, stop := interruptContext()
		defer stop()
		return c.longShot(ctx, region, ratio, capture.Grabber{Options: c.options()}, c.outputFlags)
	}
	c.log().Debug("capture cancelled")
	return nil
}

// grabScreen freezes one monitor, or the whole desktop when display is
// empty, and reports where the image sits in global device pixels.
func grabScreen(display string, opts capture.Options) (*image.RGBA, image.Rectangle, error) {
	if display != "" {
		return capture.Display(display, opts)
	}
	img, err := capture.Desktop(opts)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	var origin image.Point
	if b, err := capture.ScreenBounds(); err == nil {
		origin = b.Min
	}
	return img, image.Rectangle{Min: origin, Max: origin.Add(img.Bounds().Size())}, nil
}

func (c *captureCmd) shadowOptions() render.ShadowOptions {
	opts := render.DefaultShadowOptions()
	opts.Radius = max(c.shadowRadius, 0)
	opts.Offset = c.shadowPoint
	opts.Opacity = max(0, min(c.shadowOpacity, 1))
	return opts
}

func parseShadowOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
	}
	vals := make([]int, 2)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
		}
		vals[i] = v
	}
	return image.Pt(vals[0], vals[1]), nil
}

func formatShadowOffset(pt image.Point) string {
	return fmt.Sprintf("%d,%d", pt.X, pt.Y)
}

func parseRect(val string) (image.Rectangle, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
		}
		nums[i] = v
	}
	rect := image.Rect(nums[0], nums[1], nums[2], nums[3])
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %q is empty", val)
	}
	return rect, nil
}
