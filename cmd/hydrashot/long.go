package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/hydrashot/internal/capture"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/overlay"
	"github.com/example/hydrashot/internal/session"
	"github.com/example/hydrashot/internal/stitch"
)

// settleDelay lets the overlay window disappear before the first capture.
const settleDelay = 150 * time.Millisecond

var (
	runWheelFn = func(ctx context.Context, feed *stitch.Feed, ratio float64, logger *slog.Logger) error {
		return stitch.X11WheelSource{Ratio: ratio, Logger: logger}.Run(ctx, feed)
	}
	// finishedFn delivers once when the user asks to stop scrolling.
	finishedFn = waitForEnter
)

// longEnd is how the user ended a long screenshot.
type longEnd int

const (
	longFinish longEnd = iota
	longCancel
)

type longCmd struct {
	*root
	fs *flag.FlagSet
	outputFlags
	display string
	rect    string
}

func (l *longCmd) FlagSet() *flag.FlagSet { return l.fs }

func parseLongCmd(args []string, r *root) (*longCmd, error) {
	fs := flag.NewFlagSet("long", flag.ContinueOnError)
	l := &longCmd{root: r, fs: fs}
	fs.Usage = usageFunc(l)
	l.outputFlags.register(fs)
	fs.StringVar(&l.display, "display", "", "monitor to pick the region on: index, #index, primary or a name fragment")
	fs.StringVar(&l.rect, "rect", "", "scroll region x0,y0,x1,y1 in device pixels instead of picking it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: l}
	}
	if err := l.outputFlags.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *longCmd) Run() error {
	ratio := l.ratio()
	grab := capture.Grabber{}
	if strings.TrimSpace(l.rect) != "" {
		rect, err := parseRect(l.rect)
		if err != nil {
			return err
		}
		ctx, stop := interruptContext()
		defer stop()
		region := geometry.ToLogical(geometry.RectFromImage(rect), ratio)
		return l.longShot(ctx, region, ratio, grab, l.outputFlags)
	}

	shot, bounds, err := captureScreenFn(l.display, capture.Options{})
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	ov := overlay.New(shot, ratio, l.overlayOptions(
		overlay.WithRegionPicker(),
		overlay.WithTitle("hydrashot: pick the scroll region"),
	)...)
	var runErr error
	runUIFn(func(s screen.Screen) {
		out := ov.Main(s)
		if out.Effect != session.EffectLong {
			l.log().Debug("long screenshot cancelled")
			return
		}
		region := out.Selection.Translate(geometry.PointToLogical(geometry.FromImagePoint(bounds.Min), ratio))
		ctx, stop := interruptContext()
		defer stop()
		runErr = l.longShot(ctx, region, ratio, grab, l.outputFlags)
	})
	return runErr
}

// longShot captures region once, then once per downward wheel notch inside
// it, until the user finishes or ctx ends. The composite is delivered
// according to o. A cancelled long screenshot is discarded and returns nil.
func (r *root) longShot(ctx context.Context, region geometry.Rect, ratio float64, grab stitch.Grabber, o outputFlags) error {
	logger := r.log()
	st := stitch.New(region, ratio, grab,
		stitch.WithLogger(logger),
		stitch.WithOnMiss(r.notifyStitchMiss),
		stitch.WithOnMerge(func(img *image.RGBA, p stitch.Placement) {
			logger.Info("long screenshot grew", "height", img.Bounds().Dy(), "overlap", p.Overlap, "score", p.Score)
		}),
	)
	time.Sleep(settleDelay)
	if err := st.CaptureAndMerge(); err != nil {
		return fmt.Errorf("first long screenshot capture: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	feed := stitch.NewFeed()
	var (
		wg        sync.WaitGroup
		listenErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := runWheelFn(ctx, feed, ratio, logger); err != nil && ctx.Err() == nil {
			listenErr = err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		stitch.Pump(ctx, feed, st, logger)
	}()

	fmt.Fprintln(os.Stderr, "scroll down inside the region, then press Enter to finish or q/Esc and Enter to cancel")
	end := longFinish
	select {
	case end = <-finishedFn(ctx):
	case <-ctx.Done():
	}
	cancel()
	wg.Wait()
	if listenErr != nil {
		return fmt.Errorf("wheel listener: %w", listenErr)
	}
	if end == longCancel {
		logger.Info("long screenshot cancelled", "captures", st.Len())
		st.Reset()
		return nil
	}

	img := st.Composite()
	if img == nil {
		return errors.New("long screenshot is empty")
	}
	detail := fmt.Sprintf("long screenshot %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	r.notifyCapture(detail, img)
	return r.deliver(img, o, detail)
}

// interruptContext ends on SIGINT so an interrupted long screenshot is still
// delivered.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// waitForEnter reads one line from stdin. A line of q or one holding an
// escape byte cancels.
func waitForEnter(context.Context) <-chan longEnd {
	done := make(chan longEnd, 1)
	go func() {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		done <- parseLongEnd(line)
	}()
	return done
}

func parseLongEnd(line string) longEnd {
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "q") || strings.ContainsRune(line, 0x1b) {
		return longCancel
	}
	return longFinish
}
