//go:build linux || freebsd || openbsd || netbsd || dragonfly

package stitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/hydrashot/internal/geometry"
)

const (
	wheelUp   = 4
	wheelDown = 5
)

// X11WheelSource listens for wheel notches anywhere on the X display and
// publishes them to a Feed. The grab is synchronous and every event is
// replayed, so the window under the cursor still scrolls.
type X11WheelSource struct {
	// Ratio converts root-window pixels to logical coordinates.
	Ratio  float64
	Logger *slog.Logger
}

// Run blocks until ctx is done or the X connection fails.
func (src X11WheelSource) Run(ctx context.Context, feed *Feed) error {
	logger := src.Logger
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect X server: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil {
		conn.Close()
		return fmt.Errorf("xproto setup unavailable")
	}
	root := setup.DefaultScreen(conn).Root

	for _, b := range []byte{wheelUp, wheelDown} {
		err := xproto.GrabButtonChecked(conn, true, root, xproto.EventMaskButtonPress,
			xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
			b, xproto.ModMaskAny).Check()
		if err != nil {
			conn.Close()
			return fmt.Errorf("grab wheel button %d: %w", b, err)
		}
	}

	stop := context.AfterFunc(ctx, func() {
		for _, b := range []byte{wheelUp, wheelDown} {
			xproto.UngrabButton(conn, b, root, xproto.ModMaskAny)
		}
		conn.Close()
	})
	defer stop()

	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			return errors.New("X connection closed")
		}
		if xerr != nil {
			logger.Debug("wheel listener", "error", xerr)
			continue
		}
		bp, ok := ev.(xproto.ButtonPressEvent)
		if !ok {
			continue
		}
		xproto.AllowEvents(conn, xproto.AllowReplayPointer, bp.Time)
		dy := 1.0
		switch bp.Detail {
		case wheelDown:
			dy = -1
		case wheelUp:
		default:
			continue
		}
		p := geometry.PointToLogical(geometry.Pt(float64(bp.RootX), float64(bp.RootY)), src.Ratio)
		feed.Publish(ScrollEvent{Point: p, DY: dy})
	}
}
