package stitch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/hydrashot/internal/geometry"
)

// ScrollEvent is one wheel notch seen by a global listener. DY is negative
// for scrolling down.
type ScrollEvent struct {
	Point  geometry.Point
	DX, DY float64
}

// Feed hands scroll events from a listener goroutine to the stitcher. It
// holds at most one pending event; publishing over a pending event replaces
// it.
type Feed struct {
	ch chan ScrollEvent
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan ScrollEvent, 1)}
}

// Publish queues ev, discarding any event not yet consumed. It never blocks.
func (f *Feed) Publish(ev ScrollEvent) {
	for {
		select {
		case f.ch <- ev:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// Events is the receive side of the feed.
func (f *Feed) Events() <-chan ScrollEvent { return f.ch }

// Pump feeds scroll events into st until ctx is done. Failed merges are
// logged and pumping continues.
func Pump(ctx context.Context, feed *Feed, st *Stitcher, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-feed.Events():
			captured, err := st.WheelScroll(ev.Point, ev.DX, ev.DY)
			if err != nil && !errors.Is(err, ErrNoMatch) {
				logger.Error("long screenshot capture", "error", err)
				continue
			}
			if captured {
				logger.Debug("long screenshot step", "state", st.State(), "misses", st.Misses())
			}
		}
	}
}
