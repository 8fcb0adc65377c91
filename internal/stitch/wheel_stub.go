//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package stitch

import (
	"context"
	"errors"
	"log/slog"
)

// X11WheelSource is unavailable on this platform.
type X11WheelSource struct {
	Ratio  float64
	Logger *slog.Logger
}

func (X11WheelSource) Run(ctx context.Context, feed *Feed) error {
	return errors.New("global wheel listener not supported on this platform")
}
