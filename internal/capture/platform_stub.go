//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

type unsupportedBackend struct{}

func newBackend() platformBackend {
	return unsupportedBackend{}
}

func (unsupportedBackend) ListMonitors() ([]MonitorInfo, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}

func (unsupportedBackend) RootImage(image.Rectangle) (*image.RGBA, error) {
	return nil, fmt.Errorf("root window capture is not supported on this platform")
}

func (unsupportedBackend) CursorPosition() (image.Point, error) {
	return image.Point{}, fmt.Errorf("cursor query is not supported on this platform")
}

func (unsupportedBackend) XftDPI() (float64, error) {
	return 0, fmt.Errorf("X resources are not available on this platform")
}

func runningOnWayland() bool { return false }
