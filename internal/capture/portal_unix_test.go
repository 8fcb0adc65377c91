//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name        string
		interactive bool
		opts        Options
		wantCursor  string
	}{
		{name: "defaults", wantCursor: "hidden"},
		{name: "interactive with cursor", interactive: true, opts: Options{IncludeCursor: true}, wantCursor: "embedded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.interactive, tc.opts)
			if got := values["interactive"].Value().(bool); got != tc.interactive {
				t.Fatalf("interactive = %v, want %v", got, tc.interactive)
			}
			if got := values["modal"].Value().(bool); got != tc.interactive {
				t.Fatalf("modal = %v, want %v", got, tc.interactive)
			}
			if got := values["cursor_mode"].Value().(string); got != tc.wantCursor {
				t.Fatalf("cursor_mode = %q, want %q", got, tc.wantCursor)
			}
			if got := values["handle_token"].Value().(string); got != "test-token" {
				t.Fatalf("handle_token = %q", got)
			}
			if len(values) != 4 {
				t.Fatalf("expected 4 options, got %d", len(values))
			}
		})
	}
}

func TestPortalResponsePath(t *testing.T) {
	ok := []any{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}}
	if got, err := portalResponsePath(ok); err != nil || got != "/tmp/Screenshot one.png" {
		t.Fatalf("path = %q, %v", got, err)
	}
	cancelled := []any{uint32(1), map[string]dbus.Variant{}}
	if _, err := portalResponsePath(cancelled); !errors.Is(err, errPortalCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	missing := []any{uint32(0), map[string]dbus.Variant{}}
	if _, err := portalResponsePath(missing); err == nil {
		t.Fatalf("expected error for missing uri")
	}
	remote := []any{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("https://example.com/a.png")}}
	if _, err := portalResponsePath(remote); err == nil {
		t.Fatalf("expected error for non-file uri")
	}
}

func TestLoadPNGRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(2, 3, 6, 8))
	src.Set(2, 3, color.NRGBA{G: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := loadPNG(path)
	if err != nil {
		t.Fatalf("loadPNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 5) || img.RGBAAt(0, 0).G != 255 {
		t.Fatalf("image = %v %v", img.Bounds(), img.RGBAAt(0, 0))
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("portal file left behind: %v", err)
	}
}

func TestRunningOnWayland(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	t.Setenv("WAYLAND_DISPLAY", "")
	if !runningOnWayland() {
		t.Fatalf("expected wayland session when XDG_SESSION_TYPE=wayland")
	}
	t.Setenv("XDG_SESSION_TYPE", "x11")
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if !runningOnWayland() {
		t.Fatalf("expected wayland session when WAYLAND_DISPLAY is set")
	}
	t.Setenv("WAYLAND_DISPLAY", "")
	if runningOnWayland() {
		t.Fatalf("did not expect wayland session when indicators are absent")
	}
}
