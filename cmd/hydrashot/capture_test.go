package main

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/hydrashot/internal/capture"
	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/overlay"
	"github.com/example/hydrashot/internal/session"
)

func TestCaptureRectError(t *testing.T) {
	original := captureRectFn
	sentinel := errors.New("boom")
	captureRectFn = func(image.Rectangle, capture.Options) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureRectFn = original })

	c, err := parseCaptureCmd([]string{"-rect", "0,0,10,10", "-stdout"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); !errors.Is(err, sentinel) || !strings.Contains(err.Error(), "failed to capture region") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCaptureScreenError(t *testing.T) {
	original := captureScreenFn
	sentinel := errors.New("portal offline")
	captureScreenFn = func(string, capture.Options) (*image.RGBA, image.Rectangle, error) {
		return nil, image.Rectangle{}, sentinel
	}
	t.Cleanup(func() { captureScreenFn = original })

	c, err := parseCaptureCmd(nil, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); !errors.Is(err, sentinel) || !strings.Contains(err.Error(), "failed to capture screen") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCaptureRectDeliversToClipboard(t *testing.T) {
	copied := fakeClipboard(t)
	original := captureRectFn
	var asked image.Rectangle
	captureRectFn = func(r image.Rectangle, _ capture.Options) (*image.RGBA, error) {
		asked = r
		return noise(r.Dx(), r.Dy(), 3), nil
	}
	t.Cleanup(func() { captureRectFn = original })

	c, err := parseCaptureCmd([]string{"-rect", "5,6,25,16", "-to-clipboard", "-clip-wait", "0"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if asked != image.Rect(5, 6, 25, 16) || len(*copied) != 1 {
		t.Fatalf("asked %v, copied %d", asked, len(*copied))
	}
}

func TestFinishCopyAndSave(t *testing.T) {
	copied := fakeClipboard(t)
	c, err := parseCaptureCmd([]string{"-clip-wait", "0"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	img := noise(20, 10, 4)
	sel := geometry.Rect{X: 0, Y: 0, W: 20, H: 10}
	bounds := image.Rect(0, 0, 100, 100)

	if err := c.finish(nil, overlay.Outcome{Effect: session.EffectCopy, Image: img, Selection: sel}, bounds, 1); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(*copied) != 1 || (*copied)[0] != img {
		t.Fatalf("copy outcome did not reach the clipboard")
	}

	c.output = filepath.Join(t.TempDir(), "out", "sel.png")
	if err := c.finish(nil, overlay.Outcome{Effect: session.EffectSave, Image: img, Selection: sel}, bounds, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(c.output); err != nil {
		t.Fatalf("selection not saved: %v", err)
	}

	if err := c.finish(nil, overlay.Outcome{Effect: session.EffectQuit}, bounds, 1); err != nil {
		t.Fatalf("quit: %v", err)
	}
}
