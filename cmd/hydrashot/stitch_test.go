package main

import (
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func writeFrame(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func window(page *image.RGBA, y, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, page.Bounds().Dx(), h))
	draw.Draw(out, out.Bounds(), page, image.Pt(0, y), draw.Src)
	return out
}

func TestStitchCommandSkipsUnmatchedFrames(t *testing.T) {
	dir := t.TempDir()
	page := noise(100, 400, 8)
	files := []string{
		writeFrame(t, dir, "a.png", window(page, 0, 200)),
		writeFrame(t, dir, "b.png", window(page, 60, 200)),
		writeFrame(t, dir, "junk.png", noise(100, 200, 99)),
		writeFrame(t, dir, "c.png", window(page, 120, 200)),
	}
	out := filepath.Join(dir, "long.png")
	s, err := parseStitchCmd(append([]string{"-output", out}, files...), testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 320 {
		t.Fatalf("result bounds = %v", img.Bounds())
	}
}

func TestStitchCommandNeedsTwoImages(t *testing.T) {
	if _, err := parseStitchCmd([]string{"only.png"}, testRoot(t)); err == nil {
		t.Fatalf("expected usage error")
	}
}

func TestStitchCommandMissingFile(t *testing.T) {
	s, err := parseStitchCmd([]string{"-stdout", "missing-a.png", "missing-b.png"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.Run(); err == nil || !strings.Contains(err.Error(), "open missing-a.png") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestStitchCommandReadsClipboardFrame(t *testing.T) {
	page := noise(100, 300, 12)
	prev := readClipboardFn
	readClipboardFn = func() (image.Image, error) { return window(page, 60, 200), nil }
	t.Cleanup(func() { readClipboardFn = prev })

	dir := t.TempDir()
	first := writeFrame(t, dir, "first.png", window(page, 0, 200))
	out := filepath.Join(dir, "out.png")
	s, err := parseStitchCmd([]string{"-output", out, first, clipboardArg}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil || img.Bounds().Dy() != 260 {
		t.Fatalf("result = %v, %v", img, err)
	}
}
