package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/hydrashot/internal/config"
	"github.com/example/hydrashot/internal/overlay"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	return &root{program: "hydrashot", config: config.New()}
}

func noise(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
			continue
		}
		img.Pix[i] = uint8(r.Intn(256))
	}
	return img
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output %q", out)
	}

	buf.Reset()
	logger, err = newLogger(&buf, "DEBUG", true)
	if err != nil {
		t.Fatalf("newLogger json: %v", err)
	}
	logger.Debug("detail")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestParseRect(t *testing.T) {
	got, err := parseRect("10, 20,110,220")
	if err != nil || got != image.Rect(10, 20, 110, 220) {
		t.Fatalf("parseRect = %v, %v", got, err)
	}
	for _, bad := range []string{"1,2,3", "a,b,c,d", "5,5,5,9"} {
		if _, err := parseRect(bad); err == nil {
			t.Errorf("parseRect(%q) expected error", bad)
		}
	}
}

func TestShadowOffsetRoundTrip(t *testing.T) {
	pt, err := parseShadowOffset(formatShadowOffset(image.Pt(-3, 7)))
	if err != nil || pt != image.Pt(-3, 7) {
		t.Fatalf("offset = %v, %v", pt, err)
	}
	if _, err := parseShadowOffset("3"); err == nil {
		t.Fatalf("expected error for a single value")
	}
}

func TestCaptureShadowOptionsClamp(t *testing.T) {
	c, err := parseCaptureCmd([]string{"-shadow-radius", "-4", "-shadow-opacity", "2", "-shadow-offset", "1,2"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := c.shadowOptions()
	if opts.Radius != 0 || opts.Opacity != 1 || opts.Offset != image.Pt(1, 2) {
		t.Fatalf("shadow options = %+v", opts)
	}
}

func TestSessionOptions(t *testing.T) {
	r := testRoot(t)
	if got := len(r.sessionOptions()); got != 5 {
		t.Fatalf("default options = %d, want 5", got)
	}
	r.config.Annotation.Width = "enormous"
	r.config.Annotation.Color = color.RGBA{B: 255, A: 255}
	if got := len(r.sessionOptions()); got != 4 {
		t.Fatalf("options with unknown width preset = %d, want 4", got)
	}
}

func TestUsageErrorRendersHelp(t *testing.T) {
	r := testRoot(t)
	_, err := parseLongCmd([]string{"extra"}, r.subcommand("long"))
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: hydrashot long", "-clip-wait", "-rect"} {
		if !strings.Contains(help, want) {
			t.Errorf("help lacks %q:\n%s", want, help)
		}
	}
}

func TestRootUnknownCommand(t *testing.T) {
	r := testRoot(t)
	r.fs = flag.NewFlagSet("hydrashot", flag.ContinueOnError)
	var uerr *UsageError
	if err := r.Run([]string{"paint"}); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestOutputFlagsConflict(t *testing.T) {
	_, err := parseCaptureCmd([]string{"-stdout", "-to-clip"}, testRoot(t))
	if err == nil || !strings.Contains(err.Error(), "-stdout cannot be used") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestVersionOutput(t *testing.T) {
	prevVersion, prevCommit, prevDate := version, commit, date
	t.Cleanup(func() { version, commit, date = prevVersion, prevCommit, prevDate })
	version, commit, date = "1.2.3", "abc123", ""

	var buf bytes.Buffer
	v := &versionCmd{root: testRoot(t), out: &buf}
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := buf.String(), "hydrashot version 1.2.3\ncommit abc123\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestConfigPrint(t *testing.T) {
	r := testRoot(t)
	r.config.SaveDir = "/tmp/shots"
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	c.out = &buf
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "save_dir = /tmp/shots") {
		t.Fatalf("config output lacks save_dir:\n%s", buf.String())
	}
}

func TestConfigSaveWritesDefaultPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(config.PathEnv, "")

	r := testRoot(t)
	r.config.Theme = "dark"
	c, err := parseConfigCmd([]string{"save"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(xdg, "hydrashot", "config.rc"))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "theme = dark") {
		t.Fatalf("config content:\n%s", data)
	}
}

func TestOverlayOptions(t *testing.T) {
	r := testRoot(t)
	if got := len(r.overlayOptions()); got != 4 {
		t.Fatalf("overlay options = %d, want 4", got)
	}
	if got := len(r.overlayOptions(overlay.WithRegionPicker())); got != 5 {
		t.Fatalf("overlay options with extra = %d, want 5", got)
	}
}
