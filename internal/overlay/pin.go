package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/hydrashot/internal/clipboard"
	"github.com/example/hydrashot/internal/render"
)

type pinAction int

const (
	pinNone pinAction = iota
	pinClose
	pinCopy
)

// pinBackdrop fills the transparent shadow margin of a pinned window.
var pinBackdrop = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}

var copyPinned = func(img image.Image) error {
	_, err := clipboard.WriteImage(img)
	return err
}

// pinEvent decides what an input event does to a pinned window: Escape, q or
// a right click close it, ctrl+c copies the image.
func pinEvent(e any) pinAction {
	switch e := e.(type) {
	case key.Event:
		if e.Direction == key.DirRelease {
			return pinNone
		}
		switch {
		case e.Code == key.CodeEscape, e.Rune == 'q' && e.Modifiers == 0:
			return pinClose
		case e.Code == key.CodeC && e.Modifiers&key.ModControl != 0:
			return pinCopy
		}
	case mouse.Event:
		if e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress {
			return pinClose
		}
	}
	return pinNone
}

// Pin shows img over a drop shadow in its own window and blocks until the
// window is closed.
func Pin(s screen.Screen, img *image.RGBA, shadow render.ShadowOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	pinned := render.ApplyShadow(img, shadow)
	size := pinned.Image.Bounds().Size()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: size.X, Height: size.Y, Title: "hydrashot pin"})
	if err != nil {
		return err
	}
	defer w.Release()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case paint.Event:
			b, err := s.NewBuffer(size)
			if err != nil {
				logger.Error("new buffer", "error", err)
				continue
			}
			dst := b.RGBA()
			draw.Draw(dst, dst.Bounds(), image.NewUniform(pinBackdrop), image.Point{}, draw.Src)
			draw.Draw(dst, dst.Bounds(), pinned.Image, image.Point{}, draw.Over)
			w.Upload(image.Point{}, b, b.Bounds())
			w.Publish()
			b.Release()
		case key.Event, mouse.Event:
			switch pinEvent(e) {
			case pinClose:
				return nil
			case pinCopy:
				if err := copyPinned(img); err != nil {
					logger.Warn("copy pinned image", "error", err)
				} else {
					logger.Info("pinned image copied")
				}
			}
		case error:
			logger.Error("pin window", "error", e)
		}
	}
}
