package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/example/hydrashot/internal/clipboard"
	"github.com/example/hydrashot/internal/stitch"
)

// clipboardArg names the clipboard image in a stitch file list.
const clipboardArg = "@clipboard"

var readClipboardFn = clipboard.ReadImage

// stitchCmd merges screenshots that were taken while scrolling, in order.
type stitchCmd struct {
	*root
	fs *flag.FlagSet
	outputFlags
	files []string
}

func (s *stitchCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseStitchCmd(args []string, r *root) (*stitchCmd, error) {
	fs := flag.NewFlagSet("stitch", flag.ContinueOnError)
	s := &stitchCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	s.outputFlags.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: s}
	}
	if err := s.outputFlags.validate(); err != nil {
		return nil, err
	}
	s.files = fs.Args()
	return s, nil
}

func (s *stitchCmd) Run() error {
	var composite *image.RGBA
	merged := 0
	for _, name := range s.files {
		img, err := loadFrame(name)
		if err != nil {
			return err
		}
		frame := toRGBA(img)
		if composite == nil {
			composite = frame
			merged++
			continue
		}
		next, p, err := stitch.Merge(composite, frame, nil)
		if err != nil {
			var nm *stitch.NoMatchError
			if errors.As(err, &nm) {
				s.log().Warn("skipping frame without overlap", "file", name, "score", nm.Score)
				s.notifyStitchMiss(nm.Score)
				continue
			}
			return fmt.Errorf("stitch %s: %w", name, err)
		}
		s.log().Debug("frame merged", "file", name, "y", p.Y, "overlap", p.Overlap, "score", p.Score)
		composite = next
		merged++
	}
	detail := fmt.Sprintf("stitched %d of %d frames", merged, len(s.files))
	s.log().Info(detail, "width", composite.Bounds().Dx(), "height", composite.Bounds().Dy())
	return s.deliver(composite, s.outputFlags, detail)
}

func loadFrame(name string) (image.Image, error) {
	if name == clipboardArg {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	img, err := imaging.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
