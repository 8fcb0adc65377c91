package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/example/hydrashot/internal/clipboard"
	"github.com/example/hydrashot/internal/export"
)

var (
	copyImageFn = clipboard.WriteImage
	nowFn       = time.Now
)

// outputFlags are shared by the commands that produce an image.
type outputFlags struct {
	output      string
	stdout      bool
	toClipboard bool
	clipWait    time.Duration
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.output, "output", "", "write the image to this file (default: the [save] name template)")
	fs.BoolVar(&o.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&o.toClipboard, "to-clipboard", false, "copy the image to the clipboard")
	fs.BoolVar(&o.toClipboard, "to-clip", false, "copy the image to the clipboard (alias)")
	fs.DurationVar(&o.clipWait, "clip-wait", time.Minute, "keep serving a copied image until another program takes the clipboard or this long passes")
}

func (o *outputFlags) validate() error {
	if o.toClipboard && o.stdout {
		return fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	return nil
}

// savePath resolves where a save goes: -output when given, otherwise the
// name template inside save_dir for silent saves or the working directory.
func (r *root) savePath(output string, at time.Time) (string, error) {
	if output != "" {
		return output, nil
	}
	cfg := r.cfg()
	dir := "."
	if cfg.Save.Silent && cfg.SaveDir != "" {
		dir = cfg.SaveDir
	}
	return export.Resolve(dir, cfg.Save.NameTemplate, at)
}

// saveImage writes img and returns its absolute path.
func (r *root) saveImage(img image.Image, output string) (string, error) {
	path, err := r.savePath(output, nowFn())
	if err != nil {
		return "", err
	}
	if err := export.Save(img, path, r.cfg().Save.Quality); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r.log().Info("saved", "path", path)
	r.notifySave(path)
	if r.cfg().Save.CopyAfterSave {
		if err := r.copyImage(img, filepath.Base(path), 0); err != nil {
			r.log().Warn("copy after save", "error", err)
		}
	}
	return path, nil
}

// copyImage puts img on the clipboard. With wait > 0 it keeps the process
// alive until another client owns the clipboard or wait passes, since the
// selection is served from this process.
func (r *root) copyImage(img image.Image, detail string, wait time.Duration) error {
	changed, err := copyImageFn(img)
	if err != nil {
		return fmt.Errorf("copy image to clipboard: %w", err)
	}
	if detail == "" {
		detail = "image"
	}
	r.log().Info("copied to clipboard", "detail", detail)
	r.notifyCopy(detail)
	if wait > 0 && changed != nil {
		select {
		case <-changed:
		case <-time.After(wait):
		}
	}
	return nil
}

// deliver routes img to stdout, the clipboard or a file according to o.
func (r *root) deliver(img image.Image, o outputFlags, detail string) error {
	switch {
	case o.stdout:
		if err := export.Encode(os.Stdout, img, "stdout.png", 0); err != nil {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return nil
	case o.toClipboard:
		return r.copyImage(img, detail, o.clipWait)
	}
	_, err := r.saveImage(img, o.output)
	return err
}
