// Package export turns flattened captures into files.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// maxSuffix bounds the _N search in UniquePath.
const maxSuffix = 10000

// ExpandName replaces {Y}, {m}, {d}, {H}, {M} and {S} in tmpl with the
// zero-padded fields of t. A name without an extension gets ".png".
func ExpandName(tmpl string, t time.Time) string {
	name := strings.NewReplacer(
		"{Y}", fmt.Sprintf("%04d", t.Year()),
		"{m}", fmt.Sprintf("%02d", int(t.Month())),
		"{d}", fmt.Sprintf("%02d", t.Day()),
		"{H}", fmt.Sprintf("%02d", t.Hour()),
		"{M}", fmt.Sprintf("%02d", t.Minute()),
		"{S}", fmt.Sprintf("%02d", t.Second()),
	).Replace(tmpl)
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	return name
}

// UniquePath returns path when nothing exists there, otherwise the first of
// name_1.ext, name_2.ext, ... that is free.
func UniquePath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 1; i <= maxSuffix; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check %s: %w", candidate, err)
		}
		candidate = stem + "_" + strconv.Itoa(i) + ext
	}
	return "", fmt.Errorf("no free file name for %s", path)
}

// Resolve builds the destination for a capture taken at t: the expanded
// template inside dir, made unique.
func Resolve(dir, tmpl string, t time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	return UniquePath(filepath.Join(dir, ExpandName(tmpl, t)))
}

// Save encodes img in the format named by the path extension, creating the
// parent directory. quality applies to JPEG output.
func Save(img image.Image, path string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(clampQuality(quality))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in the format implied by name's extension.
func Encode(w io.Writer, img image.Image, name string, quality int) error {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(clampQuality(quality)))
}

func clampQuality(q int) int {
	if q <= 0 {
		return 100
	}
	return min(q, 100)
}
