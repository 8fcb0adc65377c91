package paint

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/hydrashot/internal/editlog"
	"github.com/example/hydrashot/internal/geometry"
)

// DefaultFamily is used when a font family is empty or unknown.
const DefaultFamily = "go"

// TextPadding is the logical gap between a text box edge and its glyphs.
const TextPadding = 4

var familyData = map[string][]byte{
	"go":        goregular.TTF,
	"go-mono":   gomono.TTF,
	"go-bold":   gobold.TTF,
	"go-italic": goitalic.TTF,
}

// Families lists the font family names Fonts understands.
func Families() []string {
	out := make([]string, 0, len(familyData))
	for name := range familyData {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// KnownFamily reports whether name is a supported family.
func KnownFamily(name string) bool {
	_, ok := familyData[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

type faceKey struct {
	family string
	size   float64
}

// Fonts parses the bundled fonts on demand and caches faces by size.
// truetype faces keep per-face glyph buffers, so a face is only ever used
// inside Use, which holds the cache lock for the whole call.
type Fonts struct {
	mu     sync.Mutex
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
}

// NewFonts returns an empty font cache.
func NewFonts() *Fonts {
	return &Fonts{
		parsed: make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Use calls fn with the face for f scaled by ratio, at 72 DPI so one point
// maps to one device pixel. The face must not escape fn.
func (fs *Fonts) Use(f editlog.Font, ratio float64, fn func(font.Face) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	face, err := fs.face(f, ratio)
	if err != nil {
		return err
	}
	return fn(face)
}

// face resolves a cached face. fs.mu must be held.
func (fs *Fonts) face(f editlog.Font, ratio float64) (font.Face, error) {
	family := strings.ToLower(strings.TrimSpace(f.Family))
	if _, ok := familyData[family]; !ok {
		family = DefaultFamily
	}
	size := f.Size
	if size <= 0 {
		size = 16
	}
	if ratio > 0 {
		size *= ratio
	}
	size = math.Round(size*4) / 4

	key := faceKey{family, size}
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}
	tt, ok := fs.parsed[family]
	if !ok {
		var err error
		tt, err = truetype.Parse(familyData[family])
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", family, err)
		}
		fs.parsed[family] = tt
	}
	face := truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	fs.faces[key] = face
	return face, nil
}

// Measure returns the logical extent of text set in f. Lines are split on
// newlines; an empty string measures as one space-wide line.
func (fs *Fonts) Measure(f editlog.Font, text string) geometry.Size {
	var sz geometry.Size
	lines := strings.Split(text, "\n")
	_ = fs.Use(f, 1, func(face font.Face) error {
		for _, line := range lines {
			if line == "" {
				line = " "
			}
			if lw := float64(font.MeasureString(face, line).Ceil()); lw > sz.W {
				sz.W = lw
			}
		}
		sz.H = float64(face.Metrics().Height.Ceil()) * float64(len(lines))
		return nil
	})
	return sz
}

// TextBox returns the padded box that holds text anchored at its top-left.
func (fs *Fonts) TextBox(f editlog.Font, text string, anchor geometry.Point) geometry.Rect {
	sz := fs.Measure(f, text)
	return geometry.Rect{
		X: anchor.X,
		Y: anchor.Y,
		W: sz.W + 2*TextPadding,
		H: sz.H + 2*TextPadding,
	}
}
