package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/hydrashot/internal/theme"
)

// Width preset names accepted by [annotation] width.
const (
	WidthThin   = "thin"
	WidthMedium = "medium"
	WidthThick  = "thick"
)

// Annotation holds the pen defaults.
type Annotation struct {
	Thin     int
	Medium   int
	Thick    int
	Width    string
	Color    color.RGBA
	Font     string
	FontSize float64
}

// Save holds file output settings.
type Save struct {
	NameTemplate  string
	Silent        bool
	Quality       int
	CopyAfterSave bool
}

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
	Stitch  bool
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	PixelRatio float64 // 0 means detect
	Annotation Annotation
	Save       Save
	// Shortcuts maps command names (copy, save, undo, cancel, pin, long)
	// to key combinations such as "ctrl+s".
	Shortcuts map[string]string
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// DefaultNameTemplate is the file name used when none is configured.
const DefaultNameTemplate = "hydra_{Y}{m}{d}_{H}{M}{S}.png"

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Annotation: Annotation{
			Thin:     2,
			Medium:   4,
			Thick:    6,
			Width:    WidthMedium,
			Color:    color.RGBA{R: 255, A: 255},
			Font:     "go",
			FontSize: 16,
		},
		Save: Save{
			NameTemplate: DefaultNameTemplate,
			Quality:      100,
		},
		Shortcuts: map[string]string{
			"copy":   "ctrl+c",
			"save":   "ctrl+s",
			"undo":   "ctrl+z",
			"cancel": "esc",
			"pin":    "ctrl+p",
			"long":   "ctrl+l",
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.PixelRatio > 0 {
		fmt.Fprintf(&sb, "pixel_ratio = %g\n", c.PixelRatio)
	}
	sb.WriteString("\n")

	a := c.Annotation
	sb.WriteString("[annotation]\n")
	fmt.Fprintf(&sb, "thin = %d\n", a.Thin)
	fmt.Fprintf(&sb, "medium = %d\n", a.Medium)
	fmt.Fprintf(&sb, "thick = %d\n", a.Thick)
	fmt.Fprintf(&sb, "width = %s\n", a.Width)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(a.Color))
	fmt.Fprintf(&sb, "font = %s\n", a.Font)
	fmt.Fprintf(&sb, "font_size = %g\n", a.FontSize)
	sb.WriteString("\n")

	sb.WriteString("[save]\n")
	fmt.Fprintf(&sb, "name_template = %q\n", c.Save.NameTemplate)
	fmt.Fprintf(&sb, "silent = %v\n", c.Save.Silent)
	fmt.Fprintf(&sb, "quality = %d\n", c.Save.Quality)
	fmt.Fprintf(&sb, "copy_after_save = %v\n", c.Save.CopyAfterSave)
	sb.WriteString("\n")

	sb.WriteString("[shortcuts]\n")
	for _, name := range sortedKeys(c.Shortcuts) {
		fmt.Fprintf(&sb, "%s = %s\n", name, c.Shortcuts[name])
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "stitch = %v\n", c.Notify.Stitch)
	sb.WriteString("\n")

	// Themes sections
	for _, name := range sortedKeys(c.Themes) {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Widths returns the thin, medium and thick stroke widths.
func (a Annotation) Widths() [3]int { return [3]int{a.Thin, a.Medium, a.Thick} }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
