package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/hydrashot/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil

			if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "annotation":
			err = setAnnotationField(&cfg.Annotation, key, value)
		case currentSection == "save":
			err = setSaveField(&cfg.Save, key, value)
		case currentSection == "shortcuts":
			cfg.Shortcuts[strings.ToLower(key)] = value
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

// splitKeyValue accepts "key = value" or "key: value". Quotes around the
// value are removed.
func splitKeyValue(line string) (string, string, bool) {
	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:sep])
	value := strings.TrimSpace(line[sep+1:])
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		if unq, err := strconv.Unquote(value); err == nil {
			value = unq
		} else {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "pixel_ratio":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid pixel_ratio %q", value)
		}
		cfg.PixelRatio = v
	}
	return nil
}

func setAnnotationField(a *Annotation, key, value string) error {
	switch strings.ToLower(key) {
	case "thin", "medium", "thick":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("width %s must be a positive integer, got %q", key, value)
		}
		switch strings.ToLower(key) {
		case "thin":
			a.Thin = n
		case "medium":
			a.Medium = n
		case "thick":
			a.Thick = n
		}
	case "width":
		w := strings.ToLower(value)
		if w != WidthThin && w != WidthMedium && w != WidthThick {
			return fmt.Errorf("width must be thin, medium or thick, got %q", value)
		}
		a.Width = w
	case "color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		a.Color = c
	case "font":
		a.Font = strings.ToLower(value)
	case "font_size":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid font_size %q", value)
		}
		a.FontSize = v
	}
	return nil
}

func setSaveField(s *Save, key, value string) error {
	switch strings.ToLower(key) {
	case "name_template":
		s.NameTemplate = value
	case "quality":
		q, err := strconv.Atoi(value)
		if err != nil || q < 1 || q > 100 {
			return fmt.Errorf("quality must be between 1 and 100, got %q", value)
		}
		s.Quality = q
	case "silent", "copy_after_save":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		if strings.EqualFold(key, "silent") {
			s.Silent = b
		} else {
			s.CopyAfterSave = b
		}
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "capture":
		n.Capture = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "stitch":
		n.Stitch = b
	}
	return nil
}
