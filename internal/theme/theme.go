package theme

import (
	"image/color"
)

// Theme defines the colours of the capture overlay chrome. Annotation colours
// are chosen by the user and are not part of a theme.
type Theme struct {
	Name string

	// Selection
	Mask   color.RGBA // Dims the screen outside the selection
	Border color.RGBA // Selection outline
	Handle color.RGBA // Resize handle dots

	// Size label above the selection
	LabelBackground color.RGBA
	LabelText       color.RGBA

	// Toolbar
	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // Selected tool or width
	ButtonText        color.RGBA
	ButtonBorder      color.RGBA

	// Magnifier
	MagnifierBorder     color.RGBA
	MagnifierCrosshair  color.RGBA
	MagnifierBackground color.RGBA
	MagnifierText       color.RGBA
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                "Default",
		Mask:                color.RGBA{0, 0, 0, 120},
		Border:              color.RGBA{0, 174, 255, 255},
		Handle:              color.RGBA{0, 174, 255, 255},
		LabelBackground:     color.RGBA{0, 0, 0, 180},
		LabelText:           color.RGBA{255, 255, 255, 255},
		ToolbarBackground:   color.RGBA{240, 240, 240, 255},
		ButtonBackground:    color.RGBA{240, 240, 240, 255},
		ButtonActive:        color.RGBA{200, 225, 255, 255},
		ButtonText:          color.RGBA{0, 0, 0, 255},
		ButtonBorder:        color.RGBA{160, 160, 160, 255},
		MagnifierBorder:     color.RGBA{255, 255, 255, 255},
		MagnifierCrosshair:  color.RGBA{0, 174, 255, 160},
		MagnifierBackground: color.RGBA{0, 0, 0, 200},
		MagnifierText:       color.RGBA{255, 255, 255, 255},
	}
}
