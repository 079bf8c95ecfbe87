package theme

import (
	"image/color"
)

// Theme is the colour palette of the annotation window chrome.
type Theme struct {
	Name string

	Background color.RGBA // behind the canvas
	Foreground color.RGBA

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Category legend
	LegendBackground color.RGBA
	LegendText       color.RGBA
	LegendSelected   color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusError      color.RGBA

	// Canvas
	Crosshair    color.RGBA
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		LegendBackground:      color.RGBA{235, 235, 235, 255},
		LegendText:            color.RGBA{0, 0, 0, 255},
		LegendSelected:        color.RGBA{0, 90, 200, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		StatusError:           color.RGBA{180, 0, 0, 255},
		Crosshair:             color.RGBA{255, 255, 255, 200},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
