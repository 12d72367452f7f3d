package model

import "strings"

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
)

// Palette is the fixed set of named colors offered by the editor. Any other
// non-empty value is kept verbatim and treated as a raw color.
var Palette = []Color{ColorBlue, ColorGreen, ColorPurple, ColorRed, ColorYellow}

func (c Color) IsPalette() bool {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple, ColorRed, ColorYellow:
		return true
	default:
		return false
	}
}

func (c Color) IsValid() bool {
	return strings.TrimSpace(string(c)) != ""
}
