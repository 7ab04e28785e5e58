package core

import "math"

// Colour is a normalised RGBA colour as written in game descriptions.
type Colour struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// RGB builds an opaque colour.
func RGB(r, g, b float64) Colour {
	return Colour{R: r, G: g, B: b, A: 1}
}

// Black is the default object colour.
func Black() Colour {
	return RGB(0, 0, 0)
}

// Color is a terminal foreground colour for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for preview rendering.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorBlack
)

var palette = []struct {
	c   Color
	rgb [3]float64
}{
	{ColorBlack, [3]float64{0, 0, 0}},
	{ColorRed, [3]float64{0.8, 0, 0}},
	{ColorGreen, [3]float64{0, 0.8, 0}},
	{ColorYellow, [3]float64{0.8, 0.8, 0}},
	{ColorBlue, [3]float64{0, 0, 0.8}},
	{ColorMagenta, [3]float64{0.8, 0, 0.8}},
	{ColorCyan, [3]float64{0, 0.8, 0.8}},
	{ColorWhite, [3]float64{1, 1, 1}},
	{ColorGray, [3]float64{0.5, 0.5, 0.5}},
}

// Nearest returns the palette entry closest to c in RGB space.
func (c Colour) Nearest() Color {
	best, bestDist := ColorDefault, math.Inf(1)
	for _, p := range palette {
		dr, dg, db := c.R-p.rgb[0], c.G-p.rgb[1], c.B-p.rgb[2]
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = p.c, d
		}
	}
	return best
}
