// Package assets supplies textures to the renderer. Bitmaps are produced
// by a Loader on background goroutines and kept in a ristretto cache; until
// a bitmap is ready the provider reports it as missing and the renderer
// skips the surface.
package assets

import (
	"image/color"
	"math"
)

// Ramp layout of the palette: index 0 is transparent black, then rampCount
// ramps of rampSize shades from dark to light.
const (
	rampSize  = 16
	rampCount = 15
)

// Ramps
const (
	RampGray = iota
	RampBrown
	RampBlue
	RampGreen
	RampRed
	RampTeal
	RampSky
	RampLava
	RampPurple
	RampOlive
	RampSand
	RampSteel
	RampRust
	RampSlime
	RampWhite
)

// rampBase is the brightest color of each ramp.
var rampBase = [rampCount]color.RGBA{
	RampGray:   {200, 200, 200, 255},
	RampBrown:  {170, 120, 70, 255},
	RampBlue:   {70, 110, 230, 255},
	RampGreen:  {80, 190, 80, 255},
	RampRed:    {220, 60, 50, 255},
	RampTeal:   {60, 190, 180, 255},
	RampSky:    {150, 190, 250, 255},
	RampLava:   {255, 140, 30, 255},
	RampPurple: {160, 90, 200, 255},
	RampOlive:  {150, 150, 70, 255},
	RampSand:   {230, 210, 150, 255},
	RampSteel:  {140, 160, 180, 255},
	RampRust:   {180, 80, 40, 255},
	RampSlime:  {150, 230, 60, 255},
	RampWhite:  {255, 255, 255, 255},
}

// Shade returns the palette index of shade s (0 darkest) in ramp r.
func Shade(r, s int) uint8 {
	s = max(0, min(rampSize-1, s))
	return uint8(1 + r*rampSize + s)
}

// Palette returns the 256 color palette for a color table. Other tables
// rotate the ramps' hues so the same bitmap can be recoloured.
func Palette(clut int) color.Palette {
	pal := make(color.Palette, 256)
	pal[0] = color.RGBA{0, 0, 0, 0}
	for r, base := range rampBase {
		base = rotateHue(base, float64(clut)*math.Pi/4)
		for s := range rampSize {
			f := float64(s+1) / rampSize
			pal[Shade(r, s)] = color.RGBA{
				R: uint8(float64(base.R) * f),
				G: uint8(float64(base.G) * f),
				B: uint8(float64(base.B) * f),
				A: 255,
			}
		}
	}
	for i := 1 + rampCount*rampSize; i < len(pal); i++ {
		pal[i] = color.RGBA{0, 0, 0, 255}
	}
	return pal
}

// rotateHue turns c around the gray axis by angle radians.
func rotateHue(c color.RGBA, angle float64) color.RGBA {
	if angle == 0 {
		return c
	}
	sin, cos := math.Sincos(angle)
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	k := (1 - cos) / 3
	s := math.Sqrt(1.0/3) * sin
	m := [3][3]float64{
		{cos + k, k - s, k + s},
		{k + s, cos + k, k - s},
		{k - s, k + s, cos + k},
	}
	clamp := func(v float64) uint8 {
		return uint8(max(0, min(255, math.Round(v))))
	}
	return color.RGBA{
		R: clamp(m[0][0]*r + m[0][1]*g + m[0][2]*b),
		G: clamp(m[1][0]*r + m[1][1]*g + m[1][2]*b),
		B: clamp(m[2][0]*r + m[2][1]*g + m[2][2]*b),
		A: c.A,
	}
}
