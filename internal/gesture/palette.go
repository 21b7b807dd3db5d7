package gesture

import (
	"image/color"
	"math"
)

// Palette hands out display colors cyclically. One palette is shared by
// gestures and rhythm waves, so consecutive shapes never repeat a color.
type Palette struct {
	colors []color.RGBA
	next   int
}

// NewPalette spreads size hues evenly around the color wheel.
func NewPalette(size int, saturation, value float64) *Palette {
	if size < 1 {
		size = 1
	}
	p := &Palette{colors: make([]color.RGBA, size)}
	for i := range p.colors {
		r, g, b := HSVToRGB(float64(i)*360/float64(size), saturation, value)
		p.colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// Next returns the current color and advances the shared index.
func (p *Palette) Next() color.RGBA {
	c := p.colors[p.next%len(p.colors)]
	p.next++
	return c
}

// Colors returns a copy of the palette.
func (p *Palette) Colors() []color.RGBA { return append([]color.RGBA(nil), p.colors...) }

// HSVToRGB converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func HSVToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
