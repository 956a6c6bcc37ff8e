package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

const (
	// MinColors is the smallest palette size accepted.
	MinColors = 2
	// MaxColors is the largest palette size accepted; every index fits a byte.
	MaxColors = 256
	// webStep separates the six per-channel levels of the web-safe cube.
	webStep = 51
)

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette is an ordered list of colours. Index i of a quantized pixel always
// refers to Palette[i].
type Palette []RGB

// Web returns the 216-entry web-safe palette. Red varies slowest and blue
// fastest, so entry 36*r + 6*g + b is (51r, 51g, 51b) for r, g, b in [0, 5].
func Web() Palette {
	p := make(Palette, 0, 216)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p = append(p, RGB{uint8(r * webStep), uint8(g * webStep), uint8(b * webStep)})
			}
		}
	}
	return p
}

// ClampColors limits a requested palette size to [MinColors, MaxColors].
func ClampColors(n int) int {
	switch {
	case n < MinColors:
		return MinColors
	case n > MaxColors:
		return MaxColors
	}
	return n
}

// Check verifies the palette size is within [MinColors, MaxColors].
func (p Palette) Check() error {
	if len(p) < MinColors || len(p) > MaxColors {
		return raster.InvalidOperation("palette has %d colors, want between %d and %d", len(p), MinColors, MaxColors)
	}
	return nil
}

// Index returns the position of the entry closest to (r, g, b) by squared
// Euclidean distance in RGB space. Ties go to the lowest index.
func (p Palette) Index(r, g, b uint8) int {
	ret, best := 0, math.MaxInt
	for i, c := range p {
		dr := int(r) - int(c.R)
		dg := int(g) - int(c.G)
		db := int(b) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Hex renders every entry as "#rrggbb".
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	}
	return out
}

// ColorPalette converts p to a standard library palette of opaque colours.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return out
}

// FromColorPalette converts a standard library palette, dropping alpha.
func FromColorPalette(cp color.Palette) Palette {
	p := make(Palette, len(cp))
	for i, c := range cp {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[i] = RGB{n.R, n.G, n.B}
	}
	return p
}
