package imaging

import (
	"cmp"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

func newColorResult(c color.NRGBA) ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	return ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(math.Round(h)), S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
	}
}

// SampleColor returns the color at (x, y). Luma is broadcast to R, G and B
// and a missing alpha channel reads as 255.
func SampleColor(r *raster.Raster, x, y int) (*ColorResult, error) {
	if !r.In(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, r.Width, r.Height)
	}
	res := newColorResult(r.NRGBAAt(x, y))
	return &res, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // X coordinate that was sampled
	Y     int         `json:"y"`               // Y coordinate that was sampled
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples several points at once. Any point outside the
// image fails the whole call.
func SampleColorsMulti(r *raster.Raster, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(r, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int // Left edge X coordinate (inclusive)
	Y1 int // Top edge Y coordinate (inclusive)
	X2 int // Right edge X coordinate (exclusive)
	Y2 int // Bottom edge Y coordinate (exclusive)
}

// ColorFrequency represents a palette color and the share of pixels nearest to it.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB"
	Percentage float64  `json:"percentage"` // Percentage of pixels mapped to this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components
}

// DominantColorsResult contains colors sorted by frequency, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors learns an adaptive palette of count colors from the image
// or region and reports how many pixels map to each entry. Entries no pixel
// maps to are left out, so fewer than count colors may be returned.
func DominantColors(r *raster.Raster, count int, region *Region) (*DominantColorsResult, error) {
	if region != nil {
		var err error
		if r, err = Crop(r, region.X1, region.Y1, region.X2, region.Y2); err != nil {
			return nil, err
		}
	}
	if r.Width == 0 || r.Height == 0 {
		return &DominantColorsResult{Colors: []ColorFrequency{}}, nil
	}

	pal := palette.Adaptive(r, count)
	Logger().Debug("learned dominant palette", "colors", len(pal), "pixels", r.Width*r.Height)

	rgb := convert.MustConvert(r, raster.RGB)
	hits := make([]int, len(pal))
	for i := 0; i < len(rgb.Pix); i += 3 {
		hits[pal.Index(rgb.Pix[i], rgb.Pix[i+1], rgb.Pix[i+2])]++
	}

	total := float64(r.Width * r.Height)
	colors := make([]ColorFrequency, 0, len(pal))
	for i, n := range hits {
		if n == 0 {
			continue
		}
		c := newColorResult(color.NRGBA{pal[i].R, pal[i].G, pal[i].B, 0xff})
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex,
			Percentage: float64(n) / total * 100,
			RGB:        c.RGB,
		})
	}

	slices.SortStableFunc(colors, func(a, b ColorFrequency) int {
		return cmp.Compare(b.Percentage, a.Percentage)
	})
	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

// ParseColor accepts the color forms callers pass as JSON:
//   - a hex string "#rgb", "#rrggbb" or "#rrggbbaa"
//   - a single number, read as an opaque gray level
//   - an array [r, g, b] (opaque) or [r, g, b, a]
func ParseColor(v any) (color.NRGBA, error) {
	switch c := v.(type) {
	case string:
		return parseHexColor(c)
	case float64:
		g, err := channel(c)
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{g, g, g, 0xff}, nil
	case int:
		return ParseColor(float64(c))
	case []any:
		if len(c) != 3 && len(c) != 4 {
			break
		}
		out := [4]uint8{3: 0xff}
		for i, e := range c {
			f, ok := e.(float64)
			if !ok {
				return color.NRGBA{}, raster.InvalidOperation("color component %d is %T, want a number", i, e)
			}
			ch, err := channel(f)
			if err != nil {
				return color.NRGBA{}, err
			}
			out[i] = ch
		}
		return color.NRGBA{out[0], out[1], out[2], out[3]}, nil
	}
	return color.NRGBA{}, raster.InvalidOperation("color must be a string, integer, or array (RGB/RGBA), got %v", v)
}

func channel(f float64) (uint8, error) {
	if f < 0 || f > 255 || f != math.Trunc(f) {
		return 0, raster.InvalidOperation("color component %v out of range 0-255", f)
	}
	return uint8(f), nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	alpha := uint8(0xff)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, raster.InvalidOperation("invalid color string %q", s)
		}
		alpha, s = uint8(a), s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, raster.InvalidOperation("invalid color string %q: use #rgb, #rrggbb or #rrggbbaa", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, raster.InvalidOperation("invalid color string %q: %v", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, alpha}, nil
}
