// Package quantize maps rasters onto a palette, optionally with
// Floyd-Steinberg error diffusion.
package quantize

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// PaletteType selects how the quantization palette is obtained.
type PaletteType int

const (
	// Web uses the fixed 216-colour web-safe palette.
	Web PaletteType = iota
	// Adaptive learns a palette from the raster being quantized.
	Adaptive
)

func (t PaletteType) String() string {
	switch t {
	case Web:
		return "WEB"
	case Adaptive:
		return "ADAPTIVE"
	}
	return fmt.Sprintf("PaletteType(%d)", int(t))
}

// ParsePaletteType maps exactly "WEB" or "ADAPTIVE" to a PaletteType.
func ParsePaletteType(name string) (PaletteType, error) {
	switch name {
	case "WEB":
		return Web, nil
	case "ADAPTIVE":
		return Adaptive, nil
	}
	return 0, raster.InvalidOperation("unsupported palette type %q: use WEB or ADAPTIVE", name)
}

// Build returns the palette for t. colors only matters for Adaptive.
func Build(src *raster.Raster, t PaletteType, colors int) (palette.Palette, error) {
	switch t {
	case Web:
		return palette.Web(), nil
	case Adaptive:
		return palette.Adaptive(src, colors), nil
	}
	return nil, raster.InvalidOperation("unsupported palette type %s: use WEB or ADAPTIVE", t)
}

// Quantize reduces src to the colours of a WEB or ADAPTIVE palette and
// returns an RGB raster holding only palette entries.
func Quantize(src *raster.Raster, t PaletteType, colors int, applyDither bool) (*raster.Raster, error) {
	pal, err := Build(src, t, colors)
	if err != nil {
		return nil, err
	}
	return WithPalette(src, pal, applyDither)
}

// WithPalette reduces src to the colours of pal. Alpha, if any, is dropped
// before the search.
//
// Without dithering each pixel is mapped to its nearest entry independently
// and rows are processed in parallel. With dithering pixels are visited in
// strict raster-scan order so the result is reproducible.
func WithPalette(src *raster.Raster, pal palette.Palette, applyDither bool) (*raster.Raster, error) {
	if err := pal.Check(); err != nil {
		return nil, err
	}

	rgb := convert.MustConvert(src, raster.RGB)
	dst := raster.New(raster.RGB, rgb.Width, rgb.Height)
	if applyDither {
		floydSteinberg(dst, rgb, pal)
	} else {
		nearest(dst, rgb, pal)
	}
	return dst, nil
}

func nearest(dst, src *raster.Raster, pal palette.Palette) {
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in, out := src.Row(y), dst.Row(y)
			for i := 0; i < len(in); i += 3 {
				c := pal[pal.Index(in[i], in[i+1], in[i+2])]
				out[i], out[i+1], out[i+2] = c.R, c.G, c.B
			}
		}
	})
}
