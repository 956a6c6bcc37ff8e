package imaging

import (
	"github.com/ironsheep/image-reduce-mcp/internal/bilevel"
	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/matrix"
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/quantize"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// Conversion modes beyond the four raster colour models.
const (
	// ModeBilevel reduces to black and white.
	ModeBilevel = "1"
	// ModePalette reduces to the colours of a WEB, ADAPTIVE or custom palette.
	ModePalette = "P"
)

// DefaultColors is the adaptive palette size used when no size is given.
const DefaultColors = 256

// ColorCount resolves an optional palette size: nil means DefaultColors.
// Any given value, 0 included, is passed on and later clamped to [2, 256].
func ColorCount(colors *int) int {
	if colors == nil {
		return DefaultColors
	}
	return *colors
}

// Options tunes Convert. The zero value means no matrix, dithering on, a WEB
// palette and DefaultColors colours.
type Options struct {
	// Matrix, when set, replaces the mode conversion with a colour matrix.
	Matrix matrix.Matrix

	// Dither is "NONE" or "FLOYDSTEINBERG" (either case). Empty means on.
	Dither string

	// Palette is "WEB" or "ADAPTIVE". Empty means WEB.
	Palette string

	// Colors is the adaptive palette size, clamped to [2, 256]. Nil means
	// DefaultColors.
	Colors *int

	// Custom, when non-empty, is used for mode P instead of Palette.
	Custom palette.Palette
}

// ParseDither reports whether dithering is requested. Empty means on.
func ParseDither(name string) (bool, error) {
	switch name {
	case "", "FLOYDSTEINBERG", "floydsteinberg":
		return true, nil
	case "NONE", "none":
		return false, nil
	}
	return false, raster.InvalidOperation("unsupported dither method %q: use NONE or FLOYDSTEINBERG", name)
}

// Convert returns src converted to mode, one of L, LA, RGB, RGBA, 1 or P.
//
// A matrix is validated before anything else and, when present, takes
// precedence over the mode conversion. Asking for the mode src already has
// without a matrix returns a copy without recomputation. src is never
// modified.
func Convert(src *raster.Raster, mode string, opts Options) (*raster.Raster, error) {
	if opts.Matrix != nil {
		if err := opts.Matrix.Validate(); err != nil {
			return nil, err
		}
	}

	log := Logger().With("mode", mode, "from", src.Model.String())

	if opts.Matrix == nil && mode == src.Model.String() {
		log.Debug("conversion is a no-op")
		return src.Clone(), nil
	}

	if opts.Matrix != nil {
		model, err := raster.ParseColorModel(mode)
		if err != nil {
			return nil, raster.InvalidOperation("%d-tuple matrix conversion to mode %q not supported", len(opts.Matrix), mode)
		}
		log.Debug("applying color matrix", "taps", len(opts.Matrix))
		return matrix.Apply(src, model, opts.Matrix)
	}

	switch mode {
	case "L", "LA", "RGB", "RGBA":
		model, _ := raster.ParseColorModel(mode)
		log.Debug("converting color model")
		return convert.Convert(src, model)

	case ModeBilevel:
		applyDither, err := ParseDither(opts.Dither)
		if err != nil {
			return nil, err
		}
		log.Debug("reducing to bilevel", "dither", applyDither)
		return bilevel.ToBilevel(src, applyDither), nil

	case ModePalette:
		applyDither, err := ParseDither(opts.Dither)
		if err != nil {
			return nil, err
		}
		if len(opts.Custom) > 0 {
			log.Debug("quantizing to custom palette", "colors", len(opts.Custom), "dither", applyDither)
			return quantize.WithPalette(src, opts.Custom, applyDither)
		}

		pal, err := BuildPalette(src, opts.Palette, ColorCount(opts.Colors))
		if err != nil {
			return nil, err
		}
		log.Debug("quantizing", "palette", opts.Palette, "colors", len(pal), "dither", applyDither)
		return quantize.WithPalette(src, pal, applyDither)
	}

	return nil, raster.InvalidOperation("unsupported conversion mode %q: supported modes are L, LA, RGB, RGBA, 1, P", mode)
}

// BuildPalette returns the WEB or ADAPTIVE palette for src. An empty name
// means WEB. colors is clamped to [2, 256] and only matters for ADAPTIVE.
func BuildPalette(src *raster.Raster, name string, colors int) (palette.Palette, error) {
	if name == "" {
		name = "WEB"
	}
	t, err := quantize.ParsePaletteType(name)
	if err != nil {
		return nil, err
	}
	return quantize.Build(src, t, colors)
}
