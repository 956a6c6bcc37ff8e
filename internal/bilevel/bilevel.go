// Package bilevel reduces rasters to 1-bit black and white.
package bilevel

import (
	"image/color"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/makeworld-the-better-one/dither/v2"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// Threshold is the largest luma value mapped to black by the plain threshold.
const Threshold = 127

// BayerSize is the edge length of the ordered dither matrix.
const BayerSize = 4

var blackAndWhite = []color.Color{color.Gray{Y: 0}, color.Gray{Y: 0xff}}

// ToBilevel reduces src to luma and then to the two values 0 and 255. The
// result is always an L raster.
//
// Without dithering every pixel is thresholded on its own: luma above
// Threshold becomes 255, anything else 0. With dithering an ordered Bayer
// pattern perturbs the threshold per position, so flat mid-tones turn into a
// regular checker of black and white instead of a solid block.
//
// The ordered path compares in linear light, not on gamma-encoded luma, so
// the two paths differ in brightness: a flat luma of 128 thresholds to solid
// white but dithers to roughly one white pixel in four.
func ToBilevel(src *raster.Raster, applyDither bool) *raster.Raster {
	luma := convert.MustConvert(src, raster.L)
	if applyDither {
		return ordered(luma)
	}
	return threshold(luma)
}

func threshold(luma *raster.Raster) *raster.Raster {
	dst := raster.New(raster.L, luma.Width, luma.Height)
	parallel.Line(luma.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in, out := luma.Row(y), dst.Row(y)
			for x, v := range in {
				if v > Threshold {
					out[x] = 0xff
				}
			}
		}
	})
	return dst
}

func ordered(luma *raster.Raster) *raster.Raster {
	dst := raster.New(raster.L, luma.Width, luma.Height)
	if luma.Width == 0 || luma.Height == 0 {
		return dst
	}

	d := dither.NewDitherer(blackAndWhite)
	d.Mapper = dither.Bayer(BayerSize, BayerSize, 1.0)
	p := d.DitherPaletted(luma.Image())

	b := p.Bounds()
	for y := 0; y < luma.Height; y++ {
		out := dst.Row(y)
		for x := range out {
			if color.GrayModel.Convert(p.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y > Threshold {
				out[x] = 0xff
			}
		}
	}
	return dst
}
