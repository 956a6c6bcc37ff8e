package palette

import (
	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// SampleFactor is the NeuQuant sampling factor: one pixel in SampleFactor is
// presented to the network. 1 is slowest and most accurate, 30 fastest.
const SampleFactor = 10

// Adaptive learns a palette of colors entries from src. colors is clamped to
// [MinColors, MaxColors]. src is forced to RGB first, so alpha never
// influences the result. The same input always yields the same palette in
// the same order.
func Adaptive(src *raster.Raster, colors int) Palette {
	colors = ClampColors(colors)
	rgb := convert.MustConvert(src, raster.RGB)

	// The network learns on opaque RGBA samples.
	pix := make([]uint8, rgb.Width*rgb.Height*nqChannels)
	for i, o := 0, 0; i < len(rgb.Pix); i, o = i+3, o+4 {
		pix[o], pix[o+1], pix[o+2], pix[o+3] = rgb.Pix[i], rgb.Pix[i+1], rgb.Pix[i+2], 0xff
	}

	return learnPalette(pix, colors, SampleFactor)
}
