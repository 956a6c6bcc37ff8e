package imaging

import (
	"image/color"

	"github.com/ironsheep/image-reduce-mcp/internal/composite"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// Paste returns a copy of dst with src blended in at (x, y) through mask.
// dst is left untouched, so cached images can be used as the destination.
// A nil mask pastes src opaquely.
func Paste(dst, src *raster.Raster, x, y int, mask *raster.Raster) *raster.Raster {
	out := dst.Clone()
	composite.PasteWithMask(out, src, x, y, mask)
	return out
}

// Fill returns a copy of dst with the width x height rectangle at (x, y)
// set to c. The rectangle is clipped to the image.
func Fill(dst *raster.Raster, x, y, width, height int, c color.NRGBA) (*raster.Raster, error) {
	out := dst.Clone()
	if err := composite.FillRegion(out, x, y, width, height, c); err != nil {
		return nil, err
	}
	return out, nil
}
