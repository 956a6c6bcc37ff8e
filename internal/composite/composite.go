// Package composite pastes rasters through a mask and fills rectangles.
//
// Both operations mutate the destination in place and silently skip any part
// of the target region that falls outside it.
package composite

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// PasteWithMask blends src onto dst with its top-left corner at (x, y).
//
// src is first converted to dst's colour model, and mask to luma. Each
// destination byte becomes src*a + dst*(1-a) with a = mask/255, so a mask
// value of 0 keeps dst and 255 copies src. Alpha is blended only when both
// src and dst carry it; when only dst does, every pixel the mask touches
// becomes fully opaque. A nil mask copies src outright. Source pixels beyond
// the mask's extent are treated as mask 0.
func PasteWithMask(dst, src *raster.Raster, x, y int, mask *raster.Raster) {
	if mask != nil {
		mask = convert.MustConvert(mask, raster.L)
	}
	opaque := dst.Model.HasAlpha() && !src.Model.HasAlpha()
	src = convert.MustConvert(src, dst.Model)

	area := image.Rect(x, y, x+src.Width, y+src.Height).Intersect(image.Rect(0, 0, dst.Width, dst.Height))
	if area.Empty() {
		return
	}

	bpp := dst.Model.BytesPerPixel()
	blended := bpp
	if opaque {
		blended--
	}
	parallel.Line(area.Dy(), func(start, end int) {
		for dy := area.Min.Y + start; dy < area.Min.Y+end; dy++ {
			sy := dy - y
			for dx := area.Min.X; dx < area.Max.X; dx++ {
				sx := dx - x
				a := maskAt(mask, sx, sy)
				if a == 0 {
					continue
				}
				so, do := src.Offset(sx, sy), dst.Offset(dx, dy)
				for c := 0; c < blended; c++ {
					dst.Pix[do+c] = blend(src.Pix[so+c], dst.Pix[do+c], a)
				}
				if opaque {
					dst.Pix[do+bpp-1] = 0xff
				}
			}
		}
	})
}

func maskAt(mask *raster.Raster, x, y int) uint8 {
	if mask == nil {
		return 0xff
	}
	if !mask.In(x, y) {
		return 0
	}
	return mask.Pix[mask.Offset(x, y)]
}

// blend mixes s over d with weight a/255, rounding to nearest.
func blend(s, d, a uint8) uint8 {
	switch a {
	case 0:
		return d
	case 0xff:
		return s
	}
	return uint8((uint32(s)*uint32(a) + uint32(d)*uint32(0xff-a) + 0x7f) / 0xff)
}

// FillRegion sets every pixel of the width x height rectangle at (x, y) to c,
// converted to dst's model. A rectangle with no area is rejected; a
// rectangle partly or wholly outside dst is clipped.
func FillRegion(dst *raster.Raster, x, y, width, height int, c color.NRGBA) error {
	if width <= 0 || height <= 0 {
		return raster.InvalidOperation("fill region %dx%d has no area", width, height)
	}

	area := image.Rect(x, y, x+width, y+height).Intersect(image.Rect(0, 0, dst.Width, dst.Height))
	if area.Empty() {
		return nil
	}

	px := raster.PixelBytes(dst.Model, c)
	parallel.Line(area.Dy(), func(start, end int) {
		for yy := area.Min.Y + start; yy < area.Min.Y+end; yy++ {
			row := dst.Pix[dst.Offset(area.Min.X, yy):dst.Offset(area.Max.X, yy)]
			for i := 0; i < len(row); i += len(px) {
				copy(row[i:], px)
			}
		}
	})
	return nil
}
