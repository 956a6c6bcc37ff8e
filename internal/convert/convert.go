// Package convert remaps rasters between the L, LA, RGB and RGBA colour models.
package convert

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// Convert returns src remapped to model.
//
// Converting to the model src already has returns a copy of src, so the
// result never aliases the input. Converting
// to L or LA reduces colour with raster.Luma; converting to RGB or RGBA
// broadcasts luma into every colour channel. Alpha is preserved when both
// sides carry it, dropped when the target has none, and synthesised as 255
// otherwise.
//
// Rows are converted in parallel; each worker writes a disjoint band of the
// output.
func Convert(src *raster.Raster, model raster.ColorModel) (*raster.Raster, error) {
	if !model.Valid() {
		return nil, raster.InvalidOperation("unsupported target color model %s: use L, LA, RGB or RGBA", model)
	}
	if src.Model == model {
		return src.Clone(), nil
	}

	dst := raster.New(model, src.Width, src.Height)
	sb, db := src.Model.BytesPerPixel(), model.BytesPerPixel()

	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in, out := src.Row(y), dst.Row(y)
			for x, si, di := 0, 0, 0; x < src.Width; x, si, di = x+1, si+sb, di+db {
				convertPixel(out[di:di+db], model, in[si:si+sb], src.Model)
			}
		}
	})

	return dst, nil
}

// MustConvert is Convert for callers that have already validated model.
func MustConvert(src *raster.Raster, model raster.ColorModel) *raster.Raster {
	dst, err := Convert(src, model)
	if err != nil {
		panic(err)
	}
	return dst
}

func convertPixel(out []uint8, to raster.ColorModel, in []uint8, from raster.ColorModel) {
	var r, g, b, a uint8
	switch from {
	case raster.L:
		r, g, b, a = in[0], in[0], in[0], 0xff
	case raster.LA:
		r, g, b, a = in[0], in[0], in[0], in[1]
	case raster.RGB:
		r, g, b, a = in[0], in[1], in[2], 0xff
	case raster.RGBA:
		r, g, b, a = in[0], in[1], in[2], in[3]
	}

	switch to {
	case raster.L, raster.LA:
		y := r
		if from == raster.RGB || from == raster.RGBA {
			y = raster.Luma(r, g, b)
		}
		out[0] = y
		if to == raster.LA {
			out[1] = a
		}
	case raster.RGB:
		out[0], out[1], out[2] = r, g, b
	case raster.RGBA:
		out[0], out[1], out[2], out[3] = r, g, b, a
	}
}
