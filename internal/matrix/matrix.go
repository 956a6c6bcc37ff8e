// Package matrix applies 4-tap and 12-tap colour matrices to rasters.
package matrix

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// Matrix is a list of colour coefficients. A 4-tap matrix scales luma into
// each of R, G and B with the first three entries; the fourth is unused. A
// 12-tap matrix is a row-major 3x4 affine transform of (R, G, B, 1).
type Matrix []float64

// Validate checks the matrix length on its own.
func (m Matrix) Validate() error {
	if len(m) != 4 && len(m) != 12 {
		return raster.InvalidOperation("matrix must be 4-tuple or 12-tuple, got %d-tuple", len(m))
	}
	return nil
}

// Apply transforms src with m and returns a raster in target. Only RGB is
// supported as a target.
func Apply(src *raster.Raster, target raster.ColorModel, m Matrix) (*raster.Raster, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if target != raster.RGB {
		return nil, raster.InvalidOperation("%d-tuple matrix conversion to mode %q not supported", len(m), target)
	}

	if len(m) == 4 {
		return applyLuma(src, m), nil
	}
	return applyAffine(src, m), nil
}

func applyLuma(src *raster.Raster, m Matrix) *raster.Raster {
	luma := convert.MustConvert(src, raster.L)
	dst := raster.New(raster.RGB, luma.Width, luma.Height)

	parallel.Line(luma.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in, out := luma.Row(y), dst.Row(y)
			for x, v := range in {
				l := float64(v)
				o := 3 * x
				out[o] = toByte(m[0] * l)
				out[o+1] = toByte(m[1] * l)
				out[o+2] = toByte(m[2] * l)
			}
		}
	})
	return dst
}

func applyAffine(src *raster.Raster, m Matrix) *raster.Raster {
	rgb := convert.MustConvert(src, raster.RGB)
	dst := raster.New(raster.RGB, rgb.Width, rgb.Height)

	parallel.Line(rgb.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in, out := rgb.Row(y), dst.Row(y)
			for i := 0; i < len(in); i += 3 {
				r, g, b := float64(in[i]), float64(in[i+1]), float64(in[i+2])
				out[i] = toByte(m[0]*r + m[1]*g + m[2]*b + m[3])
				out[i+1] = toByte(m[4]*r + m[5]*g + m[6]*b + m[7])
				out[i+2] = toByte(m[8]*r + m[9]*g + m[10]*b + m[11])
			}
		}
	})
	return dst
}

// toByte clamps v to [0, 255] and truncates toward zero. NaN becomes 0.
func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
