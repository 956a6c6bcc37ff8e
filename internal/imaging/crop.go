package imaging

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-reduce-mcp/internal/convert"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// transform runs fn on r as a standard image and converts the result back to
// r's colour model.
func transform(r *raster.Raster, fn func(image.Image) *image.NRGBA) *raster.Raster {
	return convert.MustConvert(raster.FromImage(fn(r.Image())), r.Model)
}

// Crop extracts the region (x1,y1)-(x2,y2), x2 and y2 exclusive.
func Crop(r *raster.Raster, x1, y1, x2, y2 int) (*raster.Raster, error) {
	if x1 < 0 || y1 < 0 || x2 > r.Width || y2 > r.Height {
		return nil, raster.InvalidOperation("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, r.Width, r.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, raster.InvalidOperation("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return transform(r, func(img image.Image) *image.NRGBA {
		return imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	}), nil
}

// CropQuadrant extracts a named region: top-left, top-right, bottom-left,
// bottom-right, top-half, bottom-half, left-half, right-half or center.
func CropQuadrant(r *raster.Raster, region string) (*raster.Raster, error) {
	w, h := r.Width, r.Height
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		// Center 50% of the image
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, raster.InvalidOperation("unknown region: %s", region)
	}

	return Crop(r, x1, y1, x2, y2)
}

var resampleFilters = map[string]imaging.ResampleFilter{
	"NEAREST":  imaging.NearestNeighbor,
	"BOX":      imaging.Box,
	"BILINEAR": imaging.Linear,
	"HAMMING":  imaging.Hamming,
	"BICUBIC":  imaging.CatmullRom,
	"LANCZOS":  imaging.Lanczos,
}

// ParseResample maps a resample filter name (either case) to a filter.
// Empty means BICUBIC.
func ParseResample(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = "BICUBIC"
	}
	f, ok := resampleFilters[strings.ToUpper(name)]
	if !ok {
		return imaging.ResampleFilter{}, raster.InvalidOperation(
			"unsupported resample filter %q: use NEAREST, BOX, BILINEAR, HAMMING, BICUBIC or LANCZOS", name)
	}
	return f, nil
}

// Resize scales r to exactly width x height. Resizing to the current size
// returns a copy.
func Resize(r *raster.Raster, width, height int, resample string) (*raster.Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, raster.InvalidOperation("resize target %dx%d must be positive", width, height)
	}
	filter, err := ParseResample(resample)
	if err != nil {
		return nil, err
	}
	if width == r.Width && height == r.Height {
		return r.Clone(), nil
	}

	return transform(r, func(img image.Image) *image.NRGBA {
		return imaging.Resize(img, width, height, filter)
	}), nil
}

// Scale resizes r by factor with the Lanczos filter. A factor of 1, or one
// that is not positive, returns a copy.
func Scale(r *raster.Raster, factor float64) *raster.Raster {
	if factor == 1.0 || factor <= 0 {
		return r.Clone()
	}
	w := max(int(float64(r.Width)*factor), 1)
	h := max(int(float64(r.Height)*factor), 1)
	return transform(r, func(img image.Image) *image.NRGBA {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	})
}

// Rotate turns r clockwise by angle degrees. Multiples of 90 are exact; any
// other angle grows the canvas and fills the uncovered corners with
// transparent black (black for models without alpha).
func Rotate(r *raster.Raster, angle float64) *raster.Raster {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}

	switch a {
	case 0:
		return r.Clone()
	case 90:
		return transform(r, imaging.Rotate270)
	case 180:
		return transform(r, imaging.Rotate180)
	case 270:
		return transform(r, imaging.Rotate90)
	}
	return transform(r, func(img image.Image) *image.NRGBA {
		return imaging.Rotate(img, -a, color.Transparent)
	})
}

var transposeMethods = map[string]func(image.Image) *image.NRGBA{
	"FLIP_LEFT_RIGHT": imaging.FlipH,
	"FLIP_TOP_BOTTOM": imaging.FlipV,
	"ROTATE_90":       imaging.Rotate270,
	"ROTATE_180":      imaging.Rotate180,
	"ROTATE_270":      imaging.Rotate90,
	"TRANSPOSE":       imaging.Transpose,
	"TRANSVERSE":      imaging.Transverse,
}

// Transpose flips or rotates r by a named method. ROTATE_* turn clockwise;
// TRANSPOSE mirrors across the main diagonal and TRANSVERSE across the other.
func Transpose(r *raster.Raster, method string) (*raster.Raster, error) {
	fn, ok := transposeMethods[method]
	if !ok {
		return nil, raster.InvalidOperation("unsupported transpose method: %s", method)
	}
	return transform(r, fn), nil
}

