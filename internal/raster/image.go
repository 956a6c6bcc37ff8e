package raster

import (
	"image"
	"image/color"
)

// FromImage copies a decoded image into a Raster.
//
// The colour model is chosen from the decoded type:
//   - *image.Gray, *image.Gray16 -> L
//   - images reporting Opaque() -> RGB
//   - everything else -> RGBA (non-premultiplied)
//
// The returned raster's origin is the image's Bounds().Min.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		r := New(L, w, h)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(r.Row(y), src.Pix[i:i+w])
		}
		return r
	case *image.Gray16:
		r := New(L, w, h)
		for y := 0; y < h; y++ {
			row := r.Row(y)
			for x := 0; x < w; x++ {
				row[x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return r
	}

	model := RGBA
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		model = RGB
	}

	r := New(model, w, h)
	if src, ok := img.(*image.NRGBA); ok && model == RGBA {
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(r.Row(y), src.Pix[i:i+4*w])
		}
		return r
	}

	bpp := model.BytesPerPixel()
	for y := 0; y < h; y++ {
		row := r.Row(y)
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			o := x * bpp
			row[o], row[o+1], row[o+2] = c.R, c.G, c.B
			if bpp == 4 {
				row[o+3] = c.A
			}
		}
	}
	return r
}

// Image returns a copy of the raster as a standard library image: *image.Gray
// for L and *image.NRGBA for the other models. LA is widened to NRGBA with the
// luma broadcast to the colour channels.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Model == L {
		g := image.NewGray(rect)
		copy(g.Pix, r.Pix)
		return g
	}

	dst := image.NewNRGBA(rect)
	if r.Model == RGBA {
		copy(dst.Pix, r.Pix)
		return dst
	}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.NRGBAAt(x, y)
			o := dst.PixOffset(x, y)
			dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return dst
}
