package raster

import (
	"fmt"
	"image/color"
)

// ColorModel identifies the channel layout of a Raster.
type ColorModel int

const (
	// L is 8-bit luma.
	L ColorModel = iota
	// LA is 8-bit luma followed by 8-bit alpha.
	LA
	// RGB is 8-bit red, green, blue.
	RGB
	// RGBA is 8-bit red, green, blue, non-premultiplied alpha.
	RGBA
)

// String returns the mode name used by callers ("L", "LA", "RGB", "RGBA").
func (m ColorModel) String() string {
	switch m {
	case L:
		return "L"
	case LA:
		return "LA"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	}
	return fmt.Sprintf("ColorModel(%d)", int(m))
}

// BytesPerPixel returns the number of bytes one pixel occupies in Pix.
func (m ColorModel) BytesPerPixel() int {
	switch m {
	case L:
		return 1
	case LA:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// HasAlpha reports whether the model carries an alpha channel.
func (m ColorModel) HasAlpha() bool {
	return m == LA || m == RGBA
}

// Valid reports whether m is one of the four supported models.
func (m ColorModel) Valid() bool {
	return m >= L && m <= RGBA
}

// ParseColorModel maps a mode name to its ColorModel.
func ParseColorModel(name string) (ColorModel, error) {
	switch name {
	case "L":
		return L, nil
	case "LA":
		return LA, nil
	case "RGB":
		return RGB, nil
	case "RGBA":
		return RGBA, nil
	}
	return 0, InvalidOperation("unsupported color model %q: use L, LA, RGB or RGBA", name)
}

// Raster is an in-memory pixel grid.
//
// Pixels are stored row-major without padding, so the pixel at (x, y) starts
// at Pix[(y*Width+x)*Model.BytesPerPixel()]. len(Pix) is always
// Width*Height*Model.BytesPerPixel().
type Raster struct {
	Width  int
	Height int
	Model  ColorModel
	Pix    []uint8
}

// New allocates a zeroed raster. Negative dimensions are treated as zero.
func New(model ColorModel, width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{
		Width:  width,
		Height: height,
		Model:  model,
		Pix:    make([]uint8, width*height*model.BytesPerPixel()),
	}
}

// NewFilled allocates a raster with every pixel set to c.
func NewFilled(model ColorModel, width, height int, c color.NRGBA) *Raster {
	r := New(model, width, height)
	px := PixelBytes(model, c)
	for i := 0; i < len(r.Pix); i += len(px) {
		copy(r.Pix[i:], px)
	}
	return r
}

// Stride returns the number of bytes in one row.
func (r *Raster) Stride() int {
	return r.Width * r.Model.BytesPerPixel()
}

// Offset returns the index of the first byte of pixel (x, y) in Pix.
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * r.Model.BytesPerPixel()
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// Row returns the bytes of row y. The slice aliases Pix.
func (r *Raster) Row(y int) []uint8 {
	s := r.Stride()
	return r.Pix[y*s : (y+1)*s]
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	c := &Raster{Width: r.Width, Height: r.Height, Model: r.Model, Pix: make([]uint8, len(r.Pix))}
	copy(c.Pix, r.Pix)
	return c
}

// Check verifies the buffer length invariant.
func (r *Raster) Check() error {
	if !r.Model.Valid() {
		return InvalidOperation("unsupported color model %d", int(r.Model))
	}
	if want := r.Width * r.Height * r.Model.BytesPerPixel(); len(r.Pix) != want {
		return InvalidOperation("pixel buffer holds %d bytes, %dx%d %s needs %d", len(r.Pix), r.Width, r.Height, r.Model, want)
	}
	return nil
}

// NRGBAAt returns the pixel at (x, y) widened to non-premultiplied RGBA.
// Luma is broadcast to the colour channels; missing alpha reads as 255.
func (r *Raster) NRGBAAt(x, y int) color.NRGBA {
	i := r.Offset(x, y)
	p := r.Pix
	switch r.Model {
	case L:
		return color.NRGBA{p[i], p[i], p[i], 0xff}
	case LA:
		return color.NRGBA{p[i], p[i], p[i], p[i+1]}
	case RGB:
		return color.NRGBA{p[i], p[i+1], p[i+2], 0xff}
	default:
		return color.NRGBA{p[i], p[i+1], p[i+2], p[i+3]}
	}
}

// PixelBytes returns the byte layout of c in the given model. Luma for L and LA is
// computed with Luma.
func PixelBytes(model ColorModel, c color.NRGBA) []uint8 {
	switch model {
	case L:
		return []uint8{Luma(c.R, c.G, c.B)}
	case LA:
		return []uint8{Luma(c.R, c.G, c.B), c.A}
	case RGB:
		return []uint8{c.R, c.G, c.B}
	default:
		return []uint8{c.R, c.G, c.B, c.A}
	}
}

// Luma reduces an 8-bit RGB triple to 8-bit luma with the ITU-R BT.601
// integer weights of image/color.GrayModel.
func Luma(r, g, b uint8) uint8 {
	r16, g16, b16 := uint32(r)*0x101, uint32(g)*0x101, uint32(b)*0x101
	return uint8((19595*r16 + 38470*g16 + 7471*b16 + 1<<15) >> 24)
}
