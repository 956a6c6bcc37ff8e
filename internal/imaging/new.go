package imaging

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// New creates a width x height raster in mode filled with c. A nil c means
// opaque black, except for RGBA where it means fully transparent black.
// L and LA take the luma of c.
func New(mode string, width, height int, c *color.NRGBA) (*raster.Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, raster.InvalidOperation("image dimensions must be greater than 0, got %dx%d", width, height)
	}
	model, err := raster.ParseColorModel(mode)
	if err != nil {
		return nil, err
	}

	fill := color.NRGBA{A: 0xff}
	if model == raster.RGBA {
		fill.A = 0
	}
	if c != nil {
		fill = *c
	}
	return raster.NewFilled(model, width, height, fill), nil
}

// Describe summarises an image as "<Image size=WxH mode=M format=F>",
// decoding it if needed. Images built in memory report format Unknown.
func Describe(src *raster.Source) string {
	r, err := src.Materialize()
	if err != nil {
		return "<Image [Error loading image]>"
	}
	format := strings.ToUpper(src.Format())
	if format == "" {
		format = "Unknown"
	}
	return fmt.Sprintf("<Image size=%dx%d mode=%s format=%s>", r.Width, r.Height, r.Model, format)
}
