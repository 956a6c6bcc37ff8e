package imaging

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

var (
	pxA = color.NRGBA{10, 20, 30, 255}
	pxB = color.NRGBA{200, 100, 50, 255}
)

// pair returns a 2x1 raster holding pxA then pxB.
func pair(model raster.ColorModel) *raster.Raster {
	r := raster.New(model, 2, 1)
	copy(r.Pix, raster.PixelBytes(model, pxA))
	copy(r.Pix[model.BytesPerPixel():], raster.PixelBytes(model, pxB))
	return r
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, 0, 0, 50, 50)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.Model != img.Model {
		t.Errorf("model: got %s, want %s", result.Model, img.Model)
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"x1 negative", -1, 0, 50, 50},
		{"y1 negative", 0, -1, 50, 50},
		{"x2 too large", 0, 0, 101, 50},
		{"y2 too large", 0, 0, 50, 101},
		{"all out of bounds", -1, -1, 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(img, tt.x1, tt.y1, tt.x2, tt.y2)
			if !errors.Is(err, raster.ErrInvalidOperation) {
				t.Errorf("got %v, want ErrInvalidOperation", err)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"x1 >= x2", 50, 0, 50, 50},
		{"x1 > x2", 60, 0, 50, 50},
		{"y1 >= y2", 0, 50, 50, 50},
		{"y1 > y2", 0, 60, 50, 50},
		{"zero area", 50, 50, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.x1, tt.y1, tt.x2, tt.y2); err == nil {
				t.Error("Crop should fail for invalid region")
			}
		})
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, 40, 40, 60, 60)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	want := map[[2]int]color.NRGBA{
		{0, 0}:   {255, 0, 0, 255},
		{19, 0}:  {0, 255, 0, 255},
		{0, 19}:  {0, 0, 255, 255},
		{19, 19}: {255, 255, 255, 255},
	}
	for p, c := range want {
		if got := result.NRGBAAt(p[0], p[1]); got != c {
			t.Errorf("(%d,%d): got %v, want %v", p[0], p[1], got, c)
		}
	}
}

func TestCropQuadrant(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		region       string
		wantW, wantH int
		wantHex      string
	}{
		{"top-left", 50, 50, "#FF0000"},
		{"top-right", 50, 50, "#00FF00"},
		{"bottom-left", 50, 50, "#0000FF"},
		{"bottom-right", 50, 50, "#FFFFFF"},
		{"top-half", 100, 50, ""},
		{"bottom-half", 100, 50, ""},
		{"left-half", 50, 100, ""},
		{"right-half", 50, 100, ""},
		{"center", 50, 50, ""},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			result, err := CropQuadrant(img, tt.region)
			if err != nil {
				t.Fatalf("CropQuadrant(%s) failed: %v", tt.region, err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if tt.wantHex == "" {
				return
			}
			c, _ := SampleColor(result, result.Width/2, result.Height/2)
			if c.Hex != tt.wantHex {
				t.Errorf("color in %s: got %s, want %s", tt.region, c.Hex, tt.wantHex)
			}
		})
	}
}

func TestCropQuadrant_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	for _, region := range []string{"invalid", "TOP-LEFT", "middle", "", "center-left"} {
		t.Run(region, func(t *testing.T) {
			if _, err := CropQuadrant(img, region); err == nil {
				t.Errorf("CropQuadrant should fail for invalid region %q", region)
			}
		})
	}
}

func TestCropQuadrant_OddDimensions(t *testing.T) {
	img := createInMemoryImage(101, 101, color.NRGBA{255, 0, 0, 255})

	result, err := CropQuadrant(img, "top-left")
	if err != nil {
		t.Fatalf("CropQuadrant with odd dimensions failed: %v", err)
	}
	// 101/2 = 50 (integer division)
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
}

func TestScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		factor       float64
		wantW, wantH int
	}{
		{2.0, 200, 200},
		{0.5, 50, 50},
		{1.0, 100, 100},
		{0, 100, 100},
		{0.001, 1, 1},
	}
	for _, tt := range tests {
		got := Scale(img, tt.factor)
		if got.Width != tt.wantW || got.Height != tt.wantH {
			t.Errorf("Scale(%v): got %dx%d, want %dx%d", tt.factor, got.Width, got.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestResize(t *testing.T) {
	img := raster.NewFilled(raster.L, 4, 4, color.NRGBA{90, 90, 90, 255})

	for _, filter := range []string{"", "NEAREST", "bilinear", "BICUBIC", "LANCZOS", "BOX", "HAMMING"} {
		out, err := Resize(img, 8, 2, filter)
		if err != nil {
			t.Fatalf("Resize(%q): %v", filter, err)
		}
		if out.Width != 8 || out.Height != 2 || out.Model != raster.L {
			t.Fatalf("Resize(%q): got %dx%d %s, want 8x2 L", filter, out.Width, out.Height, out.Model)
		}
		if out.Pix[0] != 90 {
			t.Errorf("Resize(%q): flat image changed to %d", filter, out.Pix[0])
		}
	}
}

func TestResize_SameSizeCopies(t *testing.T) {
	img := pair(raster.RGB)
	out, err := Resize(img, 2, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if out == img || out.NRGBAAt(1, 0) != pxB {
		t.Error("same-size resize should return an equal copy")
	}
}

func TestResize_Errors(t *testing.T) {
	img := pair(raster.RGB)
	if _, err := Resize(img, 0, 5, ""); !errors.Is(err, raster.ErrInvalidOperation) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := Resize(img, 4, 4, "SINC"); !errors.Is(err, raster.ErrInvalidOperation) {
		t.Errorf("unknown filter: got %v", err)
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		angle      float64
		w, h       int
		first, end color.NRGBA
	}{
		{0, 2, 1, pxA, pxB},
		{90, 1, 2, pxA, pxB},
		{-270, 1, 2, pxA, pxB},
		{180, 2, 1, pxB, pxA},
		{270, 1, 2, pxB, pxA},
		{360, 2, 1, pxA, pxB},
	}
	for _, tt := range tests {
		out := Rotate(pair(raster.RGB), tt.angle)
		if out.Width != tt.w || out.Height != tt.h {
			t.Fatalf("Rotate(%v): got %dx%d, want %dx%d", tt.angle, out.Width, out.Height, tt.w, tt.h)
		}
		if got := out.NRGBAAt(0, 0); got != tt.first {
			t.Errorf("Rotate(%v) first pixel: got %v, want %v", tt.angle, got, tt.first)
		}
		if got := out.NRGBAAt(out.Width-1, out.Height-1); got != tt.end {
			t.Errorf("Rotate(%v) last pixel: got %v, want %v", tt.angle, got, tt.end)
		}
	}
}

func TestRotate_ArbitraryAngle(t *testing.T) {
	img := raster.NewFilled(raster.RGB, 20, 20, color.NRGBA{255, 255, 255, 255})
	out := Rotate(img, 45)
	if out.Model != raster.RGB {
		t.Errorf("model: got %s, want RGB", out.Model)
	}
	if out.Width <= 20 || out.Height <= 20 {
		t.Errorf("canvas should grow, got %dx%d", out.Width, out.Height)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("uncovered corner: got %v, want black", got)
	}
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		method     string
		w, h       int
		first, end color.NRGBA
	}{
		{"FLIP_LEFT_RIGHT", 2, 1, pxB, pxA},
		{"FLIP_TOP_BOTTOM", 2, 1, pxA, pxB},
		{"ROTATE_90", 1, 2, pxA, pxB},
		{"ROTATE_180", 2, 1, pxB, pxA},
		{"ROTATE_270", 1, 2, pxB, pxA},
		{"TRANSPOSE", 1, 2, pxA, pxB},
		{"TRANSVERSE", 1, 2, pxB, pxA},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			out, err := Transpose(pair(raster.RGBA), tt.method)
			if err != nil {
				t.Fatal(err)
			}
			if out.Width != tt.w || out.Height != tt.h || out.Model != raster.RGBA {
				t.Fatalf("got %dx%d %s, want %dx%d RGBA", out.Width, out.Height, out.Model, tt.w, tt.h)
			}
			if got := out.NRGBAAt(0, 0); got != tt.first {
				t.Errorf("first pixel: got %v, want %v", got, tt.first)
			}
			if got := out.NRGBAAt(out.Width-1, out.Height-1); got != tt.end {
				t.Errorf("last pixel: got %v, want %v", got, tt.end)
			}
		})
	}
}

func TestTranspose_KeepsLumaAlpha(t *testing.T) {
	img := raster.NewFilled(raster.LA, 3, 2, color.NRGBA{90, 90, 90, 7})
	out, err := Transpose(img, "FLIP_LEFT_RIGHT")
	if err != nil {
		t.Fatal(err)
	}
	if out.Model != raster.LA || out.Pix[0] != 90 || out.Pix[1] != 7 {
		t.Errorf("got %s %v, want LA [90 7 ...]", out.Model, out.Pix[:2])
	}
}

func TestTranspose_Unknown(t *testing.T) {
	if _, err := Transpose(pair(raster.RGB), "ROTATE_45"); !errors.Is(err, raster.ErrInvalidOperation) {
		t.Errorf("got %v, want ErrInvalidOperation", err)
	}
}
