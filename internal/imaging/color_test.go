package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// createInMemoryImage creates an in-memory test raster
func createInMemoryImage(width, height int, c color.NRGBA) *raster.Raster {
	return raster.NewFilled(raster.RGBA, width, height, c)
}

// createPatternImage creates a raster with different colors in each quadrant
func createPatternImage(width, height int) *raster.Raster {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return raster.FromImage(img)
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.RGBA.R != 255 || result.RGBA.G != 128 || result.RGBA.B != 64 || result.RGBA.A != 255 {
		t.Errorf("RGBA: got (%d,%d,%d,%d), want (255,128,64,255)",
			result.RGBA.R, result.RGBA.G, result.RGBA.B, result.RGBA.A)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.NRGBA
		wantHex string
		wantHSL HSLColor
	}{
		{"pure red", color.NRGBA{255, 0, 0, 255}, "#FF0000", HSLColor{0, 100, 50}},
		{"pure green", color.NRGBA{0, 255, 0, 255}, "#00FF00", HSLColor{120, 100, 50}},
		{"pure blue", color.NRGBA{0, 0, 255, 255}, "#0000FF", HSLColor{240, 100, 50}},
		{"white", color.NRGBA{255, 255, 255, 255}, "#FFFFFF", HSLColor{0, 0, 100}},
		{"black", color.NRGBA{0, 0, 0, 255}, "#000000", HSLColor{0, 0, 0}},
		{"gray", color.NRGBA{128, 128, 128, 255}, "#808080", HSLColor{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(10, 10, tt.color)
			result, err := SampleColor(img, 5, 5)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}

			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if result.HSL != tt.wantHSL {
				t.Errorf("HSL: got %+v, want %+v", result.HSL, tt.wantHSL)
			}
		})
	}
}

func TestSampleColor_LumaRaster(t *testing.T) {
	img := raster.NewFilled(raster.L, 3, 3, color.NRGBA{90, 90, 90, 255})
	result, err := SampleColor(img, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.RGBA != (RGBAColor{90, 90, 90, 255}) {
		t.Errorf("RGBA: got %+v, want {90 90 90 255}", result.RGBA)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestSampleColor_EdgeCoordinates(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	for _, p := range [][2]int{{0, 0}, {99, 0}, {0, 99}, {99, 99}} {
		if _, err := SampleColor(img, p[0], p[1]); err != nil {
			t.Errorf("SampleColor failed for valid edge coordinate (%d,%d): %v", p[0], p[1], err)
		}
	}
}

func TestSampleColorsMulti(t *testing.T) {
	img := createPatternImage(100, 100)

	points := []LabeledPoint{
		{X: 25, Y: 25, Label: "red"},
		{X: 75, Y: 25, Label: "green"},
		{X: 25, Y: 75, Label: "blue"},
		{X: 75, Y: 75, Label: "white"},
	}

	result, err := SampleColorsMulti(img, points)
	if err != nil {
		t.Fatalf("SampleColorsMulti failed: %v", err)
	}
	if len(result.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(result.Samples))
	}

	expectedHex := []string{"#FF0000", "#00FF00", "#0000FF", "#FFFFFF"}
	for i, sample := range result.Samples {
		if sample.Label != points[i].Label {
			t.Errorf("sample %d label: got %s, want %s", i, sample.Label, points[i].Label)
		}
		if sample.Color.Hex != expectedHex[i] {
			t.Errorf("sample %d (%s) hex: got %s, want %s",
				i, sample.Label, sample.Color.Hex, expectedHex[i])
		}
	}
}

func TestSampleColorsMulti_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 0, 0, 255})

	points := []LabeledPoint{
		{X: 50, Y: 50, Label: "valid"},
		{X: 200, Y: 50, Label: "invalid"},
	}

	_, err := SampleColorsMulti(img, points)
	if err == nil {
		t.Error("SampleColorsMulti should fail when any point is out of bounds")
	}
}

func TestDominantColors(t *testing.T) {
	// 80% red, 20% green
	img := raster.NewFilled(raster.RGB, 100, 100, color.NRGBA{255, 0, 0, 255})
	for y := 0; y < 100; y++ {
		for x := 80; x < 100; x++ {
			copy(img.Pix[img.Offset(x, y):], []uint8{0, 255, 0})
		}
	}

	result, err := DominantColors(img, 5, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) == 0 {
		t.Fatal("expected at least one color")
	}
	if result.Colors[0].Percentage < 79.9 {
		t.Errorf("dominant color percentage too low: %f", result.Colors[0].Percentage)
	}

	var total float64
	for i, c := range result.Colors {
		total += c.Percentage
		if i > 0 && c.Percentage > result.Colors[i-1].Percentage {
			t.Errorf("colors not sorted by frequency at %d", i)
		}
	}
	if total < 99.99 || total > 100.01 {
		t.Errorf("percentages sum to %f, want 100", total)
	}
}

func TestDominantColors_WithRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	// Top-left quadrant is solid red
	result, err := DominantColors(img, 5, &Region{X1: 0, Y1: 0, X2: 50, Y2: 50})
	if err != nil {
		t.Fatalf("DominantColors with region failed: %v", err)
	}
	if len(result.Colors) != 1 || result.Colors[0].Percentage != 100 {
		t.Errorf("expected a single color at 100%%, got %+v", result.Colors)
	}
}

func TestDominantColors_InvalidRegion(t *testing.T) {
	img := createPatternImage(10, 10)
	_, err := DominantColors(img, 5, &Region{X1: 5, Y1: 5, X2: 20, Y2: 20})
	if !errors.Is(err, raster.ErrInvalidOperation) {
		t.Errorf("got %v, want ErrInvalidOperation", err)
	}
}

func TestDominantColors_SingleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{128, 128, 128, 255})

	result, err := DominantColors(img, 3, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) != 1 {
		t.Fatalf("expected 1 color for uniform image, got %d", len(result.Colors))
	}
	if result.Colors[0].Percentage != 100 {
		t.Errorf("expected 100%% for single color, got %f%%", result.Colors[0].Percentage)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want color.NRGBA
	}{
		{"hex6", "#ff8040", color.NRGBA{255, 128, 64, 255}},
		{"hex6 upper", "#FF8040", color.NRGBA{255, 128, 64, 255}},
		{"hex3", "#f80", color.NRGBA{255, 136, 0, 255}},
		{"hex8", "#0a141e80", color.NRGBA{10, 20, 30, 128}},
		{"gray level", float64(77), color.NRGBA{77, 77, 77, 255}},
		{"int gray", 200, color.NRGBA{200, 200, 200, 255}},
		{"rgb array", []any{float64(10), float64(20), float64(30)}, color.NRGBA{10, 20, 30, 255}},
		{"rgba array", []any{float64(10), float64(20), float64(30), float64(0)}, color.NRGBA{10, 20, 30, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []any{
		"red",
		"#12345",
		"#0a141ezz",
		float64(256),
		float64(-1),
		1.5,
		[]any{float64(1), float64(2)},
		[]any{float64(1), "2", float64(3)},
		[]any{float64(1), float64(2), float64(300)},
		nil,
		true,
	} {
		if _, err := ParseColor(in); !errors.Is(err, raster.ErrInvalidOperation) {
			t.Errorf("ParseColor(%v): got %v, want ErrInvalidOperation", in, err)
		}
	}
}
