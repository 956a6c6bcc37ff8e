package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decode detects the format of data from its content and decodes it.
// EXIF orientation is applied for JPEG input. The detected format name
// ("png", "jpeg", "gif", "bmp", "tiff", "webp") is returned alongside.
func Decode(data []byte) (*Raster, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to detect image format: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// Open reads and decodes the file at path.
func Open(path string) (*Raster, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(data)
}

// Encode writes r to w in the named format ("png", "jpg", "jpeg", "gif",
// "tif", "tiff", "bmp"). Errors from the encoder are returned unchanged.
func Encode(w io.Writer, r *Raster, format string) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return err
	}
	return imaging.Encode(w, r.Image(), f, imaging.JPEGQuality(95))
}

// Save encodes r into the file at path, picking the format from its extension.
func Save(r *Raster, path string) error {
	return imaging.Save(r.Image(), path, imaging.JPEGQuality(95))
}
