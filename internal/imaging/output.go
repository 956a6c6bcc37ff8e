package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// ImageResult carries a produced raster back to the caller as base64 PNG.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	SavedTo     string `json:"saved_to,omitempty"`
}

// NewImageResult encodes r as PNG and, when outputPath is set, also saves it
// there in the format implied by the extension.
func NewImageResult(r *raster.Raster, outputPath string) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := raster.Encode(&buf, r, "png"); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	res := &ImageResult{
		Width:       r.Width,
		Height:      r.Height,
		Mode:        r.Model.String(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}

	if outputPath != "" {
		if err := raster.Save(r, outputPath); err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		Logger().Debug("saved image", "path", outputPath)
		res.SavedTo = outputPath
	}
	return res, nil
}
