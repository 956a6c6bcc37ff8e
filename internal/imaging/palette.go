package imaging

import (
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// PaletteResult lists the colours of a palette in index order.
type PaletteResult struct {
	Type    string   `json:"type"`
	Count   int      `json:"count"`
	Colors  []string `json:"colors"`
	SavedTo string   `json:"saved_to,omitempty"`
}

// ExtractPalette builds the WEB or ADAPTIVE palette for r and, when
// outputPath is set, stores it there as a RIFF PAL file.
func ExtractPalette(r *raster.Raster, name string, colors int, outputPath string) (*PaletteResult, error) {
	pal, err := BuildPalette(r, name, colors)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "WEB"
	}

	res := &PaletteResult{
		Type:   name,
		Count:  len(pal),
		Colors: pal.Hex(),
	}
	if outputPath != "" {
		if err := palette.Store(outputPath, pal); err != nil {
			return nil, err
		}
		res.SavedTo = outputPath
	}
	return res, nil
}
