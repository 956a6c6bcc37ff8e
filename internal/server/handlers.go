package server

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/ironsheep/image-reduce-mcp/internal/imaging"
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one tool and wraps its JSON result as MCP text
// content:
//
//	{"content": [{"type": "text", "text": "<JSON result>"}]}
//
// A failing tool yields a -32000 error whose data is the tool's message.
func (s *Server) handleToolsCall(req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger().Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return s.result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_new":
		return s.handleImageNew(args)

	// Color Reduction
	case "image_convert":
		return s.handleImageConvert(args)
	case "image_palette":
		return s.handleImagePalette(args)

	// Compositing
	case "image_paste":
		return s.handleImagePaste(args)
	case "image_fill":
		return s.handleImageFill(args)

	// Geometry
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)
	case "image_resize":
		return s.handleImageResize(args)
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_transpose":
		return s.handleImageTranspose(args)

	// Color Sampling
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageResult encodes r for the response. Saving over a path invalidates
// its cache entry.
func (s *Server) imageResult(r *raster.Raster, outputPath string) (interface{}, error) {
	res, err := imaging.NewImageResult(r, outputPath)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		s.cache.Evict(outputPath)
	}
	return res, nil
}

// decodeColor parses an optional color argument. A missing argument yields nil.
func decodeColor(raw json.RawMessage) (*color.NRGBA, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	c, err := imaging.ParseColor(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageNewArgs struct {
	Mode       string          `json:"mode"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Color      json.RawMessage `json:"color,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`
}

func (s *Server) handleImageNew(args json.RawMessage) (interface{}, error) {
	var a imageNewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := decodeColor(a.Color)
	if err != nil {
		return nil, err
	}
	img, err := imaging.New(a.Mode, a.Width, a.Height, c)
	if err != nil {
		return nil, err
	}
	return s.imageResult(img, a.OutputPath)
}

// === Color Reduction Handlers ===

type imageConvertArgs struct {
	Path        string    `json:"path"`
	Mode        string    `json:"mode"`
	Matrix      []float64 `json:"matrix,omitempty"`
	Dither      string    `json:"dither,omitempty"`
	Palette     string    `json:"palette,omitempty"`
	Colors      *int      `json:"colors,omitempty"`
	PaletteFile string    `json:"palette_file,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.Options{
		Matrix:  a.Matrix,
		Dither:  a.Dither,
		Palette: a.Palette,
		Colors:  a.Colors,
	}
	if a.PaletteFile != "" {
		if opts.Custom, err = palette.Load(a.PaletteFile); err != nil {
			return nil, err
		}
	}

	out, err := imaging.Convert(img, a.Mode, opts)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.OutputPath)
}

type imagePaletteArgs struct {
	Path       string `json:"path"`
	Palette    string `json:"palette,omitempty"`
	Colors     *int   `json:"colors,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ExtractPalette(img, a.Palette, imaging.ColorCount(a.Colors), a.OutputPath)
}

// === Compositing Handlers ===

type imagePasteArgs struct {
	Path       string `json:"path"`
	SourcePath string `json:"source_path"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	MaskPath   string `json:"mask_path,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImagePaste(args json.RawMessage) (interface{}, error) {
	var a imagePasteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dst, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.SourcePath)
	if err != nil {
		return nil, err
	}

	var mask *raster.Raster
	if a.MaskPath != "" {
		if mask, err = s.cache.Load(a.MaskPath); err != nil {
			return nil, err
		}
	}
	return s.imageResult(imaging.Paste(dst, src, a.X, a.Y, mask), a.OutputPath)
}

type imageFillArgs struct {
	Path       string          `json:"path"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Color      json.RawMessage `json:"color"`
	OutputPath string          `json:"output_path,omitempty"`
}

func (s *Server) handleImageFill(args json.RawMessage) (interface{}, error) {
	var a imageFillArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := decodeColor(a.Color)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("color is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := imaging.Fill(img, a.X, a.Y, a.Width, a.Height, *c)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.OutputPath)
}

// === Geometry Handlers ===

type imageCropArgs struct {
	Path       string  `json:"path"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path,omitempty"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}
	return s.imageResult(imaging.Scale(out, a.Scale), a.OutputPath)
}

type imageCropQuadrantArgs struct {
	Path       string  `json:"path"`
	Region     string  `json:"region"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path,omitempty"`
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.CropQuadrant(img, a.Region)
	if err != nil {
		return nil, err
	}
	return s.imageResult(imaging.Scale(out, a.Scale), a.OutputPath)
}

type imageResizeArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Resample   string `json:"resample,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Resize(img, a.Width, a.Height, a.Resample)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.OutputPath)
}

type imageRotateArgs struct {
	Path       string  `json:"path"`
	Angle      float64 `json:"angle"`
	OutputPath string  `json:"output_path,omitempty"`
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.imageResult(imaging.Rotate(img, a.Angle), a.OutputPath)
}

type imageTransposeArgs struct {
	Path       string `json:"path"`
	Method     string `json:"method"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleImageTranspose(args json.RawMessage) (interface{}, error) {
	var a imageTransposeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Transpose(img, a.Method)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.OutputPath)
}

// === Color Sampling Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type imageDominantColorsArgs struct {
	Path   string `json:"path"`
	Count  int    `json:"count"`
	Region *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img, a.Count, region)
}
