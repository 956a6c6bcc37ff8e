package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional path to also save the result to. The format follows the extension (.png, .jpg, .gif, .bmp, .tiff)",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func colorProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description + ". Hex string (#rgb, #rrggbb, #rrggbbaa), integer gray level, or [r, g, b] / [r, g, b, a] array",
		"oneOf": []map[string]interface{}{
			{"type": "string"},
			{"type": "integer", "minimum": 0, "maximum": 255},
			{"type": "array", "items": map[string]interface{}{"type": "integer"}, "minItems": 3, "maxItems": 4},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, color mode and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_new",
			Description: "Create a blank image of the given mode and size filled with one color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Color mode of the new image",
						"enum":        []string{"L", "LA", "RGB", "RGBA"},
					},
					"width":       intProperty("Width in pixels"),
					"height":      intProperty("Height in pixels"),
					"color":       colorProperty("Fill color. Default is black, transparent for RGBA"),
					"output_path": outputPathProperty(),
				},
				"required": []string{"mode", "width", "height"},
			},
		},

		// Color Reduction
		{
			Name:        "image_convert",
			Description: "Convert an image to another color mode. Supports grayscale (L, LA), RGB, RGBA, bilevel (1) and palette quantization (P) with optional Floyd-Steinberg dithering, plus 4- or 12-value color matrices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Target mode",
						"enum":        []string{"L", "LA", "RGB", "RGBA", "1", "P"},
					},
					"matrix": map[string]interface{}{
						"type":        "array",
						"description": "Optional color matrix. 4 values scale the luma per output channel, 12 values form an affine RGB transform (row-major, 4 per channel). Only valid with mode RGB",
						"items":       map[string]interface{}{"type": "number"},
					},
					"dither": map[string]interface{}{
						"type":        "string",
						"description": "Dithering for modes 1 and P. Default FLOYDSTEINBERG",
						"enum":        []string{"NONE", "FLOYDSTEINBERG"},
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Palette for mode P. Default WEB",
						"enum":        []string{"WEB", "ADAPTIVE"},
					},
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Palette size for ADAPTIVE, clamped to 2-256. Default 256",
						"default":     256,
					},
					"palette_file": map[string]interface{}{
						"type":        "string",
						"description": "Optional RIFF PAL file to quantize against instead of a built palette",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "mode"},
			},
		},
		{
			Name:        "image_palette",
			Description: "Build the web-safe or an adaptive palette for an image and return its colors as hex strings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Palette type. Default WEB",
						"enum":        []string{"WEB", "ADAPTIVE"},
					},
					"colors": map[string]interface{}{
						"type":        "integer",
						"description": "Palette size for ADAPTIVE, clamped to 2-256. Default 256",
						"default":     256,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the palette as a RIFF PAL file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Compositing
		{
			Name:        "image_paste",
			Description: "Paste one image onto another at an offset, optionally through a grayscale mask. The destination file is not modified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"source_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image to paste",
					},
					"x": intProperty("X offset of the pasted image's left edge (may be negative)"),
					"y": intProperty("Y offset of the pasted image's top edge (may be negative)"),
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask image. 0 keeps the destination, 255 takes the source, values between blend",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "source_path", "x", "y"},
			},
		},
		{
			Name:        "image_fill",
			Description: "Fill a rectangle of an image with one color. The rectangle is clipped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"x":           intProperty("Left edge X coordinate"),
					"y":           intProperty("Top edge Y coordinate"),
					"width":       intProperty("Rectangle width"),
					"height":      intProperty("Rectangle height"),
					"color":       colorProperty("Fill color"),
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "x", "y", "width", "height", "color"},
			},
		},

		// Geometry
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1":   intProperty("Left edge X coordinate (0-based)"),
					"y1":   intProperty("Top edge Y coordinate (0-based)"),
					"x2":   intProperty("Right edge X coordinate (exclusive)"),
					"y2":   intProperty("Bottom edge Y coordinate (exclusive)"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of an image (quadrants, halves or center).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region to extract",
						"enum": []string{
							"top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "image_resize",
			Description: "Resize an image to an exact width and height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"width":  intProperty("Target width in pixels"),
					"height": intProperty("Target height in pixels"),
					"resample": map[string]interface{}{
						"type":        "string",
						"description": "Resampling filter. Default BICUBIC",
						"enum":        []string{"NEAREST", "BOX", "BILINEAR", "HAMMING", "BICUBIC", "LANCZOS"},
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "width", "height"},
			},
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise by a number of degrees. Multiples of 90 are lossless; other angles expand the canvas and fill the corners with transparency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise rotation in degrees",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "angle"},
			},
		},
		{
			Name:        "image_transpose",
			Description: "Flip or rotate an image by one of the fixed transpose methods.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type": "string",
						"enum": []string{
							"FLIP_LEFT_RIGHT", "FLIP_TOP_BOTTOM", "ROTATE_90", "ROTATE_180",
							"ROTATE_270", "TRANSPOSE", "TRANSVERSE",
						},
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "method"},
			},
		},

		// Color Sampling
		{
			Name:        "image_sample_color",
			Description: "Get the exact color at a specific pixel coordinate. Returns hex, RGB, RGBA and HSL values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x":    intProperty("X coordinate"),
					"y":    intProperty("Y coordinate"),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors at multiple points in one call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points to sample",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Find the most common colors in an image or region, using an adaptive palette. Returns colors with their pixel share.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region to analyze",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *Request) *Response {
	return s.result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
