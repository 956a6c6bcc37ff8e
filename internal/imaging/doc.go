// Package imaging is the caller-facing layer of the color reduction pipeline.
//
// It ties the pixel packages together behind string-keyed options, the way
// the MCP tools and the batch command receive them: Convert dispatches a
// mode name ("L", "LA", "RGB", "RGBA", "1", "P") and optional color matrix
// to the converter, bilevel reducer, palette quantizer or matrix transform.
// Around it sit image loading through a path-keyed ImageCache of lazy
// sources, raster construction (New), compositing (Paste, Fill), geometric
// delegations (Crop, Resize, Rotate, Transpose), color sampling and parsing,
// and PNG result encoding.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Rasters returned by the
// cache are shared; every operation here returns a new raster and leaves its
// inputs untouched, so cached rasters may be passed freely.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Invalid arguments (unknown mode, palette or dither names, bad matrix
// length, out-of-range regions) return errors wrapping
// raster.ErrInvalidOperation. Decoding and file errors are wrapped with
// context and passed through.
//
// # Logging
//
// The package is silent by default. SetLogger installs a *slog.Logger that
// receives debug records for conversions, palette learning and saved files.
package imaging
