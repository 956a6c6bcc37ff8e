// Package server implements the MCP (Model Context Protocol) server for the
// color reduction tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the conversion,
// quantization, compositing and geometry operations of package imaging
// through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Serve runs the same loop over any reader and writer. A line that is not
// JSON gets a -32700 reply with a null id; notifications get no reply.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_new: Create a blank image filled with one color
//
// Color Reduction:
//   - image_convert: Convert between L, LA, RGB, RGBA, bilevel (1) and palette (P) modes, or apply a color matrix
//   - image_palette: Build a web or adaptive palette, optionally saved as RIFF PAL
//
// Compositing:
//   - image_paste: Paste an image through an optional mask
//   - image_fill: Fill a rectangle with one color
//
// Geometry:
//   - image_crop, image_crop_quadrant: Extract a region
//   - image_resize: Resize with a named resampling filter
//   - image_rotate: Rotate clockwise by any angle
//   - image_transpose: Flip or rotate by a fixed method
//
// Color Sampling:
//   - image_sample_color, image_sample_colors_multi: Read pixel colors
//   - image_dominant_colors: Most common colors by adaptive palette
//
// Tools that produce an image return it as base64-encoded PNG and, when
// output_path is given, also write it to disk. Source files are never
// modified.
//
// # Image Caching
//
// Images are cached by path as lazy sources: a file is decoded on first use
// and the decoded raster is reused by later tool calls. Writing a result to
// a path drops that path from the cache. The cache otherwise persists for
// the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call
//     params) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := server.New().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
package server
