package imaging

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// ImageCache keeps lazily decoded images keyed by their file path.
//
// Source returns the same *raster.Source for repeated calls with the same
// path, so the file is read and decoded at most once. Decoding happens on the
// first Load, not when the source is created.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Decoded rasters stay in memory until removed with Evict or Clear.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	r, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png") // Optional: free memory
type ImageCache struct {
	mu      sync.RWMutex
	sources map[string]*raster.Source
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		sources: make(map[string]*raster.Source),
	}
}

// Source returns the cached source for path, creating an undecoded one if
// needed. Different spellings of the same file are cached separately.
func (c *ImageCache) Source(path string) *raster.Source {
	c.mu.RLock()
	src, ok := c.sources[path]
	c.mu.RUnlock()
	if ok {
		return src
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if src, ok := c.sources[path]; ok {
		return src
	}
	src = raster.FromPath(path)
	c.sources[path] = src
	return src
}

// Load returns the decoded raster for path, decoding it on first use.
//
// The returned raster is shared with later callers and must not be modified;
// Clone it first.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the content is not a PNG, JPEG, GIF, BMP, TIFF or WebP image
func (c *ImageCache) Load(path string) (*raster.Raster, error) {
	src := c.Source(path)
	if !src.Loaded() {
		Logger().Debug("decoding image", "path", path)
	}
	return src.Materialize()
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.sources = make(map[string]*raster.Source)
	c.mu.Unlock()
}

// Evict removes a single path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.sources, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Mode is the colour model the image decoded to: "L", "RGB" or "RGBA".
	Mode string `json:"mode"`

	// Format is the format detected from the file content, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Description is the one-line summary produced by Describe.
	Description string `json:"description"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
// The format is detected from the content, not the file extension.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	src := cache.Source(path)
	r, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         r.Width,
		Height:        r.Height,
		Mode:          r.Model.String(),
		Format:        src.Format(),
		HasAlpha:      r.Model.HasAlpha(),
		FileSizeBytes: stat.Size(),
		Description:   Describe(src),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	r, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: r.Width, Height: r.Height}, nil
}
