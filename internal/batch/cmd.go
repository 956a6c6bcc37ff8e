// Package batch converts every image in a folder with the same settings.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-reduce-mcp/internal/imaging"
	"github.com/ironsheep/image-reduce-mcp/internal/matrix"
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/parallel"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// ConvertCmd is the "convert" command.
type ConvertCmd struct {
	Scan          string    `help:"Source folder to scan" default:"."`
	Dest          string    `help:"Destination folder. Relative to the scan folder if not absolute" default:"reduced"`
	Mode          string    `help:"Target mode" enum:"L,LA,RGB,RGBA,1,P" default:"P"`
	Palette       string    `help:"Palette type for mode P" enum:"WEB,ADAPTIVE" default:"WEB" group:"palette"`
	Colors        int       `help:"Adaptive palette size (2-256)" default:"256" group:"palette"`
	Dither        string    `help:"Dithering for modes 1 and P" enum:"NONE,FLOYDSTEINBERG" default:"FLOYDSTEINBERG"`
	Matrix        []float64 `help:"Color matrix with 4 or 12 comma-separated values. Requires mode RGB" sep:","`
	PaletteFile   string    `help:"RIFF PAL file to quantize against instead of building a palette" group:"palette"`
	ExportPalette bool      `help:"Write the palette used for each image next to it as a RIFF PAL file" group:"palette"`
	Format        string    `help:"Output format. 'same' keeps the source format where it can be written" enum:"same,png,jpeg,gif,bmp,tiff" default:"png"`

	custom palette.Palette `kong:"-"`
}

// Validate normalises the folders and checks the conversion options before
// any file is touched.
func (c *ConvertCmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if len(c.Matrix) > 0 {
		if err := matrix.Matrix(c.Matrix).Validate(); err != nil {
			return err
		}
		if c.Mode != "RGB" {
			return fmt.Errorf("matrix conversion requires mode RGB, got %q", c.Mode)
		}
	}

	if _, err := imaging.ParseDither(c.Dither); err != nil {
		return err
	}

	if c.PaletteFile != "" {
		if c.Mode != imaging.ModePalette {
			return fmt.Errorf("palette file requires mode P, got %q", c.Mode)
		}
		if c.custom, err = palette.Load(c.PaletteFile); err != nil {
			return err
		}
	}
	if c.ExportPalette && c.Mode != imaging.ModePalette {
		return fmt.Errorf("palette export requires mode P, got %q", c.Mode)
	}

	return nil
}

// Run converts every regular file in the scan folder on pool. Files that
// fail are logged and counted; the run fails if any did.
func (c *ConvertCmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if !file.Type().IsRegular() {
			continue
		}

		pool.Submit(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, file.Name()))
			if err := c.convertFile(logger, file.Name()); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *ConvertCmd) convertFile(logger *slog.Logger, fileName string) error {
	src, srcFormat, err := raster.Open(filepath.Join(c.Scan, fileName))
	if err != nil {
		return err
	}

	opts := imaging.Options{
		Dither:  c.Dither,
		Palette: c.Palette,
		Colors:  &c.Colors,
		Custom:  c.custom,
	}
	if len(c.Matrix) > 0 {
		opts.Matrix = c.Matrix
	}
	if c.ExportPalette && opts.Custom == nil {
		if opts.Custom, err = imaging.BuildPalette(src, c.Palette, c.Colors); err != nil {
			return err
		}
	}

	out, err := imaging.Convert(src, c.Mode, opts)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	format := outputFormat(c.Format, srcFormat)
	if err := save(out, format, c.Dest, base+"."+format); err != nil {
		return err
	}

	if c.ExportPalette {
		palPath := filepath.Join(c.Dest, base+".pal")
		if err := palette.Store(palPath, opts.Custom); err != nil {
			return err
		}
		logger.Debug("exported palette", "path", palPath, "colors", len(opts.Custom))
	}

	logger.Info("converted", "mode", c.Mode, "format", format)
	return nil
}

// outputFormat resolves "same" against the source format, falling back to
// PNG for formats that can only be read.
func outputFormat(requested, source string) string {
	if requested != "same" {
		return requested
	}
	switch source {
	case "png", "jpeg", "gif", "bmp", "tiff":
		return source
	}
	return "png"
}

// save encodes r into a temporary file in destDir and renames it to destName
// once complete.
func save(r *raster.Raster, format, destDir, destName string) (err error) {
	outFile, err := os.CreateTemp(destDir, destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			os.Remove(outFile.Name())
		}
	}()

	if err = raster.Encode(outFile, r, format); err != nil {
		return fmt.Errorf("could not encode %s destination %q: %w", strings.ToUpper(format), destName, err)
	}

	canRename = true
	return nil
}
