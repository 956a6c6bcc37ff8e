package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-reduce-mcp/internal/batch"
	"github.com/ironsheep/image-reduce-mcp/internal/imaging"
	"github.com/ironsheep/image-reduce-mcp/internal/parallel"
)

var cli struct {
	Workers int  `help:"Number of files converted at once. 0 uses every CPU" default:"0"`
	Debug   bool `help:"Log every step, including palette learning"`

	Convert batch.ConvertCmd `cmd:"" help:"Convert every image in a folder"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("image-reduce"),
		kong.Description("Reduce the colors of a folder of images."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	imaging.SetLogger(logger)

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(pool); err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}
