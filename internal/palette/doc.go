// Package palette builds the colour tables used for indexed-colour reduction.
//
// Two builders are provided. Web returns the fixed 216-colour web-safe cube
// in a reproducible order. Adaptive trains a NeuQuant network on a raster's
// pixels and returns 2 to 256 representative colours; training is sequential
// and deterministic for a given input.
//
// Palette.Index performs the nearest-colour search shared by every
// quantization path. Palettes can be exchanged with other tools as RIFF PAL
// files through Load and Store.
package palette
