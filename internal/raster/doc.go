// Package raster holds the in-memory pixel grid shared by every colour
// reduction stage.
//
// A Raster is a width, a height, a ColorModel (L, LA, RGB or RGBA) and a
// tightly packed 8-bit pixel buffer. Conversions never mutate their input;
// they allocate a new Raster. The compositor in package composite is the one
// place that writes into a caller-supplied destination.
//
// # Codec
//
// Decode, Open, Encode and Save delegate to github.com/disintegration/imaging
// and the registered standard library and golang.org/x/image decoders. Errors
// from those libraries are returned wrapped but unchanged.
//
// # Lazy loading
//
// Source wraps a file path or byte buffer and decodes it on first access.
//
// # Errors
//
// All validation failures wrap ErrInvalidOperation.
package raster
