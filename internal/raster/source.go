package raster

import (
	"fmt"
	"sync"
)

type sourceKind int

const (
	sourcePath sourceKind = iota
	sourceBytes
	sourceDecoded
)

// Source defers decoding until the first pixel access.
//
// A Source starts in one of three states (a file path, an encoded byte
// buffer, or an already decoded raster) and collapses to the decoded state
// the first time Materialize succeeds. A failed decode leaves the source in
// its original state so the error is reported again on the next access.
//
// Source is safe for concurrent use.
type Source struct {
	mu     sync.Mutex
	kind   sourceKind
	path   string
	data   []byte
	raster *Raster
	format string
}

// FromPath returns a source that decodes the file at path on first access.
func FromPath(path string) *Source {
	return &Source{kind: sourcePath, path: path}
}

// FromBytes returns a source that decodes data on first access.
func FromBytes(data []byte) *Source {
	return &Source{kind: sourceBytes, data: data}
}

// FromRaster wraps an already decoded raster. format may be empty.
func FromRaster(r *Raster, format string) *Source {
	return &Source{kind: sourceDecoded, raster: r, format: format}
}

// Materialize decodes the source if needed and returns the resolved raster.
// The returned raster is shared; callers that mutate it must Clone first.
func (s *Source) Materialize() (*Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		r      *Raster
		format string
		err    error
	)
	switch s.kind {
	case sourceDecoded:
		return s.raster, nil
	case sourcePath:
		r, format, err = Open(s.path)
	case sourceBytes:
		r, format, err = Decode(s.data)
	default:
		return nil, fmt.Errorf("unknown source state %d", s.kind)
	}
	if err != nil {
		return nil, err
	}

	s.kind, s.raster, s.format, s.data = sourceDecoded, r, format, nil
	return r, nil
}

// Loaded reports whether the source has been decoded.
func (s *Source) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind == sourceDecoded
}

// Format returns the detected format name, or "" before decoding or when the
// raster was constructed in memory.
func (s *Source) Format() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Path returns the file path the source was created from, if any.
func (s *Source) Path() string {
	return s.path
}
