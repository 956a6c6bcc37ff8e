package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is wrapped by every validation failure: bad enum
// values, bad matrix shapes, zero-area regions and unsupported mode
// combinations. Test for it with errors.Is.
var ErrInvalidOperation = errors.New("invalid operation")

// InvalidOperation builds an error wrapping ErrInvalidOperation with a
// formatted description.
func InvalidOperation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}
