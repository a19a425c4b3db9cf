package terrain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when a requested grid has a non-positive width or height.
	ErrInvalidDimensions = errors.New("terrain: invalid dimensions")
	// ErrInvalidOctaveSpec is returned for an empty octave list or a non-positive octave.
	ErrInvalidOctaveSpec = errors.New("terrain: invalid octave spec")
)

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}
