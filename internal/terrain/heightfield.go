package terrain

import (
	"fmt"
	"math"
)

// HeightField is a 2D grid of elevations indexed [row][col].
// Row maps to world Y and column to world X.
type HeightField [][]float64

// NewHeightField allocates a zeroed width x height field backed by one slice.
func NewHeightField(width, height int) (HeightField, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return newField(width, height), nil
}

func newField(width, height int) HeightField {
	backing := make([]float64, width*height)
	f := make(HeightField, height)
	for y := 0; y < height; y++ {
		f[y] = backing[y*width : (y+1)*width : (y+1)*width]
	}
	return f
}

// Width returns the number of columns.
func (f HeightField) Width() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// Height returns the number of rows.
func (f HeightField) Height() int {
	return len(f)
}

// At returns the elevation at column x, row y.
func (f HeightField) At(x, y int) float64 {
	return f[y][x]
}

// Range returns the minimum and maximum elevation. An empty field reports 0, 0.
func (f HeightField) Range() (lo, hi float64) {
	if f.Width() == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range f {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Validate checks that the field is non-empty, rectangular and finite.
func (f HeightField) Validate() error {
	w := f.Width()
	if err := checkDimensions(w, f.Height()); err != nil {
		return err
	}
	for y, row := range f {
		if len(row) != w {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, y, len(row), w)
		}
		for x, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("terrain: non-finite elevation %v at (%d,%d)", v, x, y)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (f HeightField) Clone() HeightField {
	out := newField(f.Width(), f.Height())
	for y := range f {
		copy(out[y], f[y])
	}
	return out
}
