package terrain

import (
	"errors"
	"math"
	"testing"
)

func TestNewHeightField(t *testing.T) {
	f, err := NewHeightField(3, 2)
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	f[0][2] = 7
	if f.At(2, 0) != 7 || f.At(0, 1) != 0 {
		t.Errorf("At(2, 0) = %v, At(0, 1) = %v; want 7, 0", f.At(2, 0), f.At(0, 1))
	}
	// rows must not alias each other through the shared backing slice
	f[0] = append(f[0], 1)
	if f[1][0] != 0 {
		t.Errorf("append on row 0 overwrote row 1: %v", f[1][0])
	}
	if _, err := NewHeightField(0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("got %v, want ErrInvalidDimensions", err)
	}
}

func TestHeightFieldValidate(t *testing.T) {
	if err := (HeightField{{1, 2}, {3}}).Validate(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("ragged: got %v, want ErrInvalidDimensions", err)
	}
	if err := (HeightField{}).Validate(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("empty: got %v, want ErrInvalidDimensions", err)
	}
	if err := (HeightField{{1, math.NaN()}}).Validate(); err == nil {
		t.Errorf("NaN: expected error")
	}
	if err := (HeightField{{1, 2}, {3, 4}}).Validate(); err != nil {
		t.Errorf("valid field: %v", err)
	}
}

func TestHeightFieldRange(t *testing.T) {
	lo, hi := HeightField{{1, -2}, {5, 0}}.Range()
	if lo != -2 || hi != 5 {
		t.Errorf("Range = %v, %v; want -2, 5", lo, hi)
	}
}

func TestHeightFieldClone(t *testing.T) {
	f := HeightField{{1, 2}, {3, 4}}
	c := f.Clone()
	c[1][1] = 9
	if f[1][1] != 4 {
		t.Errorf("Clone shares storage with the source")
	}
}

func TestSample(t *testing.T) {
	f := HeightField{
		{0, 10},
		{20, 30},
	}
	cases := []struct {
		x, y, want float64
	}{
		{0, 0, 0},
		{1, 0, 10},
		{0, 1, 20},
		{1, 1, 30},
		{0.5, 0, 5},
		{0.5, 0.5, 15},
		{-4, -4, 0},
		{9, 9, 30},
	}
	for _, c := range cases {
		if got := Sample(f, c.x, c.y); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Sample(%v,%v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
	if got := Sample(HeightField{{4}}, 0.3, 0.7); got != 4 {
		t.Errorf("1x1 Sample = %v, want 4", got)
	}
}
