package terrain

import "math"

// Sample returns the bilinearly interpolated elevation at continuous grid
// coordinates (x along columns, y along rows). Coordinates outside the field
// are clamped to its edge.
func Sample(f HeightField, x, y float64) float64 {
	w, h := f.Width(), f.Height()
	if w == 0 || h == 0 {
		return 0
	}
	x = clamp(x, 0, float64(w-1))
	y = clamp(y, 0, float64(h-1))

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	tx := x - float64(x0)
	ty := y - float64(y0)

	top := lerp(f.At(x0, y0), f.At(x1, y0), tx)
	bottom := lerp(f.At(x0, y1), f.At(x1, y1), tx)
	return lerp(top, bottom, ty)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
