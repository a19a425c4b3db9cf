package terrain

import "math"

// Deterministic 2D value noise. No external deps; lattice values come from an
// integer hash of the cell corner and the seed.

// valueSampler remaps value noise from [0, 1] to [-1, 1] so it layers the
// same way as the gradient backends.
type valueSampler struct {
	seed int64
}

func (s valueSampler) sample(x, y float64) float64 {
	return valueNoise2D(x, y, s.seed)*2 - 1
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// mix64 is the SplitMix64 finalizer. It is a bijection on uint64.
func mix64(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// hash2 folds the seed, then x, then y through mix64 one at a time, so
// corners never collide through a linear relation between the axes.
func hash2(x, y, seed int64) uint64 {
	v := mix64(uint64(seed))
	v = mix64(v ^ uint64(x))
	return mix64(v ^ uint64(y))
}

func latticeValue(x, y, seed int64) float64 {
	return float64(hash2(x, y, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, y float64, seed int64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	ix, iy := int64(x0), int64(y0)
	fx, fy := fade(x-x0), fade(y-y0)

	top := lerp(latticeValue(ix, iy, seed), latticeValue(ix+1, iy, seed), fx)
	bottom := lerp(latticeValue(ix, iy+1, seed), latticeValue(ix+1, iy+1, seed), fx)
	return lerp(top, bottom, fy)
}
