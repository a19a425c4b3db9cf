package terrain

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the coherent-noise backend.
type NoiseKind string

const (
	NoisePerlin  NoiseKind = "perlin"
	NoiseSimplex NoiseKind = "simplex"
	NoiseValue   NoiseKind = "value"
)

// Single-iteration Perlin: octave layering happens in Synthesize, not inside the library.
const (
	perlinAlpha      = 2.0
	perlinBeta       = 2.0
	perlinIterations = 1
)

// ParseNoiseKind accepts "perlin", "simplex", "value" or "" (perlin).
func ParseNoiseKind(s string) (NoiseKind, error) {
	switch NoiseKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", NoisePerlin:
		return NoisePerlin, nil
	case NoiseSimplex:
		return NoiseSimplex, nil
	case NoiseValue:
		return NoiseValue, nil
	}
	return "", fmt.Errorf("terrain: unknown noise kind %q", s)
}

// sampler is a seeded 2D coherent noise function with output in about [-1, 1].
type sampler interface {
	sample(x, y float64) float64
}

type perlinSampler struct {
	p *perlin.Perlin
}

func (s perlinSampler) sample(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

type simplexSampler struct {
	n opensimplex.Noise
}

func (s simplexSampler) sample(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

func newSampler(kind NoiseKind, seed int64) (sampler, error) {
	switch kind {
	case "", NoisePerlin:
		return perlinSampler{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIterations, seed)}, nil
	case NoiseSimplex:
		return simplexSampler{n: opensimplex.New(seed)}, nil
	case NoiseValue:
		return valueSampler{seed: seed}, nil
	}
	return nil, fmt.Errorf("terrain: unknown noise kind %q", kind)
}

// GenerateNoise samples Perlin noise over a width x height grid. Cell (x, y)
// is sampled at (x/width, y/height) scaled by octave, so higher octaves give
// finer variation. Values are left unscaled.
func GenerateNoise(width, height, octave int, seed int64) (HeightField, error) {
	return GenerateNoiseKind(NoisePerlin, width, height, octave, seed)
}

// GenerateNoiseKind is GenerateNoise with an explicit backend.
func GenerateNoiseKind(kind NoiseKind, width, height, octave int, seed int64) (HeightField, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if octave <= 0 {
		return nil, fmt.Errorf("%w: octave %d", ErrInvalidOctaveSpec, octave)
	}
	s, err := newSampler(kind, seed)
	if err != nil {
		return nil, err
	}
	f := newField(width, height)
	fillNoise(f, s, octave)
	return f, nil
}

func fillNoise(f HeightField, s sampler, octave int) {
	w, h := f.Width(), f.Height()
	freq := float64(octave)
	for y := 0; y < h; y++ {
		ny := float64(y) / float64(h) * freq
		row := f[y]
		for x := 0; x < w; x++ {
			row[x] = s.sample(float64(x)/float64(w)*freq, ny)
		}
	}
}
