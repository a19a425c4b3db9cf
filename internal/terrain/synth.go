package terrain

import "fmt"

// Octave pairs a noise frequency with the weight of its layer.
type Octave struct {
	Octave    int     `yaml:"octave" json:"octave"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
}

// OctaveSpec is the ordered list of layers summed into a terrain.
type OctaveSpec []Octave

// Validate rejects an empty spec and non-positive octaves.
func (s OctaveSpec) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no octaves", ErrInvalidOctaveSpec)
	}
	for i, o := range s {
		if o.Octave <= 0 {
			return fmt.Errorf("%w: layer %d has octave %d", ErrInvalidOctaveSpec, i, o.Octave)
		}
	}
	return nil
}

// Low octaves shape hills and plains, high octaves add surface roughness.
var (
	variationOctaves  = [...]int{3, 6}
	ruggednessOctaves = [...]int{12, 24}
)

// DefaultOctaves returns the four-layer spec used by GenerateTerrain:
// octaves 3 and 6 weighted by heightVariation, 12 and 24 by ruggedness.
func DefaultOctaves(heightVariation, ruggedness float64) OctaveSpec {
	spec := make(OctaveSpec, 0, len(variationOctaves)+len(ruggednessOctaves))
	for _, o := range variationOctaves {
		spec = append(spec, Octave{Octave: o, Amplitude: heightVariation})
	}
	for _, o := range ruggednessOctaves {
		spec = append(spec, Octave{Octave: o, Amplitude: ruggedness})
	}
	return spec
}

// GenerateTerrain builds a heightmap from four Perlin layers sharing one seed.
// Identical arguments always produce a bit-identical field.
func GenerateTerrain(width, height int, heightVariation, ruggedness float64, seed int64) (HeightField, error) {
	return Synthesize(width, height, DefaultOctaves(heightVariation, ruggedness), seed, NoisePerlin)
}

// Synthesize sums one noise field per layer, each scaled by its amplitude:
// out[y][x] = sum_k noise_k[y][x] * amplitude_k, accumulated in spec order.
func Synthesize(width, height int, spec OctaveSpec, seed int64, kind NoiseKind) (HeightField, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s, err := newSampler(kind, seed)
	if err != nil {
		return nil, err
	}

	out := newField(width, height)
	layer := newField(width, height)
	for _, o := range spec {
		fillNoise(layer, s, o.Octave)
		for y := range out {
			dst, src := out[y], layer[y]
			for x := range dst {
				dst[x] += src[x] * o.Amplitude
			}
		}
	}
	return out, nil
}
