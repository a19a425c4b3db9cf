package meshing

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidShadeParams is returned by ShadeParams.Validate.
var ErrInvalidShadeParams = errors.New("meshing: invalid shade params")

// ShadeParams controls the grass/rock/snow split. Slopes are in degrees from
// horizontal; SnowLine and SnowBand are fractions of the mesh's elevation range.
type ShadeParams struct {
	RockSlopeStart float64 `yaml:"rock_slope_start" json:"rock_slope_start"`
	RockSlopeFull  float64 `yaml:"rock_slope_full" json:"rock_slope_full"`
	SnowLine       float64 `yaml:"snow_line" json:"snow_line"`
	SnowBand       float64 `yaml:"snow_band" json:"snow_band"`
}

// DefaultShadeParams puts rock on inclines steeper than 25-45 degrees and
// snow on the top 15% of the elevation range.
func DefaultShadeParams() ShadeParams {
	return ShadeParams{
		RockSlopeStart: 25,
		RockSlopeFull:  45,
		SnowLine:       0.85,
		SnowBand:       0.1,
	}
}

func (p ShadeParams) Validate() error {
	if p.RockSlopeStart < 0 || p.RockSlopeFull > 90 || p.RockSlopeStart > p.RockSlopeFull {
		return fmt.Errorf("%w: rock slope range [%v, %v]", ErrInvalidShadeParams, p.RockSlopeStart, p.RockSlopeFull)
	}
	if p.SnowBand < 0 {
		return fmt.Errorf("%w: negative snow band %v", ErrInvalidShadeParams, p.SnowBand)
	}
	return nil
}

// Blend holds per-vertex material weights; they always sum to 1.
type Blend struct {
	Grass float64
	Rock  float64
	Snow  float64
}

// Shade computes a Blend for every vertex. normals may be nil, in which case
// they are derived with VertexNormals. Snow overrides rock, rock overrides grass.
func Shade(m MeshGrid, normals []mgl64.Vec3, p ShadeParams) ([]Blend, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if normals == nil {
		normals = VertexNormals(m)
	}
	if len(normals) != len(m.Vertices) {
		return nil, fmt.Errorf("meshing: %d normals for %d vertices", len(normals), len(m.Vertices))
	}

	lo, hi := elevationRange(m)
	span := hi - lo

	out := make([]Blend, len(m.Vertices))
	for i, v := range m.Vertices {
		slope := mgl64.RadToDeg(math.Acos(mgl64.Clamp(normals[i].Z(), -1, 1)))
		rock := smoothstep(p.RockSlopeStart, p.RockSlopeFull, slope)

		rel := 0.0
		if span > 0 {
			rel = (v.Z() - lo) / span
		}
		snow := smoothstep(p.SnowLine, p.SnowLine+p.SnowBand, rel)

		b := Blend{Snow: snow, Rock: rock * (1 - snow)}
		b.Grass = 1 - b.Snow - b.Rock
		out[i] = b
	}
	return out, nil
}

func elevationRange(m MeshGrid) (lo, hi float64) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range m.Vertices {
		lo = math.Min(lo, v.Z())
		hi = math.Max(hi, v.Z())
	}
	return lo, hi
}

// smoothstep with a hard step when edge0 == edge1.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x >= edge0 {
			return 1
		}
		return 0
	}
	t := mgl64.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
