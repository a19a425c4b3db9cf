// Package scatter places vegetation on a heightfield.
package scatter

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidParams is returned for negative counts, densities or spacing and
// for a fire index outside the placed trees.
var ErrInvalidParams = errors.New("scatter: invalid params")

// maxAttemptsPerTree bounds rejection sampling when MinSpacing is set.
const maxAttemptsPerTree = 30

// NoFire disables the burning tree.
const NoFire = -1

// Params controls placement. Count wins when positive; otherwise Density
// trees are placed per unit of field area.
type Params struct {
	Count      int     `yaml:"count" json:"count"`
	Density    float64 `yaml:"density" json:"density"`
	MinSpacing float64 `yaml:"min_spacing" json:"min_spacing"`
	Seed       int64   `yaml:"seed" json:"seed"`
	FireIndex  int     `yaml:"fire_index" json:"fire_index"`
}

// Tree is one placed instance in grid coordinates.
type Tree struct {
	Position mgl64.Vec3
	Yaw      float64
	OnFire   bool
}

// Place scatters trees uniformly over the field extent and drops each onto the
// interpolated surface. The result depends only on field and params.
func Place(field terrain.HeightField, p Params) ([]Tree, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if p.Count < 0 || p.Density < 0 || p.MinSpacing < 0 {
		return nil, fmt.Errorf("%w: count=%d density=%v spacing=%v", ErrInvalidParams, p.Count, p.Density, p.MinSpacing)
	}

	maxX := float64(field.Width() - 1)
	maxY := float64(field.Height() - 1)
	want := p.Count
	if want == 0 {
		want = int(math.Round(p.Density * maxX * maxY))
	}

	rng := rand.New(rand.NewSource(p.Seed))
	trees := make([]Tree, 0, want)
	minDist2 := p.MinSpacing * p.MinSpacing
	for attempts := 0; len(trees) < want && attempts < want*maxAttemptsPerTree; attempts++ {
		x := rng.Float64() * maxX
		y := rng.Float64() * maxY
		yaw := rng.Float64() * math.Pi
		if minDist2 > 0 && crowded(trees, x, y, minDist2) {
			continue
		}
		trees = append(trees, Tree{
			Position: mgl64.Vec3{x, y, terrain.Sample(field, x, y)},
			Yaw:      yaw,
		})
	}

	if p.FireIndex != NoFire {
		if p.FireIndex < 0 || p.FireIndex >= len(trees) {
			return nil, fmt.Errorf("%w: fire index %d with %d trees", ErrInvalidParams, p.FireIndex, len(trees))
		}
		trees[p.FireIndex].OnFire = true
	}
	return trees, nil
}

func crowded(trees []Tree, x, y, minDist2 float64) bool {
	for _, t := range trees {
		dx := t.Position.X() - x
		dy := t.Position.Y() - y
		if dx*dx+dy*dy < minDist2 {
			return true
		}
	}
	return false
}

// Burning returns the tree marked OnFire, if any.
func Burning(trees []Tree) (Tree, bool) {
	for _, t := range trees {
		if t.OnFire {
			return t, true
		}
	}
	return Tree{}, false
}
