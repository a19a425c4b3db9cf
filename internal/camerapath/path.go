// Package camerapath builds seeded fly-through paths over a terrain.
package camerapath

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"terragen/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
)

// MinPoints is the smallest control polygon accepted by Generate.
const MinPoints = 4

var ErrTooFewPoints = errors.New("camerapath: too few control points")

// Bounds is an axis-aligned XY rectangle.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// BoundsOf returns the XY extent of a mesh.
func BoundsOf(m meshing.MeshGrid) Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, v := range m.Vertices {
		b.MinX = math.Min(b.MinX, v.X())
		b.MaxX = math.Max(b.MaxX, v.X())
		b.MinY = math.Min(b.MinY, v.Y())
		b.MaxY = math.Max(b.MaxY, v.Y())
	}
	return b
}

type Params struct {
	Points  int        `yaml:"points" json:"points"`
	Offset  mgl64.Vec3 `yaml:"offset" json:"offset"`
	Scale   float64    `yaml:"scale" json:"scale"`
	Seed    int64      `yaml:"seed" json:"seed"`
	Samples int        `yaml:"samples" json:"samples"`
}

// Path is a smooth curve through its control points.
type Path struct {
	Control []mgl64.Vec3
}

// Generate draws Points control points uniformly inside bounds, shifted by
// Offset, with heights in [-Scale, Scale] + Offset.Z.
func Generate(b Bounds, p Params) (Path, error) {
	if p.Points < MinPoints {
		return Path{}, fmt.Errorf("%w: %d < %d", ErrTooFewPoints, p.Points, MinPoints)
	}
	rng := rand.New(rand.NewSource(p.Seed))
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	pts := make([]mgl64.Vec3, p.Points)
	for i := range pts {
		x := uniform(b.MinX, b.MaxX) + p.Offset.X()
		y := uniform(b.MinY, b.MaxY) + p.Offset.Y()
		z := uniform(-p.Scale, p.Scale) + p.Offset.Z()
		pts[i] = mgl64.Vec3{x, y, z}
	}
	return Path{Control: pts}, nil
}

// handles returns the two inner Bézier handles of segment i. Tangents follow
// the neighbouring points (Catmull-Rom), one-sided at the ends.
func (p Path) handles(i int) (mgl64.Vec3, mgl64.Vec3) {
	a, b := p.Control[i], p.Control[i+1]
	return a.Add(p.tangent(i).Mul(1.0 / 3)), b.Sub(p.tangent(i + 1).Mul(1.0 / 3))
}

func (p Path) tangent(i int) mgl64.Vec3 {
	last := len(p.Control) - 1
	switch i {
	case 0:
		return p.Control[1].Sub(p.Control[0])
	case last:
		return p.Control[last].Sub(p.Control[last-1])
	}
	return p.Control[i+1].Sub(p.Control[i-1]).Mul(0.5)
}

// At evaluates the curve at u in [0, len(Control)-1]; integer u lands on a
// control point.
func (p Path) At(u float64) mgl64.Vec3 {
	segs := len(p.Control) - 1
	switch {
	case segs < 0:
		return mgl64.Vec3{}
	case segs == 0:
		return p.Control[0]
	}
	u = mgl64.Clamp(u, 0, float64(segs))
	i := min(int(u), segs-1)
	h1, h2 := p.handles(i)
	return mgl64.CubicBezierCurve3D(u-float64(i), p.Control[i], h1, h2, p.Control[i+1])
}

// Sample returns n points evenly spaced in curve parameter, first and last on
// the end control points.
func (p Path) Sample(n int) []mgl64.Vec3 {
	if n <= 0 || len(p.Control) == 0 {
		return nil
	}
	if n == 1 {
		return []mgl64.Vec3{p.Control[0]}
	}
	segs := float64(len(p.Control) - 1)
	out := make([]mgl64.Vec3, n)
	for k := range out {
		out[k] = p.At(segs * float64(k) / float64(n-1))
	}
	return out
}

// Length approximates arc length with a polyline of the given resolution.
func (p Path) Length(resolution int) float64 {
	pts := p.Sample(resolution)
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Sub(pts[i-1]).Len()
	}
	return total
}
