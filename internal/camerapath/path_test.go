package camerapath

import (
	"errors"
	"math"
	"testing"

	"terragen/internal/meshing"
	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

func TestGenerateTooFewPoints(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		if _, err := Generate(Bounds{MaxX: 10, MaxY: 10}, Params{Points: n}); !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("Points=%d: got %v, want ErrTooFewPoints", n, err)
		}
	}
}

func TestGenerateWithinBounds(t *testing.T) {
	b := Bounds{MinX: -5, MaxX: 20, MinY: 3, MaxY: 9}
	p := Params{Points: 12, Offset: mgl64.Vec3{1, -2, 30}, Scale: 4, Seed: 8}
	path, err := Generate(b, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(path.Control) != 12 {
		t.Fatalf("got %d control points, want 12", len(path.Control))
	}
	for i, c := range path.Control {
		if c.X() < -4 || c.X() > 21 || c.Y() < 1 || c.Y() > 7 || c.Z() < 26 || c.Z() > 34 {
			t.Errorf("control %d out of range: %v", i, c)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	b := Bounds{MaxX: 100, MaxY: 100}
	p := Params{Points: 6, Scale: 2, Seed: 5}
	a, _ := Generate(b, p)
	c, _ := Generate(b, p)
	for i := range a.Control {
		if a.Control[i] != c.Control[i] {
			t.Fatalf("control %d differs: %v vs %v", i, a.Control[i], c.Control[i])
		}
	}
}

// TestSampleEndpoints verifies the curve interpolates its control points
func TestSampleEndpoints(t *testing.T) {
	path, err := Generate(Bounds{MaxX: 50, MaxY: 50}, Params{Points: 5, Scale: 3, Seed: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pts := path.Sample(9) // u = 0, 0.5, 1, ... 4
	if len(pts) != 9 {
		t.Fatalf("got %d samples, want 9", len(pts))
	}
	for k := 0; k < 9; k += 2 {
		if !pts[k].ApproxEqualThreshold(path.Control[k/2], 1e-9) {
			t.Errorf("sample %d = %v, want control %d = %v", k, pts[k], k/2, path.Control[k/2])
		}
	}
}

func TestSampleEdgeCases(t *testing.T) {
	path := Path{Control: []mgl64.Vec3{{0, 0, 0}, {3, 0, 0}, {6, 0, 0}, {9, 0, 0}}}
	if got := path.Sample(0); got != nil {
		t.Errorf("Sample(0) = %v, want nil", got)
	}
	if got := path.Sample(1); len(got) != 1 || got[0] != path.Control[0] {
		t.Errorf("Sample(1) = %v", got)
	}
	// collinear, evenly spaced control points give a straight path of length 9
	if l := path.Length(200); math.Abs(l-9) > 1e-6 {
		t.Errorf("Length = %v, want 9", l)
	}
	if (Path{}).Sample(4) != nil {
		t.Errorf("empty path should sample to nil")
	}
}

func TestBoundsOf(t *testing.T) {
	field, _ := terrain.NewHeightField(7, 4)
	b := BoundsOf(meshing.HeightfieldToMesh(field))
	if b != (Bounds{MinX: 0, MaxX: 6, MinY: 0, MaxY: 3}) {
		t.Fatalf("BoundsOf = %+v", b)
	}
	if BoundsOf(meshing.MeshGrid{}) != (Bounds{}) {
		t.Fatalf("empty mesh bounds not zero")
	}
}
