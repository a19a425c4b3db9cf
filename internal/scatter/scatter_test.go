package scatter

import (
	"errors"
	"math"
	"testing"

	"terragen/internal/terrain"
)

func testField(t *testing.T) terrain.HeightField {
	t.Helper()
	f, err := terrain.GenerateTerrain(40, 30, 5, 0.5, 0)
	if err != nil {
		t.Fatalf("GenerateTerrain: %v", err)
	}
	return f
}

func TestPlaceCount(t *testing.T) {
	field := testField(t)
	trees, err := Place(field, Params{Count: 100, Seed: 1, FireIndex: NoFire})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(trees) != 100 {
		t.Fatalf("got %d trees, want 100", len(trees))
	}
	for i, tr := range trees {
		x, y := tr.Position.X(), tr.Position.Y()
		if x < 0 || x > 39 || y < 0 || y > 29 {
			t.Fatalf("tree %d outside field: %v", i, tr.Position)
		}
		if z := terrain.Sample(field, x, y); tr.Position.Z() != z {
			t.Fatalf("tree %d floats: z=%v surface=%v", i, tr.Position.Z(), z)
		}
		if tr.Yaw < 0 || tr.Yaw >= math.Pi {
			t.Fatalf("tree %d yaw %v out of [0,pi)", i, tr.Yaw)
		}
		if tr.OnFire {
			t.Fatalf("tree %d on fire with NoFire", i)
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	field := testField(t)
	p := Params{Count: 25, Seed: 7, FireIndex: 3}
	a, _ := Place(field, p)
	b, _ := Place(field, p)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tree %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlaceDensity(t *testing.T) {
	field := testField(t)
	trees, err := Place(field, Params{Density: 0.1, Seed: 2, FireIndex: NoFire})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	// 39 * 29 * 0.1 = 113.1
	if len(trees) != 113 {
		t.Fatalf("got %d trees, want 113", len(trees))
	}
	none, err := Place(field, Params{FireIndex: NoFire})
	if err != nil || len(none) != 0 {
		t.Fatalf("zero params: got %d trees, %v", len(none), err)
	}
}

func TestPlaceMinSpacing(t *testing.T) {
	field := testField(t)
	trees, err := Place(field, Params{Count: 40, MinSpacing: 2, Seed: 3, FireIndex: NoFire})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	for i := range trees {
		for j := i + 1; j < len(trees); j++ {
			d := trees[i].Position.Vec2().Sub(trees[j].Position.Vec2()).Len()
			if d < 2 {
				t.Fatalf("trees %d and %d only %v apart", i, j, d)
			}
		}
	}
}

// Spacing larger than the field caps the result instead of looping forever.
func TestPlaceMinSpacingSaturates(t *testing.T) {
	field := testField(t)
	trees, err := Place(field, Params{Count: 50, MinSpacing: 100, Seed: 3, FireIndex: NoFire})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("got %d trees, want 1", len(trees))
	}
}

func TestPlaceFire(t *testing.T) {
	field := testField(t)
	trees, err := Place(field, Params{Count: 10, Seed: 4, FireIndex: 6})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	burning, ok := Burning(trees)
	if !ok || burning != trees[6] {
		t.Fatalf("Burning = %+v, %v; want tree 6", burning, ok)
	}
	if _, err := Place(field, Params{Count: 10, FireIndex: 10}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("fire index 10 of 10: got %v, want ErrInvalidParams", err)
	}
}

func TestPlaceInvalid(t *testing.T) {
	field := testField(t)
	for _, p := range []Params{{Count: -1}, {Density: -0.5}, {MinSpacing: -1}} {
		p.FireIndex = NoFire
		if _, err := Place(field, p); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%+v: got %v, want ErrInvalidParams", p, err)
		}
	}
	if _, err := Place(terrain.HeightField{}, Params{FireIndex: NoFire}); !errors.Is(err, terrain.ErrInvalidDimensions) {
		t.Errorf("empty field: got %v, want ErrInvalidDimensions", err)
	}
}
