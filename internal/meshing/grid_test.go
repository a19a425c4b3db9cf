package meshing

import (
	"math"
	"strings"
	"testing"

	"terragen/internal/terrain"
)

func TestHeightfieldToMeshScenario(t *testing.T) {
	field, err := terrain.GenerateTerrain(4, 4, 5.0, 0.5, 0)
	if err != nil {
		t.Fatalf("GenerateTerrain: %v", err)
	}
	m := HeightfieldToMesh(field)
	if len(m.Vertices) != 16 {
		t.Fatalf("got %d vertices, want 16", len(m.Vertices))
	}
	if len(m.Faces) != 9 {
		t.Fatalf("got %d faces, want 9", len(m.Faces))
	}
	if m.Faces[0] != (Quad{0, 1, 5, 4}) {
		t.Fatalf("face 0 = %v, want [0 1 5 4]", m.Faces[0])
	}
}

func TestHeightfieldToMeshOneByOne(t *testing.T) {
	m := HeightfieldToMesh(terrain.HeightField{{2.5}})
	if len(m.Vertices) != 1 || len(m.Faces) != 0 {
		t.Fatalf("1x1: got %d vertices, %d faces; want 1, 0", len(m.Vertices), len(m.Faces))
	}
	if m.Vertices[0].Z() != 2.5 {
		t.Fatalf("1x1: z = %v, want 2.5", m.Vertices[0].Z())
	}
}

// A single row or column has vertices but no complete 2x2 block.
func TestHeightfieldToMeshStrip(t *testing.T) {
	m := HeightfieldToMesh(terrain.HeightField{{1, 2, 3, 4}})
	if len(m.Vertices) != 4 || len(m.Faces) != 0 {
		t.Fatalf("4x1: got %d vertices, %d faces; want 4, 0", len(m.Vertices), len(m.Faces))
	}
	m = HeightfieldToMesh(terrain.HeightField{{1}, {2}, {3}})
	if len(m.Vertices) != 3 || len(m.Faces) != 0 {
		t.Fatalf("1x3: got %d vertices, %d faces; want 3, 0", len(m.Vertices), len(m.Faces))
	}
}

func TestHeightfieldToMeshRagged(t *testing.T) {
	for name, field := range map[string]terrain.HeightField{
		"short row": {{1, 2, 3}, {4, 5}},
		"long row":  {{1, 2}, {3, 4, 5}},
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				msg, ok := r.(string)
				if !ok || !strings.Contains(msg, "ragged heightfield: row 1") {
					t.Errorf("recovered %v, want ragged row 1 panic", r)
				}
			}()
			HeightfieldToMesh(field)
		})
	}
}

// TestHeightfieldToMeshTopology checks counts and index bounds over many shapes
func TestHeightfieldToMeshTopology(t *testing.T) {
	for w := 1; w <= 7; w++ {
		for h := 1; h <= 7; h++ {
			field, _ := terrain.NewHeightField(w, h)
			m := HeightfieldToMesh(field)
			if len(m.Vertices) != w*h {
				t.Fatalf("%dx%d: %d vertices, want %d", w, h, len(m.Vertices), w*h)
			}
			if len(m.Faces) != (w-1)*(h-1) {
				t.Fatalf("%dx%d: %d faces, want %d", w, h, len(m.Faces), (w-1)*(h-1))
			}
			for fi, q := range m.Faces {
				for _, idx := range q {
					if idx < 0 || idx >= w*h {
						t.Fatalf("%dx%d: face %d index %d out of range", w, h, fi, idx)
					}
				}
				x, y := fi%(w-1), fi/(w-1)
				want := Quad{y*w + x, y*w + x + 1, (y+1)*w + x + 1, (y+1)*w + x}
				if q != want {
					t.Fatalf("%dx%d: face %d = %v, want %v", w, h, fi, q, want)
				}
			}
		}
	}
}

// TestHeightfieldToMeshElevation verifies each z equals its cell exactly
func TestHeightfieldToMeshElevation(t *testing.T) {
	field, err := terrain.GenerateTerrain(9, 6, 3, 0.7, 11)
	if err != nil {
		t.Fatalf("GenerateTerrain: %v", err)
	}
	m := HeightfieldToMesh(field)
	for y := range field {
		for x := range field[y] {
			v := m.Vertices[m.Index(x, y)]
			if v.X() != float64(x) || v.Y() != float64(y) {
				t.Fatalf("vertex (%d,%d) at %v", x, y, v)
			}
			if math.Float64bits(v.Z()) != math.Float64bits(field[y][x]) {
				t.Fatalf("vertex (%d,%d) z = %v, want %v", x, y, v.Z(), field[y][x])
			}
		}
	}
}

func TestTriangles(t *testing.T) {
	field, _ := terrain.NewHeightField(3, 2)
	m := HeightfieldToMesh(field)
	tris := m.Triangles()
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	if tris[0] != [3]int{0, 1, 4} || tris[1] != [3]int{4, 3, 0} {
		t.Fatalf("first quad split as %v %v", tris[0], tris[1])
	}
}

func BenchmarkHeightfieldToMesh(b *testing.B) {
	field, _ := terrain.GenerateTerrain(256, 256, 5, 0.5, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = HeightfieldToMesh(field)
	}
}
