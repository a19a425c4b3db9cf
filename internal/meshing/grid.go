package meshing

import (
	"fmt"

	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// Quad holds four vertex indices in winding order.
type Quad [4]int

// MeshGrid is the vertex/face list handed to an external mesh builder.
// Vertex y*Width+x sits at (x, y, field[y][x]).
type MeshGrid struct {
	Width    int
	Height   int
	Vertices []mgl64.Vec3
	Faces    []Quad
}

// HeightfieldToMesh emits one vertex per cell and one quad per 2x2 block of
// cells. A WxH field yields W*H vertices and (W-1)*(H-1) faces; faces are
// ordered row by row with winding (top-left, top-right, bottom-right, bottom-left).
//
// Every row must be as long as the first; a ragged field panics.
func HeightfieldToMesh(field terrain.HeightField) MeshGrid {
	w, h := field.Width(), field.Height()
	for y, row := range field {
		if len(row) != w {
			panic(fmt.Sprintf("meshing: ragged heightfield: row %d has %d cells, want %d", y, len(row), w))
		}
	}
	m := MeshGrid{
		Width:    w,
		Height:   h,
		Vertices: make([]mgl64.Vec3, 0, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Vertices = append(m.Vertices, mgl64.Vec3{float64(x), float64(y), field.At(x, y)})
		}
	}
	if w < 2 || h < 2 {
		return m
	}

	m.Faces = make([]Quad, 0, (w-1)*(h-1))
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			i := y*w + x
			m.Faces = append(m.Faces, Quad{i, i + 1, i + w + 1, i + w})
		}
	}
	return m
}

// Index returns the vertex index for grid cell (x, y).
func (m MeshGrid) Index(x, y int) int {
	return y*m.Width + x
}

// Triangles splits every quad into (v0,v1,v2) and (v2,v3,v0) for consumers
// that only accept triangle lists.
func (m MeshGrid) Triangles() [][3]int {
	tris := make([][3]int, 0, len(m.Faces)*2)
	for _, q := range m.Faces {
		tris = append(tris, [3]int{q[0], q[1], q[2]}, [3]int{q[2], q[3], q[0]})
	}
	return tris
}
