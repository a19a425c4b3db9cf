package meshing

import "github.com/go-gl/mathgl/mgl64"

var up = mgl64.Vec3{0, 0, 1}

// VertexNormals accumulates the face normals of both triangles of every quad
// onto their vertices (area weighted, since the cross product is not
// normalized first) and normalizes the sums. Vertices touching no face get +Z.
func VertexNormals(m MeshGrid) []mgl64.Vec3 {
	acc := make([]mgl64.Vec3, len(m.Vertices))
	for _, tri := range m.Triangles() {
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range tri {
			acc[i] = acc[i].Add(n)
		}
	}
	for i, n := range acc {
		l := n.Len()
		if l == 0 {
			acc[i] = up
			continue
		}
		acc[i] = n.Mul(1 / l)
	}
	return acc
}
