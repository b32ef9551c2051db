package formats

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// unitQuad returns a 2x2 grid (one quad) with the densurf winding.
func unitQuad() *Mesh {
	return &Mesh{
		Name: "quad",
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 0.5},
			{X: 1, Y: 1, Z: 0.25},
		},
		Faces: [][]int{{0, 1, 3, 2}},
	}
}

func TestMeshValidate(t *testing.T) {
	if err := unitQuad().Validate(); err != nil {
		t.Fatalf("valid mesh rejected: %v", err)
	}

	bad := []*Mesh{
		{Vertices: []r3.Vec{{}, {}}, Faces: [][]int{{0, 1}}},
		{Vertices: []r3.Vec{{}, {}, {}}, Faces: [][]int{{0, 1, 3}}},
		{Vertices: []r3.Vec{{}, {}, {}}, Faces: [][]int{{-1, 1, 2}}},
		{Vertices: []r3.Vec{{}}, Edges: [][2]int{{0, 1}}},
	}
	for i, m := range bad {
		if err := m.Validate(); !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("case %d: expected ErrInvalidMesh, got %v", i, err)
		}
	}
}

func TestMeshTriangles(t *testing.T) {
	m := &Mesh{
		Vertices: make([]r3.Vec, 6),
		Faces:    [][]int{{0, 1, 2}, {0, 1, 3, 2}, {0, 1, 2, 3, 4}},
	}
	tris := m.Triangles()

	want := [][3]int{
		{0, 1, 2},
		{0, 1, 3}, {0, 3, 2},
		{0, 1, 2}, {0, 2, 3}, {0, 3, 4},
	}
	if len(tris) != len(want) {
		t.Fatalf("expected %d triangles, got %d", len(want), len(tris))
	}
	for i := range want {
		if tris[i] != want[i] {
			t.Errorf("triangle %d: expected %v, got %v", i, want[i], tris[i])
		}
	}
}

func TestTriangleNormal(t *testing.T) {
	n := triangleNormal(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1})
	if n != (r3.Vec{Z: 1}) {
		t.Errorf("expected +Z normal, got %v", n)
	}

	n = triangleNormal(r3.Vec{}, r3.Vec{Y: 1}, r3.Vec{X: 1})
	if n != (r3.Vec{Z: -1}) {
		t.Errorf("expected -Z normal, got %v", n)
	}

	if n := triangleNormal(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2}); n != (r3.Vec{}) {
		t.Errorf("expected zero normal for collinear points, got %v", n)
	}
}
