// Package formats reads and writes polygon mesh files: Wavefront OBJ,
// Stanford PLY (binary little-endian and ASCII) and binary STL.
package formats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidMesh is returned when a mesh references vertices it does not have.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is the format-neutral geometry the codecs exchange.
// Face indices are 0-based regardless of the file convention.
type Mesh struct {
	Name     string
	Vertices []r3.Vec
	Edges    [][2]int
	Faces    [][]int
}

// Validate checks that every edge and face index is in range and that each
// face has at least three corners.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, e := range m.Edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("%w: edge %d %v out of range", ErrInvalidMesh, i, e)
		}
	}
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("%w: face %d has %d corners", ErrInvalidMesh, i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d index %d out of range", ErrInvalidMesh, i, idx)
			}
		}
	}
	return nil
}

// Triangles fans every face into triangles, keeping the face winding.
func (m *Mesh) Triangles() [][3]int {
	count := 0
	for _, f := range m.Faces {
		if len(f) >= 3 {
			count += len(f) - 2
		}
	}
	tris := make([][3]int, 0, count)
	for _, f := range m.Faces {
		for k := 1; k+1 < len(f); k++ {
			tris = append(tris, [3]int{f[0], f[k], f[k+1]})
		}
	}
	return tris
}

// triangleNormal returns the unit right-hand normal of (a, b, c), or zero
// for degenerate triangles.
func triangleNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if l := r3.Norm(n); l > 0 {
		return r3.Scale(1/l, n)
	}
	return r3.Vec{}
}
