package surface

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// MeshHandle is whatever a MeshConstructor hands back for a created mesh.
type MeshHandle interface {
	MeshName() string
}

// MeshConstructor is the host side of mesh creation: it accepts vertices,
// edges and faces of arbitrary arity (at least three) and returns a handle.
type MeshConstructor interface {
	NewMesh(name string, vertices []r3.Vec, edges [][2]int, faces [][]int) (MeshHandle, error)
}

// Emit hands d to c under the given name.
func Emit(c MeshConstructor, name string, d *Descriptor) (MeshHandle, error) {
	edges := make([][2]int, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = e
	}
	faces := make([][]int, len(d.Faces))
	for i, f := range d.Faces {
		faces[i] = []int{f[0], f[1], f[2], f[3]}
	}
	h, err := c.NewMesh(name, d.Vertices, edges, faces)
	if err != nil {
		return nil, fmt.Errorf("creating mesh %q: %w", name, err)
	}
	return h, nil
}
