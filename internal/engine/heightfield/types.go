// Package heightfield converts surface descriptors into GPU-ready meshes
// and samples them for picking.
package heightfield

import "github.com/Faultbox/densurf/pkg/math"

// Vertex is the interleaved GPU vertex layout.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// Primitive selects how Indices are drawn.
type Primitive int

const (
	Triangles Primitive = iota
	Points
)

// Mesh holds surface data ready for GPU upload.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive
	Bounds    Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}
