package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a quad given as four vertex indices. Faces produced by Build are
// ordered (i, i+1, i+Side+1, i+Side): clockwise when viewed from +Z, so the
// right-hand normal points down. FlipWinding gives the opposite order.
type Face [4]int

// Edge is a pair of vertex indices.
type Edge [2]int

// Descriptor is the generated mesh: vertices in row-major grid order, an
// always empty edge list (consumers derive edges from faces) and the quads.
// Side is the number of samples per row.
type Descriptor struct {
	Vertices []r3.Vec
	Edges    []Edge
	Faces    []Face
	Side     int
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
}

// Size returns Max - Min.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Bounds returns the bounding box of all vertices. An empty descriptor
// yields a zero box.
func (d *Descriptor) Bounds() Bounds {
	if len(d.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, v := range d.Vertices {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}

// Peak returns the index and position of the highest vertex. Ties keep the
// first one in row-major order. It returns -1 for an empty descriptor.
func (d *Descriptor) Peak() (int, r3.Vec) {
	best := -1
	var top r3.Vec
	for i, v := range d.Vertices {
		if best < 0 || v.Z > top.Z {
			best, top = i, v
		}
	}
	return best, top
}

// FlipWinding returns a copy of d whose faces list their corners in the
// opposite order. Vertices are shared with d.
func (d *Descriptor) FlipWinding() *Descriptor {
	faces := make([]Face, len(d.Faces))
	for i, f := range d.Faces {
		faces[i] = Face{f[0], f[3], f[2], f[1]}
	}
	return &Descriptor{
		Vertices: d.Vertices,
		Edges:    d.Edges,
		Faces:    faces,
		Side:     d.Side,
	}
}

// FaceNormal returns the unnormalized right-hand normal of the face's first
// triangle.
func (d *Descriptor) FaceNormal(f Face) r3.Vec {
	a, b, c := d.Vertices[f[0]], d.Vertices[f[1]], d.Vertices[f[2]]
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}
