// Package debug provides helper geometry and capture utilities for the
// surface renderer.
package debug

import "github.com/Faultbox/densurf/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// BBoxWireframe returns line-list vertices ([x, y, z] each) for the box
// spanned by min and max, grown by padding on every side.
func BBoxWireframe(min, max math.Vec3, padding float32) []float32 {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	if min.Z > max.Z {
		min.Z, max.Z = max.Z, min.Z
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi := min.Sub(pad), max.Add(pad)

	corner := func(i int) math.Vec3 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}

	// corners differing in exactly one bit share an edge
	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit != 0 {
				continue
			}
			a, b := corner(i), corner(i|bit)
			out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return out
}

// ColorLines pairs line-list positions ([x, y, z] each) with one color.
func ColorLines(positions []float32, c [3]float32) []LineVertex {
	out := make([]LineVertex, 0, len(positions)/3)
	for i := 0; i+2 < len(positions); i += 3 {
		out = append(out, LineVertex{
			X: positions[i], Y: positions[i+1], Z: positions[i+2],
			R: c[0], G: c[1], B: c[2],
		})
	}
	return out
}
