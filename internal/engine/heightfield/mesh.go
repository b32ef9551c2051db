package heightfield

import (
	"errors"
	"fmt"
	"image/color"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/Faultbox/densurf/internal/surface"
	"github.com/Faultbox/densurf/pkg/math"
)

// ErrIncompleteGrid is returned for descriptors whose vertex count does not
// match Side².
var ErrIncompleteGrid = errors.New("descriptor is not a complete grid")

// BuildMesh converts a descriptor to a GPU mesh. Faces become two triangles
// each with the face winding preserved; without faces every vertex is drawn
// as a point. Normals come from central differences of the heights so they
// face +Z and exist for point clouds too. Colors follow height.
func BuildMesh(d *surface.Descriptor) (*Mesh, error) {
	side := d.Side
	if side < 1 || len(d.Vertices) != side*side {
		return nil, fmt.Errorf("%w: %d vertices for side %d", ErrIncompleteGrid, len(d.Vertices), side)
	}
	if uint64(len(d.Vertices)) > gomath.MaxUint32 {
		return nil, fmt.Errorf("%w: %d vertices exceed 32-bit indices", ErrIncompleteGrid, len(d.Vertices))
	}

	b := d.Bounds()
	bounds := Bounds{Min: math.FromR3(b.Min), Max: math.FromR3(b.Max)}
	colors := heightColors(b.Min.Z, b.Max.Z)

	vertices := make([]Vertex, len(d.Vertices))
	for i, v := range d.Vertices {
		vertices[i] = Vertex{
			Position: math.FromR3(v).Array(),
			Normal:   gridNormal(d, i/side, i%side).Array(),
			Color:    colors(v.Z),
		}
	}

	mesh := &Mesh{Vertices: vertices, Bounds: bounds}
	if len(d.Faces) == 0 {
		mesh.Primitive = Points
		mesh.Indices = make([]uint32, len(vertices))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
		return mesh, nil
	}

	mesh.Primitive = Triangles
	mesh.Indices = make([]uint32, 0, len(d.Faces)*6)
	for _, f := range d.Faces {
		mesh.Indices = append(mesh.Indices,
			uint32(f[0]), uint32(f[1]), uint32(f[2]),
			uint32(f[0]), uint32(f[2]), uint32(f[3]),
		)
	}
	return mesh, nil
}

// gridNormal estimates the upward normal at (row, col). Rows walk x and
// columns walk y; one-sided differences are used on the border.
func gridNormal(d *surface.Descriptor, row, col int) math.Vec3 {
	side := d.Side
	if side < 2 {
		return math.Vec3{Z: 1}
	}
	at := func(r, c int) r3.Vec { return d.Vertices[r*side+c] }

	r0, r1 := max(row-1, 0), min(row+1, side-1)
	c0, c1 := max(col-1, 0), min(col+1, side-1)

	dzdx := (at(r1, col).Z - at(r0, col).Z) / (at(r1, col).X - at(r0, col).X)
	dzdy := (at(row, c1).Z - at(row, c0).Z) / (at(row, c1).Y - at(row, c0).Y)

	return math.Vec3{X: float32(-dzdx), Y: float32(-dzdy), Z: 1}.Normalize()
}

// heightColors maps heights in [lo, hi] onto a smooth blue-red ramp.
func heightColors(lo, hi float64) func(z float64) [4]float32 {
	cmap := moreland.SmoothBlueRed()
	if !(hi > lo) {
		hi = lo + 1
	}
	cmap.SetMin(lo)
	cmap.SetMax(hi)

	return func(z float64) [4]float32 {
		c, err := cmap.At(gomath.Max(lo, gomath.Min(hi, z)))
		if err != nil {
			return [4]float32{1, 1, 1, 1}
		}
		return toFloat(c)
	}
}

func toFloat(c color.Color) [4]float32 {
	r, g, b, a := c.RGBA()
	return [4]float32{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff, float32(a) / 0xffff}
}
