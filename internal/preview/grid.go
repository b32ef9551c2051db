// Package preview renders 2-D and browser previews of a density surface:
// a gonum/plot heat map with contour lines and a go-echarts 3-D chart.
package preview

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot/plotter"

	"github.com/Faultbox/densurf/internal/surface"
)

// ErrGridTooSmall is returned for descriptors that do not span a 2x2 grid.
var ErrGridTooSmall = errors.New("grid too small to plot")

// Grid exposes a descriptor as a plotter.GridXYZ. Column c walks x (the
// descriptor's row index) and row r walks y.
type Grid struct {
	d *surface.Descriptor
}

var _ plotter.GridXYZ = Grid{}

// NewGrid wraps d. It needs at least a 2x2 grid with all vertices present.
func NewGrid(d *surface.Descriptor) (Grid, error) {
	if d == nil || d.Side < 2 {
		return Grid{}, ErrGridTooSmall
	}
	if len(d.Vertices) != d.Side*d.Side {
		return Grid{}, fmt.Errorf("descriptor has %d vertices for side %d", len(d.Vertices), d.Side)
	}
	return Grid{d: d}, nil
}

// Dims returns the grid size.
func (g Grid) Dims() (c, r int) { return g.d.Side, g.d.Side }

// Z returns the height at column c, row r.
func (g Grid) Z(c, r int) float64 { return g.d.Vertices[c*g.d.Side+r].Z }

// X returns the x coordinate of column c.
func (g Grid) X(c int) float64 { return g.d.Vertices[c*g.d.Side].X }

// Y returns the y coordinate of row r.
func (g Grid) Y(r int) float64 { return g.d.Vertices[r].Y }

// zRange returns the smallest and largest heights.
func (g Grid) zRange() (lo, hi float64) {
	b := g.d.Bounds()
	return b.Min.Z, b.Max.Z
}
