package surface

import (
	"fmt"
	"math"
)

// GridSpec describes a square lattice: coordinate i on either axis is
// Min + i*Step for i in [0, Side).
type GridSpec struct {
	Min  float64
	Step float64
	Side int
}

// NewGridSpec derives a grid from explicit bounds and step, with
// Side = floor((max-min)/step) + 1. A step wider than the domain yields a
// single-point grid, which BuildGrid reports as degenerate when faces are
// requested.
func NewGridSpec(min, max, step float64) (GridSpec, error) {
	if !isFinite(min) || !isFinite(max) || max < min {
		return GridSpec{}, fmt.Errorf("%w: bounds [%g, %g]", ErrInvalidDomain, min, max)
	}
	if !isFinite(step) || step <= 0 {
		return GridSpec{}, fmt.Errorf("%w: step %g must be positive", ErrInvalidDomain, step)
	}
	n := math.Floor((max - min) / step)
	if n > MaxPointsPerRow {
		return GridSpec{}, fmt.Errorf("%w: %g samples per row exceeds %d", ErrInvalidParameter, n+1, MaxPointsPerRow)
	}
	return GridSpec{Min: min, Step: step, Side: int(n) + 1}, nil
}

// Coord returns the i-th sample coordinate.
func (g GridSpec) Coord(i int) float64 {
	return g.Min + float64(i)*g.Step
}

// Coords returns all Side sample coordinates.
func (g GridSpec) Coords() []float64 {
	out := make([]float64, g.Side)
	for i := range out {
		out[i] = g.Coord(i)
	}
	return out
}

// Max returns the last sample coordinate.
func (g GridSpec) Max() float64 {
	return g.Coord(g.Side - 1)
}

// Index returns the row-major vertex index of (row, col).
func (g GridSpec) Index(row, col int) int {
	return row*g.Side + col
}

// VertexCount returns Side².
func (g GridSpec) VertexCount() int {
	return g.Side * g.Side
}

// FaceCount returns (Side-1)², the number of quads a full build emits.
func (g GridSpec) FaceCount() int {
	if g.Side < 2 {
		return 0
	}
	return (g.Side - 1) * (g.Side - 1)
}
