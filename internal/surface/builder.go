package surface

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// parallelThreshold is the smallest Side for which Builder fans out.
const parallelThreshold = 128

// Build samples the density described by p and returns the mesh descriptor.
// Invalid parameters are reported before any allocation.
func Build(p Params) (*Descriptor, error) {
	var b Builder
	return b.Build(context.Background(), p)
}

// BuildGrid builds over an explicit grid. See Builder.BuildGrid.
func BuildGrid(g GridSpec, rho, zScale float64, addFaces bool) (*Descriptor, error) {
	var b Builder
	return b.BuildGrid(context.Background(), g, rho, zScale, addFaces)
}

// Builder evaluates densities, optionally across several goroutines. The
// zero value builds sequentially. Output is identical for any worker count.
type Builder struct {
	// Workers caps the number of goroutines. Zero or one means sequential,
	// a negative value means runtime.NumCPU().
	Workers int
}

// Build validates p and builds its grid.
func (b *Builder) Build(ctx context.Context, p Params) (*Descriptor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return b.BuildGrid(ctx, p.Grid(), p.Correlation, p.ZScale, p.AddFaces)
}

// BuildGrid samples g. An empty grid is degenerate. A single-point grid is
// degenerate when faces are requested and a one-vertex point cloud otherwise.
func (b *Builder) BuildGrid(ctx context.Context, g GridSpec, rho, zScale float64, addFaces bool) (*Descriptor, error) {
	if g.Side < 1 {
		return nil, fmt.Errorf("%w: side %d", ErrDegenerateGrid, g.Side)
	}
	if addFaces && g.Side < 2 {
		return nil, fmt.Errorf("%w: %d sample per row cannot form faces", ErrDegenerateGrid, g.Side)
	}
	if g.Side > MaxPointsPerRow+1 {
		return nil, fmt.Errorf("%w: side %d exceeds %d", ErrInvalidParameter, g.Side, MaxPointsPerRow+1)
	}
	if !isFinite(g.Min) || !isFinite(g.Step) || g.Step <= 0 {
		return nil, fmt.Errorf("%w: grid min %g step %g", ErrInvalidDomain, g.Min, g.Step)
	}
	if err := checkZScale(zScale); err != nil {
		return nil, err
	}
	dens, err := Density(rho)
	if err != nil {
		return nil, err
	}

	coords := g.Coords()
	vertices := make([]r3.Vec, g.VertexCount())

	workers := b.workerCount(g.Side)
	if workers <= 1 {
		sampleRows(dens, coords, zScale, vertices, 0, g.Side)
	} else {
		eg, ctx := errgroup.WithContext(ctx)
		chunk := (g.Side + workers - 1) / workers
		for lo := 0; lo < g.Side; lo += chunk {
			hi := min(lo+chunk, g.Side)
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Each goroutine gets its own distribution.
				local, err := Density(rho)
				if err != nil {
					return err
				}
				sampleRows(local, coords, zScale, vertices, lo, hi)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	faces := []Face{}
	if addFaces {
		faces = quadFaces(g.Side)
	}

	return &Descriptor{
		Vertices: vertices,
		Edges:    []Edge{},
		Faces:    faces,
		Side:     g.Side,
	}, nil
}

func (b *Builder) workerCount(side int) int {
	if side < parallelThreshold {
		return 1
	}
	w := b.Workers
	if w < 0 {
		w = runtime.NumCPU()
	}
	return min(w, side)
}

// sampleRows fills rows [lo, hi). Row r holds x = coords[r], column c holds
// y = coords[c].
func sampleRows(dens *Bivariate, coords []float64, zScale float64, dst []r3.Vec, lo, hi int) {
	side := len(coords)
	for r := lo; r < hi; r++ {
		x := coords[r]
		row := dst[r*side : (r+1)*side]
		for c, y := range coords {
			row[c] = r3.Vec{X: x, Y: y, Z: zScale * dens.At(x, y)}
		}
	}
}

// quadFaces emits one quad per cell not on the last row or column.
func quadFaces(side int) []Face {
	faces := make([]Face, 0, (side-1)*(side-1))
	for r := 0; r < side-1; r++ {
		for c := 0; c < side-1; c++ {
			i := r*side + c
			faces = append(faces, Face{i, i + 1, i + side + 1, i + side})
		}
	}
	return faces
}
