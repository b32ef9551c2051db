package heightfield

import "github.com/Faultbox/densurf/internal/surface"

// Sampler interpolates heights between grid samples. It satisfies
// picking.HeightField.
type Sampler struct {
	min  float32
	step float32
	side int
	z    []float32
}

// NewSampler captures the heights of a complete grid descriptor.
func NewSampler(d *surface.Descriptor) (*Sampler, error) {
	if d.Side < 2 || len(d.Vertices) != d.Side*d.Side {
		return nil, ErrIncompleteGrid
	}
	s := &Sampler{
		min:  float32(d.Vertices[0].X),
		step: float32(d.Vertices[d.Side].X - d.Vertices[0].X),
		side: d.Side,
		z:    make([]float32, len(d.Vertices)),
	}
	for i, v := range d.Vertices {
		s.z[i] = float32(v.Z)
	}
	return s, nil
}

// HeightAt returns the bilinearly interpolated height at (x, y).
func (s *Sampler) HeightAt(x, y float32) (float32, bool) {
	fx := (x - s.min) / s.step
	fy := (y - s.min) / s.step
	last := float32(s.side - 1)
	if fx < 0 || fy < 0 || fx > last || fy > last {
		return 0, false
	}

	row := min(int(fx), s.side-2)
	col := min(int(fy), s.side-2)
	tx := clampf(fx-float32(row), 0, 1)
	ty := clampf(fy-float32(col), 0, 1)

	at := func(r, c int) float32 { return s.z[r*s.side+c] }
	low := at(row, col)*(1-ty) + at(row, col+1)*ty
	high := at(row+1, col)*(1-ty) + at(row+1, col+1)*ty
	return low*(1-tx) + high*tx, true
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
