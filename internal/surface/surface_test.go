package surface

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// closedForm is the textbook density for unit variances and correlation rho.
func closedForm(x, y, rho float64) float64 {
	q := 1 - rho*rho
	return 1 / (2 * math.Pi * math.Sqrt(q)) * math.Exp(-(x*x-2*rho*x*y+y*y)/(2*q))
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 50, p.PointsPerRow)
	assert.Equal(t, -3.0, p.Min)
	assert.Equal(t, 3.0, p.Max)
	assert.Equal(t, 0.8, p.Correlation)
	assert.Equal(t, 12.0, p.ZScale)
	assert.True(t, p.AddFaces)
	require.NoError(t, p.Validate())
}

func TestBuild_SixPointScenario(t *testing.T) {
	p := Params{PointsPerRow: 6, Min: -3, Max: 3, Correlation: 0.8, ZScale: 12, AddFaces: true}

	d, err := Build(p)
	require.NoError(t, err)

	assert.Equal(t, 7, d.Side)
	assert.Len(t, d.Vertices, 49)
	assert.Len(t, d.Faces, 36)
	assert.Empty(t, d.Edges)

	// First row walks y with x fixed at vmin.
	assert.Equal(t, r3.Vec{X: -3, Y: -3, Z: d.Vertices[0].Z}, d.Vertices[0])
	assert.Equal(t, -2.0, d.Vertices[1].Y)
	assert.Equal(t, -3.0, d.Vertices[1].X)
	assert.Equal(t, -2.0, d.Vertices[7].X)
	assert.Equal(t, 3.0, d.Vertices[48].X)
	assert.Equal(t, 3.0, d.Vertices[48].Y)

	assert.Equal(t, Face{0, 1, 8, 7}, d.Faces[0])
	assert.Equal(t, Face{40, 41, 48, 47}, d.Faces[35])
}

func TestBuild_Counts(t *testing.T) {
	tests := []struct {
		name string
		min  float64
		max  float64
		n    int
	}{
		{"single cell", 0, 1, 1},
		{"soft minimum", -3, 3, 5},
		{"default", -3, 3, 50},
		{"asymmetric", -1, 4.5, 17},
		{"tiny domain", 1e-3, 2e-3, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, faces := range []bool{true, false} {
				p := Params{PointsPerRow: tt.n, Min: tt.min, Max: tt.max, Correlation: 0.3, ZScale: 1, AddFaces: faces}
				d, err := Build(p)
				require.NoError(t, err)

				side := tt.n + 1
				assert.Equal(t, side, d.Side)
				assert.Len(t, d.Vertices, side*side)
				if faces {
					assert.Len(t, d.Faces, (side-1)*(side-1))
				} else {
					assert.Empty(t, d.Faces)
				}
			}
		})
	}
}

func TestBuild_FaceIndices(t *testing.T) {
	d, err := Build(Params{PointsPerRow: 12, Min: -2, Max: 2, Correlation: -0.5, ZScale: 5, AddFaces: true})
	require.NoError(t, err)

	n := len(d.Vertices)
	for i, f := range d.Faces {
		seen := map[int]bool{}
		for _, idx := range f {
			if idx < 0 || idx >= n {
				t.Fatalf("face %d index %d out of range [0, %d)", i, idx, n)
			}
			if seen[idx] {
				t.Fatalf("face %d repeats index %d: %v", i, idx, f)
			}
			seen[idx] = true
		}
	}
}

func TestBuild_SingleWinding(t *testing.T) {
	d, err := Build(Params{PointsPerRow: 20, Min: -3, Max: 3, Correlation: 0.9, ZScale: 30, AddFaces: true})
	require.NoError(t, err)

	for i, f := range d.Faces {
		if nz := d.FaceNormal(f).Z; nz >= 0 {
			t.Fatalf("face %d normal z = %g, want < 0 (clockwise from +Z)", i, nz)
		}
	}

	flipped := d.FlipWinding()
	require.Len(t, flipped.Faces, len(d.Faces))
	for i, f := range flipped.Faces {
		if nz := flipped.FaceNormal(f).Z; nz <= 0 {
			t.Fatalf("flipped face %d normal z = %g, want > 0", i, nz)
		}
	}
	assert.Equal(t, Face{0, 21, 22, 1}, flipped.Faces[0])
}

func TestDensity_MatchesClosedForm(t *testing.T) {
	for _, rho := range []float64{-0.99, -0.5, 0, 0.3, 0.8, 0.99} {
		dens, err := Density(rho)
		require.NoError(t, err)
		for _, pt := range [][2]float64{{0, 0}, {1, -1}, {-2.5, 0.7}, {3, 3}, {0.1, 2}} {
			want := closedForm(pt[0], pt[1], rho)
			got := dens.At(pt[0], pt[1])
			assert.InDelta(t, want, got, 1e-12, "rho=%g at %v", rho, pt)
		}
	}
}

func TestDensity_Symmetric(t *testing.T) {
	for _, rho := range []float64{-0.9, 0, 0.45, 0.99} {
		dens, err := Density(rho)
		require.NoError(t, err)
		for _, pt := range [][2]float64{{0.5, -1.25}, {2, 0.1}, {-3, 1}} {
			assert.InDelta(t, dens.At(pt[0], pt[1]), dens.At(pt[1], pt[0]), 1e-14)
		}
	}
}

func TestDensity_IndependenceFactorization(t *testing.T) {
	dens, err := Density(0)
	require.NoError(t, err)

	f00 := dens.At(0, 0)
	for _, pt := range [][2]float64{{1, 1}, {-0.5, 2}, {2.2, -1.7}} {
		x, y := pt[0], pt[1]
		want := dens.At(x, 0) * dens.At(0, y) / f00
		assert.InDelta(t, want, dens.At(x, y), 1e-14)
	}
}

func TestDensity_RejectsBadCorrelation(t *testing.T) {
	for _, rho := range []float64{1, -1, 0.995, -2, math.NaN(), math.Inf(1)} {
		_, err := Density(rho)
		assert.ErrorIs(t, err, ErrInvalidParameter, "rho=%g", rho)
	}
}

func TestBuild_PeakNearOrigin(t *testing.T) {
	for _, rho := range []float64{-0.99, -0.6, 0, 0.8, 0.99} {
		d, err := Build(Params{PointsPerRow: 6, Min: -3, Max: 3, Correlation: rho, ZScale: 1, AddFaces: false})
		require.NoError(t, err)

		idx, top := d.Peak()
		assert.Equal(t, 3*7+3, idx, "rho=%g", rho)
		assert.Equal(t, 0.0, top.X)
		assert.Equal(t, 0.0, top.Y)
	}
}

func TestBuild_HighCorrelationFinite(t *testing.T) {
	for _, rho := range []float64{0.99, -0.99} {
		d, err := Build(Params{PointsPerRow: 80, Min: -5, Max: 5, Correlation: rho, ZScale: 12, AddFaces: true})
		require.NoError(t, err)
		for i, v := range d.Vertices {
			if math.IsNaN(v.Z) || math.IsInf(v.Z, 0) {
				t.Fatalf("vertex %d has non-finite z %g", i, v.Z)
			}
		}
	}
}

func TestBuild_ZScale(t *testing.T) {
	base := Params{PointsPerRow: 8, Min: -2, Max: 2, Correlation: 0.4, ZScale: 1}
	one, err := Build(base)
	require.NoError(t, err)

	base.ZScale = 0
	flat, err := Build(base)
	require.NoError(t, err)

	base.ZScale = 12
	tall, err := Build(base)
	require.NoError(t, err)

	for i := range one.Vertices {
		assert.Equal(t, 0.0, flat.Vertices[i].Z)
		assert.InDelta(t, 12*one.Vertices[i].Z, tall.Vertices[i].Z, 1e-12)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	valid := DefaultParams()
	tests := []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"max below min", func(p *Params) { p.Min, p.Max = 0, -1 }, ErrInvalidDomain},
		{"max equals min", func(p *Params) { p.Min, p.Max = 2, 2 }, ErrInvalidDomain},
		{"nan min", func(p *Params) { p.Min = math.NaN() }, ErrInvalidDomain},
		{"infinite max", func(p *Params) { p.Max = math.Inf(1) }, ErrInvalidDomain},
		{"overflowing span", func(p *Params) { p.Min, p.Max = -math.MaxFloat64, math.MaxFloat64 }, ErrInvalidDomain},
		{"zero points", func(p *Params) { p.PointsPerRow = 0 }, ErrInvalidParameter},
		{"negative points", func(p *Params) { p.PointsPerRow = -4 }, ErrInvalidParameter},
		{"too many points", func(p *Params) { p.PointsPerRow = MaxPointsPerRow + 1 }, ErrInvalidParameter},
		{"correlation one", func(p *Params) { p.Correlation = 1 }, ErrInvalidParameter},
		{"correlation below range", func(p *Params) { p.Correlation = -0.999 }, ErrInvalidParameter},
		{"nan correlation", func(p *Params) { p.Correlation = math.NaN() }, ErrInvalidParameter},
		{"negative zscale", func(p *Params) { p.ZScale = -1 }, ErrInvalidParameter},
		{"infinite zscale", func(p *Params) { p.ZScale = math.Inf(1) }, ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			d, err := Build(p)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_CorrelationLimitsAccepted(t *testing.T) {
	for _, rho := range []float64{MinCorrelation, MaxCorrelation} {
		p := DefaultParams()
		p.Correlation = rho
		_, err := Build(p)
		assert.NoError(t, err, "rho=%g", rho)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	p := Params{PointsPerRow: 33, Min: -2.5, Max: 4, Correlation: -0.7, ZScale: 9, AddFaces: true}
	a, err := Build(p)
	require.NoError(t, err)
	b, err := Build(p)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated build differs (-first +second):\n%s", diff)
	}
}

func TestBuilder_ParallelMatchesSequential(t *testing.T) {
	p := Params{PointsPerRow: 300, Min: -4, Max: 4, Correlation: 0.8, ZScale: 12, AddFaces: true}
	seq, err := Build(p)
	require.NoError(t, err)

	for _, workers := range []int{2, 7, -1} {
		b := Builder{Workers: workers}
		par, err := b.Build(context.Background(), p)
		require.NoError(t, err)
		if diff := cmp.Diff(seq, par); diff != "" {
			t.Fatalf("workers=%d differs from sequential build:\n%s", workers, diff)
		}
	}
}

func TestBuilder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Builder{Workers: 4}
	p := Params{PointsPerRow: 200, Min: -3, Max: 3, Correlation: 0.1, ZScale: 1}
	d, err := b.Build(ctx, p)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNewGridSpec(t *testing.T) {
	g, err := NewGridSpec(-3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, g.Side)
	assert.Equal(t, 3.0, g.Max())
	assert.Equal(t, 49, g.VertexCount())
	assert.Equal(t, 36, g.FaceCount())
	assert.Equal(t, 10, g.Index(1, 3))

	g, err = NewGridSpec(0, 1, 0.3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.3, 0.6, 0.8999999999999999}, g.Coords())

	_, err = NewGridSpec(0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidDomain)
	_, err = NewGridSpec(1, 0, 0.1)
	assert.ErrorIs(t, err, ErrInvalidDomain)
	_, err = NewGridSpec(0, 1, 1e-9)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBuildGrid_Degenerate(t *testing.T) {
	g, err := NewGridSpec(0, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, g.Side)

	_, err = BuildGrid(g, 0.5, 1, true)
	assert.ErrorIs(t, err, ErrDegenerateGrid)

	d, err := BuildGrid(g, 0.5, 1, false)
	require.NoError(t, err)
	assert.Len(t, d.Vertices, 1)
	assert.Empty(t, d.Faces)
	assert.InDelta(t, closedForm(0, 0, 0.5), d.Vertices[0].Z, 1e-12)

	_, err = BuildGrid(GridSpec{Min: 0, Step: 1, Side: 0}, 0, 1, false)
	assert.ErrorIs(t, err, ErrDegenerateGrid)
}

func TestPointLimit(t *testing.T) {
	p := DefaultParams()
	p.PointsPerRow = MaxPointsPerRow
	require.NoError(t, p.Validate())
	assert.Equal(t, MaxPointsPerRow+1, p.Grid().Side)

	p.PointsPerRow++
	assert.ErrorIs(t, p.Validate(), ErrInvalidParameter)

	g, err := NewGridSpec(0, MaxPointsPerRow, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxPointsPerRow+1, g.Side)
	_, err = NewGridSpec(0, MaxPointsPerRow+1, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// rejected before the vertex slice is allocated
	d, err := BuildGrid(GridSpec{Min: 0, Step: 1, Side: 1 << 16}, 0, 1, true)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDescriptor_Bounds(t *testing.T) {
	d, err := Build(Params{PointsPerRow: 6, Min: -3, Max: 3, Correlation: 0, ZScale: 2, AddFaces: true})
	require.NoError(t, err)

	b := d.Bounds()
	assert.Equal(t, -3.0, b.Min.X)
	assert.Equal(t, 3.0, b.Max.Y)
	assert.InDelta(t, 2*closedForm(0, 0, 0), b.Max.Z, 1e-12)
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: (b.Min.Z + b.Max.Z) / 2}, b.Center())

	var empty Descriptor
	assert.Equal(t, Bounds{}, empty.Bounds())
	idx, _ := empty.Peak()
	assert.Equal(t, -1, idx)
}

type recordingConstructor struct {
	name     string
	vertices []r3.Vec
	edges    [][2]int
	faces    [][]int
	fail     error
}

type namedHandle string

func (h namedHandle) MeshName() string { return string(h) }

func (r *recordingConstructor) NewMesh(name string, vertices []r3.Vec, edges [][2]int, faces [][]int) (MeshHandle, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.name, r.vertices, r.edges, r.faces = name, vertices, edges, faces
	return namedHandle(name), nil
}

func TestEmit(t *testing.T) {
	d, err := Build(Params{PointsPerRow: 2, Min: 0, Max: 1, Correlation: 0, ZScale: 1, AddFaces: true})
	require.NoError(t, err)

	rec := &recordingConstructor{}
	h, err := Emit(rec, "bivar_normal_curve", d)
	require.NoError(t, err)
	assert.Equal(t, "bivar_normal_curve", h.MeshName())
	assert.Len(t, rec.vertices, 9)
	assert.Empty(t, rec.edges)
	assert.Equal(t, [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}, {3, 4, 7, 6}, {4, 5, 8, 7}}, rec.faces)

	boom := errors.New("host refused")
	_, err = Emit(&recordingConstructor{fail: boom}, "x", d)
	assert.ErrorIs(t, err, boom)
}
