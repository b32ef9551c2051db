package heightfield

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/densurf/internal/surface"
)

func build(t *testing.T, n int, faces bool) *surface.Descriptor {
	t.Helper()
	p := surface.DefaultParams()
	p.PointsPerRow = n
	p.AddFaces = faces
	d, err := surface.Build(p)
	require.NoError(t, err)
	return d
}

func TestBuildMesh_Triangles(t *testing.T) {
	d := build(t, 6, true)
	m, err := BuildMesh(d)
	require.NoError(t, err)

	assert.Equal(t, Triangles, m.Primitive)
	assert.Len(t, m.Vertices, 49)
	assert.Len(t, m.Indices, 36*6)
	// face (0, 1, 8, 7) splits into (0, 1, 8) and (0, 8, 7)
	assert.Equal(t, []uint32{0, 1, 8, 0, 8, 7}, m.Indices[:6])

	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Vertices))
	}
}

func TestBuildMesh_PointCloud(t *testing.T) {
	m, err := BuildMesh(build(t, 4, false))
	require.NoError(t, err)

	assert.Equal(t, Points, m.Primitive)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24}, m.Indices)
}

func TestBuildMesh_NormalsFaceUp(t *testing.T) {
	m, err := BuildMesh(build(t, 10, true))
	require.NoError(t, err)

	for i, v := range m.Vertices {
		n := v.Normal
		l := gomath.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		assert.InDelta(t, 1, l, 1e-5, "vertex %d", i)
		assert.Greater(t, n[2], float32(0), "vertex %d", i)
	}

	// the peak sits at the grid center, where the surface is flat
	center := m.Vertices[5*11+5].Normal
	assert.InDelta(t, 1, center[2], 1e-6)
}

func TestBuildMesh_ColorsFollowHeight(t *testing.T) {
	d := build(t, 10, true)
	m, err := BuildMesh(d)
	require.NoError(t, err)

	peak, _ := d.Peak()
	corner := m.Vertices[0].Color
	top := m.Vertices[peak].Color
	assert.NotEqual(t, corner, top)
	assert.Greater(t, top[0], corner[0], "peak is redder than the floor")
	assert.Equal(t, float32(1), top[3])
}

func TestBuildMesh_Bounds(t *testing.T) {
	d := build(t, 6, true)
	m, err := BuildMesh(d)
	require.NoError(t, err)

	assert.Equal(t, float32(-3), m.Bounds.Min.X)
	assert.Equal(t, float32(3), m.Bounds.Max.Y)
	assert.Equal(t, float32(0), m.Bounds.Center().X)
}

func TestBuildMesh_Incomplete(t *testing.T) {
	d := build(t, 4, true)
	d.Vertices = d.Vertices[:10]
	_, err := BuildMesh(d)
	assert.ErrorIs(t, err, ErrIncompleteGrid)
}

func TestSampler(t *testing.T) {
	d := build(t, 6, true)
	s, err := NewSampler(d)
	require.NoError(t, err)

	// exact on grid points
	v := d.Vertices[3*7+4]
	h, ok := s.HeightAt(float32(v.X), float32(v.Y))
	require.True(t, ok)
	assert.InDelta(t, v.Z, h, 1e-5)

	// midway between two samples along y
	a, b := d.Vertices[2*7+2], d.Vertices[2*7+3]
	h, ok = s.HeightAt(float32(a.X), float32((a.Y+b.Y)/2))
	require.True(t, ok)
	assert.InDelta(t, (a.Z+b.Z)/2, h, 1e-5)

	// the far corner is inside
	_, ok = s.HeightAt(3, 3)
	assert.True(t, ok)

	_, ok = s.HeightAt(3.5, 0)
	assert.False(t, ok)
}
