package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/densurf/internal/surface"
)

func build(t *testing.T, n int, zscale float64) *surface.Descriptor {
	t.Helper()
	p := surface.DefaultParams()
	p.PointsPerRow = n
	p.ZScale = zscale
	d, err := surface.Build(p)
	require.NoError(t, err)
	return d
}

func TestGridLayout(t *testing.T) {
	d := build(t, 6, 12)
	g, err := NewGrid(d)
	require.NoError(t, err)

	c, r := g.Dims()
	assert.Equal(t, 7, c)
	assert.Equal(t, 7, r)
	assert.Equal(t, -3.0, g.X(0))
	assert.Equal(t, 3.0, g.X(6))
	assert.Equal(t, -2.0, g.Y(1))

	// column walks x, row walks y
	v := d.Vertices[2*7+5]
	assert.Equal(t, v.X, g.X(2))
	assert.Equal(t, v.Y, g.Y(5))
	assert.Equal(t, v.Z, g.Z(2, 5))
}

func TestNewGrid_TooSmall(t *testing.T) {
	_, err := NewGrid(nil)
	assert.ErrorIs(t, err, ErrGridTooSmall)

	g, err := surface.NewGridSpec(0, 0.5, 1)
	require.NoError(t, err)
	d, err := surface.BuildGrid(g, 0, 1, false)
	require.NoError(t, err)
	_, err = NewGrid(d)
	assert.ErrorIs(t, err, ErrGridTooSmall)
}

func TestContourLevels(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, contourLevels(0, 4, 3))
	assert.Nil(t, contourLevels(0, 4, 0))
	assert.Nil(t, contourLevels(1, 1, 5))
}

func TestHeatmapPNG(t *testing.T) {
	var buf bytes.Buffer
	o := DefaultHeatmapOptions()
	o.Width, o.Height = 320, 240
	require.NoError(t, HeatmapPNG(&buf, build(t, 20, 12), o))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestHeatmapPNG_FlatSurface(t *testing.T) {
	var buf bytes.Buffer
	o := DefaultHeatmapOptions()
	o.Width, o.Height = 100, 100
	require.NoError(t, HeatmapPNG(&buf, build(t, 4, 0), o))
	assert.NotZero(t, buf.Len())
}

func TestHeatmapPNG_BadSize(t *testing.T) {
	o := DefaultHeatmapOptions()
	o.Width = 0
	assert.Error(t, HeatmapPNG(&bytes.Buffer{}, build(t, 4, 1), o))
}

func TestChartIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, chartIndices(4))
	assert.Len(t, chartIndices(MaxChartSide), MaxChartSide)

	for _, side := range []int{102, 201, 1001, 32769} {
		idx := chartIndices(side)
		assert.LessOrEqual(t, len(idx), MaxChartSide+1, "side %d", side)
		assert.Equal(t, 0, idx[0])
		assert.Equal(t, side-1, idx[len(idx)-1])
	}
}

func TestSurface3DHTML(t *testing.T) {
	p := surface.DefaultParams()
	p.PointsPerRow = 10
	d, err := surface.Build(p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Surface3DHTML(&buf, d, ChartOptions{Title: "density", Theme: "dark", Params: p}))

	html := buf.String()
	assert.Contains(t, html, `"type":"surface"`)
	assert.NotContains(t, html, `"type":"scatter3D"`)
	assert.Contains(t, html, "npoints=10")
	assert.Contains(t, html, "Top view")
}
