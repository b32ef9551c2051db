package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/densurf/internal/engine/debug"
	"github.com/Faultbox/densurf/internal/engine/heightfield"
	"github.com/Faultbox/densurf/pkg/math"
)

func TestSupersampleSize(t *testing.T) {
	tests := []struct {
		factor       int
		wantW, wantH int
	}{
		{0, 320, 200},
		{1, 320, 200},
		{2, 640, 400},
		{4, 1280, 800},
	}
	for _, tt := range tests {
		w, h := SupersampleSize(320, 200, tt.factor)
		assert.Equal(t, tt.wantW, w, "factor %d", tt.factor)
		assert.Equal(t, tt.wantH, h, "factor %d", tt.factor)
	}
}

func TestBoundsLines(t *testing.T) {
	b := heightfield.Bounds{
		Min: math.Vec3{X: -3, Y: -3, Z: 0},
		Max: math.Vec3{X: 3, Y: 3, Z: 2},
	}
	lines := BoundsLines(b)
	require.Len(t, lines, debug.BBoxWireframeVertexCount)
	for _, v := range lines {
		assert.Equal(t, boundsColor, [3]float32{v.R, v.G, v.B})
		assert.LessOrEqual(t, v.Z, float32(2.1))
		assert.GreaterOrEqual(t, v.Z, float32(-0.1))
	}
}

func TestFloorLines(t *testing.T) {
	b := heightfield.Bounds{
		Min: math.Vec3{X: -3, Y: -3, Z: 0.5},
		Max: math.Vec3{X: 3, Y: 3, Z: 2},
	}
	lines := FloorLines(b)
	require.NotEmpty(t, lines)
	for _, v := range lines {
		assert.Equal(t, float32(0.5), v.Z)
	}

	// step 1 over [-3, 3] gives 7 lines per direction
	assert.Len(t, lines, 2*7*2)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.ShowBounds)
	assert.True(t, opts.ShowFloor)
	assert.False(t, opts.Wireframe)
	assert.Greater(t, opts.Sun.Direction.Z, float32(0))
}
