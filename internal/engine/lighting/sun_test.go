package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/densurf/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		azimuth, elevation float32
		want               math.Vec3
	}{
		{0, 0, math.Vec3{X: 1}},
		{90, 0, math.Vec3{Y: 1}},
		{180, 0, math.Vec3{X: -1}},
		{0, 90, math.Vec3{Z: 1}},
	}

	for _, tt := range tests {
		got := SunDirection(tt.azimuth, tt.elevation)
		if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
			t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
		}
		if !near(got.Length(), 1) {
			t.Errorf("SunDirection(%v, %v) not unit length", tt.azimuth, tt.elevation)
		}
	}
}

func TestIntensityIsTwoSided(t *testing.T) {
	s := Sun{Direction: math.Vec3{Z: 1}}

	if got := s.Intensity(math.Vec3{Z: 2}); !near(got, 1) {
		t.Errorf("facing normal: got %f, want 1", got)
	}
	if got := s.Intensity(math.Vec3{Z: -1}); !near(got, 1) {
		t.Errorf("back-facing normal: got %f, want 1", got)
	}
	if got := s.Intensity(math.Vec3{X: 1}); !near(got, 0) {
		t.Errorf("grazing normal: got %f, want 0", got)
	}
}
