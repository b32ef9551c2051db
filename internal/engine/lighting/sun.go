// Package lighting provides the directional light used for surface shading.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/densurf/pkg/math"
)

// SunDirection converts azimuth (degrees around +Z, 0 = +X) and elevation
// (degrees above the XY plane) to a unit vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180
	el := float64(elevation) * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Cos(az)),
		Y: float32(gomath.Cos(el) * gomath.Sin(az)),
		Z: float32(gomath.Sin(el)),
	}
}

// Sun is a directional light with an ambient floor.
type Sun struct {
	Direction math.Vec3 // towards the light
	Ambient   [3]float32
	Diffuse   [3]float32
}

// DefaultSun lights the surface from the upper front-left.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(135, 50),
		Ambient:   [3]float32{0.3, 0.3, 0.32},
		Diffuse:   [3]float32{0.75, 0.75, 0.7},
	}
}

// Intensity returns the two-sided Lambert factor for a surface normal.
// Both sides of the sheet are lit since the surface is open.
func (s Sun) Intensity(normal math.Vec3) float32 {
	d := normal.Normalize().Dot(s.Direction.Normalize())
	if d < 0 {
		d = -d
	}
	return d
}
