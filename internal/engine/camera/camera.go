// Package camera provides the orbit camera used to inspect surfaces.
// The world is Z-up: the surface lies over the XY plane.
package camera

import (
	gomath "math"

	"github.com/Faultbox/densurf/pkg/math"
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates around Target
	Distance  float32
	Azimuth   float32 // radians around +Z, 0 looks from +X
	Elevation float32 // radians above the XY plane

	// Constraints
	MinDistance  float32
	MaxDistance  float32
	MinElevation float32
	MaxElevation float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FovY float32 // radians
	Near float32
	Far  float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20,
		Azimuth:         gomath.Pi / 4,
		Elevation:       gomath.Pi / 6,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinElevation:    -1.5,
		MaxElevation:    1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            gomath.Pi / 4,
		Near:            0.1,
		Far:             1000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Target.Add(c.offsetDir().Scale(c.Distance))
}

// offsetDir points from the target towards the camera.
func (c *OrbitCamera) offsetDir() math.Vec3 {
	ce := gomath.Cos(float64(c.Elevation))
	return math.Vec3{
		X: float32(ce * gomath.Cos(float64(c.Azimuth))),
		Y: float32(ce * gomath.Sin(float64(c.Azimuth))),
		Z: float32(gomath.Sin(float64(c.Elevation))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{Z: 1})
}

// ProjectionMatrix returns the perspective projection for an aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Basis returns the camera's forward, right and up unit vectors.
func (c *OrbitCamera) Basis() (forward, right, up math.Vec3) {
	forward = c.offsetDir().Scale(-1).Normalize()
	right = forward.Cross(math.Vec3{Z: 1}).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// SetAngles sets azimuth and elevation in degrees, clamping elevation.
func (c *OrbitCamera) SetAngles(azimuthDeg, elevationDeg float32) {
	c.Azimuth = azimuthDeg * gomath.Pi / 180
	c.Elevation = elevationDeg * gomath.Pi / 180
	c.clampElevation()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Azimuth -= deltaX * c.DragSensitivity
	c.Elevation += deltaY * c.DragSensitivity
	c.clampElevation()
}

func (c *OrbitCamera) clampElevation() {
	if c.Elevation < c.MinElevation {
		c.Elevation = c.MinElevation
	}
	if c.Elevation > c.MaxElevation {
		c.Elevation = c.MaxElevation
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on a box and backs off until the box's
// bounding sphere fits the vertical field of view. Near and far planes
// follow the distance.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Target = min.Lerp(max, 0.5)

	radius := max.Sub(min).Length() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = radius / float32(gomath.Sin(float64(c.FovY)/2)) * 1.1
	c.MinDistance = radius * 0.1
	c.MaxDistance = c.Distance * 20
	c.Near = c.Distance / 100
	c.Far = c.Distance + radius*40
}
