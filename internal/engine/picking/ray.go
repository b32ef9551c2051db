// Package picking turns cursor positions into world-space rays.
package picking

import (
	gomath "math"

	"github.com/Faultbox/densurf/internal/engine/camera"
	"github.com/Faultbox/densurf/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts pixel coordinates (origin top-left) within a
// viewport to a ray leaving the camera eye.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, cam *camera.OrbitCamera) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	tanHalf := float32(gomath.Tan(float64(cam.FovY) / 2))
	aspect := viewportW / viewportH
	forward, right, up := cam.Basis()

	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf))

	return Ray{Origin: cam.Position(), Direction: dir.Normalize()}
}

// IntersectPlaneZ intersects the ray with the horizontal plane z = planeZ.
func (r Ray) IntersectPlaneZ(planeZ float32) (x, y float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Z)) < 1e-6 {
		return 0, 0, false // parallel
	}

	t := (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return 0, 0, false // behind the origin
	}

	p := r.At(t)
	return p.X, p.Y, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// If the ray starts inside the box, the exit distance is returned.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin, tmax, ok := r.slabs(box)
	if !ok {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// slabs returns the parameter interval the ray spends inside box.
func (r Ray) slabs(box AABB) (tmin, tmax float32, ok bool) {
	tmin = float32(-gomath.MaxFloat32)
	tmax = float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}
	return tmin, tmax, tmax >= tmin && tmax >= 0
}

// HeightField samples surface heights over a domain.
type HeightField interface {
	// HeightAt returns the surface height at (x, y) and whether the point
	// lies inside the sampled domain.
	HeightAt(x, y float32) (float32, bool)
}

// IntersectHeightField marches the part of the ray inside box in steps of
// size step and refines the first downward crossing of the surface by
// bisection.
func (r Ray) IntersectHeightField(hf HeightField, box AABB, step float32) (math.Vec3, bool) {
	tmin, tmax, ok := r.slabs(box)
	if !ok || step <= 0 {
		return math.Vec3{}, false
	}
	tmin = max(tmin, 0)

	above := func(t float32) (bool, bool) {
		p := r.At(t)
		h, ok := hf.HeightAt(p.X, p.Y)
		return p.Z > h, ok
	}

	prevT := tmin
	prevAbove, prevOK := above(prevT)
	for t := tmin + step; prevT < tmax; t += step {
		t = min(t, tmax)
		curAbove, curOK := above(t)
		if prevOK && curOK && prevAbove && !curAbove {
			lo, hi := prevT, t
			for i := 0; i < 32; i++ {
				mid := (lo + hi) / 2
				if a, _ := above(mid); a {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At((lo + hi) / 2), true
		}
		prevT, prevAbove, prevOK = t, curAbove, curOK
	}
	return math.Vec3{}, false
}
