package math

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func nearVec(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestMulOrder(t *testing.T) {
	// scale first, then translate
	m := Translate(Vec3{10, 0, 0}).Mul(Scale(Vec3{2, 2, 2}))
	got := m.TransformPoint(Vec3{1, 1, 1})

	if want := (Vec3{12, 2, 2}); got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	// translation lives in the fourth column
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestLookAtMapsCenterToNegativeZ(t *testing.T) {
	eye := Vec3{3, 4, 5}
	center := Vec3{0, 0, 0}
	view := LookAt(eye, center, Vec3{0, 0, 1})

	got := view.TransformPoint(center)
	dist := eye.Sub(center).Length()
	if !nearVec(got, Vec3{0, 0, -dist}) {
		t.Errorf("center in view space: got %v, want (0, 0, %f)", got, -dist)
	}

	if got := view.TransformPoint(eye); !nearVec(got, Vec3{}) {
		t.Errorf("eye in view space: got %v, want origin", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(float32(math.Pi/2), 1, 1, 10)

	if got := proj.TransformPoint(Vec3{0, 0, -1}); !near(got.Z, -1) {
		t.Errorf("near plane depth: got %f, want -1", got.Z)
	}
	if got := proj.TransformPoint(Vec3{0, 0, -10}); !near(got.Z, 1) {
		t.Errorf("far plane depth: got %f, want 1", got.Z)
	}
	// 90 degree fov: a point at 45 degrees lands on the frustum edge
	if got := proj.TransformPoint(Vec3{2, 0, -2}); !near(got.X, 1) {
		t.Errorf("frustum edge: got %f, want 1", got.X)
	}
}
