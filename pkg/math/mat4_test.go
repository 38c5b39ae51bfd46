package math

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	m := RotateEulerXYZ([3]float32{0, 0, 90})
	p := m.TransformPoint([3]float32{1, 0, 0})
	if !approx(p[0], 0) || !approx(p[1], 1) || !approx(p[2], 0) {
		t.Errorf("Rz(90) * +X = %v, want (0, 1, 0)", p)
	}
}

func TestBoneChainOrigin(t *testing.T) {
	// Rotate then walk 5 along local +X: the child sits at (0, 5, 0).
	m := RotateEulerXYZ([3]float32{0, 0, 90}).Mul(Translate(5, 0, 0))
	o := m.Origin()
	if !approx(o.X, 0) || !approx(o.Y, 5) || !approx(o.Z, 0) {
		t.Errorf("origin = %v, want (0, 5, 0)", o)
	}
}

func TestQuatMatchesEulerMatrix(t *testing.T) {
	rot := [3]float32{30, -45, 60}
	fromEuler := RotateEulerXYZ(rot)
	fromQuat := QuatFromEulerXYZ(rot).ToMat4()

	for i := 0; i < 16; i++ {
		if !approx(fromEuler[i], fromQuat[i]) {
			t.Fatalf("element %d: euler %f, quat %f", i, fromEuler[i], fromQuat[i])
		}
	}
}

func TestQuatIdentity(t *testing.T) {
	q := QuatFromEulerXYZ([3]float32{})
	if q != QuatIdentity() {
		t.Errorf("zero euler = %v, want identity", q)
	}
	if q.Array() != [4]float32{0, 0, 0, 1} {
		t.Errorf("Array() = %v", q.Array())
	}
}
