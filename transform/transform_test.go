package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func vecNear(a, b mgl32.Vec3) bool {
	return math.Abs(float64(a[0]-b[0])) < eps &&
		math.Abs(float64(a[1]-b[1])) < eps &&
		math.Abs(float64(a[2]-b[2])) < eps
}

func identityRaw() []float32 {
	return []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TestDecodeIdentity(t *testing.T) {
	d, err := DecodeMatrix(identityRaw())
	if err != nil {
		t.Fatal(err)
	}
	if !vecNear(d.Position, mgl32.Vec3{}) {
		t.Errorf("Identity position = %v; expected zero", d.Position)
	}
	if !vecNear(d.Euler, mgl32.Vec3{}) {
		t.Errorf("Identity euler = %v; expected zero", d.Euler)
	}
	if !vecNear(d.Scale, mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Identity scale = %v; expected ones", d.Scale)
	}
	if !vecNear(d.Forward, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Identity forward = %v; expected (0,0,-1)", d.Forward)
	}
}

func TestDecodeTranslationMirror(t *testing.T) {
	raw := identityRaw()
	raw[12] = 3.5
	raw[13] = -2
	raw[14] = 7

	d, err := DecodeMatrix(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !vecNear(d.Position, mgl32.Vec3{-3.5, -2, 7}) {
		t.Errorf("Position = %v; expected (-3.5,-2,7)", d.Position)
	}

	raw[12] = -raw[12]
	neg, err := DecodeMatrix(raw)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(neg.Position.X()+d.Position.X())) > eps {
		t.Errorf("Negated X translation decoded to %v; expected %v",
			neg.Position.X(), -d.Position.X())
	}
	if !vecNear(neg.Position, mgl32.Vec3{3.5, -2, 7}) {
		t.Errorf("Position = %v; expected (3.5,-2,7)", neg.Position)
	}
}

func TestDecodeYawMirror(t *testing.T) {
	var yawTests = []float32{0.3, -0.7, 1.2}

	for _, yaw := range yawTests {
		m := mgl32.HomogRotate3DY(yaw)
		d := DecodeMat4(m)

		expected := mgl32.Vec3{0, -yaw, 0}
		if !vecNear(d.Euler, expected) {
			t.Errorf("Yaw %v euler = %v; expected %v", yaw, d.Euler, expected)
		}
	}
}

func TestDecodeScale(t *testing.T) {
	m := mgl32.Scale3D(2, 3, 4)
	d := DecodeMat4(m)
	if !vecNear(d.Scale, mgl32.Vec3{2, 3, 4}) {
		t.Errorf("Scale = %v; expected (2,3,4)", d.Scale)
	}
	if !vecNear(d.Euler, mgl32.Vec3{}) {
		t.Errorf("Pure scale euler = %v; expected zero", d.Euler)
	}
}

func TestDecodeMatrixLength(t *testing.T) {
	if _, err := DecodeMatrix(make([]float32, 12)); err == nil {
		t.Errorf("Expected error for 12 element matrix")
	}
	if _, err := DecodeMatrix(nil); err == nil {
		t.Errorf("Expected error for nil matrix")
	}
}

var eulerTests = []mgl32.Vec3{
	{0, 0, 0},
	{0.5, 0, 0},
	{0, 0.5, 0},
	{0, 0, 0.5},
	{0.3, -0.4, 0.5},
	{-1.2, 0.7, -0.1},
}

func TestEulerQuatRoundtrip(t *testing.T) {
	for _, e := range eulerTests {
		q := EulerToQuat(e)
		back := QuatToEuler(q)
		if !vecNear(back, e) {
			t.Errorf("QuatToEuler(EulerToQuat(%v)) = %v; expected %v", e, back, e)
		}
	}
}

var fovTests = []struct {
	angle, aspect float64
}{
	{80, 16.0 / 9.0},
	{60, 4.0 / 3.0},
	{90, 1.0},
}

func TestFOVRoundtrip(t *testing.T) {
	for _, test := range fovTests {
		v := HorizontalToVerticalFOV(test.angle, test.aspect)
		h := VerticalToHorizontalFOV(v, test.aspect)
		if math.Abs(h-test.angle) > 1e-9 {
			t.Errorf("FOV roundtrip %v/%v = %v; expected %v",
				test.angle, test.aspect, h, test.angle)
		}
		if test.aspect == 1.0 && math.Abs(v-test.angle) > 1e-9 {
			t.Errorf("Square aspect changed fov %v to %v", test.angle, v)
		}
	}
}
