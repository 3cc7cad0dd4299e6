package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const MATRIX_ELEMENTS_COUNT = 16

// Decoded is an object transform re-expressed in the viewer convention.
// Manifest matrices are column-major and right-handed as exported;
// the viewer wants left-handed with X mirrored across the YZ plane.
// That flip is a contract with the exporter, not something derivable
// from the data itself.
type Decoded struct {
	Position mgl32.Vec3
	Euler    mgl32.Vec3 // radians
	Scale    mgl32.Vec3
	Rotation mgl32.Quat
	Forward  mgl32.Vec3
}

// DecodeMatrix converts a 16 element column-major matrix from a manifest
// entry. Camera, light, speaker and empty paths all go through here.
func DecodeMatrix(raw []float32) (Decoded, error) {
	if len(raw) != MATRIX_ELEMENTS_COUNT {
		return Decoded{}, errors.Errorf("Expected %v matrix elements, got %v",
			MATRIX_ELEMENTS_COUNT, len(raw))
	}
	var m mgl32.Mat4
	copy(m[:], raw)
	return DecodeMat4(m), nil
}

// DecodeMat4 decomposes m into translation, scale and rotation, then
// mirrors the result: position X negated, rotation reflected across the
// YZ plane (a 180 degree flip about the up axis folded together with the
// Y euler negation). Identity stays identity.
func DecodeMat4(m mgl32.Mat4) Decoded {
	var d Decoded

	t := m.Col(3)
	d.Position = mgl32.Vec3{-t.X(), t.Y(), t.Z()}

	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()
	d.Scale = mgl32.Vec3{x.Len(), y.Len(), z.Len()}

	rot := mgl32.Ident4()
	rot.SetCol(0, safeNormal(x).Vec4(0))
	rot.SetCol(1, safeNormal(y).Vec4(0))
	rot.SetCol(2, safeNormal(z).Vec4(0))

	q := mgl32.Mat4ToQuat(rot)
	d.Rotation = mirrorQuat(q)
	d.Euler = QuatToEuler(d.Rotation)

	// exporter convention: objects sight down their local -Z
	d.Forward = d.Rotation.Rotate(mgl32.Vec3{0, 0, -1})

	return d
}

// mirrorQuat reflects a rotation across the YZ plane. Same rotation the
// viewer gets from yawing 180 degrees and negating the euler Y, without
// the gimbal aliases those two steps produce separately.
func mirrorQuat(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X(), -q.Y(), -q.Z()}}
}

func safeNormal(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-8 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func FloatArray64to32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func DegreeToRadians(deg float32) float32 {
	return deg * math.Pi / 180.0
}

func RadiansToDegree(rad float32) float32 {
	return rad * 180.0 / math.Pi
}
