package common

import (
	"math"
)

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Lerp3 linearly interpolates between two 3-component vectors by t.
//
// Parameters:
//   - a: the start vector (t = 0)
//   - b: the end vector (t = 1)
//   - t: the interpolation factor
//
// Returns:
//   - [3]float32: the interpolated vector
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// QuatNormalize returns q scaled to unit length. A zero quaternion normalizes
// to identity rather than propagating NaNs into the pose.
func QuatNormalize(q [4]float32) [4]float32 {
	lenSq := float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if lenSq == 0 {
		return [4]float32{0, 0, 0, 1}
	}
	inv := float32(1.0 / math.Sqrt(lenSq))
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatMul composes two quaternions: the result applies b first, then a.
// Both inputs are expected to be unit length; the result is not renormalized.
//
// Parameters:
//   - a: the left-hand quaternion (x, y, z, w)
//   - b: the right-hand quaternion (x, y, z, w)
//
// Returns:
//   - [4]float32: the product a * b
func QuatMul(a, b [4]float32) [4]float32 {
	ax, ay, az, aw := a[0], a[1], a[2], a[3]
	bx, by, bz, bw := b[0], b[1], b[2], b[3]
	return [4]float32{
		aw*bx + ax*bw + ay*bz - az*by,
		aw*by - ax*bz + ay*bw + az*bx,
		aw*bz + ax*by - ay*bx + az*bw,
		aw*bw - ax*bx - ay*by - az*bz,
	}
}

// QuatSlerp spherically interpolates between two unit quaternions by t.
// The shorter arc is always taken. Near-parallel inputs fall back to
// normalized linear interpolation to avoid division by a vanishing sine.
//
// Parameters:
//   - a: the start quaternion (t = 0)
//   - b: the end quaternion (t = 1)
//   - t: the interpolation factor, expected in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func QuatSlerp(a, b [4]float32, t float32) [4]float32 {
	cosTheta := float64(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3])

	// Flip one input so interpolation takes the shorter arc.
	if cosTheta < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		cosTheta = -cosTheta
	}

	if cosTheta > 0.9995 {
		return QuatNormalize([4]float32{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
			a[2] + (b[2]-a[2])*t,
			a[3] + (b[3]-a[3])*t,
		})
	}

	theta := math.Acos(cosTheta)
	sinTheta := math.Sin(theta)
	wa := float32(math.Sin((1-float64(t))*theta) / sinTheta)
	wb := float32(math.Sin(float64(t)*theta) / sinTheta)
	return [4]float32{
		a[0]*wa + b[0]*wb,
		a[1]*wa + b[1]*wb,
		a[2]*wa + b[2]*wb,
		a[3]*wa + b[3]*wb,
	}
}

// BlendTransforms interpolates between two transforms by t, linearly for
// translation and scale and spherically for rotation. Component presence is
// respected per side: a component present on only one side is carried
// through unchanged, and a component absent on both sides stays absent.
//
// Parameters:
//   - a: the start transform (t = 0)
//   - b: the end transform (t = 1)
//   - t: the interpolation factor, expected in [0, 1]
//
// Returns:
//   - Transform: the blended transform
func BlendTransforms(a, b Transform, t float32) Transform {
	var out Transform

	switch {
	case a.Components.Has(HasTranslation) && b.Components.Has(HasTranslation):
		out.Translation = Lerp3(a.Translation, b.Translation, t)
		out.Components |= HasTranslation
	case a.Components.Has(HasTranslation):
		out.Translation = a.Translation
		out.Components |= HasTranslation
	case b.Components.Has(HasTranslation):
		out.Translation = b.Translation
		out.Components |= HasTranslation
	}

	switch {
	case a.Components.Has(HasRotation) && b.Components.Has(HasRotation):
		out.Rotation = QuatSlerp(a.Rotation, b.Rotation, t)
		out.Components |= HasRotation
	case a.Components.Has(HasRotation):
		out.Rotation = a.Rotation
		out.Components |= HasRotation
	case b.Components.Has(HasRotation):
		out.Rotation = b.Rotation
		out.Components |= HasRotation
	}

	switch {
	case a.Components.Has(HasScale) && b.Components.Has(HasScale):
		out.Scale = Lerp3(a.Scale, b.Scale, t)
		out.Components |= HasScale
	case a.Components.Has(HasScale):
		out.Scale = a.Scale
		out.Components |= HasScale
	case b.Components.Has(HasScale):
		out.Scale = b.Scale
		out.Components |= HasScale
	}

	return out
}
