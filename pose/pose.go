// Package pose provides rigid transforms (rotation quaternion + translation)
// generic over a scalar backend, with interop to mgl64 for the Float64 case.
package pose

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/armature/scalar"
)

// Vec3 is a 3-vector over the scalar backend T.
type Vec3[T scalar.Value[T]] [3]T

// Add returns v + o.
func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])}
}

// Sub returns v - o.
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0].Sub(o[0]), v[1].Sub(o[1]), v[2].Sub(o[2])}
}

// Scale returns v * s.
func (v Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{v[0].Mul(s), v[1].Mul(s), v[2].Mul(s)}
}

// Dot returns the dot product of v and o.
func (v Vec3[T]) Dot(o Vec3[T]) T {
	return v[0].Mul(o[0]).Add(v[1].Mul(o[1])).Add(v[2].Mul(o[2]))
}

// Cross returns the cross product of v and o.
func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v[1].Mul(o[2]).Sub(v[2].Mul(o[1])),
		v[2].Mul(o[0]).Sub(v[0].Mul(o[2])),
		v[0].Mul(o[1]).Sub(v[1].Mul(o[0])),
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3[T]) Norm() T {
	return v.Dot(v).Sqrt()
}

// Quat is a rotation quaternion over the scalar backend T.
type Quat[T scalar.Value[T]] struct {
	W, X, Y, Z T
}

// QuatIdent returns the identity rotation.
func QuatIdent[T scalar.Value[T]]() Quat[T] {
	var zero T
	return Quat[T]{W: zero.FromFloat(1)}
}

// Mul returns the Hamilton product q * o.
func (q Quat[T]) Mul(o Quat[T]) Quat[T] {
	return Quat[T]{
		W: q.W.Mul(o.W).Sub(q.X.Mul(o.X)).Sub(q.Y.Mul(o.Y)).Sub(q.Z.Mul(o.Z)),
		X: q.W.Mul(o.X).Add(q.X.Mul(o.W)).Add(q.Y.Mul(o.Z)).Sub(q.Z.Mul(o.Y)),
		Y: q.W.Mul(o.Y).Sub(q.X.Mul(o.Z)).Add(q.Y.Mul(o.W)).Add(q.Z.Mul(o.X)),
		Z: q.W.Mul(o.Z).Add(q.X.Mul(o.Y)).Sub(q.Y.Mul(o.X)).Add(q.Z.Mul(o.W)),
	}
}

// Conjugate returns the quaternion conjugate of q.
func (q Quat[T]) Conjugate() Quat[T] {
	return Quat[T]{W: q.W, X: q.X.Neg(), Y: q.Y.Neg(), Z: q.Z.Neg()}
}

// Normalize returns q scaled to unit length.
func (q Quat[T]) Normalize() Quat[T] {
	n := q.W.Mul(q.W).Add(q.X.Mul(q.X)).Add(q.Y.Mul(q.Y)).Add(q.Z.Mul(q.Z)).Sqrt()
	return Quat[T]{W: q.W.Div(n), X: q.X.Div(n), Y: q.Y.Div(n), Z: q.Z.Div(n)}
}

// Rotate applies the rotation to v, computing q v q*.
func (q Quat[T]) Rotate(v Vec3[T]) Vec3[T] {
	// v' = v + 2w(u x v) + 2(u x (u x v)) with u the vector part.
	u := Vec3[T]{q.X, q.Y, q.Z}
	var zero T
	two := zero.FromFloat(2)
	uxv := u.Cross(v)
	return v.Add(uxv.Scale(q.W).Add(u.Cross(uxv)).Scale(two))
}

// Pose is a rigid transform: rotation R followed by translation P.
type Pose[T scalar.Value[T]] struct {
	R Quat[T]
	P Vec3[T]
}

// Identity returns the identity transform.
func Identity[T scalar.Value[T]]() Pose[T] {
	return Pose[T]{R: QuatIdent[T]()}
}

// IsZero reports whether the pose is the all-zero value (an unset struct,
// not a valid transform). Callers accepting pose specs treat the zero value
// as identity.
func (a Pose[T]) IsZero() bool {
	var zero T
	return a.R.W.Equal(zero) && a.R.X.Equal(zero) && a.R.Y.Equal(zero) && a.R.Z.Equal(zero) &&
		a.P[0].Equal(zero) && a.P[1].Equal(zero) && a.P[2].Equal(zero)
}

// Mul composes two transforms: (a * b)(x) = a(b(x)).
func (a Pose[T]) Mul(b Pose[T]) Pose[T] {
	return Pose[T]{
		R: a.R.Mul(b.R),
		P: a.P.Add(a.R.Rotate(b.P)),
	}
}

// Apply transforms the point v.
func (a Pose[T]) Apply(v Vec3[T]) Vec3[T] {
	return a.P.Add(a.R.Rotate(v))
}

// ConvertVec3 rebuilds a vector under a different scalar backend.
func ConvertVec3[From scalar.Value[From], To scalar.Value[To]](v Vec3[From], fn func(From) To) Vec3[To] {
	return Vec3[To]{fn(v[0]), fn(v[1]), fn(v[2])}
}

// Convert rebuilds a pose under a different scalar backend, re-assigning
// every numeric field through fn.
func Convert[From scalar.Value[From], To scalar.Value[To]](p Pose[From], fn func(From) To) Pose[To] {
	return Pose[To]{
		R: Quat[To]{W: fn(p.R.W), X: fn(p.R.X), Y: fn(p.R.Y), Z: fn(p.R.Z)},
		P: ConvertVec3(p.P, fn),
	}
}

// FromMgl builds a Float64 pose from mgl64 components.
func FromMgl(position mgl64.Vec3, rotation mgl64.Quat) Pose[scalar.Float64] {
	return Pose[scalar.Float64]{
		R: Quat[scalar.Float64]{
			W: scalar.Float64(rotation.W),
			X: scalar.Float64(rotation.X()),
			Y: scalar.Float64(rotation.Y()),
			Z: scalar.Float64(rotation.Z()),
		},
		P: Vec3[scalar.Float64]{
			scalar.Float64(position.X()),
			scalar.Float64(position.Y()),
			scalar.Float64(position.Z()),
		},
	}
}

// Mgl splits a Float64 pose into mgl64 components.
func Mgl(p Pose[scalar.Float64]) (mgl64.Vec3, mgl64.Quat) {
	position := mgl64.Vec3{float64(p.P[0]), float64(p.P[1]), float64(p.P[2])}
	rotation := mgl64.Quat{
		W: float64(p.R.W),
		V: mgl64.Vec3{float64(p.R.X), float64(p.R.Y), float64(p.R.Z)},
	}
	return position, rotation
}

// Translation is shorthand for a rotation-free Float64 pose.
func Translation(x, y, z float64) Pose[scalar.Float64] {
	p := Identity[scalar.Float64]()
	p.P = Vec3[scalar.Float64]{scalar.Float64(x), scalar.Float64(y), scalar.Float64(z)}
	return p
}
