// Package geom provides the quaternion algebra used for rigid-body
// rotations of docking poses.
package geom

import (
	"math"
	"math/rand"
)

// linearThreshold is the dot product above which SLERP falls back to
// normalized linear interpolation to avoid instability near-parallel.
const linearThreshold = 0.9995

// epsilon is the componentwise tolerance for quaternion equality.
const epsilon = 2.220446049250313e-16 // IEEE 754 double machine epsilon

// Quaternion represents a rotation as (w, x, y, z). Algebraic operations
// do not normalize; callers normalize explicitly where a unit quaternion
// is required.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity returns the identity rotation (1, 0, 0, 0).
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Add returns the componentwise sum q + o.
func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

// Sub returns the componentwise difference q - o.
func (q Quaternion) Sub(o Quaternion) Quaternion {
	return Quaternion{q.W - o.W, q.X - o.X, q.Y - o.Y, q.Z - o.Z}
}

// Neg returns -q.
func (q Quaternion) Neg() Quaternion {
	return Quaternion{-q.W, -q.X, -q.Y, -q.Z}
}

// Scale returns q scaled by s.
func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{s * q.W, s * q.X, s * q.Y, s * q.Z}
}

// Mul returns the Hamilton product q*o. Not commutative.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Conjugate returns q with its vector part negated.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Dot returns the four-component dot product.
func (q Quaternion) Dot(o Quaternion) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Norm2 returns the squared norm.
func (q Quaternion) Norm2() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// Norm returns the Euclidean norm.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.Norm2())
}

// Normalize returns q divided by its norm. Undefined for the zero
// quaternion, which never arises from valid poses.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Inverse returns the multiplicative inverse, conjugate / norm².
func (q Quaternion) Inverse() Quaternion {
	n2 := q.Norm2()
	c := q.Conjugate()
	return Quaternion{c.W / n2, c.X / n2, c.Y / n2, c.Z / n2}
}

// Distance returns 1 - dot², a rotation metric insensitive to the
// double-cover sign ambiguity. Zero for identical rotations.
func (q Quaternion) Distance(o Quaternion) float64 {
	d := q.Dot(o)
	return 1.0 - d*d
}

// Rotate applies q as a rotation operator to a 3-vector by embedding it
// as a pure quaternion and computing q * v * q⁻¹.
func (q Quaternion) Rotate(v [3]float64) [3]float64 {
	p := Quaternion{0, v[0], v[1], v[2]}
	r := q.Mul(p).Mul(q.Inverse())
	return [3]float64{r.X, r.Y, r.Z}
}

// Lerp returns the componentwise linear interpolation q*(1-t) + o*t,
// without renormalization.
func (q Quaternion) Lerp(o Quaternion, t float64) Quaternion {
	return q.Scale(1.0 - t).Add(o.Scale(t))
}

// Slerp interpolates along the shortest great-circle arc between the
// rotations represented by q and o. Inputs are normalized into local
// copies; q and o are not modified.
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	q1 := q.Normalize()
	q2 := o.Normalize()
	dot := q1.Dot(q2)

	// Shortest-path correction: flip one end when the arc is the long way
	// around.
	if dot < 0 {
		q1 = q1.Neg()
		dot = -dot
	}

	if dot > linearThreshold {
		// Near-parallel: linear interpolation, renormalized.
		return q1.Add(q2.Sub(q1).Scale(t)).Normalize()
	}

	dot = math.Max(-1.0, math.Min(1.0, dot))
	omega := math.Acos(dot)
	so := math.Sin(omega)
	return q1.Scale(math.Sin((1.0-t)*omega) / so).Add(q2.Scale(math.Sin(t*omega) / so))
}

// Equal reports componentwise equality within machine epsilon.
func (q Quaternion) Equal(o Quaternion) bool {
	return floatEquals(q.W, o.W) && floatEquals(q.X, o.X) &&
		floatEquals(q.Y, o.Y) && floatEquals(q.Z, o.Z)
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Random returns a uniformly distributed unit quaternion using
// Shoemake's subgroup algorithm. The component order below is part of
// the checkpoint contract and must not be rearranged.
func Random(rng *rand.Rand) Quaternion {
	u1 := rng.Float64()
	u2 := rng.Float64()
	u3 := rng.Float64()
	return Quaternion{
		W: math.Sqrt(1.0-u1) * math.Sin(2.0*math.Pi*u2),
		X: math.Sqrt(1.0-u1) * math.Cos(2.0*math.Pi*u2),
		Y: math.Sqrt(u1) * math.Sin(2.0*math.Pi*u3),
		Z: math.Sqrt(u1) * math.Cos(2.0*math.Pi*u3),
	}
}
