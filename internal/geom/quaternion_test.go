package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	q := Identity()
	assert.Equal(t, 1.0, q.W)
	assert.Equal(t, 0.0, q.X)
	assert.Equal(t, 0.0, q.Y)
	assert.Equal(t, 0.0, q.Z)
}

func TestSub(t *testing.T) {
	q1 := Quaternion{2, 0, 2, 0}
	q2 := Quaternion{1, 0, 2, 1}
	q3 := q1.Sub(q2)
	assert.Equal(t, Quaternion{1, 0, 0, -1}, q3)
}

func TestAdd(t *testing.T) {
	q1 := Quaternion{2, -1, 2, 0}
	q2 := Quaternion{1, 0, 2, 1}
	q3 := q1.Add(q2)
	assert.Equal(t, Quaternion{3, -1, 4, 1}, q3)
}

func TestEqualTolerance(t *testing.T) {
	assert.True(t, Identity().Equal(Identity()))
	// One ulp above the tolerance differs.
	assert.False(t, Identity().Equal(Quaternion{1.000000000000001, 0, 0, 0}))
	// Below machine epsilon collapses to equal.
	assert.True(t, Identity().Equal(Quaternion{1.0000000000000001, 0, 0, 0}))
}

func TestNeg(t *testing.T) {
	q := Quaternion{2, -1, 2, 0}
	assert.True(t, Quaternion{-2, 1, -2, 0}.Equal(q.Neg()))
}

func TestScale(t *testing.T) {
	q := Quaternion{2, -1, 2, 0}
	assert.True(t, Quaternion{1, -0.5, 1, 0}.Equal(q.Scale(0.5)))
}

func TestConjugate(t *testing.T) {
	q := Quaternion{2, -1, 2, 0}
	assert.True(t, Quaternion{2, 1, -2, 0}.Equal(q.Conjugate()))
}

func TestMul(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	assert.True(t, Quaternion{-3, -9, 2, 9}.Equal(q1.Mul(q2)))
	assert.True(t, Quaternion{-3, 7, 6, 9}.Equal(q2.Mul(q1)))

	q3 := Quaternion{0.5, -3, 2, 9}
	expected := Quaternion{-147.0 / 2.0, 97.0 / 2.0, -93, 19.0 / 2.0}
	assert.True(t, expected.Equal(q2.Mul(q1).Mul(q3)))
}

func TestConjugateOfProduct(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	assert.True(t, q1.Mul(q2).Conjugate().Equal(q2.Conjugate().Mul(q1.Conjugate())))
	assert.True(t, Quaternion{35, 0, 0, 0}.Equal(q2.Conjugate().Mul(q2)))
}

func TestDot(t *testing.T) {
	q := Quaternion{math.Sqrt2 / 2.0, 0, math.Sqrt2 / 2.0, 0}
	assert.Equal(t, 1.0000000000000002, q.Dot(q))
}

func TestNorm(t *testing.T) {
	q1 := Quaternion{1, -3, 4, 3}
	q2 := Quaternion{3, -1, 4, 3}
	assert.Equal(t, 5.916079783099616, q1.Norm())
	assert.InDelta(t, q1.Norm()*q2.Norm(), q1.Mul(q2).Norm(), 1e-12)
}

func TestNormalize(t *testing.T) {
	q := Quaternion{1, -3, 4, 3}.Normalize()
	expected := Quaternion{0.1690308509457033, -0.50709255283711, 0.6761234037828132, 0.50709255283711}
	assert.True(t, expected.Equal(q))
	assert.InDelta(t, 1.0, q.Norm(), 1e-15)
}

func TestInverse(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	expected := Quaternion{-3.0 / 175.0, 9.0 / 175.0, -2.0 / 175.0, -9.0 / 175.0}
	assert.True(t, expected.Equal(q1.Mul(q2).Inverse()))
}

func TestDistanceSelf(t *testing.T) {
	q := Quaternion{0.707106781, 0, 0.707106781, 0}
	assert.InDelta(t, 0.0, q.Distance(q), 1e-8)
}

func TestDistanceOrthogonal(t *testing.T) {
	q1 := Quaternion{0.707106781, 0, 0.707106781, 0}
	q2 := Quaternion{0.707106781, 0, -0.707106781, 0}
	assert.Equal(t, 1.0, q1.Distance(q2))
}

func TestDistanceHalf(t *testing.T) {
	q1 := Quaternion{0.707106781, 0, 0.707106781, 0}
	q2 := Quaternion{0, 0, 1, 0}
	assert.InDelta(t, 0.5, q1.Distance(q2), 1e-8)
}

func TestDistanceCompositeRotation(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 0}
	q2 := Quaternion{0.5, 0.5, 0.5, 0.5}
	assert.Equal(t, 0.75, q1.Distance(q2))
}

func TestRotate(t *testing.T) {
	// 180° about the y axis sends x̂ to -ẑ.
	q := Quaternion{0.707106781, 0, 0.707106781, 0}
	v := q.Rotate([3]float64{1, 0, 0})
	assert.InDelta(t, 0.0, v[0], 1e-12)
	assert.InDelta(t, 0.0, v[1], 1e-12)
	assert.InDelta(t, -1.0, v[2], 1e-12)
}

func TestLerpEndpoints(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	assert.True(t, q1.Equal(q1.Lerp(q2, 0)))
	assert.True(t, q2.Equal(q1.Lerp(q2, 1)))
}

func TestSlerpT0(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	expected := Quaternion{0.4472135954999579, 0, 0, 0.8944271909999159}
	assertQuatInDelta(t, expected, q1.Slerp(q2, 0))
}

func TestSlerpT1(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	expected := Quaternion{0.50709255283711, -0.1690308509457033, 0.6761234037828132, 0.50709255283711}
	assertQuatInDelta(t, expected, q1.Slerp(q2, 1))
}

func TestSlerpSameQuaternion(t *testing.T) {
	q := Quaternion{0.7071067811865476, 0, 0, 0.7071067811865476}
	assertQuatInDelta(t, q, q.Slerp(q, 0.1))
}

func TestSlerpHalfwayY(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 0}
	q2 := Quaternion{0, 0, 1, 0}
	expected := Quaternion{0.7071067811865475, 0, 0.7071067811865475, 0}
	assertQuatInDelta(t, expected, q1.Slerp(q2, 0.5))
}

func TestSlerpHalfwayBankZero(t *testing.T) {
	q1 := Quaternion{0.7071067811865475, 0, 0, 0.7071067811865475}
	q2 := Quaternion{0, 0.7071067811865475, 0.7071067811865475, 0}
	expected := Quaternion{0.5, 0.5, 0.5, 0.5}
	assertQuatInDelta(t, expected, q1.Slerp(q2, 0.5))
}

func TestSlerpDoesNotMutateInputs(t *testing.T) {
	q1 := Quaternion{1, 0, 0, 2}
	q2 := Quaternion{3, -1, 4, 3}
	q1.Slerp(q2, 0.5)
	assert.Equal(t, Quaternion{1, 0, 0, 2}, q1)
	assert.Equal(t, Quaternion{3, -1, 4, 3}, q2)
}

func TestRandomIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(324324))
	for i := 0; i < 100; i++ {
		q := Random(rng)
		assert.InDelta(t, 1.0, q.Norm(), 1e-12)
	}
}

func TestRandomDeterministic(t *testing.T) {
	q1 := Random(rand.New(rand.NewSource(324324324)))
	q2 := Random(rand.New(rand.NewSource(324324324)))
	assert.Equal(t, q1, q2)
}

func assertQuatInDelta(t *testing.T, expected, actual Quaternion) {
	t.Helper()
	assert.InDelta(t, expected.W, actual.W, 1e-9)
	assert.InDelta(t, expected.X, actual.X, 1e-9)
	assert.InDelta(t, expected.Y, actual.Y, 1e-9)
	assert.InDelta(t, expected.Z, actual.Z, 1e-9)
}
