// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// smooth surrogates. ε > 0; smaller values are sharper

// softmax0 is a smooth, convex approximation to max(z,0)
func softmax0(z, ε float64) float64 {
	return (z + math.Sqrt(z*z+ε)) / 2.0
}

// dsoftmax0 is the partial derivative of softmax0 with respect to z
func dsoftmax0(z, ε float64) float64 {
	return (1.0 + z/math.Sqrt(z*z+ε)) / 2.0
}

// softmin0 is a smooth, concave approximation to min(z,0)
func softmin0(z, ε float64) float64 {
	return (z - math.Sqrt(z*z+ε)) / 2.0
}

// dsoftmin0 is the partial derivative of softmin0 with respect to z
func dsoftmin0(z, ε float64) float64 {
	return (1.0 - z/math.Sqrt(z*z+ε)) / 2.0
}

// softabs is a smooth, convex approximation to abs(z)
func softabs(z, ε float64) float64 {
	return math.Sqrt(z*z + ε)
}

// dsoftabs is the partial derivative of softabs with respect to z
func dsoftabs(z, ε float64) float64 {
	return z / math.Sqrt(z*z+ε)
}

// stepLenToOrigin2 returns the fraction s of the segment from slip velocity a
// to slip velocity b at which the point q = a + s*(b-a) comes closest to the
// origin. Returns s = 1 with q = b if a is already small (impending slip) or
// if the segment has no meaningful length.
func (o *SolverPlus) stepLenToOrigin2(a, b mgl64.Vec2) (s float64, q mgl64.Vec2) {
	if a.LenSqr() < o.MaxRollingTangVel*o.MaxRollingTangVel {
		return 1, b
	}
	ab := b.Sub(a)
	absqr := ab.LenSqr()
	if absqr < SignificantReal {
		return 1, b
	}
	s = clamp(0, -a.Dot(ab)/absqr, 1) // normalised distance from a to q
	q = a.Add(ab.Mul(s))
	return
}

// stepLenToOrigin3 is the 3D variant of stepLenToOrigin2
func (o *SolverPlus) stepLenToOrigin3(a, b mgl64.Vec3) (s float64, q mgl64.Vec3) {
	if a.LenSqr() < o.MaxRollingTangVel*o.MaxRollingTangVel {
		return 1, b
	}
	ab := b.Sub(a)
	absqr := ab.LenSqr()
	if absqr < SignificantReal {
		return 1, b
	}
	s = clamp(0, -a.Dot(ab)/absqr, 1)
	q = a.Add(ab.Mul(s))
	return
}

// stepLenToMaxChange2 returns the largest s in [0,1] such that the angle
// between a and a + s*(b-a) does not exceed the maximum sliding direction
// change. Closed-form roots of the corresponding quadratic; the smaller
// non-negative root is returned.
func (o *SolverPlus) stepLenToMaxChange2(a, b mgl64.Vec2) float64 {
	var t1, t2, t3, t4, t5, t6, t7, t8, t9, t10 float64
	v := b.Sub(a)

	// optimised computation sequence generated in Maple
	t1 = o.CosMaxSlidingDirChange
	t1 *= t1
	t2 = t1 - 1
	t3 = a[0]*v[1] - a[1]*v[0]
	t3 = math.Sqrt(-t1 * t2 * t3 * t3)
	t4 = t2 * v[0] * a[0]
	t5 = a[1] * v[1]
	t2 *= t5
	t6 = v[1] * v[1]
	t7 = v[0] * v[0]
	t8 = t6 + t7
	t9 = a[1] * a[1]
	t10 = a[0] * a[0]
	t1 = t1*(t10*t8+t8*t9) - t10*t7 - t6*t9 - 2*t5*a[0]*v[0]
	t5 = t10 + t9
	t1 = 1 / t1

	sol1 := -t1 * t5 * (t2 + t4 + t3)
	sol2 := -t1 * t5 * (t2 + t4 - t3)
	if sol1 < 0 {
		return sol2
	}
	if sol2 < 0 {
		return sol1
	}
	return math.Min(sol1, sol2)
}

// stepLenToMaxChange3 is the 3D variant of stepLenToMaxChange2
func (o *SolverPlus) stepLenToMaxChange3(a, b mgl64.Vec3) float64 {
	var t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14, t15 float64
	v := b.Sub(a)

	// optimised computation sequence generated in Maple
	t1 = o.CosMaxSlidingDirChange
	t1 *= t1
	t2 = t1 - 1
	t3 = a[0] * a[0]
	t4 = v[0] * v[0]
	t5 = a[2] * a[2]
	t6 = v[1] * v[1]
	t7 = a[1] * a[1]
	t8 = a[1] * v[1]
	t9 = a[0] * v[0]
	t10 = math.Sqrt(-(t1 * t2 * (t3*t6 + t4*t7 + t5*(t6+t4) +
		(-2*a[2]*(t9+t8)+(t7+t3)*v[2])*v[2] - 2*t8*t9)))
	t11 = t9 * t2
	t12 = t8 * t2
	t13 = a[2] * v[2]
	t2 = t13 * t2
	t14 = v[2] * v[2]
	t15 = t6 + t14 + t4
	t1 = t1*(t15*t3+t15*t5+t15*t7) - t14*t5 - t3*t4 - t6*t7 +
		t9*(-2*t8-2*t13) - 2*t13*t8
	t3 = t7 + t3 + t5
	t1 = 1 / t1

	sol1 := -(t12 + t2 + t11 + t10) * t1 * t3
	sol2 := -(t12 + t2 + t11 - t10) * t1 * t3
	if sol1 < 0 {
		return sol2
	}
	if sol2 < 0 {
		return sol1
	}
	return math.Min(sol1, sol2)
}
