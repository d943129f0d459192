// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
	"github.com/go-gl/mathgl/mgl64"
)

func Test_steplen01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("steplen01. 2D step to origin")

	o := new(SolverPlus)
	o.Init(nil)

	// slip reversing through the origin halts halfway
	s, q := o.stepLenToOrigin2(mgl64.Vec2{1, 0}, mgl64.Vec2{-1, 0})
	chk.Float64(tst, "s (reversal)", 1e-15, s, 0.5)
	chk.Float64(tst, "|q| (reversal)", 1e-15, q.Len(), 0)

	// slip crossing beside the origin
	s, q = o.stepLenToOrigin2(mgl64.Vec2{1, 1}, mgl64.Vec2{1, -1})
	chk.Float64(tst, "s (crossing)", 1e-15, s, 0.5)
	chk.Array(tst, "q (crossing)", 1e-15, q[:], []float64{1, 0})

	// initial velocity already small: impending slip
	s, q = o.stepLenToOrigin2(mgl64.Vec2{1e-5, 0}, mgl64.Vec2{3, 4})
	chk.Float64(tst, "s (small)", 1e-17, s, 1)
	chk.Array(tst, "q (small)", 1e-17, q[:], []float64{3, 4})

	// accelerating slip clamps at zero
	s, _ = o.stepLenToOrigin2(mgl64.Vec2{1, 0}, mgl64.Vec2{2, 0})
	chk.Float64(tst, "s (accelerating)", 1e-17, s, 0)

	// degenerate segment
	s, _ = o.stepLenToOrigin2(mgl64.Vec2{1, 0}, mgl64.Vec2{1, 0})
	chk.Float64(tst, "s (degenerate)", 1e-17, s, 1)
}

func Test_steplen02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("steplen02. 3D step to origin")

	o := new(SolverPlus)
	o.Init(nil)

	s, q := o.stepLenToOrigin3(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{-2, 0, 0})
	chk.Float64(tst, "s (reversal)", 1e-15, s, 0.5)
	chk.Float64(tst, "|q| (reversal)", 1e-15, q.Len(), 0)

	s, q = o.stepLenToOrigin3(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, -1})
	chk.Float64(tst, "s (crossing)", 1e-15, s, 0.5)
	chk.Array(tst, "q (crossing)", 1e-15, q[:], []float64{1, 1, 0})

	s, _ = o.stepLenToOrigin3(mgl64.Vec3{0, 0, 1e-6}, mgl64.Vec3{1, 2, 3})
	chk.Float64(tst, "s (small)", 1e-17, s, 1)
}

func Test_steplen03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("steplen03. step to max direction change")

	o := new(SolverPlus)
	o.Init(nil)

	// 90 degree full-step rotation must be cut back to the budget
	a2 := mgl64.Vec2{1, 0}
	b2 := mgl64.Vec2{0, 1}
	s := o.stepLenToMaxChange2(a2, b2)
	if s < 0 {
		tst.Errorf("negative step length: %g\n", s)
		return
	}
	io.Pforan("s2 = %v\n", s)
	w := a2.Add(b2.Sub(a2).Mul(s))
	cosθ := a2.Dot(w) / (a2.Len() * w.Len())
	chk.Float64(tst, "cos(angle) at step (2D)", 1e-12, cosθ, o.CosMaxSlidingDirChange)
	chk.Float64(tst, "s (2D)", 1e-12, s, math.Tan(30.0*math.Pi/180.0)/(1+math.Tan(30.0*math.Pi/180.0)))

	// general 2D case
	a2 = mgl64.Vec2{1, 0.2}
	b2 = mgl64.Vec2{0.4624, 1.0795}
	s = o.stepLenToMaxChange2(a2, b2)
	if s < 0 {
		tst.Errorf("negative step length: %g\n", s)
		return
	}
	w = a2.Add(b2.Sub(a2).Mul(s))
	cosθ = a2.Dot(w) / (a2.Len() * w.Len())
	chk.Float64(tst, "cos(angle) at step (2D general)", 1e-12, cosθ, o.CosMaxSlidingDirChange)

	// 3D case
	a3 := mgl64.Vec3{1, 0, 0}
	b3 := mgl64.Vec3{0, 1, 1}
	s3 := o.stepLenToMaxChange3(a3, b3)
	if s3 < 0 {
		tst.Errorf("negative step length: %g\n", s3)
		return
	}
	w3 := a3.Add(b3.Sub(a3).Mul(s3))
	cosθ = a3.Dot(w3) / (a3.Len() * w3.Len())
	chk.Float64(tst, "cos(angle) at step (3D)", 1e-12, cosθ, o.CosMaxSlidingDirChange)
	chk.Float64(tst, "s (3D)", 1e-12, s3, 1.0/(1.0+math.Sqrt(6.0)))
}

func Test_steplen04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("steplen04. smooth surrogates")

	ε := 1e-4

	// limits far from the kink
	chk.Float64(tst, "softmin0(-2)", 1e-4, softmin0(-2, ε), -2)
	chk.Float64(tst, "softmin0(+2)", 1e-4, softmin0(2, ε), 0)
	chk.Float64(tst, "softmax0(-2)", 1e-4, softmax0(-2, ε), 0)
	chk.Float64(tst, "softmax0(+2)", 1e-4, softmax0(2, ε), 2)
	chk.Float64(tst, "softabs(-2)", 1e-4, softabs(-2, ε), 2)
	chk.Float64(tst, "softabs(+2)", 1e-4, softabs(2, ε), 2)

	// analytic derivatives vs central differences
	h := 1e-5
	for _, z := range []float64{-0.5, -0.01, 0, 0.01, 0.5} {
		dnum, _ := num.DerivCentral(func(t float64, args ...interface{}) float64 {
			return softmin0(t, ε)
		}, z, h)
		chk.Float64(tst, io.Sf("dsoftmin0(%g)", z), 1e-6, dsoftmin0(z, ε), dnum)

		dnum, _ = num.DerivCentral(func(t float64, args ...interface{}) float64 {
			return softmax0(t, ε)
		}, z, h)
		chk.Float64(tst, io.Sf("dsoftmax0(%g)", z), 1e-6, dsoftmax0(z, ε), dnum)

		dnum, _ = num.DerivCentral(func(t float64, args ...interface{}) float64 {
			return softabs(t, ε)
		}, z, h)
		chk.Float64(tst, io.Sf("dsoftabs(%g)", z), 1e-6, dsoftabs(z, ε), dnum)
	}
}
