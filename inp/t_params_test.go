// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func Test_params01(tst *testing.T) {

	chk.PrintTitle("params01. default values")

	var prm Params
	prm.SetDefault()
	chk.StrAssert(prm.Solver, "plus")
	chk.Float64(tst, "cvgTol", 1e-17, prm.CvgTol, 1e-10)
	chk.IntAssert(prm.MaxIt, 100)
	chk.Float64(tst, "minSmoothness", 1e-17, prm.MinSmoothness, 1e-10)
	chk.Float64(tst, "maxRollingTangVel", 1e-17, prm.MaxRollingTangVel, 1e-3)
	chk.Float64(tst, "cosMaxSlidingDirChange", 1e-15, prm.CosMaxSlidingDirChange, math.Cos(30.0*math.Pi/180.0))
}

func Test_params02(tst *testing.T) {

	chk.PrintTitle("params02. read from file")

	prm := ReadParams("data/params.json")
	chk.StrAssert(prm.Solver, "plus")
	chk.Float64(tst, "cvgTol", 1e-17, prm.CvgTol, 1e-8)
	chk.IntAssert(prm.MaxIt, 50)

	// keys absent from the file keep their defaults
	chk.Float64(tst, "minSmoothness", 1e-17, prm.MinSmoothness, 1e-10)
	chk.Float64(tst, "maxRollingTangVel", 1e-17, prm.MaxRollingTangVel, 1e-3)
	chk.Float64(tst, "cosMaxSlidingDirChange", 1e-15, prm.CosMaxSlidingDirChange, math.Cos(30.0*math.Pi/180.0))
}
