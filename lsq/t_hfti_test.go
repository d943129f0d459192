// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsq

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func Test_hfti01(tst *testing.T) {

	chk.PrintTitle("hfti01. square well-posed systems")

	// identity
	x, rank := Solve([][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}, []float64{1, 2, 3}, 0)
	chk.IntAssert(rank, 3)
	chk.Array(tst, "x (identity)", 1e-15, x, []float64{1, 2, 3})

	// symmetric positive definite
	x, rank = Solve([][]float64{
		{2, 1},
		{1, 3},
	}, []float64{5, 10}, 0)
	chk.IntAssert(rank, 2)
	chk.Array(tst, "x (spd)", 1e-14, x, []float64{1, 3})

	// input must not be modified
	a := [][]float64{
		{4, 1},
		{1, 3},
	}
	b := []float64{1, 2}
	Solve(a, b, 0)
	chk.Array(tst, "a[0] preserved", 1e-17, a[0], []float64{4, 1})
	chk.Array(tst, "a[1] preserved", 1e-17, a[1], []float64{1, 3})
	chk.Array(tst, "b preserved", 1e-17, b, []float64{1, 2})
}

func Test_hfti02(tst *testing.T) {

	chk.PrintTitle("hfti02. overdetermined systems")

	// consistent
	x, rank := Solve([][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}, []float64{1, 1, 2}, 0)
	chk.IntAssert(rank, 2)
	chk.Array(tst, "x (consistent)", 1e-14, x, []float64{1, 1})

	// inconsistent: least-squares solution of the normal equations
	x, rank = Solve([][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}, []float64{1, 1, 0}, 0)
	chk.IntAssert(rank, 2)
	chk.Array(tst, "x (inconsistent)", 1e-14, x, []float64{1.0 / 3.0, 1.0 / 3.0})
}

func Test_hfti03(tst *testing.T) {

	chk.PrintTitle("hfti03. rank-deficient and underdetermined systems")

	// rank 1: minimum-norm solution
	x, rank := Solve([][]float64{
		{1, 1},
		{1, 1},
	}, []float64{2, 2}, 0)
	chk.IntAssert(rank, 1)
	chk.Array(tst, "x (rank 1)", 1e-14, x, []float64{1, 1})

	// singular with unreachable component
	x, rank = Solve([][]float64{
		{1, 0},
		{0, 0},
	}, []float64{3, 4}, 0)
	chk.IntAssert(rank, 1)
	chk.Array(tst, "x (singular)", 1e-14, x, []float64{3, 0})

	// underdetermined: minimum-norm solution
	x, rank = Solve([][]float64{
		{1, 1},
	}, []float64{2}, 0)
	chk.IntAssert(rank, 1)
	chk.Array(tst, "x (underdetermined)", 1e-14, x, []float64{1, 1})

	// tiny diagonal truncated by the automatic tolerance
	x, rank = Solve([][]float64{
		{1, 0},
		{0, 1e-20},
	}, []float64{1, 1}, 0)
	chk.IntAssert(rank, 1)
	chk.Array(tst, "x (near singular)", 1e-14, x, []float64{1, 0})

	// zero matrix
	x, rank = Solve([][]float64{
		{0, 0},
		{0, 0},
	}, []float64{1, 2}, 0)
	chk.IntAssert(rank, 0)
	chk.Array(tst, "x (zero)", 1e-17, x, []float64{0, 0})
}
