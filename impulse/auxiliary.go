// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

// mulRowActive multiplies the active entries of row 'row' of the full matrix
// A by a packed column holding active entries only; e.g. A[row]*piActive
func mulRowActive(A [][]float64, row int, active []int, colActive []float64) (res float64) {
	Ar := A[row]
	for ax, mx := range active {
		res += Ar[mx] * colActive[ax]
	}
	return
}

// mulRowSparse multiplies row 'row' of the full (m x m) matrix A by a sparse
// full-length column with the indicated nonzero entries; e.g. A[row]*piExpand
func mulRowSparse(A [][]float64, row int, nonZero []int, sparseCol []float64) (res float64) {
	Ar := A[row]
	for _, mx := range nonZero {
		res += Ar[mx] * sparseCol[mx]
	}
	return
}

// addActiveInto unpacks an active column vector and adds its values into a
// full-length column
func addActiveInto(active []int, colActive, colFull []float64) {
	for ax, mx := range active {
		colFull[mx] += colActive[ax]
	}
}

// clamp returns x restricted to [lo, hi]
func clamp(lo, x, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// sort2 reorders a, b such that a <= b
func sort2(a, b *int) {
	if *a > *b {
		*a, *b = *b, *a
	}
}

// sort3 reorders a, b, c such that a <= b <= c
func sort3(a, b, c *int) {
	sort2(a, b) // a<=b
	sort2(b, c) // a<=c, b<=c
	sort2(a, b) // a<=b<=c
}
