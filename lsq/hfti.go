// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lsq solves dense least-squares problems by rank-revealing QR with
// column pivoting (Lawson and Hanson's HFTI: Householder forward
// triangulation with column interchanges). Near-singular systems, such as
// Newton subproblems of an over-pruned active set, are handled by truncating
// the pseudo-rank and returning the minimum-norm solution.
package lsq

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// machine epsilon for float64
const MACHEPS = 2.220446049250313e-16

// Solve computes the minimum-norm least-squares solution x of a*x ≅ b where
// a is m x n with any rank. The inputs are copied, not modified.
//  Input:
//   a   -- m x n coefficient matrix
//   b   -- m right-hand side
//   tau -- absolute tolerance on the diagonal of the triangulated matrix for
//          the pseudo-rank determination; tau <= 0 selects n*MACHEPS*max|aij|
//  Output:
//   x    -- n solution vector
//   rank -- pseudo-rank of a
// Reference:
//  C.L. Lawson, R.J. Hanson, 'Solving Least Squares Problems', Prentice
//  Hall, 1974. Chapter 14, Algorithm 14.9 (HFTI)
func Solve(a [][]float64, b []float64, tau float64) (x []float64, rank int) {

	// sizes
	m := len(a)
	chk.IntAssert(len(b), m)
	if m == 0 {
		return nil, 0
	}
	n := len(a[0])
	x = make([]float64, n)
	diag := m
	if n < m {
		diag = n
	}

	// work on copies
	r := la.MatClone(a)
	c := la.VecClone(b)

	// automatic pseudo-rank tolerance
	if tau <= 0 {
		amax := 0.0
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				if v := math.Abs(r[i][j]); v > amax {
					amax = v
				}
			}
		}
		tau = float64(n) * MACHEPS * amax
	}

	// forward triangulation with column interchanges: R = Q*A*P, C = Q*b
	ip := make([]int, diag)
	h := make([]float64, n)
	for j := 0; j < diag; j++ {

		// column interchange: bring the remaining column with the largest
		// sum of squares of components in rows j..m-1 to position j
		lmax := j
		for l := j; l < n; l++ {
			sm := 0.0
			for i := j; i < m; i++ {
				sm += r[i][l] * r[i][l]
			}
			h[l] = sm
			if h[l] > h[lmax] {
				lmax = l
			}
		}
		ip[j] = lmax
		if lmax != j {
			for i := 0; i < m; i++ {
				r[i][j], r[i][lmax] = r[i][lmax], r[i][j]
			}
		}

		// j-th Householder transformation, zeroing column j below the
		// diagonal. the vector u defining Q stays in rows j+1..m-1
		s := 0.0
		for i := j; i < m; i++ {
			s += r[i][j] * r[i][j]
		}
		s = math.Sqrt(s)
		if r[j][j] > 0 {
			s = -s
		}
		up := r[j][j] - s
		r[j][j] = s
		bj := s * up
		if bj >= 0 {
			continue // identity transformation
		}
		binv := 1.0 / bj
		for l := j + 1; l < n; l++ {
			sm := up * r[j][l]
			for i := j + 1; i < m; i++ {
				sm += r[i][j] * r[i][l]
			}
			if sm != 0 {
				sm *= binv
				r[j][l] += sm * up
				for i := j + 1; i < m; i++ {
					r[i][l] += sm * r[i][j]
				}
			}
		}
		sm := up * c[j]
		for i := j + 1; i < m; i++ {
			sm += r[i][j] * c[i]
		}
		if sm != 0 {
			sm *= binv
			c[j] += sm * up
			for i := j + 1; i < m; i++ {
				c[i] += sm * r[i][j]
			}
		}
	}

	// pseudo-rank: number of leading diagonal entries exceeding tau
	rank = diag
	for j := 0; j < diag; j++ {
		if math.Abs(r[j][j]) <= tau {
			rank = j
			break
		}
	}
	k := rank
	if k == 0 {
		return // x = 0
	}

	// if rank-deficient, triangulate the first k rows from the right:
	// [R11 R12]*K = [W 0]. the vectors defining K stay in columns k..n-1
	g := make([]float64, k)
	if k < n {
		for i := k - 1; i >= 0; i-- {
			s := r[i][i] * r[i][i]
			for l := k; l < n; l++ {
				s += r[i][l] * r[i][l]
			}
			s = math.Sqrt(s)
			if r[i][i] > 0 {
				s = -s
			}
			g[i] = r[i][i] - s
			r[i][i] = s
			bi := s * g[i]
			if bi >= 0 {
				continue
			}
			binv := 1.0 / bi
			for t := 0; t < i; t++ {
				sm := g[i] * r[t][i]
				for l := k; l < n; l++ {
					sm += r[i][l] * r[t][l]
				}
				if sm != 0 {
					sm *= binv
					r[t][i] += sm * g[i]
					for l := k; l < n; l++ {
						r[t][l] += sm * r[i][l]
					}
				}
			}
		}
	}

	// solve the k x k triangular system W*y1 = c1
	for i := k - 1; i >= 0; i-- {
		sm := 0.0
		for j := i + 1; j < k; j++ {
			sm += r[i][j] * x[j]
		}
		x[i] = (c[i] - sm) / r[i][i]
	}

	// complete the minimum-norm solution: y2 = 0, x = P*K*y
	if k < n {
		for i := 0; i < k; i++ {
			bi := r[i][i] * g[i]
			if bi >= 0 {
				continue
			}
			binv := 1.0 / bi
			sm := g[i] * x[i]
			for l := k; l < n; l++ {
				sm += r[i][l] * x[l]
			}
			if sm != 0 {
				sm *= binv
				x[i] += sm * g[i]
				for l := k; l < n; l++ {
					x[l] += sm * r[i][l]
				}
			}
		}
	}

	// undo the column interchanges
	for j := diag - 1; j >= 0; j-- {
		if ip[j] != j {
			x[ip[j]], x[j] = x[j], x[ip[j]]
		}
	}
	return
}
