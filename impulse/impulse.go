// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package impulse contains solvers for instantaneous rigid-body contact
// impulse problems. Given a snapshot of constraint geometry (the symmetric
// constraint-space inverse mass matrix A), a velocity error verr, an
// expansion (Poisson restitution) impulse piExpand and the classification of
// each contact, a solver finds an impulse vector pi such that the
// post-impulse constraint velocities satisfy the non-penetration, bounded and
// friction-cone complementarity conditions.
package impulse

import (
	"math"

	"github.com/cpmech/gocontact/inp"
	"github.com/cpmech/gosl/chk"
)

// machine epsilon for float64
const MACHEPS = 2.220446049250313e-16

// numerical thresholds derived from the machine epsilon
var (
	// SignificantReal is the smallest difference between two numbers that is
	// treated as meaningful by the solvers
	SignificantReal = math.Pow(MACHEPS, 7.0/8.0)

	// TinyReal is a value below which a quantity is treated as zero; e.g.
	// when normalising slip directions
	TinyReal = math.Pow(MACHEPS, 5.0/4.0)
)

// Solver solves one instantaneous contact impulse problem. Implementations
// own persistent scratch memory and are not thread-safe; concurrent callers
// must use independent instances.
//  Input:
//   phase         -- index of the impulse phase being solved; e.g. compression,
//                    expansion. used for call statistics only
//   participating -- multiplier indices with unknown impulses
//   A             -- m x m symmetric constraint-space inverse mass matrix
//   D             -- optional diagonal augmentation of A (may be nil)
//   expanding     -- multiplier indices with nonzero entries in piExpand
//   piExpand      -- known expansion impulse; reduced to the un-applied
//                    remainder on output
//   verr          -- constraint velocity error; reduced to the remaining
//                    error on output
//   cons          -- constraint runtime records; only runtime fields are
//                    mutated
//  Output:
//   pi        -- resulting impulse (length m, zero outside participating)
//   converged -- solution process completed with a full final interval
type Solver interface {
	Init(prm *inp.Params)
	Solve(phase int, participating []int, A [][]float64, D []float64, expanding []int,
		piExpand, verr, pi []float64, cons *Constraints) (converged bool)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func() Solver)

// New returns a solver of the given kind; e.g. "plus"
func New(kind string) Solver {
	if alloc, ok := solverallocators[kind]; ok {
		return alloc()
	}
	chk.Panic("cannot find solver kind=%q. e.g. {plus} => successive pruning", kind)
	return nil
}
