// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

import (
	"math"

	"github.com/cpmech/gocontact/lsq"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/go-gl/mathgl/mgl64"
)

// initNewton prepares a Newton iteration for the current active set. The
// rows of the Jacobian corresponding to linear equations are filled in here
// since they cannot change during the iteration. Previous impulses in
// piGuess are packed into piActive. active and mult2active must be current.
func (o *SolverPlus) initNewton(A [][]float64, uniContact []UniContactRT) {
	na := len(o.active)
	o.jacActive = o.jacActive[:0]
	for i := 0; i < na; i++ {
		o.jacActive = append(o.jacActive, o.jacFull[i][:na])
	}
	o.rhsActive = o.rhsFull[:na]
	o.piActive = o.piFull[:na]
	o.errActive = o.errFull[:na]
	o.piSave = o.savFull[:na]
	for aj, mj := range o.active {
		for ai, mi := range o.active {
			o.jacActive[ai][aj] = A[mi][mj]
		}
		o.rhsActive[aj] = o.verrLeft[mj] - o.verrExpand[mj]
		o.piActive[aj] = o.piGuess[mj]
	}

	// guess a small impulse with the sign of the right-hand side for active
	// normals. this improves
	// convergence because it puts the min(z,0) terms in the Jacobian on the
	// right branch
	for k := range uniContact {
		rt := &uniContact[k]
		if rt.ContactCond != UniActive {
			continue
		}
		ax := o.mult2active[rt.Nk]
		o.piActive[ax] = 0.01 * fun.Sign(o.rhsActive[ax])
	}
}

// calcError evaluates errActive = f(piActive). For impending-slip contacts
// the slip direction is recomputed from the current impulses first, so
// SlipVel and SlipMag are updated as a side effect.
func (o *SolverPlus) calcError(A [][]float64, uniContact []UniContactRT, piActive, errActive []float64) {

	// as though all equations were linear: err = A*pi - rhs (the expansion
	// impulse is included in rhs)
	for ai, mi := range o.active {
		errActive[ai] = mulRowActive(A, mi, o.active, piActive) - o.rhsActive[ai]
	}

	// replace the equations of sliding and impending-slip friction
	for k := range uniContact {
		rt := &uniContact[k]
		if rt.ContactCond == UniOff || !rt.HasFriction() {
			continue
		}
		if rt.FrictionCond != Sliding && rt.FrictionCond != Impending {
			continue
		}
		chk.IntAssert(len(rt.Fk), 2)
		mx, my, mz := rt.Fk[0], rt.Fk[1], rt.Nk

		if rt.FrictionCond == Impending {
			// update slip direction to [Ax Ay]*(pi+piE)
			d := mgl64.Vec2{
				mulRowActive(A, mx, o.active, piActive) + o.verrExpand[mx],
				mulRowActive(A, my, o.active, piActive) + o.verrExpand[my],
			}
			rt.SlipVel = d
			rt.SlipMag = d.Len()
		}

		μ := rt.EffMu
		ax, ay := o.mult2active[mx], o.mult2active[my]
		pix, piy := piActive[ax], piActive[ay]
		pizE := o.piELeft[mz]

		errActive[ax] = rt.SlipMag*pix + μ*rt.SlipVel[0]*pizE
		errActive[ay] = rt.SlipMag*piy + μ*rt.SlipVel[1]*pizE
		if rt.ContactCond == UniActive {
			// errx = |d|pix + μ dx (pizE + min(piz,0))  [erry similar]
			// the Jacobian is computed as though min were softmin0
			az := o.mult2active[mz]
			minz := math.Min(piActive[az], 0)
			errActive[ax] += μ * rt.SlipVel[0] * minz
			errActive[ay] += μ * rt.SlipVel[1] * minz
		}
	}
}

// updateJacobian rewrites the Jacobian rows of sliding and impending-slip
// friction equations for the current impulses and slip directions. Rows of
// linear equations were filled by initNewton and are left untouched.
func (o *SolverPlus) updateJacobian(A [][]float64, uniContact []UniContactRT) {
	for k := range uniContact {
		rt := &uniContact[k]
		if (rt.ContactCond != UniActive && rt.ContactCond != UniKnown) || !rt.HasFriction() {
			continue
		}
		if rt.FrictionCond != Sliding && rt.FrictionCond != Impending {
			continue
		}
		chk.IntAssert(len(rt.Fk), 2)
		mx, my := rt.Fk[0], rt.Fk[1]

		μ := rt.EffMu
		ax, ay := o.mult2active[mx], o.mult2active[my]
		pix, piy := o.piActive[ax], o.piActive[ay]
		d := rt.SlipVel
		dnorm := rt.SlipMag
		var dhat mgl64.Vec2
		if dnorm > TinyReal {
			dhat = d.Mul(1.0 / dnorm)
		}

		la.VecFill(o.jacActive[ax], 0)
		la.VecFill(o.jacActive[ay], 0)

		if rt.FrictionCond == Impending {
			Ax, Ay := A[mx], A[my]
			mz := rt.Nk
			pizE := o.piELeft[mz]

			if rt.ContactCond == UniActive {
				az := o.mult2active[mz]
				piz := o.piActive[az]
				minz := softmin0(piz, o.MinSmoothness)
				dminz := dsoftmin0(piz, o.MinSmoothness)
				// errx = |d|pix + dx μ (pizE + softmin0(piz))  [erry similar]
				// d/dpii errx = s pix + μ Axi (pizE + softmin0(piz)),
				// with s = dhat·(Axi,Ayi), plus |d| on the diagonal and
				// μ dx dsoftmin0(piz) on the az column
				for ai, mi := range o.active {
					s := dhat[0]*Ax[mi] + dhat[1]*Ay[mi]
					o.jacActive[ax][ai] = s*pix + μ*Ax[mi]*(pizE+minz)
					o.jacActive[ay][ai] = s*piy + μ*Ay[mi]*(pizE+minz)
				}
				o.jacActive[ax][ax] += dnorm
				o.jacActive[ay][ay] += dnorm
				o.jacActive[ax][az] += μ * d[0] * dminz
				o.jacActive[ay][az] += μ * d[1] * dminz

			} else { // normal is an expander
				// errx = |d|pix + dx μ pizE  [erry similar]
				for ai, mi := range o.active {
					s := dhat[0]*Ax[mi] + dhat[1]*Ay[mi]
					o.jacActive[ax][ai] = s*pix + μ*Ax[mi]*pizE
					o.jacActive[ay][ai] = s*piy + μ*Ay[mi]*pizE
				}
				o.jacActive[ax][ax] += dnorm
				o.jacActive[ay][ay] += dnorm
			}

		} else { // sliding
			o.jacActive[ax][ax] = dnorm
			o.jacActive[ay][ay] = dnorm
			// that is all for an expander; an active normal has z derivatives
			if rt.ContactCond == UniActive {
				az := o.mult2active[rt.Nk]
				dminz := dsoftmin0(o.piActive[az], o.MinSmoothness)
				o.jacActive[ax][az] = μ * d[0] * dminz
				o.jacActive[ay][az] = μ * d[1] * dminz
			}
		}
	}
}

// newtonSolve refines piActive until norm(errActive) <= CvgTol or MaxIt is
// reached. Each step solves the Jacobian system by rank-revealing least
// squares and applies a backtracking line search. Non-convergence is not an
// error: the last iterate is left in piActive.
func (o *SolverPlus) newtonSolve(A [][]float64, uniContact []UniContactRT) {

	const minFrac = 0.01 // take at least this much of a step
	const searchReduceFac = 0.5

	o.updateJacobian(A, uniContact)
	errNorm := la.VecNorm(o.errActive)
	newtIter := 0
	for errNorm > o.CvgTol {
		newtIter++

		// solve for the correction δpi
		δpi, _ := lsq.Solve(o.jacActive, o.errActive, 0)

		// backtracking line search
		frac := 1.0
		copy(o.piSave, o.piActive)
		for {
			for i := range o.piActive {
				o.piActive[i] = o.piSave[i] - frac*δpi[i]
			}
			o.calcError(A, uniContact, o.piActive, o.errActive)
			normNow := la.VecNorm(o.errActive)
			if normNow < errNorm {
				errNorm = normNow
				break
			}
			frac *= searchReduceFac
			if frac*searchReduceFac < minFrac {
				// stuck; accept the small norm increase and continue
				errNorm = normNow
				break
			}
		}

		if errNorm < o.CvgTol {
			break // we have a winner
		}
		if newtIter >= o.MaxIt {
			if o.Verbose {
				io.Pfgrey2("  newton failed to converge after %d iterations; norm=%g\n", o.MaxIt, errNorm)
			}
			break // we have a loser
		}
		o.updateJacobian(A, uniContact)
	}
	if o.Verbose {
		io.Pfgrey2("  newton done in %d iterations; norm=%g\n", newtIter, errNorm)
	}
}
