// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

import (
	"math"

	"github.com/cpmech/gocontact/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
	"github.com/go-gl/mathgl/mgl64"
)

// SolverPlus solves contact impulse problems with the PLUS
// (Poisson-Linear Uncoupled Successive-pruning) method. The solution is
// decomposed into sliding intervals during which slip directions are held
// constant; within each interval an active-set iteration wraps a Newton
// subproblem with backtracking line search, and the active set is pruned one
// constraint at a time until all admissibility conditions hold.
type SolverPlus struct {

	// configuration; read-only during a solve
	CvgTol                 float64 // stop Newton when norm(err) <= CvgTol
	MaxIt                  int     // cap on Newton iterations per active set
	MinSmoothness          float64 // ε of the smooth min(z,0) surrogate
	MaxRollingTangVel      float64 // tangential speed below which friction rolls
	CosMaxSlidingDirChange float64 // cosine of max slip rotation per interval
	Verbose                bool    // emit solution trace

	// statistics
	NSolves    []int // number of calls to Solve, per phase
	NIntervals int   // number of sliding intervals in the last solve

	// scratch; resized per call
	active      []int     // ordered active multiplier indices
	mult2active []int     // inverse of active; -1 == inactive
	verrLeft    []float64 // velocity error remaining to be solved
	verrExpand  []float64 // velocity change of applying the remaining expansion impulse
	piELeft     []float64 // expansion impulse remaining to be applied
	piTotal     []float64 // accumulated impulse over all intervals
	piGuess     []float64 // best in-bounds impulse of the current interval
	jacFull     [][]float64
	rhsFull     []float64
	piFull      []float64
	errFull     []float64
	savFull     []float64
	jacActive   [][]float64 // na x na views into jacFull
	rhsActive   []float64
	piActive    []float64
	errActive   []float64
	piSave      []float64
}

// set factory
func init() {
	solverallocators["plus"] = func() Solver {
		o := new(SolverPlus)
		o.Init(nil)
		return o
	}
}

// Init initialises the solver with given parameters. prm == nil sets defaults.
func (o *SolverPlus) Init(prm *inp.Params) {
	if prm == nil {
		prm = new(inp.Params)
		prm.SetDefault()
	}
	o.CvgTol = prm.CvgTol
	o.MaxIt = prm.MaxIt
	o.MinSmoothness = prm.MinSmoothness
	o.MaxRollingTangVel = prm.MaxRollingTangVel
	o.CosMaxSlidingDirChange = prm.CosMaxSlidingDirChange
	o.Verbose = prm.Verbose
}

// Solve finds the impulse vector pi resolving all participating constraints.
// See the Solver interface for the meaning of arguments. Input size and
// symmetry violations are programming errors and cause panics; algorithmic
// difficulties never do: the solver degrades and keeps going.
func (o *SolverPlus) Solve(phase int, participating []int, A [][]float64, D []float64,
	expanding []int, piExpand, verr, pi []float64, cons *Constraints) (converged bool) {

	// check input
	m := len(verr)
	chk.IntAssert(len(A), m)
	if m > 0 {
		chk.IntAssert(len(A[0]), m)
	}
	for i := 1; i < m; i++ {
		for j := 0; j < i; j++ {
			if math.Abs(A[i][j]-A[j][i]) > SignificantReal*math.Max(1, math.Abs(A[i][j])) {
				chk.Panic("A must be symmetric: A[%d][%d]=%g but A[%d][%d]=%g", i, j, A[i][j], j, i, A[j][i])
			}
		}
	}
	if D != nil {
		chk.IntAssert(len(D), m)
	}
	chk.IntAssert(len(piExpand), m)
	chk.IntAssert(len(pi), m)
	p := len(participating)
	if p > m || len(expanding) > m {
		chk.Panic("too many participating (%d) or expanding (%d) multipliers for m=%d", p, len(expanding), m)
	}
	chk.IntAssert(cons.CountEquations(), p)

	// statistics
	for phase >= len(o.NSolves) {
		o.NSolves = append(o.NSolves, 0)
	}
	o.NSolves[phase]++
	o.NIntervals = 0

	// trivial case: nothing to do. pi=0; verr and piExpand are left unchanged
	la.VecFill(pi, 0)
	if p == 0 {
		if o.Verbose {
			io.Pf("plus: phase %d: nothing to do; converged in 0 intervals\n", phase)
		}
		return true
	}

	// scratch
	o.resizeScratch(m)
	copy(o.verrLeft, verr)
	copy(o.piELeft, piExpand)
	for i := 0; i < m; i++ {
		o.piTotal[i] = 0
	}

	// sliding intervals. each interval restarts the active set from the full
	// participating list, because accepting only a fraction of the impulse
	// invalidates earlier pruning decisions. piTotal keeps accumulating; the
	// loop ends when an interval of length frac == 1 is taken.
	frac := 0.0
	for frac < 1 {
		o.NIntervals++
		o.active = append(o.active[:0], participating...)
		o.fillMult2Active()

		// velocity change if the full remaining expansion impulse were
		// applied in this interval: verrExpand = A*piELeft + D*piELeft
		for i := 0; i < m; i++ {
			o.verrExpand[i] = mulRowSparse(A, i, expanding, o.piELeft)
			if D != nil {
				o.verrExpand[i] += D[i] * o.piELeft[i]
			}
		}

		for i := 0; i < m; i++ {
			o.piGuess[i] = 0
		}

		// determine rolling vs. sliding and get slip directions; never
		// produces impending at interval start
		o.classifyFrictionals(cons.UniContact)

		if o.Verbose {
			io.Pf("plus: interval %d start: active=%v\n", o.NIntervals, o.active)
		}

		o.runActiveSetLoop(A, cons)

		// fraction of this interval that can be accepted; limited by
		// currently sliding contacts only
		frac = o.intervalFraction(A, cons.UniContact)

		// apply the accepted fraction
		for _, mx := range expanding {
			o.piELeft[mx] -= frac * o.piELeft[mx]
		}
		for ax := range o.piActive {
			o.piActive[ax] *= frac
		}
		addActiveInto(o.active, o.piActive, o.piTotal)
		for i := 0; i < m; i++ {
			o.verrLeft[i] -= mulRowActive(A, i, o.active, o.piActive) + frac*o.verrExpand[i]
		}

		if o.Verbose {
			io.Pf("plus: interval %d end: frac=%g\n", o.NIntervals, frac)
		}
	}

	// results. pi does not include the expansion impulse
	copy(pi, o.piTotal)
	copy(verr, o.verrLeft)
	copy(piExpand, o.piELeft)

	// trace normal complementarity on the original problem
	if o.Verbose {
		io.Pf("plus: done in %d intervals\n", o.NIntervals)
		for k := range cons.UniContact {
			mx := cons.UniContact[k].Nk
			io.Pfgrey2("  contact %d: pi=%g verr=%g pi*v=%g\n", k, pi[mx], verr[mx], pi[mx]*verr[mx])
		}
	}
	return true
}

// resizeScratch makes sure all work buffers hold at least m entries
func (o *SolverPlus) resizeScratch(m int) {
	if m > len(o.mult2active) {
		o.mult2active = make([]int, m)
		o.verrLeft = make([]float64, m)
		o.verrExpand = make([]float64, m)
		o.piELeft = make([]float64, m)
		o.piTotal = make([]float64, m)
		o.piGuess = make([]float64, m)
		o.jacFull = la.MatAlloc(m, m)
		o.rhsFull = make([]float64, m)
		o.piFull = make([]float64, m)
		o.errFull = make([]float64, m)
		o.savFull = make([]float64, m)
	}
}

// fillMult2Active rebuilds the inverse map of the current active list
func (o *SolverPlus) fillMult2Active() {
	for i := range o.mult2active {
		o.mult2active[i] = -1
	}
	for ax, mx := range o.active {
		o.mult2active[mx] = ax
	}
}

// eraseActive removes position ax from the active list by swapping with the
// last entry; mult2active becomes stale and must be rebuilt
func (o *SolverPlus) eraseActive(ax int) {
	n := len(o.active)
	o.active[ax] = o.active[n-1]
	o.active = o.active[:n-1]
}

// classifyFrictionals classifies all frictional contacts at the start of a
// sliding interval. If the normal contact is observing, its friction is off
// too. Otherwise every frictional contact is rolling or sliding depending on
// the slip velocity present in the remaining right-hand side. No contact is
// impending at interval start; that state only occurs by transition from
// rolling during pruning.
func (o *SolverPlus) classifyFrictionals(uniContact []UniContactRT) {
	for k := range uniContact {
		rt := &uniContact[k]

		// contact condition
		switch rt.Type {
		case Participating:
			rt.ContactCond = UniActive
		case Known:
			rt.ContactCond = UniKnown
		default:
			rt.ContactCond = UniOff
		}

		// friction condition and slip velocity
		if rt.Type == Observing || !rt.HasFriction() {
			rt.FrictionCond = FricOff
			rt.SlipVel = mgl64.Vec2{math.NaN(), math.NaN()} // for bug catching
			rt.SlipMag = math.NaN()
			continue
		}
		chk.IntAssert(len(rt.Fk), 2)
		for i, mx := range rt.Fk {
			rt.SlipVel[i] = o.verrLeft[mx]
		}
		rt.SlipMag = rt.SlipVel.Len()
		if rt.SlipMag > o.MaxRollingTangVel {
			rt.FrictionCond = Sliding
		} else {
			rt.FrictionCond = Rolling
		}

		if o.Verbose {
			io.Pfgrey2("  %s contact %d is %s; vel=%g,%g mag=%g\n", ContactTypeName(rt.Type),
				k, FricCondName(rt.FrictionCond), rt.SlipVel[0], rt.SlipVel[1], rt.SlipMag)
		}
	}
}

// runActiveSetLoop iterates Newton solves and pruning until the projected
// impulse satisfies all admissibility conditions, or the active set empties
func (o *SolverPlus) runActiveSetLoop(A [][]float64, cons *Constraints) {

	uniContact := cons.UniContact
	for its := 1; ; its++ {

		// piGuess has the best guess from the previous active set, unpacked
		// into the associated multiplier slots
		o.fillMult2Active()
		o.initNewton(A, uniContact)
		o.calcError(A, uniContact, o.piActive, o.errActive)

		if len(o.active) == 0 {
			break
		}

		o.newtonSolve(A, uniContact)

		// project piActive into the admissible set and update piGuess,
		// recording the worst violation per category

		// unconditional: always on
		for i := range cons.Uncond {
			for _, mx := range cons.Uncond[i].Mults {
				o.piGuess[mx] = o.piActive[o.mult2active[mx]] // unpack
			}
		}

		// bounded: clamp into [lb, ub]. only the in-bounds value is saved in
		// piGuess in case it seeds the next iteration
		worstBoundedVal := 0.0
		for k := range cons.Bounded {
			rt := &cons.Bounded[k]
			ax := o.mult2active[rt.Ix]
			if ax < 0 {
				continue // not active
			}
			o.piGuess[rt.Ix] = clamp(rt.Lb, o.piActive[ax], rt.Ub)
			if e := math.Abs(o.piActive[ax] - o.piGuess[rt.Ix]); e > worstBoundedVal {
				worstBoundedVal = e
			}
		}

		// unilateral contact normal: complementarity allows only compressive
		// impulses; i.e. sign*pi <= 0
		worstNormal, worstNormalVal := 0, 0.0
		for k := range uniContact {
			rt := &uniContact[k]
			mx := rt.Nk
			if rt.ContactCond == UniOff || rt.ContactCond == UniKnown {
				o.piGuess[mx] = 0
				continue
			}
			ax := o.mult2active[mx]
			piAdj := 0.0
			if rt.Sign*o.piActive[ax] < 0 {
				piAdj = o.piActive[ax]
			}
			o.piGuess[mx] = piAdj
			if e := math.Abs(o.piActive[ax] - piAdj); e > worstNormalVal {
				worstNormal, worstNormalVal = k, e
			}
		}

		// unilateral contact friction: the tangential vector is limited by
		// the normal force. only rolling has an inequality to check here;
		// sliding and impending magnitudes are enforced by their equations
		worstFric, worstFricVal := 0, 0.0
		for k := range uniContact {
			rt := &uniContact[k]
			if rt.ContactCond == UniOff || !rt.HasFriction() {
				continue
			}
			μ := rt.EffMu
			scale := 1.0
			if rt.FrictionCond == Rolling {
				tmag := 0.0
				for _, mx := range rt.Fk {
					v := o.piActive[o.mult2active[mx]]
					tmag += v * v
				}
				tmag = math.Sqrt(tmag)

				// "sucking" normal impulses are zero already in piGuess and
				// known normal impulses live in piELeft
				nmag := math.Abs(o.piGuess[rt.Nk] + o.piELeft[rt.Nk])
				if tmag > μ*nmag {
					scale = μ * nmag / tmag
					if e := tmag - μ*nmag; e > worstFricVal {
						worstFric, worstFricVal = k, e
					}
				}
			}
			for _, mx := range rt.Fk {
				o.piGuess[mx] = scale * o.piActive[o.mult2active[mx]]
			}
		}

		// TODO: uni speed, constraint- and state-limited friction

		if worstBoundedVal <= SignificantReal && worstNormalVal <= SignificantReal && worstFricVal <= SignificantReal {
			if o.Verbose {
				io.Pfgrey2("  active set done in %d iterations\n", its)
			}
			break
		}

		// prune exactly one constraint. a normal whose rolling friction is
		// still on must have the friction released first, because doing so
		// might fix the normal
		releaseFriction := true
		if worstNormalVal > worstFricVal {
			rt := &uniContact[worstNormal]
			if !rt.HasFriction() || rt.FrictionCond != Rolling {
				rt.ContactCond = UniOff
				if o.Verbose {
					io.Pfgrey2("  releasing normal contact %d (err=%g)\n", worstNormal, worstNormalVal)
				}
				// remove from active set; highest positions first to keep
				// the remaining positions stable
				if !rt.HasFriction() {
					o.eraseActive(o.mult2active[rt.Nk])
				} else {
					a, b, c := o.mult2active[rt.Nk], o.mult2active[rt.Fk[0]], o.mult2active[rt.Fk[1]]
					sort3(&a, &b, &c)
					o.eraseActive(c)
					o.eraseActive(b)
					o.eraseActive(a)
				}
				// mult2active is stale now; rebuilt at loop start
				releaseFriction = false
			} else {
				worstFric = worstNormal
				worstFricVal = math.NaN()
			}
		}
		if releaseFriction {
			if len(uniContact) == 0 {
				break // nothing to release; accept the current state
			}
			if o.Verbose {
				io.Pfgrey2("  switching friction %d from rolling to impending (err=%g)\n", worstFric, worstFricVal)
			}
			uniContact[worstFric].FrictionCond = Impending
		}
	}
}

// intervalFraction determines what fraction of the current interval can be
// accepted. Only currently sliding contacts restrict the interval; rolling
// and impending-slip contacts do not.
func (o *SolverPlus) intervalFraction(A [][]float64, uniContact []UniContactRT) (frac float64) {
	frac = 1
	for k := range uniContact {
		rt := &uniContact[k]
		if rt.FrictionCond != Sliding {
			continue
		}
		chk.IntAssert(len(rt.Fk), 2)
		if !(rt.SlipMag > o.MaxRollingTangVel) {
			chk.Panic("contact %d misclassified as Sliding: slip speed %g is too small (rolling below %g)",
				k, rt.SlipMag, o.MaxRollingTangVel)
		}

		// new slip velocity db = [Ax Ay]*(pi+piE). TODO: D?
		db := mgl64.Vec2{
			mulRowActive(A, rt.Fk[0], o.active, o.piActive) + o.verrExpand[rt.Fk[0]],
			mulRowActive(A, rt.Fk[1], o.active, o.piActive) + o.verrExpand[rt.Fk[1]],
		}
		bend := rt.SlipVel.Sub(db)
		bendMag := bend.Len()

		if bendMag <= o.MaxRollingTangVel {
			continue // friction slowed to a halt
		}
		cosθ := clamp(-1, rt.SlipVel.Dot(bend)/(rt.SlipMag*bendMag), 1)
		if cosθ >= o.CosMaxSlidingDirChange {
			continue // rotation within budget
		}
		if o.Verbose {
			io.Pfgrey2("  sliding contact %d rotates %g deg; truncating interval\n",
				k, math.Acos(cosθ)*180.0/math.Pi)
		}

		frac1, endPt := o.stepLenToOrigin2(rt.SlipVel, bend)
		if endPt.Len() <= o.MaxRollingTangVel {
			frac = utl.Min(frac, frac1) // this fraction halts the slip
			continue
		}
		frac = utl.Min(frac, o.stepLenToMaxChange2(rt.SlipVel, bend))
	}
	return
}
