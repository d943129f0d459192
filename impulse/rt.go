// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package impulse

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ContactType classifies how a unilateral contact takes part in a solve
type ContactType int

const (
	// Observing contacts are monitored only; neither the normal nor the
	// friction equations take part in the solution
	Observing ContactType = iota

	// Known contacts have a prescribed normal impulse (an expander); only
	// their friction equations are unknowns
	Known

	// Participating contacts contribute an unknown normal impulse
	Participating
)

// UniCond is the runtime condition of a unilateral contact normal equation
type UniCond int

const (
	UniOff UniCond = iota // inactive
	UniActive
	UniKnown
)

// FricCond is the runtime regime of a frictional contact
type FricCond int

const (
	FricOff FricCond = iota
	Rolling
	Sliding
	Impending
)

// ContactTypeName returns the name of a contact type
func ContactTypeName(t ContactType) string {
	switch t {
	case Observing:
		return "Observing"
	case Known:
		return "Known"
	case Participating:
		return "Participating"
	}
	return "Invalid"
}

// UniCondName returns the name of a unilateral contact condition
func UniCondName(c UniCond) string {
	switch c {
	case UniOff:
		return "UniOff"
	case UniActive:
		return "UniActive"
	case UniKnown:
		return "UniKnown"
	}
	return "Invalid"
}

// FricCondName returns the name of a friction condition
func FricCondName(c FricCond) string {
	switch c {
	case FricOff:
		return "FricOff"
	case Rolling:
		return "Rolling"
	case Sliding:
		return "Sliding"
	case Impending:
		return "Impending"
	}
	return "Invalid"
}

// UncondRT holds runtime data of an unconditional constraint; i.e. a group of
// multipliers always enforced as equalities
type UncondRT struct {
	Mults []int // multiplier indices
}

// BoundedRT holds runtime data of a conditional scalar constraint with
// constant bounds on the resulting impulse
type BoundedRT struct {
	Ix int     // multiplier index
	Lb float64 // lower bound
	Ub float64 // upper bound
}

// UniSpeedRT holds runtime data of a unilateral speed constraint
type UniSpeedRT struct {
	Ix   int     // multiplier index
	Sign float64 // sign convention
}

// UniContactRT holds runtime data of a unilateral contact with optional
// Coulomb friction. Type, Nk, Fk, EffMu and Sign are set by the caller; the
// remaining fields are set by the solver.
type UniContactRT struct {
	Type  ContactType
	Nk    int     // multiplier index of normal equation
	Fk    []int   // multiplier indices of friction equations; nil if frictionless
	EffMu float64 // effective friction coefficient
	Sign  float64 // sign convention of the normal multiplier; usually +1

	// runtime fields, set by the solver
	ContactCond  UniCond
	FrictionCond FricCond
	SlipVel      mgl64.Vec2 // tangential velocity at interval start; updated while impending
	SlipMag      float64    // norm of SlipVel
}

// HasFriction tells whether this contact carries friction equations
func (o *UniContactRT) HasFriction() bool {
	return len(o.Fk) > 0
}

// StateLtdFrictionRT holds runtime data of friction limited by a known,
// state-dependent normal force
type StateLtdFrictionRT struct {
	Fk     []int   // multiplier indices of friction equations
	KnownN float64 // known normal force magnitude
	EffMu  float64 // effective friction coefficient
}

// ConsLtdFrictionRT holds runtime data of friction limited by unknown
// constraint-generated normal multipliers
type ConsLtdFrictionRT struct {
	Fk    []int   // multiplier indices of friction equations
	Nk    []int   // multiplier indices of limiting normal equations
	EffMu float64 // effective friction coefficient
}

// Constraints groups all constraint runtime records taking part in a solve.
// Records are created by the caller; solvers mutate runtime fields only.
type Constraints struct {
	Uncond           []UncondRT
	Bounded          []BoundedRT
	UniSpeed         []UniSpeedRT
	UniContact       []UniContactRT
	StateLtdFriction []StateLtdFrictionRT
	ConsLtdFriction  []ConsLtdFrictionRT
}

// CountEquations returns the number of scalar equations contributed by
// participating constraints. Must equal the number of participating
// multipliers handed to Solve.
func (o *Constraints) CountEquations() (n int) {
	n = len(o.UniSpeed) + len(o.Bounded)
	for i := range o.Uncond {
		n += len(o.Uncond[i].Mults)
	}
	for i := range o.UniContact {
		rt := &o.UniContact[i]
		if rt.Type == Observing {
			continue // neither normal nor friction participate
		}
		if rt.Type == Participating {
			n += 1 // normal participates
		}
		if rt.HasFriction() {
			n += len(rt.Fk) // friction participates even if normal is known
		}
	}
	for i := range o.StateLtdFriction {
		n += len(o.StateLtdFriction[i].Fk)
	}
	for i := range o.ConsLtdFriction {
		n += len(o.ConsLtdFriction[i].Fk)
	}
	return
}
