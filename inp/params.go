// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.prm) JSON file
package inp

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Params holds the configuration of an impulse solver. All values are read
// during a solve and may only be changed between solves.
type Params struct {
	Solver                 string  `json:"solver"`                 // solver kind; e.g. "plus"
	CvgTol                 float64 `json:"cvgTol"`                 // Newton convergence tolerance on norm(err)
	MaxIt                  int     `json:"maxIt"`                  // cap on Newton iterations per active set
	MinSmoothness          float64 `json:"minSmoothness"`          // ε of the smooth min(z,0) surrogate
	MaxRollingTangVel      float64 `json:"maxRollingTangVel"`      // tangential speed below which friction rolls
	CosMaxSlidingDirChange float64 `json:"cosMaxSlidingDirChange"` // cosine of max slip rotation per interval
	Verbose                bool    `json:"verbose"`                // emit solution trace
}

// SetDefault sets default values
func (o *Params) SetDefault() {
	o.Solver = "plus"
	o.CvgTol = 1e-10
	o.MaxIt = 100
	o.MinSmoothness = 1e-10
	o.MaxRollingTangVel = 1e-3
	o.CosMaxSlidingDirChange = math.Cos(30.0 * math.Pi / 180.0)
	o.Verbose = false
}

// ReadParams reads parameters from a JSON file. Keys absent from the file
// keep their default values.
func ReadParams(filename string) *Params {
	o := new(Params)
	o.SetDefault()
	b := io.ReadFile(filename)
	err := json.Unmarshal(b, o)
	if err != nil {
		chk.Panic("ReadParams: cannot unmarshal parameters file %q", filename)
	}
	return o
}
