// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fffb

import "github.com/emer/etable/minmax"

// Inhib contains state values for computed FFFB inhibition over a region
type Inhib struct {
	FFi float32 `desc:"computed feedforward inhibition"`
	FBi float32 `desc:"computed feedback inhibition, time-integrated"`
	Gi  float32 `desc:"overall inhibition -- added to each neuron's synaptic inhibition"`

	Ge  minmax.AvgMax32 `desc:"average and max excitatory conductance values from the previous tick, which drive FF inhibition"`
	Act minmax.AvgMax32 `desc:"average and max activation values from the previous tick, which drive FB inhibition"`
}

func (fi *Inhib) Init() {
	fi.Zero()
	fi.Ge.Init()
	fi.Act.Init()
}

// Zero clears inhibition but does not affect the Ge, Act averages
func (fi *Inhib) Zero() {
	fi.FFi = 0
	fi.FBi = 0
	fi.Gi = 0
}

// Decay reduces inhibition values by given decay proportion
func (fi *Inhib) Decay(decay float32) {
	fi.Ge.Max -= decay * fi.Ge.Max
	fi.Ge.Avg -= decay * fi.Ge.Avg
	fi.Act.Max -= decay * fi.Act.Max
	fi.Act.Avg -= decay * fi.Act.Avg
	fi.FFi -= decay * fi.FFi
	fi.FBi -= decay * fi.FBi
	fi.Gi -= decay * fi.Gi
}
