// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fffb provides feedforward (FF) and feedback (FB) inhibition (FFFB)
computed at the region level from the average (or maximum) excitatory
conductance (FF) and rate-code activation (FB) over the region's neurons.

Adding this pooled inhibition on top of synaptic inhibition produces a
robust, graded winners-take-all dynamic: a roughly constant fraction of a
region's neurons can be strongly active at any time.
*/
package fffb

// Params parameterizes feedforward (FF) and feedback (FB) inhibition
// based on average (or maximum) conductance (FF) and activation (FB)
type Params struct {
	On       bool    `desc:"enable region-level pooled inhibition"`
	Gi       float32 `viewif:"On" min:"0" def:"1.8" desc:"overall inhibition gain -- the main parameter to adjust to change overall activation levels -- scales both the ff and fb factors uniformly"`
	FF       float32 `viewif:"On" min:"0" def:"1" desc:"overall inhibitory contribution from feedforward inhibition -- multiplies average excitatory conductance coming into the region -- anticipates upcoming changes in excitation -- see FF0 for its zero point"`
	FB       float32 `viewif:"On" min:"0" def:"1" desc:"overall inhibitory contribution from feedback inhibition -- multiplies average activation -- reacts to region activation levels like a thermostat"`
	FBTau    float32 `viewif:"On" min:"0" def:"1.4" desc:"time constant in ticks for integrating feedback inhibition -- prevents oscillations that otherwise occur"`
	MaxVsAvg float32 `viewif:"On" def:"0" desc:"proportion of the maximum vs. average conductance to use in the feedforward computation -- 0 = all average, 1 = all max, and values in between = proportional mix"`
	FF0      float32 `viewif:"On" def:"0.1" desc:"feedforward zero point -- below this level of average conductance no FF inhibition is computed, and this value is subtracted from the ff contribution above it"`

	FBDt float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (fb *Params) Update() {
	fb.FBDt = 1 / fb.FBTau
}

func (fb *Params) Defaults() {
	fb.Gi = 1.8
	fb.FF = 1
	fb.FB = 1
	fb.FBTau = 1.4
	fb.MaxVsAvg = 0
	fb.FF0 = 0.1
	fb.Update()
}

// FFInhib returns the feedforward inhibition value based on average and
// max excitatory conductance within the region
func (fb *Params) FFInhib(avgGe, maxGe float32) float32 {
	ffNetin := avgGe + fb.MaxVsAvg*(maxGe-avgGe)
	var ffi float32
	if ffNetin > fb.FF0 {
		ffi = fb.FF * (ffNetin - fb.FF0)
	}
	return ffi
}

// FBInhib computes feedback inhibition value as function of average
// activation
func (fb *Params) FBInhib(avgAct float32) float32 {
	return fb.FB * avgAct
}

// FBUpdt updates feedback inhibition using time-integration rate constant
func (fb *Params) FBUpdt(fbi *float32, newFbi float32) {
	*fbi += fb.FBDt * (newFbi - *fbi)
}

// Inhib is the full inhibition computation for the given inhib state,
// which must have its Ge and Act values updated to the current Avg and
// Max over the region
func (fb *Params) Inhib(inh *Inhib) {
	if !fb.On {
		inh.Zero()
		return
	}
	ffi := fb.FFInhib(inh.Ge.Avg, inh.Ge.Max)
	fbi := fb.FBInhib(inh.Act.Avg)

	inh.FFi = ffi
	fb.FBUpdt(&inh.FBi, fbi)

	inh.Gi = fb.Gi * (ffi + inh.FBi)
}
