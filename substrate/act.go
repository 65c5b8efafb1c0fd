// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
	"github.com/nsim/substrate/chans"
)

// substrate.ActParams contains all the activation computation params and
// functions for the discrete-time neuron model.  This is included in
// Region to drive the per-tick integrate and fire computation.
type ActParams struct {
	Spike     SpikeParams     `view:"inline" desc:"threshold, reset and refractory parameters for discrete spiking"`
	Rate      RateParams      `view:"inline" desc:"graded rate-code output computed from excitatory conductance"`
	OptThresh OptThreshParams `view:"inline" desc:"optimization thresholds for sending activation deltas"`
	Init      ActInitParams   `view:"inline" desc:"initial values for key activation state variables"`
	Dt        DtParams        `view:"inline" desc:"time and rate constants for temporal integration"`
	Gbar      chans.Chans     `view:"inline" desc:"maximal conductances for channels"`
	Erev      chans.Chans     `view:"inline" desc:"reversal potentials for channels"`
	Clamp     ClampParams     `view:"inline" desc:"how external inputs drive neurons"`
	Noise     ActNoiseParams  `view:"inline" desc:"how and where to add noise"`
	VmRange   minmax.F32      `view:"inline" desc:"range for Vm membrane potential"`
}

func (ac *ActParams) Defaults() {
	ac.Spike.Defaults()
	ac.Rate.Defaults()
	ac.OptThresh.Defaults()
	ac.Init.Defaults()
	ac.Dt.Defaults()
	ac.Gbar.SetAll(1.0, 0.1, 1.0, 1.0)
	ac.Erev.SetAll(1.0, 0.3, 0.25, 0.25)
	ac.Clamp.Defaults()
	ac.Noise.Defaults()
	ac.VmRange.Set(0, 2.0)
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.Spike.Update()
	ac.Rate.Update()
	ac.OptThresh.Update()
	ac.Init.Update()
	ac.Dt.Update()
	ac.Clamp.Update()
	ac.Noise.Update()
}

// InitActs initializes activation state in neuron -- called during InitActs
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.Act = ac.Init.Act
	nrn.Ge = ac.Init.Ge
	nrn.Gi = 0
	nrn.GeRaw = 0
	nrn.GiRaw = 0
	nrn.GeInc = 0
	nrn.GiInc = 0
	nrn.Vm = ac.Init.Vm
	nrn.Inet = 0
	nrn.Noise = 0
	nrn.Spike = 0
	nrn.Ext = 0
	nrn.ActSent = 0
	nrn.ActAvg = ac.Init.Act
	nrn.RefracLeft = 0
	nrn.LastSpike = -1
	nrn.ClearFlag(NeurHasExt)
}

// GRawFmInc updates GeRaw and GiRaw from the per-tick increments drained
// from the inboxes, then clears the increments.  Graded regions send
// deltas, so the raws accumulate; spiking regions deliver impulses, so
// the raws are replaced each tick.
func (ac *ActParams) GRawFmInc(nrn *Neuron, graded bool) {
	if graded {
		nrn.GeRaw += nrn.GeInc
		nrn.GiRaw += nrn.GiInc
	} else {
		nrn.GeRaw = nrn.GeInc
		nrn.GiRaw = nrn.GiInc
	}
	nrn.GeInc = 0
	nrn.GiInc = 0
}

// GeFmRaw integrates Ge excitatory conductance from GeRaw,
// applying hard clamping and noise as configured.
func (ac *ActParams) GeFmRaw(nrn *Neuron, geRaw float32) {
	if ac.Clamp.Hard && nrn.HasFlag(NeurHasExt) {
		nrn.Ge = nrn.Ext
		return
	}
	if !ac.Clamp.Hard && nrn.HasFlag(NeurHasExt) {
		geRaw += ac.Clamp.Gain * nrn.Ext
	}
	if ac.Noise.Type == GeNoise {
		nrn.Noise = float32(ac.Noise.Gen(-1))
		geRaw += nrn.Noise
	}
	ac.Dt.GFmRaw(geRaw, &nrn.Ge)
}

// GiFmRaw integrates Gi inhibitory conductance from GiRaw
func (ac *ActParams) GiFmRaw(nrn *Neuron, giRaw float32) {
	ac.Dt.GFmRaw(giRaw, &nrn.Gi)
}

// InetFmG computes net current from conductances and Vm
func (ac *ActParams) InetFmG(vm, ge, gi float32) float32 {
	return ge*(ac.Erev.E-vm) + ac.Gbar.L*(ac.Erev.L-vm) + gi*(ac.Erev.I-vm)
}

// VmFmG computes membrane potential Vm from conductances Ge and Gi,
// plus any region-level pooled inhibition in giPool
func (ac *ActParams) VmFmG(nrn *Neuron, giPool float32) {
	ge := nrn.Ge * ac.Gbar.E
	gi := (nrn.Gi + giPool) * ac.Gbar.I
	nrn.Inet = ac.InetFmG(nrn.Vm, ge, gi)
	nVm := nrn.Vm + ac.Dt.VmDt*nrn.Inet
	if ac.Noise.Type == VmNoise {
		nrn.Noise = float32(ac.Noise.Gen(-1))
		nVm += nrn.Noise
	}
	nrn.Vm = ac.VmRange.ClipVal(nVm)
}

// SpikeFmVm computes discrete spiking from Vm at the given tick.
// Hard-clamped external input fires whenever Ext is at or above threshold,
// bypassing the refractory period; organic firing requires Vm above
// threshold and an elapsed refractory period.  Firing resets Vm to VmR
// and starts the refractory countdown.
func (ac *ActParams) SpikeFmVm(nrn *Neuron, tick int32) {
	fired := false
	switch {
	case nrn.IsOff():
	case ac.Clamp.Hard && nrn.HasFlag(NeurHasExt):
		fired = nrn.Ext >= ac.Spike.Thr
	default:
		fired = nrn.CanFire() && nrn.Vm > ac.Spike.Thr
	}
	if fired {
		nrn.Spike = 1
		nrn.Vm = ac.Spike.VmR
		nrn.RefracLeft = ac.Spike.Tr
		nrn.LastSpike = tick
	} else {
		nrn.Spike = 0
		if nrn.RefracLeft > 0 {
			nrn.RefracLeft--
		}
	}
}

// ActFmG computes the graded rate-code activation from Ge, and updates
// the long-term ActAvg.  Act is continuous in Ge, so subthreshold input
// still produces output that downstream plasticity can use.
func (ac *ActParams) ActFmG(nrn *Neuron) {
	nrn.Act = ac.Rate.ActFmGe(nrn.Ge * ac.Gbar.E)
	ac.Dt.AvgVarUpdt(&nrn.ActAvg, nrn.Act)
}

// HasHardClamp returns true if this neuron has external input that
// hard-clamps its state
func (ac *ActParams) HasHardClamp(nrn *Neuron) bool {
	return ac.Clamp.Hard && nrn.HasFlag(NeurHasExt)
}

//////////////////////////////////////////////////////////////////////////////////////
//  SpikeParams

// SpikeParams contains the threshold, reset and refractory parameters for
// discrete spiking
type SpikeParams struct {
	Thr float32 `def:"0.5" desc:"membrane potential threshold for firing"`
	VmR float32 `def:"0.3" desc:"post-spike reset value for Vm"`
	Tr  int32   `def:"3" min:"0" desc:"refractory period in ticks after a spike, during which the neuron cannot fire organically"`
}

func (sk *SpikeParams) Defaults() {
	sk.Thr = 0.5
	sk.VmR = 0.3
	sk.Tr = 3
}

func (sk *SpikeParams) Update() {
}

//////////////////////////////////////////////////////////////////////////////////////
//  RateParams

// RateParams computes the graded rate-code output as a saturating
// x-over-x-plus-1 function of gain-scaled excitatory conductance
type RateParams struct {
	Gain float32 `def:"2" min:"0" desc:"gain multiplier on Ge before the saturating transform"`
}

func (rp *RateParams) Defaults() {
	rp.Gain = 2
}

func (rp *RateParams) Update() {
}

// ActFmGe returns the rate-code activation for the given conductance:
// 0 for non-positive input, otherwise x/(x+1) of the gain-scaled value,
// which is strictly increasing and saturates below 1.
func (rp *RateParams) ActFmGe(ge float32) float32 {
	x := rp.Gain * ge
	if x <= 0 {
		return 0
	}
	return x / (x + 1)
}

//////////////////////////////////////////////////////////////////////////////////////
//  OptThreshParams

// OptThreshParams provides optimization thresholds for faster processing
type OptThreshParams struct {
	Send  float32 `def:"0.1" desc:"do not send activation when act <= Send"`
	Delta float32 `def:"0.005" desc:"do not send activation changes until they exceed this threshold"`
}

func (ot *OptThreshParams) Defaults() {
	ot.Send = 0.1
	ot.Delta = 0.005
}

func (ot *OptThreshParams) Update() {
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial values for key network state variables,
// set during InitActs
type ActInitParams struct {
	Vm  float32 `def:"0.4" desc:"initial membrane potential"`
	Act float32 `def:"0" desc:"initial activation value"`
	Ge  float32 `def:"0" desc:"baseline excitatory conductance"`
}

func (ai *ActInitParams) Defaults() {
	ai.Vm = 0.4
	ai.Act = 0
	ai.Ge = 0
}

func (ai *ActInitParams) Update() {
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are time and rate constants for temporal derivatives
// (Vm, conductances, averages)
type DtParams struct {
	Integ  float32 `def:"1" min:"0" desc:"overall rate constant for numerical integration -- all time constants are specified in tick units"`
	VmTau  float32 `def:"3.3" min:"1" desc:"membrane potential time constant in ticks"`
	GTau   float32 `def:"1.4" min:"1" desc:"conductance time constant in ticks"`
	AvgTau float32 `def:"200" min:"1" desc:"time constant for integrating ActAvg"`

	VmDt  float32 `view:"-" json:"-" xml:"-" desc:"nominal rate = Integ / VmTau"`
	GDt   float32 `view:"-" json:"-" xml:"-" desc:"rate = Integ / GTau"`
	AvgDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / AvgTau"`
}

func (dp *DtParams) Defaults() {
	dp.Integ = 1
	dp.VmTau = 3.3
	dp.GTau = 1.4
	dp.AvgTau = 200
	dp.Update()
}

func (dp *DtParams) Update() {
	dp.VmDt = dp.Integ / dp.VmTau
	dp.GDt = dp.Integ / dp.GTau
	dp.AvgDt = 1 / dp.AvgTau
}

// GFmRaw integrates conductance toward the raw value with GDt rate constant
func (dp *DtParams) GFmRaw(geRaw float32, ge *float32) {
	*ge += dp.GDt * (geRaw - *ge)
}

// AvgVarUpdt updates a running average with AvgDt rate constant
func (dp *DtParams) AvgVarUpdt(avg *float32, val float32) {
	*avg += dp.AvgDt * (val - *avg)
}

//////////////////////////////////////////////////////////////////////////////////////
//  ClampParams

// ClampParams specify how external inputs drive neurons
type ClampParams struct {
	Hard bool    `def:"true" desc:"whether to hard clamp inputs: Ext sets Ge directly and firing is determined by Ext against threshold"`
	Gain float32 `def:"0.2" viewif:"Hard=false" desc:"soft clamp gain factor applied to Ext and added to GeRaw"`
}

func (cp *ClampParams) Defaults() {
	cp.Hard = true
	cp.Gain = 0.2
}

func (cp *ClampParams) Update() {
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActNoiseParams

// ActNoiseType are different types / locations of random noise for activations
type ActNoiseType int

//go:generate stringer -type=ActNoiseType

var KiT_ActNoiseType = kit.Enums.AddEnum(ActNoiseTypeN, kit.NotBitFlag, nil)

func (ev ActNoiseType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ActNoiseType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoNoise means no noise added
	NoNoise ActNoiseType = iota

	// VmNoise means noise is added to the membrane potential
	VmNoise

	// GeNoise means noise is added to the excitatory conductance
	GeNoise

	ActNoiseTypeN
)

// ActNoiseParams contains parameters for activation-level noise
type ActNoiseParams struct {
	erand.RndParams
	Type ActNoiseType `desc:"where and how to add noise"`
}

func (an *ActNoiseParams) Defaults() {
	an.Type = NoNoise
	an.Dist = erand.Gaussian
	an.Var = 0.005
	an.Mean = 0
}

func (an *ActNoiseParams) Update() {
}
