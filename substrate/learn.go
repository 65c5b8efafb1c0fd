// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
	"github.com/nsim/substrate/stdp"
)

// LearnRule is the plasticity rule governing a synapse
type LearnRule int

//go:generate stringer -type=LearnRule

var KiT_LearnRule = kit.Enums.AddEnum(LearnRuleN, kit.NotBitFlag, nil)

func (ev LearnRule) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LearnRule) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoLearn disables plasticity on the synapse -- weight stays fixed
	NoLearn LearnRule = iota

	// Hebbian potentiates in proportion to coincident pre and post activation
	Hebbian

	// STDP is spike-timing-dependent plasticity: potentiation when the
	// sender fires before the receiver, depression for the reverse order,
	// exponentially discounted by the timing difference
	STDP

	// BCM is Hebbian learning against a sliding threshold tracking the
	// receiver's average squared activation: potentiation above the
	// threshold, depression below it
	BCM

	// Oja is Hebbian learning with a weight-decay term proportional to the
	// squared post activation, which normalizes the incoming weight vector
	Oja

	LearnRuleN
)

// substrate.LearnSynParams manages all the plasticity parameters for
// computing synaptic weight changes.  One instance per region; the rule
// applied to each synapse is selected by Synapse.Rule.
type LearnSynParams struct {
	Lrate   float32    `def:"0.1" min:"0" desc:"learning rate for the Hebbian, BCM and Oja rules -- STDP amplitudes are set in the STDP params"`
	WtRange minmax.F32 `view:"inline" desc:"weight bounds -- Wt is clamped into this range after every update"`
	CaInc   float32    `def:"0.2" min:"0" desc:"usage trace increment per delivered spike"`
	CaDt    float32    `def:"0.01" min:"0" max:"1" desc:"per-tick decay rate of the usage trace"`
	STDP    stdp.Params `view:"inline" desc:"spike-timing-dependent plasticity window"`
	BCM     BCMParams   `view:"inline" desc:"sliding threshold for the BCM rule"`
	Elig    EligParams  `view:"inline" desc:"eligibility trace accumulation and decay"`
	Cons    ConsParams  `view:"inline" desc:"periodic consolidation and structural pruning"`
}

func (ls *LearnSynParams) Defaults() {
	ls.Lrate = 0.1
	ls.WtRange.Set(0, 1)
	ls.CaInc = 0.2
	ls.CaDt = 0.01
	ls.STDP.Defaults()
	ls.BCM.Defaults()
	ls.Elig.Defaults()
	ls.Cons.Defaults()
	ls.Update()
}

// Update must be called after any changes to parameters
func (ls *LearnSynParams) Update() {
	ls.STDP.Update()
	ls.BCM.Update()
	ls.Elig.Update()
	ls.Cons.Update()
}

// DWtFmRule computes the raw, unmodulated weight change for the synapse
// from its rule, given sender and receiver state at the given tick.
// The sliding threshold for BCM is maintained separately in AvgLFmAct.
func (ls *LearnSynParams) DWtFmRule(sy *Synapse, send, recv *Neuron, tick int32) float32 {
	switch sy.Rule {
	case Hebbian:
		return ls.Lrate * send.Act * recv.Act
	case STDP:
		return ls.stdpDWt(send, recv, tick)
	case BCM:
		return ls.Lrate * send.Act * recv.Act * (recv.Act - recv.AvgL)
	case Oja:
		return ls.Lrate * recv.Act * (send.Act - recv.Act*sy.Wt)
	}
	return 0
}

// stdpDWt accumulates the STDP window contribution for spikes landing this
// tick.  A receiver spike pairs with the sender's most recent spike
// (potentiation); a sender spike pairs with the receiver's most recent
// earlier spike (depression).  Simultaneous spikes count once, as maximal
// potentiation.
func (ls *LearnSynParams) stdpDWt(send, recv *Neuron, tick int32) float32 {
	var dwt float32
	if recv.Spike > 0 && send.LastSpike >= 0 {
		dwt += ls.STDP.DWt(float32(tick - send.LastSpike))
	}
	if send.Spike > 0 && recv.Spike == 0 && recv.LastSpike >= 0 {
		dwt += ls.STDP.DWt(float32(recv.LastSpike - tick))
	}
	return dwt
}

// EligFmDWt updates the synapse eligibility trace: per-tick exponential
// decay, then accumulation of the current raw weight change.  The
// SynEligActive flag tracks the trace against the Thr threshold, and
// SynConsol is cleared once the trace decays back below it.
func (ls *LearnSynParams) EligFmDWt(sy *Synapse, dwt float32) {
	sy.Elig -= ls.Elig.Dt * sy.Elig
	sy.Elig += ls.Elig.Gain * dwt
	if sy.Elig < 0 {
		sy.Elig = 0
	}
	if sy.Elig >= ls.Elig.Thr {
		sy.SetFlag(SynEligActive)
	} else {
		sy.ClearFlag(SynEligActive)
		sy.ClearFlag(SynConsol)
	}
}

// CaFmSpike decays the usage trace each tick; DeliverSpike increments it
func (ls *LearnSynParams) CaFmSpike(sy *Synapse) {
	sy.CaUp -= ls.CaDt * sy.CaUp
}

// WtFmDWt applies the final modulated weight change to the weight,
// enforcing the weight bounds.  DWt retains the applied change.
func (ls *LearnSynParams) WtFmDWt(sy *Synapse, dwt float32) {
	sy.DWt = dwt
	sy.Wt += dwt
	if sy.Wt < ls.WtRange.Min {
		sy.Wt = ls.WtRange.Min
	} else if sy.Wt > ls.WtRange.Max {
		sy.Wt = ls.WtRange.Max
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  BCMParams

// BCMParams holds the sliding threshold for the BCM rule: a slow average
// of the receiver's squared activation
type BCMParams struct {
	AvgLTau float32 `def:"100" min:"1" desc:"time constant in ticks for the sliding threshold average"`

	AvgLDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / AvgLTau"`
}

func (bp *BCMParams) Defaults() {
	bp.AvgLTau = 100
	bp.Update()
}

func (bp *BCMParams) Update() {
	bp.AvgLDt = 1 / bp.AvgLTau
}

// AvgLFmAct updates the receiver's sliding threshold from its current
// activation -- called once per neuron per learning pass
func (bp *BCMParams) AvgLFmAct(nrn *Neuron) {
	nrn.AvgL += bp.AvgLDt * (nrn.Act*nrn.Act - nrn.AvgL)
}

//////////////////////////////////////////////////////////////////////////////////////
//  EligParams

// EligParams controls the eligibility trace: a decaying per-synapse memory
// of recent plasticity events that is converted into weight change when
// reward arrives
type EligParams struct {
	Gain    float32 `def:"1" min:"0" desc:"multiplier on raw weight changes accumulated into the trace"`
	Tau     float32 `def:"100" min:"1" desc:"decay time constant in ticks"`
	RewGain float32 `def:"0.5" min:"0" desc:"gain converting reward times trace into applied weight change"`
	Thr     float32 `def:"0.01" min:"0" desc:"trace level at or above which the synapse counts as plasticity-active -- see PlastState"`

	Dt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / Tau"`
}

func (ep *EligParams) Defaults() {
	ep.Gain = 1
	ep.Tau = 100
	ep.RewGain = 0.5
	ep.Thr = 0.01
	ep.Update()
}

func (ep *EligParams) Update() {
	ep.Dt = 1 / ep.Tau
}

//////////////////////////////////////////////////////////////////////////////////////
//  ConsParams

// ConsParams controls the periodic consolidation sweep: extra decay of
// eligibility traces and structural pruning of weak, unused synapses
type ConsParams struct {
	On       bool    `def:"true" desc:"whether to run the consolidation sweep at all"`
	Interval int32   `def:"100" min:"1" desc:"run the sweep every this many ticks"`
	Decay    float32 `def:"0.5" min:"0" max:"1" viewif:"On" desc:"multiplier applied to eligibility traces during the sweep"`
	PruneWt  float32 `def:"0.02" min:"0" viewif:"On" desc:"prune synapses with weight at or below this"`
	PruneUse float32 `def:"0.01" min:"0" viewif:"On" desc:"prune only when the usage trace is also at or below this"`
}

func (cp *ConsParams) Defaults() {
	cp.On = true
	cp.Interval = 100
	cp.Decay = 0.5
	cp.PruneWt = 0.02
	cp.PruneUse = 0.01
}

func (cp *ConsParams) Update() {
}

// ShouldPrune returns true if the synapse is weak and unused enough to be
// removed during consolidation.  Only dormant synapses are eligible: an
// active or consolidating trace protects the synapse from pruning.
func (cp *ConsParams) ShouldPrune(sy *Synapse) bool {
	return cp.On && sy.PlastState() == Dormant && sy.Wt <= cp.PruneWt && sy.CaUp <= cp.PruneUse
}
