// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stdp provides the asymmetric exponential spike-timing-dependent
plasticity (STDP) window function.

Weight change depends on the relative timing of pre- and post-synaptic
spikes: when the post-synaptic spike follows the pre-synaptic spike
(pre "predicts" post), the synapse is potentiated, and when the order is
reversed it is depressed.  The magnitude of the change decays
exponentially with the absolute timing offset, with independent
amplitudes and time constants for the potentiation and depression sides
of the window.  A timing offset of exactly zero is treated as
potentiation at the maximum magnitude of the window.
*/
package stdp

import "github.com/chewxy/math32"

// Params holds the asymmetric exponential STDP window parameters.
// DeltaT is measured as postSpikeTime - preSpikeTime, in ticks.
type Params struct {
	LtpAmp float32 `def:"0.005" min:"0" desc:"amplitude of the potentiation (LTP) side of the window -- weight change for post firing immediately after pre (DeltaT = 0)"`
	LtdAmp float32 `def:"0.0055" min:"0" desc:"amplitude of the depression (LTD) side of the window -- magnitude of weight change for pre firing immediately after post -- classically slightly larger than LtpAmp so that uncorrelated firing nets out to weakening"`
	TauLtp float32 `def:"17" min:"1" desc:"exponential decay time constant for the potentiation side, in ticks -- how far ahead of the post spike a pre spike can be and still potentiate appreciably"`
	TauLtd float32 `def:"34" min:"1" desc:"exponential decay time constant for the depression side, in ticks"`
	Window float32 `def:"100" min:"1" desc:"maximum absolute DeltaT considered at all -- spike pairs further apart than this produce exactly zero change, keeping stale spike times from generating vanishingly small updates forever"`

	LtpDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
	LtdDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (sp *Params) Update() {
	sp.LtpDt = 1 / sp.TauLtp
	sp.LtdDt = 1 / sp.TauLtd
}

func (sp *Params) Defaults() {
	sp.LtpAmp = 0.005
	sp.LtdAmp = 0.0055
	sp.TauLtp = 17
	sp.TauLtd = 34
	sp.Window = 100
	sp.Update()
}

// DWt returns the raw weight change for the given spike timing offset
// deltaT = postSpikeTime - preSpikeTime (in ticks).
// deltaT >= 0 (post at or after pre) is potentiation, decaying
// exponentially as deltaT grows; deltaT < 0 is depression, decaying
// exponentially as deltaT becomes more negative.
// Pairs beyond +/- Window return 0.
func (sp *Params) DWt(deltaT float32) float32 {
	if deltaT > sp.Window || deltaT < -sp.Window {
		return 0
	}
	if deltaT >= 0 {
		return sp.LtpAmp * math32.Exp(-deltaT*sp.LtpDt)
	}
	return -sp.LtdAmp * math32.Exp(deltaT*sp.LtdDt)
}
