// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestHebbianDWt(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Rule: Hebbian, Wt: 0.5}
	send := Neuron{Act: 0.8}
	recv := Neuron{Act: 0.6}
	dwt := ls.DWtFmRule(&sy, &send, &recv, 0)
	CmprFloats([]float32{dwt}, []float32{ls.Lrate * 0.8 * 0.6}, "hebbian dwt", t)
	send.Act = 0
	if ls.DWtFmRule(&sy, &send, &recv, 0) != 0 {
		t.Errorf("hebbian with silent sender must be zero")
	}
}

func TestOjaDWt(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Rule: Oja, Wt: 0.5}
	send := Neuron{Act: 0.8}
	recv := Neuron{Act: 0.6}
	dwt := ls.DWtFmRule(&sy, &send, &recv, 0)
	CmprFloats([]float32{dwt}, []float32{ls.Lrate * 0.6 * (0.8 - 0.6*0.5)}, "oja dwt", t)

	// large weight: decay term dominates, change goes negative
	sy.Wt = 2
	if ls.DWtFmRule(&sy, &send, &recv, 0) >= 0 {
		t.Errorf("oja must shrink oversized weights")
	}
}

func TestBCMThreshold(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Rule: BCM, Wt: 0.5}
	send := Neuron{Act: 0.5}

	// activation above the sliding threshold potentiates
	recv := Neuron{Act: 0.6, AvgL: 0.2}
	if ls.DWtFmRule(&sy, &send, &recv, 0) <= 0 {
		t.Errorf("BCM above threshold must potentiate")
	}
	// below it, depresses
	recv = Neuron{Act: 0.1, AvgL: 0.2}
	if ls.DWtFmRule(&sy, &send, &recv, 0) >= 0 {
		t.Errorf("BCM below threshold must depress")
	}
}

func TestBCMSlidingThreshold(t *testing.T) {
	bp := BCMParams{}
	bp.Defaults()
	nrn := Neuron{Act: 0.5}
	for i := 0; i < 2000; i++ {
		bp.AvgLFmAct(&nrn)
	}
	CmprFloats([]float32{nrn.AvgL}, []float32{0.25}, "AvgL converges to Act squared", t)
}

func TestSTDPTiming(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Rule: STDP, Wt: 0.5}

	// sender fired 2 ticks before receiver: potentiation
	send := Neuron{LastSpike: 8}
	recv := Neuron{Spike: 1, LastSpike: 10}
	dwt := ls.DWtFmRule(&sy, &send, &recv, 10)
	CmprFloats([]float32{dwt}, []float32{ls.STDP.DWt(2)}, "pre-before-post", t)

	// receiver fired 2 ticks before sender: depression
	send = Neuron{Spike: 1, LastSpike: 10}
	recv = Neuron{Spike: 0, LastSpike: 8}
	dwt = ls.DWtFmRule(&sy, &send, &recv, 10)
	CmprFloats([]float32{dwt}, []float32{ls.STDP.DWt(-2)}, "post-before-pre", t)
	if dwt >= 0 {
		t.Errorf("post-before-pre must depress")
	}

	// simultaneous spikes count once, as maximal potentiation
	send = Neuron{Spike: 1, LastSpike: 10}
	recv = Neuron{Spike: 1, LastSpike: 10}
	dwt = ls.DWtFmRule(&sy, &send, &recv, 10)
	CmprFloats([]float32{dwt}, []float32{ls.STDP.DWt(0)}, "simultaneous", t)

	// never-fired partner contributes nothing
	send = Neuron{LastSpike: -1}
	recv = Neuron{Spike: 1, LastSpike: 10}
	if ls.DWtFmRule(&sy, &send, &recv, 10) != 0 {
		t.Errorf("sender that never fired must not contribute")
	}
}

func TestEligTrace(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Rule: Hebbian}

	ls.EligFmDWt(&sy, 0.1)
	CmprFloats([]float32{sy.Elig}, []float32{ls.Elig.Gain * 0.1}, "elig accumulation", t)

	// pure decay with no events
	start := sy.Elig
	for i := 0; i < 10; i++ {
		ls.EligFmDWt(&sy, 0)
	}
	if sy.Elig >= start {
		t.Errorf("eligibility must decay without events: %v >= %v", sy.Elig, start)
	}
	want := start * math32.Pow(1-ls.Elig.Dt, 10)
	CmprFloats([]float32{sy.Elig}, []float32{want}, "elig decay", t)
}

func TestWtBounds(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	sy := Synapse{Wt: 0.9}
	ls.WtFmDWt(&sy, 10)
	if sy.Wt != ls.WtRange.Max {
		t.Errorf("weight must clamp at max: got %v", sy.Wt)
	}
	ls.WtFmDWt(&sy, -10)
	if sy.Wt != ls.WtRange.Min {
		t.Errorf("weight must clamp at min: got %v", sy.Wt)
	}
}

func TestNeutralModFactor(t *testing.T) {
	mp := ModParams{}
	mp.Defaults()
	if mp.Factor(1, 0) != 1 {
		t.Errorf("neutral modulation must be exactly 1: got %v", mp.Factor(1, 0))
	}
	if mp.Factor(0, 0) != 0 {
		t.Errorf("zero attention must gate learning off: got %v", mp.Factor(0, 0))
	}
	if mp.Factor(1, 1) <= 1 {
		t.Errorf("positive reward must amplify: got %v", mp.Factor(1, 1))
	}
	if mp.Factor(1, -1) >= 1 {
		t.Errorf("negative reward must suppress: got %v", mp.Factor(1, -1))
	}
}

func TestPunishmentFactor(t *testing.T) {
	mp := ModParams{}
	mp.Defaults()
	if f := mp.Factor(1, -1); f >= 0 {
		t.Errorf("reward below PunishThr must invert the factor: got %v", f)
	}
	if f := mp.Factor(1, -0.5); f <= 0 {
		t.Errorf("mildly negative reward must damp, not invert: got %v", f)
	}
	if f := mp.Factor(1, mp.PunishThr); f <= 0 {
		t.Errorf("inversion must require reward strictly below the threshold: got %v", f)
	}
	if f := mp.Factor(2, -1); f != 2*mp.Factor(1, -1) {
		t.Errorf("punishment magnitude must scale with attention: %v vs %v", f, 2*mp.Factor(1, -1))
	}
}

func TestShouldPrune(t *testing.T) {
	cp := ConsParams{}
	cp.Defaults()
	weak := Synapse{Wt: 0.01, CaUp: 0}
	if !cp.ShouldPrune(&weak) {
		t.Errorf("weak unused synapse must be pruned")
	}
	strong := Synapse{Wt: 0.5, CaUp: 0}
	if cp.ShouldPrune(&strong) {
		t.Errorf("strong synapse must not be pruned")
	}
	used := Synapse{Wt: 0.01, CaUp: 1}
	if cp.ShouldPrune(&used) {
		t.Errorf("recently used synapse must not be pruned")
	}
	active := Synapse{Wt: 0.01, CaUp: 0}
	active.SetFlag(SynEligActive)
	if cp.ShouldPrune(&active) {
		t.Errorf("synapse with an active trace must not be pruned")
	}
	cp.On = false
	if cp.ShouldPrune(&weak) {
		t.Errorf("pruning while disabled")
	}
}
