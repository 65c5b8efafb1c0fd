// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"testing"

	"github.com/chewxy/math32"
)

// tolerance for numerical comparisons
const difTol = float32(1.0e-6)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	t.Helper()
	for i := range got {
		dif := math32.Abs(got[i] - trg[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestSpikeReset(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)

	nrn.Vm = ac.Spike.Thr + 0.1
	ac.SpikeFmVm(&nrn, 5)
	if nrn.Spike != 1 {
		t.Errorf("expected spike with Vm over threshold")
	}
	if nrn.Vm != ac.Spike.VmR {
		t.Errorf("Vm not reset: got %v, want %v", nrn.Vm, ac.Spike.VmR)
	}
	if nrn.LastSpike != 5 {
		t.Errorf("LastSpike not recorded: got %v", nrn.LastSpike)
	}
	if nrn.RefracLeft != ac.Spike.Tr {
		t.Errorf("refractory not started: got %v, want %v", nrn.RefracLeft, ac.Spike.Tr)
	}
}

func TestRefractoryBlocks(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)

	nrn.Vm = ac.Spike.Thr + 0.1
	ac.SpikeFmVm(&nrn, 0)
	if nrn.Spike != 1 {
		t.Fatalf("expected initial spike")
	}
	// hold Vm over threshold throughout: refractory must block firing
	for tick := int32(1); tick <= ac.Spike.Tr; tick++ {
		nrn.Vm = ac.Spike.Thr + 0.1
		ac.SpikeFmVm(&nrn, tick)
		if nrn.Spike != 0 {
			t.Errorf("tick %v: fired during refractory period", tick)
		}
	}
	nrn.Vm = ac.Spike.Thr + 0.1
	ac.SpikeFmVm(&nrn, ac.Spike.Tr+1)
	if nrn.Spike != 1 {
		t.Errorf("expected spike after refractory period elapsed")
	}
}

func TestHardClampBypassesRefractory(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)
	nrn.Ext = 1
	nrn.SetFlag(NeurHasExt)

	for tick := int32(0); tick < 5; tick++ {
		ac.SpikeFmVm(&nrn, tick)
		if nrn.Spike != 1 {
			t.Errorf("tick %v: clamped neuron did not fire", tick)
		}
	}
	nrn.Ext = ac.Spike.Thr - 0.01
	ac.SpikeFmVm(&nrn, 5)
	if nrn.Spike != 0 {
		t.Errorf("clamped neuron fired below threshold")
	}
}

func TestOffNeuronNeverFires(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)
	nrn.SetFlag(NeurOff)
	nrn.Vm = 1
	ac.SpikeFmVm(&nrn, 0)
	if nrn.Spike != 0 {
		t.Errorf("lesioned neuron fired")
	}
	nrn.Ext = 1
	nrn.SetFlag(NeurHasExt)
	ac.SpikeFmVm(&nrn, 1)
	if nrn.Spike != 0 {
		t.Errorf("lesioned clamped neuron fired")
	}
}

func TestRateActBounds(t *testing.T) {
	rp := RateParams{}
	rp.Defaults()
	if rp.ActFmGe(-1) != 0 || rp.ActFmGe(0) != 0 {
		t.Errorf("non-positive input must give zero activation")
	}
	prev := float32(0)
	for _, ge := range []float32{0.01, 0.1, 0.25, 0.5, 1, 2, 10, 100} {
		act := rp.ActFmGe(ge)
		if act <= prev {
			t.Errorf("activation not strictly increasing at ge %v: %v <= %v", ge, act, prev)
		}
		if act >= 1 {
			t.Errorf("activation not bounded below 1 at ge %v: %v", ge, act)
		}
		prev = act
	}
}

func TestGeIntegration(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)

	// constant raw drive: Ge converges toward the raw value
	for i := 0; i < 200; i++ {
		ac.GeFmRaw(&nrn, 0.5)
	}
	CmprFloats([]float32{nrn.Ge}, []float32{0.5}, "Ge convergence", t)

	// hard clamp takes over regardless of raw input
	nrn.Ext = 0.8
	nrn.SetFlag(NeurHasExt)
	ac.GeFmRaw(&nrn, 0.1)
	CmprFloats([]float32{nrn.Ge}, []float32{0.8}, "hard clamp Ge", t)
}

func TestVmRange(t *testing.T) {
	ac := ActParams{}
	ac.Defaults()
	nrn := Neuron{}
	ac.InitActs(&nrn)
	nrn.Ge = 100 // absurd drive: Vm must stay in range
	for i := 0; i < 50; i++ {
		ac.VmFmG(&nrn, 0)
	}
	if nrn.Vm < ac.VmRange.Min || nrn.Vm > ac.VmRange.Max {
		t.Errorf("Vm out of range: %v", nrn.Vm)
	}
}

func TestNeuronVarAccess(t *testing.T) {
	nrn := Neuron{}
	nrn.Act = 0.25
	nrn.Vm = 0.6
	nrn.AvgL = 0.11
	for _, tc := range []struct {
		nm  string
		val float32
	}{{"Act", 0.25}, {"Vm", 0.6}, {"AvgL", 0.11}} {
		v, err := nrn.VarByName(tc.nm)
		if err != nil {
			t.Fatal(err)
		}
		if v != tc.val {
			t.Errorf("%v: got %v, want %v", tc.nm, v, tc.val)
		}
	}
	if _, err := nrn.VarByName("Bogus"); err == nil {
		t.Errorf("expected error for unknown variable")
	}
	if len(NeuronVars) == 0 || NeuronVars[0] != "Act" {
		t.Errorf("NeuronVars must start with Act")
	}
}
