// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the ion-channel conductance terms for the
point-neuron equivalent RC-circuit model used by the substrate neurons:
excitatory, leak, inhibitory, and gated potassium channels, each with a
maximal conductance and a reversal potential.
*/
package chans

// Chans are ion channels used in computing point-neuron membrane updates
type Chans struct {
	E float32 `desc:"excitatory sodium (Na) channels activated by synaptic input"`
	L float32 `desc:"constant leak (potassium, K+) channels -- determines resting potential"`
	I float32 `desc:"inhibitory chloride (Cl-) channels activated by negative-weight synaptic input"`
	K float32 `desc:"gated / active potassium channels -- hyperpolarizing relative to leak"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(e, l, i, k float32) {
	ch.E, ch.L, ch.I, ch.K = e, l, i, k
}

// SetFmOtherMinus sets all the values from other Chans minus given value
func (ch *Chans) SetFmOtherMinus(oth Chans, minus float32) {
	ch.E, ch.L, ch.I, ch.K = oth.E-minus, oth.L-minus, oth.I-minus, oth.K-minus
}

// SetFmMinusOther sets all the values from given value minus other Chans
func (ch *Chans) SetFmMinusOther(minus float32, oth Chans) {
	ch.E, ch.L, ch.I, ch.K = minus-oth.E, minus-oth.L, minus-oth.I, minus-oth.K
}
