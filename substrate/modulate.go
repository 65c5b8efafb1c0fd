// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"github.com/emer/etable/minmax"
)

// substrate.ModParams governs how reward and attention signals modulate
// plasticity.  Attention scales all weight changes multiplicatively;
// reward shifts the gain around a neutral baseline and additionally
// converts eligibility traces into weight change.  With neutral inputs
// (reward 0, attention 1) the modulation factor is exactly 1.
type ModParams struct {
	RewGain   float32    `def:"0.5" min:"0" desc:"gain on reward in the multiplicative factor"`
	PunishThr float32    `def:"-0.9" max:"0" desc:"reward below this inverts the sign of the modulated weight change -- punishment actively unlearns instead of merely damping"`
	RewRange  minmax.F32 `view:"inline" desc:"reward inputs are clamped into this range"`
	AttnRange minmax.F32 `view:"inline" desc:"attention inputs are clamped into this range"`
}

func (mp *ModParams) Defaults() {
	mp.RewGain = 0.5
	mp.PunishThr = -0.9
	mp.RewRange.Set(-1, 1)
	mp.AttnRange.Set(0, 2)
	mp.Update()
}

func (mp *ModParams) Update() {
}

// Factor returns the multiplicative modulation applied to all weight
// changes for the given attention and reward levels.  Reward below
// PunishThr inverts the factor's sign, so what would have been learned
// is unlearned; the magnitude still scales with attention.
func (mp *ModParams) Factor(attn, reward float32) float32 {
	fac := attn * (1 + mp.RewGain*reward)
	if reward < mp.PunishThr {
		return -fac
	}
	return fac
}

// ModInput is one externally supplied modulation signal for a region,
// staged by SetModInput and applied at the start of the next tick.
// AttnNrn optionally provides per-neuron attention values, indexed by
// neuron; neurons beyond its length use Attn.
type ModInput struct {
	Reward  float32   `desc:"scalar reward signal, clamped by ModParams.RewRange"`
	Attn    float32   `desc:"region-wide attention level, clamped by ModParams.AttnRange"`
	AttnNrn []float32 `desc:"optional per-neuron attention overrides"`
}

// NeutralMod returns the modulation state with no external signal:
// zero reward and baseline attention
func NeutralMod() ModInput {
	return ModInput{Reward: 0, Attn: 1}
}
