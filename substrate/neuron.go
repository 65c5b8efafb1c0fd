// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/goki/ki/bitflag"
	"github.com/goki/ki/kit"
)

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// Note: all non-float32 infrastructure variables must be at the start!
const NeuronVarStart = 12

// substrate.Neuron holds all of the neuron (unit) level variables.
// All variables accessible via the variable interface must be float32
// and start at NeuronVarStart, in contiguous order.
type Neuron struct {
	Flags      NeurFlags `desc:"bit flags for binary state variables"`
	RefracLeft int32     `desc:"number of ticks remaining in the refractory period -- neuron cannot fire organically while > 0"`
	LastSpike  int32     `desc:"tick of the most recent spike -- -1 if the neuron has never fired"`

	Act     float32 `desc:"rate-coded activation value communicated to other neurons, in range 0-1 -- graded x-over-x-plus-1 function of Ge, so subthreshold drive still produces output"`
	Ge      float32 `desc:"total excitatory synaptic conductance -- time-integrated net excitatory input -- does *not* include Gbar.E"`
	Gi      float32 `desc:"total inhibitory synaptic conductance -- time-integrated net inhibitory input -- does *not* include Gbar.I"`
	GeRaw   float32 `desc:"raw excitatory conductance received from sending units this tick"`
	GiRaw   float32 `desc:"raw inhibitory conductance received from sending units this tick"`
	GeInc   float32 `desc:"delta-spike excitatory increments drained from inboxes, added to GeRaw at integration"`
	GiInc   float32 `desc:"delta-spike inhibitory increments drained from inboxes, added to GiRaw at integration"`
	Vm      float32 `desc:"membrane potential -- integrates Inet current over time, reset to VmR on spike"`
	Inet    float32 `desc:"net current produced by all channels -- drives update of Vm"`
	Noise   float32 `desc:"noise value added to Ge (ActNoiseParams determines distribution and whether it is added)"`
	Spike   float32 `desc:"whether neuron fired this tick (0 or 1)"`
	Ext     float32 `desc:"external input -- when the clamp flag is set, drives Ge directly and fires the neuron whenever Ext exceeds threshold"`
	ActSent float32 `desc:"last activation value sent -- only sends a delta when Act differs from this by more than OptThresh.Delta"`
	ActAvg  float32 `desc:"average activation over long time intervals (time constant DtParams.AvgTau) -- used for telemetry and pruning statistics"`
	AvgL    float32 `desc:"long time-scale average of squared activation, used as the BCM sliding threshold"`
}

var NeuronVars = []string{"Act", "Ge", "Gi", "GeRaw", "GiRaw", "GeInc", "GiInc", "Vm", "Inet", "Noise", "Spike", "Ext", "ActSent", "ActAvg", "AvgL"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"Act":   `min:"0" max:"1"`,
	"Vm":    `min:"0" max:"1"`,
	"Spike": `min:"0" max:"1"`,
	"AvgL":  `min:"0"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}

func (nrn *Neuron) HasFlag(flag NeurFlags) bool {
	return bitflag.Has32(int32(nrn.Flags), int(flag))
}

func (nrn *Neuron) SetFlag(flag NeurFlags) {
	bitflag.Set32((*int32)(&nrn.Flags), int(flag))
}

func (nrn *Neuron) ClearFlag(flag NeurFlags) {
	bitflag.Clear32((*int32)(&nrn.Flags), int(flag))
}

// IsOff returns true if the neuron has been turned off (lesioned)
func (nrn *Neuron) IsOff() bool {
	return nrn.HasFlag(NeurOff)
}

// CanFire returns true if the neuron is eligible to fire organically this
// tick: it is on and not refractory.  Clamped external input bypasses this.
func (nrn *Neuron) CanFire() bool {
	return !nrn.IsOff() && nrn.RefracLeft == 0
}

// NeurFlags are bit-flags encoding relevant binary state for neurons
type NeurFlags int32

//go:generate stringer -type=NeurFlags

var KiT_NeurFlags = kit.Enums.AddEnum(NeurFlagsN, kit.BitFlag, nil)

func (ev NeurFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron flags
const (
	// NeurOff flag indicates that this neuron has been turned off (i.e., lesioned)
	NeurOff NeurFlags = iota

	// NeurHasExt means the neuron has external input in its Ext field,
	// which hard-clamps its conductance and firing
	NeurHasExt

	NeurFlagsN
)
