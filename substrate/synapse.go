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

// substrate.Synapse holds state for one directed connection between two
// neurons.  The float32 named variables are first and contiguous so they
// can be accessed by index.
type Synapse struct {
	Wt   float32 `desc:"synaptic weight, clamped to [WtRange.Min, WtRange.Max] after every update"`
	DWt  float32 `desc:"weight change applied on the last learning pass (after modulation)"`
	Elig float32 `desc:"eligibility trace -- decaying memory of recent plasticity events, converted to weight change when reward arrives"`
	CaUp float32 `desc:"decaying usage trace incremented on every delivered spike -- synapses with low usage and low weight are pruned at consolidation"`

	Wt0        float32  `view:"-" desc:"initial weight value, restored by InitWts"`
	SendID     int32    `desc:"index of the sending neuron within its region"`
	RecvID     int32    `desc:"index of the receiving neuron within the receiving region"`
	RecvRegion int32    `desc:"index of the receiving region within the network -- equal to the owning region's index for intra-region synapses"`
	Delay      int32    `desc:"conduction delay in ticks -- 0 delivers in the same tick"`
	Rule       LearnRule `desc:"plasticity rule governing this synapse"`
	Flags      SynFlags  `desc:"bit flags for binary state"`
	Ring       []float32 `view:"-" desc:"delay ring buffer, len = Delay -- nil when Delay is 0"`
}

// SynapseVarStart must be 0: float32 named variables lead the struct.
const SynapseVarStart = 0

var SynapseVars = []string{"Wt", "DWt", "Elig", "CaUp"}

var SynapseVarsMap map[string]int

var SynapseVarProps = map[string]string{
	"Wt":   `min:"0"`,
	"Elig": `min:"0"`,
	"CaUp": `min:"0"`,
}

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarIdxByName returns the index of the variable in the Synapse, or error
func SynapseVarIdxByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(sy)) + uintptr(SynapseVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarIdxByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return sy.VarByIndex(i), nil
}

func (sy *Synapse) HasFlag(flag SynFlags) bool {
	return bitflag.Has32(int32(sy.Flags), int(flag))
}

func (sy *Synapse) SetFlag(flag SynFlags) {
	bitflag.Set32((*int32)(&sy.Flags), int(flag))
}

func (sy *Synapse) ClearFlag(flag SynFlags) {
	bitflag.Clear32((*int32)(&sy.Flags), int(flag))
}

// IsDead returns true if this arena slot has been pruned and is awaiting reuse
func (sy *Synapse) IsDead() bool {
	return sy.HasFlag(SynDead)
}

// InitRing allocates (or clears) the delay ring buffer to match Delay
func (sy *Synapse) InitRing() {
	if sy.Delay <= 0 {
		sy.Ring = nil
		return
	}
	if int32(len(sy.Ring)) != sy.Delay {
		sy.Ring = make([]float32, sy.Delay)
		return
	}
	for i := range sy.Ring {
		sy.Ring[i] = 0
	}
}

// SynFlags are bit-flags encoding relevant binary state for synapses
type SynFlags int32

//go:generate stringer -type=SynFlags

var KiT_SynFlags = kit.Enums.AddEnum(SynFlagsN, kit.BitFlag, nil)

func (ev SynFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SynFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SynDead marks a pruned arena slot -- skipped by all passes, reused by ConnectNeurons
	SynDead SynFlags = iota

	// SynInhib marks an inhibitory synapse -- deliveries accumulate into Gi instead of Ge
	SynInhib

	// SynEligActive marks an eligibility trace at or above the Elig.Thr
	// threshold -- the synapse counts as plasticity-active
	SynEligActive

	// SynConsol marks a reward-modulated update applied while the trace was
	// active -- cleared when the trace decays back below threshold
	SynConsol

	SynFlagsN
)

// PlastStates describes where a synapse sits in its plasticity lifecycle:
// Dormant (weight stable, trace below threshold), Active (recent correlated
// activity pushed the trace above threshold), Consolidating (reward arrived
// while the trace was active and the weight was updated), and Pruned
// (removed by the consolidation sweep -- terminal, only reachable from
// Dormant).
type PlastStates int32

//go:generate stringer -type=PlastStates

var KiT_PlastStates = kit.Enums.AddEnum(PlastStatesN, kit.NotBitFlag, nil)

func (ev PlastStates) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PlastStates) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	Dormant PlastStates = iota

	Active

	Consolidating

	Pruned

	PlastStatesN
)

// PlastState returns the synapse's current plasticity lifecycle state,
// derived from its flags.  Consolidating takes precedence over Active.
func (sy *Synapse) PlastState() PlastStates {
	switch {
	case sy.HasFlag(SynDead):
		return Pruned
	case sy.HasFlag(SynConsol):
		return Consolidating
	case sy.HasFlag(SynEligActive):
		return Active
	}
	return Dormant
}

// SynRef locates one synapse in the network-wide arenas: the index of the
// region that owns (sends from) it, and the synapse index within that
// region's arena.  Receiving regions keep these to walk their fan-in.
type SynRef struct {
	Region int32
	Syn    int32
}
