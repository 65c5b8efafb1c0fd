// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
	"github.com/goki/mat32"
	"github.com/nsim/substrate/fffb"
)

// substrate.Region is a named population of neurons with its own
// parameters and synapse arena.  A region owns the synapses whose sender
// lives in it, including synapses crossing into other regions.  Per-tick
// computation is organized so that a region only writes its own state plus
// its dedicated inbox rows in receiving regions, which is what makes
// lock-free parallel stepping deterministic.
type Region struct {
	Network *Network `copy:"-" json:"-" xml:"-" view:"-" desc:"our parent network, in case we need to use it to find other regions etc -- set when added by network"`
	Nm      string   `desc:"name of the region -- unique within the network"`
	Cls     string   `desc:"class of region -- used for applying parameter styles across sets of regions"`
	Idx     int      `desc:"index of this region within the network, in added order"`
	Thr     int      `desc:"the thread number (go routine) to use in updating this region -- set during network construction, used during Build"`
	Off     bool     `desc:"inactivate this region -- skips all computation"`
	Graded  bool     `desc:"send graded activation deltas instead of discrete spikes -- uses the OptThresh send thresholds"`

	Ps mat32.Vec3 `desc:"anatomical position of the region in 3D space -- purely descriptive, used for visualization and network bounds"`

	MaxNeurons int `desc:"ceiling on the number of neurons -- CreateNeurons fails beyond this -- 0 means unlimited"`
	MaxSyns    int `desc:"ceiling on the number of live synapses owned by this region -- ConnectNeurons fails beyond this -- 0 means unlimited"`

	Act   ActParams      `view:"add-fields" desc:"activation parameters and methods for computing neuron state"`
	Learn LearnSynParams `view:"add-fields" desc:"plasticity parameters and methods for computing weight changes"`
	Mod   ModParams      `view:"add-fields" desc:"reward and attention modulation parameters"`
	Pool  fffb.Params    `view:"inline" desc:"region-level pooled FFFB inhibition -- off by default"`

	PoolInhib fffb.Inhib `inactive:"+" desc:"state for pooled inhibition, driven by the previous tick's region averages"`

	Neurons []Neuron  `desc:"slice of neurons, allocated in added order"`
	Syns    []Synapse `desc:"arena of synapses owned (sent) by this region, including cross-region ones"`

	SendSyns  [][]int32  `view:"-" desc:"per sending neuron, indices into Syns"`
	RecvSyns  [][]SynRef `view:"-" desc:"per receiving neuron, references to incoming synapses across all owning regions"`
	FreeSyns  []int32    `view:"-" desc:"pruned arena slots available for reuse"`
	PendPrune []int32    `view:"-" desc:"synapses queued for pruning this tick, applied serially after the learning phase"`
	WtRec     []WtRecord `view:"-" desc:"per-synapse telemetry records collected at the last consolidation sweep, drained into the tick record"`

	InboxGe [][]float32 `view:"-" desc:"per source region, per neuron: excitatory increments delivered this tick, drained at integration"`
	InboxGi [][]float32 `view:"-" desc:"per source region, per neuron: inhibitory increments"`

	Reward  float32   `inactive:"+" desc:"reward signal in effect this tick, applied from staged modulation input"`
	Attn    float32   `inactive:"+" desc:"region-wide attention level in effect this tick"`
	AttnNrn []float32 `view:"-" desc:"per-neuron attention overrides in effect this tick -- nil when none"`

	Stats RegionStats `desc:"running statistics over this region, updated every tick"`
}

// emer-style interface for parameter styling
func (rg *Region) Name() string        { return rg.Nm }
func (rg *Region) Class() string       { return rg.Cls }
func (rg *Region) TypeName() string    { return "Region" }
func (rg *Region) Label() string       { return rg.Nm }
func (rg *Region) SetClass(cls string) { rg.Cls = cls }

func (rg *Region) Thread() int           { return rg.Thr }
func (rg *Region) SetThread(thr int)     { rg.Thr = thr }
func (rg *Region) Pos() mat32.Vec3       { return rg.Ps }
func (rg *Region) SetPos(pos mat32.Vec3) { rg.Ps = pos }

// IsOff returns true if region has been turned off (lesioned)
func (rg *Region) IsOff() bool { return rg.Off }

// SetOff turns the region off or back on.  A lesioned region neither
// integrates, sends, nor learns, but its synapses remain in place.
func (rg *Region) SetOff(off bool) { rg.Off = off }

func (rg *Region) Defaults() {
	rg.Act.Defaults()
	rg.Learn.Defaults()
	rg.Mod.Defaults()
	rg.Pool.Defaults()
	rg.Pool.On = false
	rg.Reward = 0
	rg.Attn = 1
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (rg *Region) UpdateParams() {
	rg.Act.Update()
	rg.Learn.Update()
	rg.Mod.Update()
	rg.Pool.Update()
}

// ApplyParams applies given parameter style Sheet to this region.
// Calls UpdateParams if anything set to ensure derived parameters are
// all updated.  If setMsg is true, then a message is printed to confirm
// each parameter that is set.  It returns true if any were set, and error
// if there were any errors.
func (rg *Region) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(rg, setMsg)
	if app {
		rg.UpdateParams()
	}
	return app, err
}

// AllParams returns a listing of all parameters in the Region
func (rg *Region) AllParams() string {
	str := "/////////////////////////////////////////////////\nRegion: " + rg.Nm + "\n"
	b, _ := json.MarshalIndent(&rg.Act, "", " ")
	str += "Act: {\n " + JsonToParams(b)
	b, _ = json.MarshalIndent(&rg.Learn, "", " ")
	str += "Learn: {\n " + JsonToParams(b)
	b, _ = json.MarshalIndent(&rg.Mod, "", " ")
	str += "Mod: {\n " + JsonToParams(b)
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Structure building

// CreateNeurons adds n neurons to the region, initialized to default
// activation state, and returns the index of the first new neuron.
// Fails if the MaxNeurons ceiling would be exceeded.
func (rg *Region) CreateNeurons(n int) (int, error) {
	if n <= 0 {
		return -1, fmt.Errorf("Region %v: CreateNeurons: n must be positive, got %v", rg.Nm, n)
	}
	if rg.MaxNeurons > 0 && len(rg.Neurons)+n > rg.MaxNeurons {
		return -1, fmt.Errorf("Region %v: CreateNeurons: %v neurons would exceed ceiling of %v", rg.Nm, len(rg.Neurons)+n, rg.MaxNeurons)
	}
	start := len(rg.Neurons)
	rg.Neurons = append(rg.Neurons, make([]Neuron, n)...)
	rg.SendSyns = append(rg.SendSyns, make([][]int32, n)...)
	rg.RecvSyns = append(rg.RecvSyns, make([][]SynRef, n)...)
	for ni := start; ni < len(rg.Neurons); ni++ {
		rg.Act.InitActs(&rg.Neurons[ni])
	}
	rg.ResizeInboxes()
	return start, nil
}

// ResizeInboxes sizes the per-source-region inbox rows to the current
// neuron count.  Called after neurons are added and when regions are
// added to the network.
func (rg *Region) ResizeInboxes() {
	nr := 1
	if rg.Network != nil {
		nr = len(rg.Network.Regions)
	}
	for len(rg.InboxGe) < nr {
		rg.InboxGe = append(rg.InboxGe, nil)
		rg.InboxGi = append(rg.InboxGi, nil)
	}
	nn := len(rg.Neurons)
	for si := range rg.InboxGe {
		for len(rg.InboxGe[si]) < nn {
			rg.InboxGe[si] = append(rg.InboxGe[si], 0)
			rg.InboxGi[si] = append(rg.InboxGi[si], 0)
		}
	}
}

// ConnectNeurons creates a synapse from the sending neuron in this region
// to the receiving neuron in recv (which can be this region), with the
// given initial weight, conduction delay in ticks, and plasticity rule.
// Pruned arena slots are reused before the arena grows.  Returns the
// synapse index within this region's arena.
func (rg *Region) ConnectNeurons(sendID int, recv *Region, recvID int, wt float32, delay int, rule LearnRule) (int, error) {
	return rg.connect(sendID, recv, recvID, wt, delay, rule, false)
}

// ConnectNeuronsInhib is ConnectNeurons for an inhibitory synapse: its
// deliveries accumulate into the receiver's inhibitory conductance.
func (rg *Region) ConnectNeuronsInhib(sendID int, recv *Region, recvID int, wt float32, delay int, rule LearnRule) (int, error) {
	return rg.connect(sendID, recv, recvID, wt, delay, rule, true)
}

func (rg *Region) connect(sendID int, recv *Region, recvID int, wt float32, delay int, rule LearnRule, inhib bool) (int, error) {
	if recv == nil {
		return -1, errors.New("Region " + rg.Nm + ": ConnectNeurons: nil receiving region")
	}
	if sendID < 0 || sendID >= len(rg.Neurons) {
		return -1, fmt.Errorf("Region %v: ConnectNeurons: sending neuron %v out of range [0, %v)", rg.Nm, sendID, len(rg.Neurons))
	}
	if recvID < 0 || recvID >= len(recv.Neurons) {
		return -1, fmt.Errorf("Region %v: ConnectNeurons: receiving neuron %v out of range [0, %v) in region %v", rg.Nm, recvID, len(recv.Neurons), recv.Nm)
	}
	if delay < 0 {
		return -1, fmt.Errorf("Region %v: ConnectNeurons: negative delay %v", rg.Nm, delay)
	}
	if math32.IsNaN(wt) {
		return -1, fmt.Errorf("Region %v: ConnectNeurons: weight is NaN", rg.Nm)
	}
	var si int32
	if n := len(rg.FreeSyns); n > 0 {
		si = rg.FreeSyns[n-1]
		rg.FreeSyns = rg.FreeSyns[:n-1]
		rg.Syns[si] = Synapse{}
	} else {
		if rg.MaxSyns > 0 && rg.LiveSynCount() >= rg.MaxSyns {
			return -1, fmt.Errorf("Region %v: ConnectNeurons: synapse ceiling of %v reached", rg.Nm, rg.MaxSyns)
		}
		si = int32(len(rg.Syns))
		rg.Syns = append(rg.Syns, Synapse{})
	}
	sy := &rg.Syns[si]
	wt = rg.Learn.WtRange.ClipVal(wt)
	sy.Wt = wt
	sy.Wt0 = wt
	sy.SendID = int32(sendID)
	sy.RecvID = int32(recvID)
	sy.RecvRegion = int32(recv.Idx)
	sy.Delay = int32(delay)
	sy.Rule = rule
	if inhib {
		sy.SetFlag(SynInhib)
	}
	sy.InitRing()
	rg.SendSyns[sendID] = append(rg.SendSyns[sendID], si)
	recv.RecvSyns[recvID] = append(recv.RecvSyns[recvID], SynRef{Region: int32(rg.Idx), Syn: si})
	return int(si), nil
}

// pruneSyn removes a synapse from the send and recv index lists, marks the
// arena slot dead, and adds it to the free list
func (rg *Region) pruneSyn(si int32) {
	sy := &rg.Syns[si]
	ss := rg.SendSyns[sy.SendID]
	for i, v := range ss {
		if v == si {
			rg.SendSyns[sy.SendID] = append(ss[:i], ss[i+1:]...)
			break
		}
	}
	recv := rg.recvRegion(sy)
	rs := recv.RecvSyns[sy.RecvID]
	for i, v := range rs {
		if v.Region == int32(rg.Idx) && v.Syn == si {
			recv.RecvSyns[sy.RecvID] = append(rs[:i], rs[i+1:]...)
			break
		}
	}
	sy.Ring = nil
	sy.Flags = 0
	sy.SetFlag(SynDead)
	rg.FreeSyns = append(rg.FreeSyns, si)
}

func (rg *Region) recvRegion(sy *Synapse) *Region {
	if rg.Network == nil || int(sy.RecvRegion) == rg.Idx {
		return rg
	}
	return rg.Network.Regions[sy.RecvRegion]
}

// LiveSynCount returns the number of non-pruned synapses in the arena
func (rg *Region) LiveSynCount() int {
	return len(rg.Syns) - len(rg.FreeSyns)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitWts restores all live synapses to their initial weights and clears
// the plasticity state (weight changes, eligibility and usage traces,
// in-flight ring deliveries).  Pruned synapses stay pruned.
func (rg *Region) InitWts() {
	for si := range rg.Syns {
		sy := &rg.Syns[si]
		if sy.IsDead() {
			continue
		}
		sy.Wt = sy.Wt0
		sy.DWt = 0
		sy.Elig = 0
		sy.CaUp = 0
		sy.ClearFlag(SynEligActive)
		sy.ClearFlag(SynConsol)
		sy.InitRing()
	}
}

// InitActs fully initializes activation state of all neurons, clears the
// inboxes and stats, and resets modulation to neutral
func (rg *Region) InitActs() {
	for ni := range rg.Neurons {
		rg.Act.InitActs(&rg.Neurons[ni])
	}
	for si := range rg.InboxGe {
		for ni := range rg.InboxGe[si] {
			rg.InboxGe[si][ni] = 0
			rg.InboxGi[si][ni] = 0
		}
	}
	rg.Reward = 0
	rg.Attn = 1
	rg.AttnNrn = nil
	rg.PendPrune = rg.PendPrune[:0]
	rg.WtRec = rg.WtRec[:0]
	rg.PoolInhib.Init()
	rg.Stats.Init()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit and synapse access

// UnitVal returns the value of the given variable name for the given
// neuron index, or NaN on error
func (rg *Region) UnitVal(varNm string, ni int) float32 {
	if ni < 0 || ni >= len(rg.Neurons) {
		return math32.NaN()
	}
	v, err := rg.Neurons[ni].VarByName(varNm)
	if err != nil {
		return math32.NaN()
	}
	return v
}

// SynVal returns the value of the given variable name for the synapse at
// the given arena index, or NaN on error
func (rg *Region) SynVal(varNm string, si int) float32 {
	if si < 0 || si >= len(rg.Syns) {
		return math32.NaN()
	}
	v, err := rg.Syns[si].VarByName(varNm)
	if err != nil {
		return math32.NaN()
	}
	return v
}

// AttnFor returns the attention level in effect for the given neuron,
// using the per-neuron override when present
func (rg *Region) AttnFor(ni int) float32 {
	if ni < len(rg.AttnNrn) {
		return rg.AttnNrn[ni]
	}
	return rg.Attn
}
