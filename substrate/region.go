// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
)

// Per-tick computation proceeds in barrier-separated phases, driven by the
// network: ApplyMod (serial), IntegrateTick, SendTick, LearnTick (each
// parallel over regions), then ApplyPrunes (serial).  During the parallel
// phases a region writes only its own neurons and synapses plus its
// dedicated inbox rows in receiving regions, so no locks are needed and
// results are identical for any worker count.

// ApplyMod installs a staged modulation input for this tick.  Inputs are
// clamped into the configured ranges.  Modulation state persists across
// ticks until the next input arrives.
func (rg *Region) ApplyMod(mi ModInput) {
	rg.Reward = rg.Mod.RewRange.ClipVal(mi.Reward)
	rg.Attn = rg.Mod.AttnRange.ClipVal(mi.Attn)
	if mi.AttnNrn == nil {
		rg.AttnNrn = nil
		return
	}
	if len(rg.AttnNrn) != len(mi.AttnNrn) {
		rg.AttnNrn = make([]float32, len(mi.AttnNrn))
	}
	for i, a := range mi.AttnNrn {
		rg.AttnNrn[i] = rg.Mod.AttnRange.ClipVal(a)
	}
}

// ApplyExt sets external input on the given neuron.  Under hard clamping
// the value drives the neuron's conductance directly and fires it whenever
// the value is at or above the spike threshold, bypassing the refractory
// period.  Pass clear = true to remove the input.
func (rg *Region) ApplyExt(ni int, ext float32, clear bool) {
	if ni < 0 || ni >= len(rg.Neurons) {
		return
	}
	nrn := &rg.Neurons[ni]
	if clear {
		nrn.Ext = 0
		nrn.ClearFlag(NeurHasExt)
		return
	}
	nrn.Ext = ext
	nrn.SetFlag(NeurHasExt)
}

// IntegrateTick drains the inboxes and advances every neuron one tick:
// conductance integration, membrane potential, spiking, rate-code output,
// and the learning averages.  Inbox rows are drained in region-index
// order, which fixes the floating point summation order regardless of how
// regions are assigned to worker threads.
func (rg *Region) IntegrateTick(tick int32) {
	if rg.Off {
		return
	}
	rg.Stats.InitTick()
	rg.Pool.Inhib(&rg.PoolInhib) // from previous tick's averages
	nr := len(rg.InboxGe)
	for ni := range rg.Neurons {
		nrn := &rg.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		for si := 0; si < nr; si++ {
			nrn.GeInc += rg.InboxGe[si][ni]
			rg.InboxGe[si][ni] = 0
			nrn.GiInc += rg.InboxGi[si][ni]
			rg.InboxGi[si][ni] = 0
		}
		rg.Act.GRawFmInc(nrn, rg.Graded)
		rg.Act.GeFmRaw(nrn, nrn.GeRaw)
		rg.Act.GiFmRaw(nrn, nrn.GiRaw)
		rg.Act.VmFmG(nrn, rg.PoolInhib.Gi)
		rg.Act.SpikeFmVm(nrn, tick)
		rg.Act.ActFmG(nrn)
		if nrn.Spike > 0 && len(rg.Network.SpikeObs) > 0 {
			ev := SpikeEvent{Region: rg.Nm, Neuron: int32(ni), Tick: tick}
			for _, fn := range rg.Network.SpikeObs {
				fn(ev)
			}
		}
		rg.Learn.BCM.AvgLFmAct(nrn)
		rg.Stats.UpdtNeuron(nrn, int32(ni))
	}
	rg.Stats.CalcAvg()
	rg.PoolInhib.Ge = rg.Stats.Ge
	rg.PoolInhib.Act = rg.Stats.Act
}

// SendTick propagates this tick's output across all synapses owned by this
// region.  Spiking regions send a unit impulse per spike; graded regions
// send activation deltas gated by the OptThresh thresholds.  Synapses with
// a conduction delay route the value through their ring buffer; the value
// due this tick is delivered first, then the new value is enqueued.  The
// current weight is applied at delivery time.
func (rg *Region) SendTick(tick int32) {
	if rg.Off {
		return
	}
	for ni := range rg.Neurons {
		nrn := &rg.Neurons[ni]
		val, sending := float32(0), false
		if !nrn.IsOff() {
			if rg.Graded {
				val, sending = rg.gradedSendVal(nrn)
			} else if nrn.Spike > 0 {
				val, sending = 1, true
			}
		}
		for _, si := range rg.SendSyns[ni] {
			sy := &rg.Syns[si]
			if sy.Delay == 0 {
				if sending {
					rg.deliver(sy, val)
				}
				continue
			}
			slot := tick % sy.Delay
			if due := sy.Ring[slot]; due != 0 {
				sy.Ring[slot] = 0
				rg.deliver(sy, due)
			}
			if sending {
				sy.Ring[slot] = val
			}
		}
	}
}

// gradedSendVal returns the delta to send for a graded neuron, mirroring
// threshold-gated delta sending: only send when activation is above the
// Send threshold and has moved by more than Delta since last sent, with a
// final corrective delta when dropping below threshold.
func (rg *Region) gradedSendVal(nrn *Neuron) (float32, bool) {
	if nrn.Act > rg.Act.OptThresh.Send {
		delta := nrn.Act - nrn.ActSent
		if math32.Abs(delta) > rg.Act.OptThresh.Delta {
			nrn.ActSent = nrn.Act
			return delta, true
		}
		return 0, false
	}
	if nrn.ActSent > 0 {
		delta := -nrn.ActSent
		nrn.ActSent = 0
		return delta, true
	}
	return 0, false
}

// deliver accumulates a weighted value into the receiving neuron's inbox
// row for this region, and bumps the synapse usage trace.  Deliveries to
// lesioned regions or neurons are dropped.
func (rg *Region) deliver(sy *Synapse, val float32) {
	recv := rg.recvRegion(sy)
	if recv.Off || recv.Neurons[sy.RecvID].IsOff() {
		return
	}
	w := val * sy.Wt
	if sy.HasFlag(SynInhib) {
		recv.InboxGi[rg.Idx][sy.RecvID] += w
	} else {
		recv.InboxGe[rg.Idx][sy.RecvID] += w
	}
	sy.CaUp += rg.Learn.CaInc * math32.Abs(val)
}

// LearnTick computes and applies weight changes for every live synapse
// owned by this region: the raw rule change, eligibility trace update, and
// the modulated final change.  Modulation (attention and reward) comes
// from the receiving region, read-only here.  On consolidation ticks the
// eligibility traces take an extra decay and weak unused synapses are
// queued for pruning, applied serially after the phase barrier.
func (rg *Region) LearnTick(tick int32) {
	if rg.Off {
		return
	}
	cons := rg.Learn.Cons.On && rg.Learn.Cons.Interval > 0 &&
		tick > 0 && tick%rg.Learn.Cons.Interval == 0
	wrec := cons && rg.Network.WtTelem && rg.Network.Emit != nil
	for si := range rg.Syns {
		sy := &rg.Syns[si]
		if sy.IsDead() {
			continue
		}
		send := &rg.Neurons[sy.SendID]
		recv := rg.recvRegion(sy)
		rnrn := &recv.Neurons[sy.RecvID]
		dwt := rg.Learn.DWtFmRule(sy, send, rnrn, tick)
		rg.Learn.EligFmDWt(sy, dwt)
		rg.Learn.CaFmSpike(sy)
		if sy.Rule != NoLearn {
			attn := recv.AttnFor(int(sy.RecvID))
			fac := recv.Mod.Factor(attn, recv.Reward)
			total := fac*dwt + attn*rg.Learn.Elig.RewGain*recv.Reward*sy.Elig
			rg.Learn.WtFmDWt(sy, total)
			if recv.Reward != 0 && sy.HasFlag(SynEligActive) {
				sy.SetFlag(SynConsol)
			}
		}
		if cons {
			sy.Elig *= rg.Learn.Cons.Decay
			if wrec {
				rg.WtRec = append(rg.WtRec, WtRecord{Run: rg.Network.RunID, Tick: tick,
					Region: rg.Nm, Syn: int32(si), Wt: sy.Wt, Elig: sy.Elig, Rule: sy.Rule})
			}
			if rg.Learn.Cons.ShouldPrune(sy) {
				rg.PendPrune = append(rg.PendPrune, int32(si))
			}
		}
	}
}

// ApplyPrunes removes the synapses queued during LearnTick.  Must be
// called serially: pruning edits the receive lists of other regions.
func (rg *Region) ApplyPrunes() int {
	n := len(rg.PendPrune)
	for _, si := range rg.PendPrune {
		rg.pruneSyn(si)
	}
	rg.PendPrune = rg.PendPrune[:0]
	rg.Stats.Pruned += int32(n)
	return n
}

//////////////////////////////////////////////////////////////////////////////////////
//  RegionStats

// RegionStats are running statistics over a region, refreshed every tick
type RegionStats struct {
	Act    minmax.AvgMax32 `inactive:"+" desc:"average and max rate-code activation this tick"`
	Ge     minmax.AvgMax32 `inactive:"+" desc:"average and max excitatory conductance this tick"`
	Vm     minmax.AvgMax32 `inactive:"+" desc:"average and max membrane potential this tick"`
	Spikes int32           `inactive:"+" desc:"number of neurons that fired this tick"`
	Pruned int32           `inactive:"+" desc:"cumulative count of synapses pruned by consolidation"`
}

func (rs *RegionStats) Init() {
	rs.InitTick()
	rs.Pruned = 0
}

// InitTick resets the per-tick aggregates, preserving cumulative counts
func (rs *RegionStats) InitTick() {
	rs.Act.Init()
	rs.Ge.Init()
	rs.Vm.Init()
	rs.Spikes = 0
}

// UpdtNeuron folds one neuron's state into the per-tick aggregates
func (rs *RegionStats) UpdtNeuron(nrn *Neuron, ni int32) {
	rs.Act.UpdateVal(nrn.Act, ni)
	rs.Ge.UpdateVal(nrn.Ge, ni)
	rs.Vm.UpdateVal(nrn.Vm, ni)
	if nrn.Spike > 0 {
		rs.Spikes++
	}
}

// CalcAvg finalizes the averages after all neurons are folded in
func (rs *RegionStats) CalcAvg() {
	rs.Act.CalcAvg()
	rs.Ge.CalcAvg()
	rs.Vm.CalcAvg()
}
