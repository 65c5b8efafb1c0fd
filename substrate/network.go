// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"context"
	"fmt"
)

// The network drives the per-tick computation as a fixed sequence of
// barrier-separated phases:
//
//	Mod       serial: staged modulation and external inputs are installed
//	Integrate threaded: each region drains its inboxes and advances neurons
//	Send      threaded: each region propagates spikes / deltas it owns
//	Learn     threaded: each region updates the weights it owns
//	Prune     serial: pruning queued at consolidation is applied
//
// Each threaded phase only completes when every region has finished it, so
// every region always reads fully consistent state from the previous
// phase.  Within a phase a region writes only state it owns, and all
// cross-region reads iterate in fixed region-index order, so results are
// bit-identical regardless of the number of threads.

// Defaults sets all the default parameters for all regions
func (nt *Network) Defaults() {
	for _, rg := range nt.Regions {
		rg.Defaults()
	}
}

// UpdateParams updates all the derived parameters if any have changed,
// for all regions
func (nt *Network) UpdateParams() {
	for _, rg := range nt.Regions {
		rg.UpdateParams()
	}
}

// InitWts initializes the weight values in the network: restores initial
// weights and clears all plasticity state
func (nt *Network) InitWts() {
	for _, rg := range nt.Regions {
		rg.InitWts()
	}
}

// InitActs fully initializes activation state, staged inputs, and the
// tick counter
func (nt *Network) InitActs() {
	for _, rg := range nt.Regions {
		rg.InitActs()
	}
	nt.extMu.Lock()
	nt.mods = make(map[string]ModInput)
	nt.exts = nt.exts[:0]
	nt.extMu.Unlock()
	nt.Time.Reset()
}

// SetModInput stages a modulation input (reward and attention) for the
// named region.  The input takes effect at the start of the next tick and
// persists until the next input for that region.  Safe to call from any
// goroutine, including while the network is running.
func (nt *Network) SetModInput(region string, mi ModInput) error {
	rg := nt.RegionByName(region)
	if rg == nil {
		return fmt.Errorf("Network %v: SetModInput: no region named %v", nt.Nm, region)
	}
	nt.extMu.Lock()
	nt.mods[region] = mi
	nt.extMu.Unlock()
	return nil
}

// SetExtInput stages an external input value for one neuron in the named
// region, taking effect at the start of the next tick.  Under hard
// clamping the value drives the neuron directly and fires it whenever it
// is at or above the spike threshold.  Safe to call from any goroutine.
func (nt *Network) SetExtInput(region string, ni int, val float32) error {
	return nt.stageExt(region, ni, val, false)
}

// ClearExtInput removes external input from one neuron in the named
// region, taking effect at the start of the next tick
func (nt *Network) ClearExtInput(region string, ni int) error {
	return nt.stageExt(region, ni, 0, true)
}

func (nt *Network) stageExt(region string, ni int, val float32, clear bool) error {
	rg := nt.RegionByName(region)
	if rg == nil {
		return fmt.Errorf("Network %v: SetExtInput: no region named %v", nt.Nm, region)
	}
	if ni < 0 || ni >= len(rg.Neurons) {
		return fmt.Errorf("Network %v: SetExtInput: neuron %v out of range [0, %v) in region %v", nt.Nm, ni, len(rg.Neurons), region)
	}
	nt.extMu.Lock()
	nt.exts = append(nt.exts, extInput{reg: rg, ni: ni, val: val, clear: clear})
	nt.extMu.Unlock()
	return nil
}

// applyInputs installs all staged modulation and external inputs.
// Serial, called at the start of StepTick.
func (nt *Network) applyInputs() {
	nt.extMu.Lock()
	for nm, mi := range nt.mods {
		nt.RegMap[nm].ApplyMod(mi)
		delete(nt.mods, nm)
	}
	for _, ei := range nt.exts {
		ei.reg.ApplyExt(ei.ni, ei.val, ei.clear)
	}
	nt.exts = nt.exts[:0]
	nt.extMu.Unlock()
}

// StepTick advances the whole network by one tick, running all phases
func (nt *Network) StepTick() {
	tick := nt.Time.Tick
	nt.FunTimerStart("Mod")
	nt.applyInputs()
	nt.FunTimerStop("Mod")
	nt.ThrRegFun(func(rg *Region) { rg.IntegrateTick(tick) }, "Integrate")
	nt.ThrRegFun(func(rg *Region) { rg.SendTick(tick) }, "Send")
	nt.ThrRegFun(func(rg *Region) { rg.LearnTick(tick) }, "Learn")
	nt.FunTimerStart("Prune")
	for _, rg := range nt.Regions {
		rg.ApplyPrunes()
	}
	nt.FunTimerStop("Prune")
	if nt.Emit != nil {
		nt.Emit.Emit(nt.tickStats())
	}
	nt.Time.TickInc()
}

// Run advances the network by nticks ticks, or until the context is
// canceled; cancellation is only observed at tick boundaries, so the
// network is always left in a consistent between-tick state.  Pass
// nticks < 0 to run until cancellation.  Returns the number of ticks
// completed and the context error if it was canceled.
func (nt *Network) Run(ctx context.Context, nticks int) (int, error) {
	done := 0
	for nticks < 0 || done < nticks {
		select {
		case <-ctx.Done():
			return done, ctx.Err()
		default:
		}
		nt.StepTick()
		done++
	}
	return done, nil
}
