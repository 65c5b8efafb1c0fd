// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"sync"
	"sync/atomic"
)

// TickStats is the telemetry record produced at the end of every tick
type TickStats struct {
	Run     string            `desc:"run identifier, copied from the network's RunID"`
	Tick    int32             `desc:"tick this record describes"`
	Time    float64           `desc:"accumulated simulation time"`
	Regions []RegionTickStats `desc:"per-region aggregates, in region order"`
	Wts     []WtRecord        `desc:"per-synapse records from a consolidation sweep this tick -- nil on other ticks, and unless WtTelem is set"`
}

// RegionTickStats are the per-region aggregates within one TickStats
type RegionTickStats struct {
	Region  string  `desc:"region name"`
	Neurons int     `desc:"number of neurons"`
	Syns    int     `desc:"number of live synapses owned by the region"`
	Spikes  int32   `desc:"number of neurons that fired this tick"`
	Pruned  int32   `desc:"cumulative synapses pruned by consolidation"`
	ActAvg  float32 `desc:"mean rate-code activation"`
	ActMax  float32 `desc:"max rate-code activation"`
	GeAvg   float32 `desc:"mean excitatory conductance"`
	VmAvg   float32 `desc:"mean membrane potential"`
}

// WtRecord describes one live synapse at a consolidation sweep, after the
// sweep's trace decay has been applied
type WtRecord struct {
	Run    string    `desc:"run identifier"`
	Tick   int32     `desc:"tick of the sweep"`
	Region string    `desc:"owning (sending) region"`
	Syn    int32     `desc:"synapse index within the owning region's arena"`
	Wt     float32   `desc:"synaptic weight"`
	Elig   float32   `desc:"eligibility trace"`
	Rule   LearnRule `desc:"plasticity rule governing the synapse"`
}

// tickStats assembles the telemetry record for the tick just computed
func (nt *Network) tickStats() *TickStats {
	ts := &TickStats{Run: nt.RunID, Tick: nt.Time.Tick, Time: nt.Time.Time}
	for _, rg := range nt.Regions {
		if len(rg.WtRec) > 0 {
			ts.Wts = append(ts.Wts, rg.WtRec...)
			rg.WtRec = rg.WtRec[:0]
		}
	}
	ts.Regions = make([]RegionTickStats, len(nt.Regions))
	for ri, rg := range nt.Regions {
		rs := &ts.Regions[ri]
		rs.Region = rg.Nm
		rs.Neurons = len(rg.Neurons)
		rs.Syns = rg.LiveSynCount()
		rs.Spikes = rg.Stats.Spikes
		rs.Pruned = rg.Stats.Pruned
		rs.ActAvg = rg.Stats.Act.Avg
		rs.ActMax = rg.Stats.Act.Max
		rs.GeAvg = rg.Stats.Ge.Avg
		rs.VmAvg = rg.Stats.Vm.Avg
	}
	return ts
}

// Sink receives telemetry records.  Implementations are called from the
// emitter's own goroutine, never from the network stepping path.
type Sink interface {
	Tick(ts *TickStats)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ts *TickStats)

func (f SinkFunc) Tick(ts *TickStats) { f(ts) }

// Emitter delivers telemetry records to a Sink asynchronously, through a
// bounded channel.  Emit never blocks the stepping path: when the channel
// is full the oldest queued record is discarded to make room, and the
// Dropped counter is incremented.
type Emitter struct {
	sink    Sink
	ch      chan *TickStats
	quit    chan struct{}
	wait    sync.WaitGroup
	dropped int64
}

// NewEmitter returns a started emitter delivering to the given sink, with
// the given channel buffer size (minimum 1)
func NewEmitter(sink Sink, buf int) *Emitter {
	if buf < 1 {
		buf = 1
	}
	em := &Emitter{sink: sink, ch: make(chan *TickStats, buf), quit: make(chan struct{})}
	em.wait.Add(1)
	go em.loop()
	return em
}

func (em *Emitter) loop() {
	defer em.wait.Done()
	for {
		select {
		case ts := <-em.ch:
			em.sink.Tick(ts)
		case <-em.quit:
			for {
				select {
				case ts := <-em.ch:
					em.sink.Tick(ts)
				default:
					return
				}
			}
		}
	}
}

// Emit queues a record for delivery without blocking.  When the buffer is
// full, the oldest queued record is dropped in its favor.
func (em *Emitter) Emit(ts *TickStats) {
	for {
		select {
		case em.ch <- ts:
			return
		default:
		}
		select {
		case <-em.ch:
			atomic.AddInt64(&em.dropped, 1)
		default:
		}
	}
}

// Dropped returns the number of records discarded because the sink could
// not keep up
func (em *Emitter) Dropped() int64 {
	return atomic.LoadInt64(&em.dropped)
}

// Close stops the emitter after draining any queued records.  Emit must
// not be called after Close.
func (em *Emitter) Close() {
	close(em.quit)
	em.wait.Wait()
}

// SetTelemetry attaches a telemetry sink to the network with the given
// buffer size, replacing (and closing) any existing one.  Pass a nil sink
// to turn telemetry off.
func (nt *Network) SetTelemetry(sink Sink, buf int) {
	if nt.Emit != nil {
		nt.Emit.Close()
		nt.Emit = nil
	}
	if sink != nil {
		nt.Emit = NewEmitter(sink, buf)
	}
}

// SpikeEvent identifies one neuron firing at one tick
type SpikeEvent struct {
	Region string `desc:"name of the region containing the neuron"`
	Neuron int32  `desc:"index of the neuron within its region"`
	Tick   int32  `desc:"tick at which the spike occurred"`
}

// SpikeObs receives spike events as they happen
type SpikeObs func(ev SpikeEvent)

// AddSpikeObserver registers an observer called synchronously for every
// neuron that fires, within the tick that produced the spike.  Events from
// one region arrive in neuron order; events from different regions come
// from different worker threads with no ordering between them, so the
// observer must be safe for concurrent use.  Register observers before
// stepping the network.
func (nt *Network) AddSpikeObserver(fn SpikeObs) {
	nt.SpikeObs = append(nt.SpikeObs, fn)
}
