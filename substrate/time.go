// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

// substrate.Time contains the discrete-time state used by the network:
// the global tick counter that all spike timestamps, delays and
// consolidation intervals are expressed in, and an accumulating
// real-valued time for display purposes.
type Time struct {
	Time        float64 `desc:"accumulated amount of time the network has been running, in simulation-time units"`
	Tick        int32   `desc:"global tick counter, incremented once per StepTick -- starts at 0"`
	TimePerTick float64 `def:"0.001" desc:"amount of simulation time per tick"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{TimePerTick: 0.001}
	tm.Reset()
	return tm
}

// Reset resets the counters back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Tick = 0
}

// TickInc advances the tick counter and accumulated time
func (tm *Time) TickInc() {
	tm.Tick++
	tm.Time += tm.TimePerTick
}
