// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package substrate is the overall repository for the discrete-time plastic
neural substrate engine implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* substrate: the core engine -- regions of spiking neurons connected by
weighted, delayed, plastic synapses, stepped in barrier-synchronized ticks
with per-region parallelism, under Hebbian, STDP, BCM and Oja plasticity
with eligibility traces and reward / attention modulation.

* stdp: the asymmetric exponential spike-timing-dependent plasticity window
function, as a standalone parameterized math package.

* chans: the ion-channel conductance terms for the point-neuron membrane
update.

* fffb: feedforward / feedback pooled inhibition computed at the region
level.

* examples: these compile into runnable programs.  examples/bench builds a
multi-region substrate, drives it for a configurable number of ticks, and
reports activity statistics and per-phase timing.
*/
package substrate
