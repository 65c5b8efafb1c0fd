// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package substrate implements a discrete-time spiking neural substrate
organized into regions of neurons connected by plastic synapses.

The fundamental unit of time is the tick.  Each tick the Network runs a
fixed sequence of phases over all regions, with a barrier between phases:
staged modulation and external inputs are installed, every neuron
integrates its synaptic input and fires, every spike (or graded delta) is
propagated through its synapse possibly via a conduction-delay ring
buffer, and every synapse updates its weight under its plasticity rule
(Hebbian, STDP, BCM, or Oja), eligibility trace, and the receiving
region's reward and attention modulation.  Regions are assigned to
threads explicitly; results are bit-identical for any thread count.

Periodic consolidation decays eligibility traces and prunes weak, unused
synapses, whose arena slots are reused by later connections.

Telemetry is emitted each tick through a non-blocking asynchronous
emitter, and full network state can be captured between ticks as etable
tables or CSV, and weights saved and loaded as JSON.
*/
package substrate
