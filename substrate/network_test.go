// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/goki/mat32"
)

var ParamSets = params.Sets{
	{Name: "Base", Desc: "known values for reproducible tests", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Region", Desc: "region defaults",
				Params: params.Params{
					"Region.Learn.Lrate":     "0.1",
					"Region.Act.Noise.Type":  "NoNoise",
					"Region.Learn.Cons.On":   "false",
				}},
		},
	}},
	{Name: "FastSpike", Desc: "lower threshold for input regions", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "#In", Desc: "input region fires more easily",
				Params: params.Params{
					"Region.Act.Spike.Thr": "0.4",
				}},
		},
	}},
}

func applyBase(t *testing.T, nt *Network) {
	t.Helper()
	pset, err := ParamSets.SetByNameTry("Base")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = nt.ApplyParams(pset.Sheets["Network"], false); err != nil {
		t.Fatal(err)
	}
}

func TestAddRegionDupName(t *testing.T) {
	nt := NewNetwork("Dup")
	if _, err := nt.AddRegion("A", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.AddRegion("A", 0); err == nil {
		t.Errorf("expected duplicate name error")
	}
	if _, err := nt.RegionByNameTry("B"); err == nil {
		t.Errorf("expected lookup error for missing region")
	}
}

func TestApplyParamSets(t *testing.T) {
	nt := NewNetwork("Pars")
	in, _ := nt.AddRegion("In", 0)
	out, _ := nt.AddRegion("Out", 0)
	in.CreateNeurons(2)
	out.CreateNeurons(2)

	applyBase(t, nt)
	if in.Learn.Cons.On || out.Learn.Cons.On {
		t.Errorf("base sheet did not apply to all regions")
	}
	pset, err := ParamSets.SetByNameTry("FastSpike")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = nt.ApplyParams(pset.Sheets["Network"], false); err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{in.Act.Spike.Thr, out.Act.Spike.Thr}, []float32{0.4, 0.5}, "name selector", t)
}

func TestHebbianSaturation(t *testing.T) {
	nt := NewNetwork("Hebb")
	in, _ := nt.AddRegion("In", 0)
	out, _ := nt.AddRegion("Out", 0)
	in.Graded = true
	out.Graded = true
	in.CreateNeurons(1)
	out.CreateNeurons(1)
	si, err := in.ConnectNeurons(0, out, 0, 0.1, 0, Hebbian)
	if err != nil {
		t.Fatal(err)
	}
	applyBase(t, nt)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()

	if err := nt.SetExtInput("In", 0, 0.9); err != nil {
		t.Fatal(err)
	}
	last := in.Syns[si].Wt
	for i := 0; i < 600; i++ {
		nt.StepTick()
		wt := in.Syns[si].Wt
		if wt < last {
			t.Fatalf("tick %v: hebbian weight decreased: %v -> %v", i, last, wt)
		}
		last = wt
	}
	if last < 0.99 {
		t.Errorf("hebbian weight did not saturate: %v", last)
	}
	if last > in.Learn.WtRange.Max {
		t.Errorf("weight exceeded bounds: %v", last)
	}
}

func TestSTDPEndToEnd(t *testing.T) {
	nt := NewNetwork("Stdp")
	pre, _ := nt.AddRegion("Pre", 0)
	post, _ := nt.AddRegion("Post", 0)
	pre.CreateNeurons(1)
	post.CreateNeurons(1)
	si, err := pre.ConnectNeurons(0, post, 0, 0.5, 1, STDP)
	if err != nil {
		t.Fatal(err)
	}
	applyBase(t, nt)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()

	// sender fires at tick 0; the spike crosses the delay-1 synapse and is
	// integrated at tick 2, when the receiver is made to fire: the pairing
	// is sender-then-receiver with a 2 tick gap
	nt.SetExtInput("Pre", 0, 1)
	nt.StepTick()
	nt.ClearExtInput("Pre", 0)
	nt.StepTick()
	nt.SetExtInput("Post", 0, 1)
	nt.StepTick()
	nt.ClearExtInput("Post", 0)

	want := 0.5 + pre.Learn.STDP.DWt(2)
	CmprFloats([]float32{pre.Syns[si].Wt}, []float32{want}, "stdp pairing", t)
	if pre.Syns[si].Wt <= 0.5 {
		t.Errorf("pre-before-post pairing must potentiate")
	}

	// quiet ticks do not change the weight further
	wt := pre.Syns[si].Wt
	for i := 0; i < 5; i++ {
		nt.StepTick()
	}
	CmprFloats([]float32{pre.Syns[si].Wt}, []float32{wt}, "quiet ticks", t)
}

// buildRing builds a 4-region ring with mixed rules and delays, with
// the given thread assignment per region
func buildRing(t *testing.T, name string, threads [4]int) *Network {
	t.Helper()
	nt := NewNetwork(name)
	nms := [4]string{"A", "B", "C", "D"}
	for i, nm := range nms {
		rg, err := nt.AddRegion(nm, threads[i])
		if err != nil {
			t.Fatal(err)
		}
		if _, err = rg.CreateNeurons(10); err != nil {
			t.Fatal(err)
		}
	}
	wti := WtInitParams{}
	wti.Defaults()
	wti.Var = 0 // identical weights for reproducibility
	rules := [4]LearnRule{Hebbian, STDP, BCM, Oja}
	delays := [4]int{0, 1, 2, 0}
	for i := range nms {
		next := nms[(i+1)%4]
		if _, err := nt.ConnectRegions(nms[i], next, prjn.NewFull(), wti, delays[i], rules[i]); err != nil {
			t.Fatal(err)
		}
	}
	applyBase(t, nt)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	return nt
}

func runRing(t *testing.T, nt *Network, nticks int) {
	t.Helper()
	for i := 0; i < nticks; i++ {
		// periodic bursts of clamped input and modulation
		if i%10 == 0 {
			nt.SetExtInput("A", i%10, 1)
			nt.SetModInput("C", ModInput{Reward: 0.5, Attn: 1.2})
		}
		if i%10 == 5 {
			nt.ClearExtInput("A", (i-5)%10)
			nt.SetModInput("C", ModInput{Reward: 0, Attn: 1})
		}
		nt.StepTick()
	}
}

func TestDeterminismAcrossThreads(t *testing.T) {
	nt1 := buildRing(t, "OneThread", [4]int{0, 0, 0, 0})
	defer nt1.StopThreads()
	nt4 := buildRing(t, "FourThreads", [4]int{0, 1, 2, 3})
	defer nt4.StopThreads()
	if nt1.NThreads != 1 || nt4.NThreads != 4 {
		t.Fatalf("thread counts: %v, %v", nt1.NThreads, nt4.NThreads)
	}

	runRing(t, nt1, 1000)
	runRing(t, nt4, 1000)

	for ri, rg1 := range nt1.Regions {
		rg4 := nt4.Regions[ri]
		for ni := range rg1.Neurons {
			n1 := &rg1.Neurons[ni]
			n4 := &rg4.Neurons[ni]
			for vi := range NeuronVars {
				if n1.VarByIndex(vi) != n4.VarByIndex(vi) {
					t.Fatalf("region %v neuron %v var %v differs: %v != %v",
						rg1.Nm, ni, NeuronVars[vi], n1.VarByIndex(vi), n4.VarByIndex(vi))
				}
			}
			if n1.LastSpike != n4.LastSpike {
				t.Fatalf("region %v neuron %v spike timing differs", rg1.Nm, ni)
			}
		}
		for si := range rg1.Syns {
			if rg1.Syns[si].Wt != rg4.Syns[si].Wt {
				t.Fatalf("region %v synapse %v weight differs: %v != %v",
					rg1.Nm, si, rg1.Syns[si].Wt, rg4.Syns[si].Wt)
			}
		}
	}
}

func TestWtBoundsRandomized(t *testing.T) {
	nt := buildRing(t, "Bounds", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()

	// all four rules under seeded random inputs and modulation: weights
	// must stay inside WtRange and traces non-negative at every tick
	rnd := rand.New(rand.NewSource(42))
	nms := [4]string{"A", "B", "C", "D"}
	for i := 0; i < 1000; i++ {
		if i%3 == 0 {
			nt.SetExtInput(nms[rnd.Intn(4)], rnd.Intn(10), rnd.Float32())
		}
		if i%7 == 0 {
			nt.ClearExtInput(nms[rnd.Intn(4)], rnd.Intn(10))
		}
		if i%5 == 0 {
			nt.SetModInput(nms[rnd.Intn(4)], ModInput{Reward: 2*rnd.Float32() - 1, Attn: 2 * rnd.Float32()})
		}
		nt.StepTick()
		for _, rg := range nt.Regions {
			wr := rg.Learn.WtRange
			for si := range rg.Syns {
				sy := &rg.Syns[si]
				if sy.IsDead() {
					continue
				}
				if sy.Wt < wr.Min || sy.Wt > wr.Max {
					t.Fatalf("tick %v: region %v syn %v weight %v outside [%v, %v]",
						i, rg.Nm, si, sy.Wt, wr.Min, wr.Max)
				}
				if sy.Elig < 0 {
					t.Fatalf("tick %v: region %v syn %v negative trace %v", i, rg.Nm, si, sy.Elig)
				}
			}
		}
	}
}

func TestRunCancel(t *testing.T) {
	nt := buildRing(t, "Cancel", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done, err := nt.Run(ctx, 100)
	if done != 0 || err != context.Canceled {
		t.Errorf("canceled context: got done %v err %v", done, err)
	}

	done, err = nt.Run(context.Background(), 10)
	if done != 10 || err != nil {
		t.Errorf("bounded run: got done %v err %v", done, err)
	}
	if nt.Time.Tick != 10 {
		t.Errorf("tick counter: got %v, want 10", nt.Time.Tick)
	}

	// unbounded run stops at a tick boundary after cancellation
	ctx, cancel = context.WithCancel(context.Background())
	ret := make(chan int)
	go func() {
		n, _ := nt.Run(ctx, -1)
		ret <- n
	}()
	cancel()
	n := <-ret
	if int32(n)+10 != nt.Time.Tick {
		t.Errorf("ticks completed %v inconsistent with counter %v", n, nt.Time.Tick)
	}
}

func TestModulationGates(t *testing.T) {
	run := func(attn, rew float32) float32 {
		nt := NewNetwork("Mod")
		in, _ := nt.AddRegion("In", 0)
		out, _ := nt.AddRegion("Out", 0)
		in.Graded = true
		out.Graded = true
		in.CreateNeurons(1)
		out.CreateNeurons(1)
		si, _ := in.ConnectNeurons(0, out, 0, 0.3, 0, Hebbian)
		applyBase(t, nt)
		if err := nt.Build(); err != nil {
			t.Fatal(err)
		}
		defer nt.StopThreads()
		nt.SetExtInput("In", 0, 0.9)
		nt.SetModInput("Out", ModInput{Reward: rew, Attn: attn})
		for i := 0; i < 20; i++ { // short run: stay well below the weight ceiling
			nt.StepTick()
		}
		return in.Syns[si].Wt
	}

	base := run(1, 0)
	gated := run(0, 0)
	amped := run(1, 1)
	if gated != 0.3 {
		t.Errorf("zero attention must freeze weights: got %v", gated)
	}
	if base <= 0.3 {
		t.Errorf("neutral modulation must still learn: got %v", base)
	}
	if amped <= base {
		t.Errorf("positive reward must amplify learning: %v <= %v", amped, base)
	}
}

func TestPunishmentUnlearns(t *testing.T) {
	// drive correlated activity under neutral modulation to build an
	// eligibility trace, then deliver one tick of reward and measure the
	// resulting weight change
	run := func(rew float32) float32 {
		nt := NewNetwork("Punish")
		in, _ := nt.AddRegion("In", 0)
		out, _ := nt.AddRegion("Out", 0)
		in.Graded = true
		out.Graded = true
		in.CreateNeurons(1)
		out.CreateNeurons(1)
		si, _ := in.ConnectNeurons(0, out, 0, 0.3, 0, Hebbian)
		applyBase(t, nt)
		if err := nt.Build(); err != nil {
			t.Fatal(err)
		}
		defer nt.StopThreads()
		nt.SetExtInput("In", 0, 0.9)
		for i := 0; i < 10; i++ {
			nt.StepTick()
		}
		wt0 := in.Syns[si].Wt
		nt.SetModInput("Out", ModInput{Reward: rew, Attn: 1})
		nt.StepTick()
		return in.Syns[si].Wt - wt0
	}

	neutral := run(0)
	damped := run(-0.5)
	punished := run(-1)
	if neutral <= 0 {
		t.Errorf("neutral reward must keep learning: got %v", neutral)
	}
	if punished >= 0 {
		t.Errorf("reward below PunishThr must unlearn: got %v", punished)
	}
	if punished >= damped {
		t.Errorf("punishment must unlearn more than damping: %v >= %v", punished, damped)
	}
}

func TestPerNeuronAttention(t *testing.T) {
	nt := NewNetwork("Attn")
	in, _ := nt.AddRegion("In", 0)
	out, _ := nt.AddRegion("Out", 0)
	in.Graded = true
	out.Graded = true
	in.CreateNeurons(1)
	out.CreateNeurons(2)
	s0, _ := in.ConnectNeurons(0, out, 0, 0.3, 0, Hebbian)
	s1, _ := in.ConnectNeurons(0, out, 1, 0.3, 0, Hebbian)
	applyBase(t, nt)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()

	nt.SetExtInput("In", 0, 0.9)
	nt.SetModInput("Out", ModInput{Attn: 1, AttnNrn: []float32{1, 0}})
	for i := 0; i < 50; i++ {
		nt.StepTick()
	}
	if in.Syns[s0].Wt <= 0.3 {
		t.Errorf("attended synapse must learn: %v", in.Syns[s0].Wt)
	}
	if in.Syns[s1].Wt != 0.3 {
		t.Errorf("unattended synapse must not learn: %v", in.Syns[s1].Wt)
	}
}

func TestConsolidationPrunesWeak(t *testing.T) {
	nt := NewNetwork("Cons")
	a, _ := nt.AddRegion("A", 0)
	b, _ := nt.AddRegion("B", 0)
	a.CreateNeurons(1)
	b.CreateNeurons(1)
	si, err := a.ConnectNeurons(0, b, 0, 0.01, 0, NoLearn)
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()

	iv := int(a.Learn.Cons.Interval)
	for i := 0; i <= iv; i++ {
		nt.StepTick()
	}
	if !a.Syns[si].IsDead() {
		t.Errorf("weak unused synapse must be pruned at consolidation")
	}
	if a.LiveSynCount() != 0 {
		t.Errorf("live count after prune: %v", a.LiveSynCount())
	}
	if a.Stats.Pruned != 1 {
		t.Errorf("prune stat: %v", a.Stats.Pruned)
	}
}

func TestTelemetry(t *testing.T) {
	nt := buildRing(t, "Telem", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()

	var got []*TickStats
	nt.SetTelemetry(SinkFunc(func(ts *TickStats) { got = append(got, ts) }), 64)
	runRing(t, nt, 20)
	nt.SetTelemetry(nil, 0) // closes and drains the emitter

	if len(got) != 20 {
		t.Fatalf("expected 20 telemetry records, got %v", len(got))
	}
	if got[0].Tick != 0 || got[19].Tick != 19 {
		t.Errorf("tick stamps wrong: %v, %v", got[0].Tick, got[19].Tick)
	}
	if len(got[0].Regions) != 4 || got[0].Regions[0].Region != "A" {
		t.Errorf("region stats malformed")
	}
	if got[0].Regions[0].Spikes != 1 {
		t.Errorf("clamped input spike not reported: %v", got[0].Regions[0].Spikes)
	}
}

func TestTelemetryNonBlocking(t *testing.T) {
	nt := buildRing(t, "TelemBlock", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()

	release := make(chan struct{})
	nt.SetTelemetry(SinkFunc(func(ts *TickStats) { <-release }), 1)
	// a stalled sink must not stall the network
	for i := 0; i < 50; i++ {
		nt.StepTick()
	}
	if nt.Time.Tick != 50 {
		t.Errorf("stepping blocked by telemetry: %v", nt.Time.Tick)
	}
	if nt.Emit.Dropped() == 0 {
		t.Errorf("expected dropped records with stalled sink")
	}
	close(release)
	nt.SetTelemetry(nil, 0)
}

func TestWtTelemetry(t *testing.T) {
	nt := buildRing(t, "WtTelem", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()
	nt.RunID = "run7"
	nt.WtTelem = true
	for _, rg := range nt.Regions {
		rg.Learn.Cons.On = true
		rg.Learn.Cons.Interval = 10
	}

	var got []*TickStats
	nt.SetTelemetry(SinkFunc(func(ts *TickStats) { got = append(got, ts) }), 64)
	runRing(t, nt, 11)
	nt.SetTelemetry(nil, 0)

	if len(got) != 11 {
		t.Fatalf("expected 11 telemetry records, got %v", len(got))
	}
	if got[0].Run != "run7" {
		t.Errorf("run id not stamped: %v", got[0].Run)
	}
	for _, ts := range got[:10] {
		if ts.Wts != nil {
			t.Fatalf("weight records outside a consolidation sweep, tick %v", ts.Tick)
		}
	}
	sweep := got[10]
	nsyn := 0
	for _, rg := range nt.Regions {
		nsyn += rg.LiveSynCount()
	}
	if len(sweep.Wts) != nsyn {
		t.Fatalf("expected %v weight records at the sweep, got %v", nsyn, len(sweep.Wts))
	}
	wr := sweep.Wts[0]
	if wr.Run != "run7" || wr.Tick != 10 || wr.Region != "A" || wr.Rule != Hebbian {
		t.Errorf("weight record malformed: %+v", wr)
	}
	if wr.Wt <= 0 {
		t.Errorf("weight record weight: %v", wr.Wt)
	}
}

func TestSpikeObserver(t *testing.T) {
	nt := NewNetwork("Obs")
	a, _ := nt.AddRegion("A", 0)
	a.CreateNeurons(3)
	applyBase(t, nt)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()

	var got []SpikeEvent // single worker thread, so no locking needed
	nt.AddSpikeObserver(func(ev SpikeEvent) { got = append(got, ev) })

	nt.SetExtInput("A", 2, 1)
	nt.SetExtInput("A", 0, 1)
	for i := 0; i < 5; i++ {
		nt.StepTick()
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 spike events, got %v", len(got))
	}
	for i, ev := range got {
		if ev.Region != "A" {
			t.Fatalf("event %v region: %v", i, ev.Region)
		}
		if ev.Tick != int32(i/2) {
			t.Errorf("event %v tick stamp: %v", i, ev.Tick)
		}
		want := int32(0)
		if i%2 == 1 {
			want = 2
		}
		if ev.Neuron != want {
			t.Errorf("events must arrive in neuron order: neuron %v at position %v", ev.Neuron, i)
		}
	}
}

func TestPlastStateLifecycle(t *testing.T) {
	nt := NewNetwork("Plast")
	in, _ := nt.AddRegion("In", 0)
	out, _ := nt.AddRegion("Out", 0)
	in.Graded = true
	out.Graded = true
	in.CreateNeurons(1)
	out.CreateNeurons(1)
	si, _ := in.ConnectNeurons(0, out, 0, 0.3, 0, Hebbian)
	applyBase(t, nt)
	in.Learn.Cons.On = true
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	defer nt.StopThreads()
	sy := &in.Syns[si]

	if st := sy.PlastState(); st != Dormant {
		t.Fatalf("before any activity: %v", st)
	}

	nt.SetExtInput("In", 0, 0.9)
	for i := 0; i < 10; i++ {
		nt.StepTick()
	}
	if st := sy.PlastState(); st != Active {
		t.Fatalf("after correlated activity: %v (elig %v)", st, sy.Elig)
	}

	nt.SetModInput("Out", ModInput{Reward: 0.5, Attn: 1})
	nt.StepTick()
	if st := sy.PlastState(); st != Consolidating {
		t.Fatalf("after reward with an active trace: %v", st)
	}

	nt.ClearExtInput("In", 0)
	nt.SetModInput("Out", ModInput{Reward: 0, Attn: 1})
	for nt.Time.Tick < 280 {
		nt.StepTick()
	}
	if st := sy.PlastState(); st != Dormant {
		t.Fatalf("after trace decay: %v (elig %v)", st, sy.Elig)
	}

	// force below the prune thresholds, then let the next sweep remove it
	sy.Wt = 0
	sy.CaUp = 0
	for nt.Time.Tick <= 300 {
		nt.StepTick()
	}
	if st := sy.PlastState(); st != Pruned {
		t.Fatalf("after the consolidation sweep: %v", st)
	}
}

func TestWtsJSONRoundTrip(t *testing.T) {
	nt := buildRing(t, "Wts", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()
	runRing(t, nt, 50)

	var buf bytes.Buffer
	if err := nt.WriteWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	a := nt.Regions[0]
	saved := make([]float32, len(a.Syns))
	for si := range a.Syns {
		saved[si] = a.Syns[si].Wt
	}
	nt.InitWts()
	if err := nt.ReadWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	for si := range a.Syns {
		if a.Syns[si].IsDead() {
			continue
		}
		if a.Syns[si].Wt != saved[si] {
			t.Fatalf("synapse %v weight not restored: %v != %v", si, a.Syns[si].Wt, saved[si])
		}
	}
}

func TestSnapshot(t *testing.T) {
	nt := buildRing(t, "Snap", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()
	runRing(t, nt, 20)

	ndt := nt.SnapshotNeurons()
	if ndt.Rows != 40 {
		t.Errorf("neuron snapshot rows: %v", ndt.Rows)
	}
	if ndt.CellString("Region", 0) != "A" {
		t.Errorf("neuron snapshot region: %v", ndt.CellString("Region", 0))
	}
	act := ndt.CellFloat("Act", 0)
	if act != float64(nt.Regions[0].Neurons[0].Act) {
		t.Errorf("neuron snapshot act: %v", act)
	}

	sdt := nt.SnapshotSynapses()
	live := 0
	for _, rg := range nt.Regions {
		live += rg.LiveSynCount()
	}
	if sdt.Rows != live {
		t.Errorf("synapse snapshot rows: %v, want %v", sdt.Rows, live)
	}
	if sdt.CellString("Rule", 0) != "Hebbian" {
		t.Errorf("synapse snapshot rule: %v", sdt.CellString("Rule", 0))
	}
}

func TestRegionPositions(t *testing.T) {
	nt := buildRing(t, "Pos", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()
	for ri, rg := range nt.Regions {
		rg.SetPos(mat32.Vec3{X: float32(ri) * 2, Y: -float32(ri), Z: 1})
	}
	nt.BoundsUpdt()
	if nt.MinPos != (mat32.Vec3{X: 0, Y: -3, Z: 1}) {
		t.Errorf("min bound: %v", nt.MinPos)
	}
	if nt.MaxPos != (mat32.Vec3{X: 6, Y: 0, Z: 1}) {
		t.Errorf("max bound: %v", nt.MaxPos)
	}
}

func TestSizeReport(t *testing.T) {
	nt := buildRing(t, "Size", [4]int{0, 0, 0, 0})
	defer nt.StopThreads()
	rep := nt.SizeReport()
	for _, nm := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(rep, nm) {
			t.Errorf("size report missing region %v:\n%v", nm, rep)
		}
	}
}
