// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/timer"
	"github.com/goki/ki/indent"
	"github.com/goki/ki/ints"
	"github.com/goki/mat32"
)

// RegFunChan is a channel that runs Region functions
type RegFunChan chan func(rg *Region)

// substrate.Network holds the regions and runs the discrete-time
// computation over them.  Regions are explicitly assigned to threads; the
// per-tick phases are run across all threads with a barrier between
// phases, so each phase sees the complete results of the previous one.
type Network struct {
	Nm       string             `desc:"overall name of network -- helps discriminate if there are multiple"`
	RunID    string             `desc:"identifier for the current run -- stamped into every telemetry record"`
	Regions  []*Region          `desc:"list of regions, in added order"`
	RegMap   map[string]*Region `view:"-" desc:"map of name to regions -- region names must be unique"`
	Time     Time               `desc:"tick counter and simulated time"`
	WtsFile  string             `desc:"filename of last weights file loaded or saved"`
	MetaData map[string]string  `desc:"optional metadata saved in weights files -- e.g., number of ticks run"`
	MinPos   mat32.Vec3         `view:"-" desc:"minimum anatomical position across regions -- updated during Build"`
	MaxPos   mat32.Vec3         `view:"-" desc:"maximum anatomical position across regions -- updated during Build"`

	NThreads int                    `inactive:"+" desc:"number of parallel threads (go routines) to use -- computed from the Regions which you must explicitly allocate to different threads -- updated during Build"`
	ThrReg   [][]*Region            `view:"-" inactive:"+" desc:"regions per thread -- based on user-assigned threads, initialized during Build"`
	ThrChans []RegFunChan           `view:"-" desc:"region function channels, per thread"`
	ThrTimes []timer.Time           `view:"-" desc:"timers for each thread, so you can see how evenly the workload is being distributed"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function (step of processing)"`
	WaitGp   sync.WaitGroup         `view:"-" desc:"network-level wait group for synchronizing threaded region calls"`

	Emit     *Emitter   `view:"-" desc:"optional asynchronous telemetry emitter -- nil when telemetry is off"`
	WtTelem  bool       `desc:"include per-synapse weight records in telemetry at consolidation sweeps -- off by default because sweeps cover every live synapse"`
	SpikeObs []SpikeObs `view:"-" desc:"registered spike observers, called synchronously as neurons fire"`

	extMu sync.Mutex          `view:"-"`
	mods  map[string]ModInput `view:"-" desc:"staged modulation inputs, applied at the start of the next tick"`
	exts  []extInput          `view:"-" desc:"staged external inputs, applied at the start of the next tick"`
}

type extInput struct {
	reg   *Region
	ni    int
	val   float32
	clear bool
}

// NewNetwork returns a new network with the given name
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Time = *NewTime()
	nt.RegMap = make(map[string]*Region)
	nt.mods = make(map[string]ModInput)
	return nt
}

func (nt *Network) Name() string  { return nt.Nm }
func (nt *Network) Label() string { return nt.Nm }
func (nt *Network) NRegions() int { return len(nt.Regions) }

// AddRegion adds a new region with the given name and thread assignment,
// initialized to default parameters.  Returns an error if the name is
// already taken.
func (nt *Network) AddRegion(name string, thread int) (*Region, error) {
	if _, ok := nt.RegMap[name]; ok {
		return nil, fmt.Errorf("Network %v: AddRegion: region name %v already in use", nt.Nm, name)
	}
	rg := &Region{Nm: name, Thr: thread}
	rg.Network = nt
	rg.Idx = len(nt.Regions)
	rg.Defaults()
	nt.Regions = append(nt.Regions, rg)
	nt.RegMap[name] = rg
	for _, org := range nt.Regions {
		org.ResizeInboxes()
	}
	return rg, nil
}

// RegionByName returns a region by looking it up by name in the region map
// (nil if not found)
func (nt *Network) RegionByName(name string) *Region {
	return nt.RegMap[name]
}

// RegionByNameTry returns a region by looking it up by name -- emits a log
// error message if region is not found
func (nt *Network) RegionByNameTry(name string) (*Region, error) {
	rg := nt.RegionByName(name)
	if rg == nil {
		err := fmt.Errorf("Region named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return rg, nil
}

// BuildThreads constructs the region thread allocation based on the Thread
// setting in the regions
func (nt *Network) BuildThreads() {
	nthr := 0
	for _, rg := range nt.Regions {
		if rg.IsOff() {
			continue
		}
		nthr = ints.MaxInt(nthr, rg.Thr)
	}
	nt.NThreads = nthr + 1
	nt.ThrReg = make([][]*Region, nt.NThreads)
	nt.ThrChans = make([]RegFunChan, nt.NThreads)
	nt.ThrTimes = make([]timer.Time, nt.NThreads)
	nt.FunTimes = make(map[string]*timer.Time)
	for _, rg := range nt.Regions {
		if rg.IsOff() {
			continue
		}
		th := rg.Thr
		nt.ThrReg[th] = append(nt.ThrReg[th], rg)
	}
	for th := 0; th < nt.NThreads; th++ {
		if len(nt.ThrReg[th]) == 0 {
			log.Printf("Network BuildThreads: Network %v has no regions for thread: %v\n", nt.Nm, th)
		}
		nt.ThrChans[th] = make(RegFunChan)
	}
}

// Build finalizes the network structure: sizes the inboxes, allocates the
// thread infrastructure and starts the worker threads.  Call after all
// regions and connections are in place (and again after structural
// changes to thread assignments).
func (nt *Network) Build() error {
	if nt.NThreads > 0 {
		nt.StopThreads() // any existing..
	}
	emsg := ""
	for ri, rg := range nt.Regions {
		rg.Idx = ri
		if len(rg.Neurons) == 0 && !rg.IsOff() {
			emsg += fmt.Sprintf("Region %v has no neurons\n", rg.Nm)
		}
		rg.ResizeInboxes()
	}
	nt.BoundsUpdt()
	nt.BuildThreads()
	nt.StartThreads()
	if emsg != "" {
		return errors.New(emsg)
	}
	return nil
}

// BoundsUpdt updates the bounding box for the anatomical positions of
// the regions
func (nt *Network) BoundsUpdt() {
	mn := mat32.NewVec3Scalar(mat32.Infinity)
	mx := mat32.NewVec3Scalar(-mat32.Infinity)
	for _, rg := range nt.Regions {
		ps := rg.Pos()
		mn.SetMin(ps)
		mx.SetMax(ps)
	}
	if len(nt.Regions) > 0 {
		nt.MinPos = mn
		nt.MaxPos = mx
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// SaveWtsJSON saves network weights (and any other state that adapts with
// learning) to a JSON-formatted file.  If filename has .gz extension, then
// file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		err = nt.WriteWtsJSON(gzr)
	} else {
		err = nt.WriteWtsJSON(fp)
	}
	if err == nil {
		nt.WtsFile = filename
	}
	return err
}

// OpenWtsJSON opens network weights (and any other state that adapts with
// learning) from a JSON-formatted file.  If filename has .gz extension,
// then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network in a JSON text format.
// We build in the indentation logic to make it much faster and more
// efficient.
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm)))
	if nt.MetaData != nil {
		w.Write(indent.TabBytes(depth))
		mb, _ := json.Marshal(nt.MetaData)
		w.Write([]byte("\"MetaData\": "))
		w.Write(mb)
		w.Write([]byte(",\n"))
	}
	w.Write(indent.TabBytes(depth))
	nr := len(nt.Regions)
	if nr == 0 {
		w.Write([]byte("\"Regions\": null\n"))
	} else {
		w.Write([]byte("\"Regions\": [\n"))
		depth++
		for ri, rg := range nt.Regions {
			rg.WriteWtsJSON(w, depth)
			if ri == nr-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	_, err := w.Write([]byte("}\n"))
	return err
}

// NetWts is the decoded form of a network weights file
type NetWts struct {
	Network  string            `desc:"network name"`
	MetaData map[string]string `desc:"optional metadata"`
	Regions  []RegWts          `desc:"per-region weight records"`
}

// RegWts is the decoded form of one region's weights
type RegWts struct {
	Region string   `desc:"region name"`
	Syns   []SynWts `desc:"synapse weight records"`
}

// SynWts is one synapse weight record, identified by its endpoints
type SynWts struct {
	Send       int32   `desc:"sending neuron index"`
	Recv       int32   `desc:"receiving neuron index"`
	RecvRegion string  `desc:"receiving region name"`
	Wt         float32 `desc:"synaptic weight"`
}

// ReadWtsJSON reads network weights in the JSON text format.  Reads the
// entire stream into a temporary NetWts structure that is then passed to
// regions using SetWts.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw := &NetWts{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(nw); err != nil {
		log.Println(err)
		return err
	}
	return nt.SetWts(nw)
}

// SetWts sets the weights for this network from NetWts decoded values
func (nt *Network) SetWts(nw *NetWts) error {
	var err error
	if nw.Network != "" {
		nt.Nm = nw.Network
	}
	if nw.MetaData != nil {
		if nt.MetaData == nil {
			nt.MetaData = nw.MetaData
		} else {
			for mk, mv := range nw.MetaData {
				nt.MetaData[mk] = mv
			}
		}
	}
	for ri := range nw.Regions {
		rw := &nw.Regions[ri]
		rg, er := nt.RegionByNameTry(rw.Region)
		if er != nil {
			err = er
			continue
		}
		if er := rg.SetWts(rw); er != nil {
			err = er
		}
	}
	return err
}

// WriteWtsJSON writes this region's live synapse weights in JSON format
// at the given indentation depth
func (rg *Region) WriteWtsJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Region\": %q,\n", rg.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Syns\": [\n"))
	depth++
	live := rg.LiveSynCount()
	wi := 0
	for si := range rg.Syns {
		sy := &rg.Syns[si]
		if sy.IsDead() {
			continue
		}
		recv := rg.recvRegion(sy)
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("{\"Send\": %v, \"Recv\": %v, \"RecvRegion\": %q, \"Wt\": %g}",
			sy.SendID, sy.RecvID, recv.Nm, sy.Wt)))
		wi++
		if wi == live {
			w.Write([]byte("\n"))
		} else {
			w.Write([]byte(",\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}"))
}

// SetWts sets this region's synapse weights from decoded values, matching
// records to live synapses by their endpoints.  Unmatched records are
// reported as an error but do not stop the rest from applying.
func (rg *Region) SetWts(rw *RegWts) error {
	type key struct {
		send, recv int32
		rnm        string
	}
	idx := make(map[key]int32, rg.LiveSynCount())
	for si := range rg.Syns {
		sy := &rg.Syns[si]
		if sy.IsDead() {
			continue
		}
		idx[key{sy.SendID, sy.RecvID, rg.recvRegion(sy).Nm}] = int32(si)
	}
	missed := 0
	for i := range rw.Syns {
		sw := &rw.Syns[i]
		si, ok := idx[key{sw.Send, sw.Recv, sw.RecvRegion}]
		if !ok {
			missed++
			continue
		}
		rg.Syns[si].Wt = rg.Learn.WtRange.ClipVal(sw.Wt)
	}
	if missed > 0 {
		return fmt.Errorf("Region %v: SetWts: %v weight records had no matching synapse", rg.Nm, missed)
	}
	return nil
}

// VarRange returns the min / max values for given neuron variable
// across all regions
func (nt *Network) VarRange(varNm string) (min, max float32, err error) {
	vi, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return
	}
	first := true
	for _, rg := range nt.Regions {
		for ni := range rg.Neurons {
			v := rg.Neurons[ni].VarByIndex(vi)
			if first {
				min, max = v, v
				first = false
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return
}

//////////////////////////////////////////////////////////////////////////////////////
//  Params

// ApplyParams applies given parameter style Sheet to regions in this
// network.  Calls UpdateParams to ensure derived parameters are all
// updated.  If setMsg is true, a message is printed to confirm each
// parameter that is set.  Returns true if any were set, and error if
// there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, rg := range nt.Regions {
		app, err := rg.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// AllParams returns a listing of all parameters in the Network
func (nt *Network) AllParams() string {
	str := ""
	for _, rg := range nt.Regions {
		str += rg.AllParams()
	}
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Threading infrastructure

// StartThreads starts up the computation threads, which monitor the
// channels for work
func (nt *Network) StartThreads() {
	for th := 0; th < nt.NThreads; th++ {
		go nt.ThrWorker(th) // start the worker thread for this channel
	}
}

// StopThreads stops the computation threads
func (nt *Network) StopThreads() {
	for th := 0; th < nt.NThreads; th++ {
		close(nt.ThrChans[th])
	}
}

// ThrWorker is the worker function run by the worker threads
func (nt *Network) ThrWorker(tt int) {
	for fun := range nt.ThrChans[tt] {
		thrg := nt.ThrReg[tt]
		nt.ThrTimes[tt].Start()
		for _, rg := range thrg {
			if rg.IsOff() {
				continue
			}
			fun(rg)
		}
		nt.ThrTimes[tt].Stop()
		nt.WaitGp.Done()
	}
}

// ThrRegFun calls function on each region, using threaded (go routine
// worker) computation if NThreads > 1 and otherwise just iterating over
// regions in the current thread.  Does not return until all regions have
// completed: this is the phase barrier.
func (nt *Network) ThrRegFun(fun func(rg *Region), funame string) {
	nt.FunTimerStart(funame)
	if nt.NThreads <= 1 {
		for _, rg := range nt.Regions {
			if rg.IsOff() {
				continue
			}
			fun(rg)
		}
	} else {
		for th := 0; th < nt.NThreads; th++ {
			nt.WaitGp.Add(1)
			nt.ThrChans[th] <- fun
		}
		nt.WaitGp.Wait()
	}
	nt.FunTimerStop(funame)
}

// TimerReport reports the amount of time spent in each function, and in
// each thread
func (nt *Network) TimerReport() {
	fmt.Printf("TimerReport: %v, NThreads: %v\n", nt.Nm, nt.NThreads)
	fmt.Printf("\tFunction Name\tTotal Secs\tPct\n")
	nfn := len(nt.FunTimes)
	fnms := make([]string, nfn)
	idx := 0
	for k := range nt.FunTimes {
		fnms[idx] = k
		idx++
	}
	sort.StringSlice(fnms).Sort()
	pcts := make([]float64, nfn)
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = nt.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Printf("\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Printf("\tTotal   \t%6.4g\n", tot)

	if nt.NThreads <= 1 {
		return
	}
	fmt.Printf("\n\tThr\tTotal Secs\tPct\n")
	pcts = make([]float64, nt.NThreads)
	tot = 0.0
	for th := 0; th < nt.NThreads; th++ {
		pcts[th] = nt.ThrTimes[th].TotalSecs()
		tot += pcts[th]
	}
	for th := 0; th < nt.NThreads; th++ {
		fmt.Printf("\t%v \t%6.4g\t%6.4g\n", th, pcts[th], 100*(pcts[th]/tot))
	}
}

// ThrTimerReset resets the per-thread timers
func (nt *Network) ThrTimerReset() {
	for th := 0; th < nt.NThreads; th++ {
		nt.ThrTimes[th].Reset()
	}
}

// FunTimerStart starts function timer for given function name -- ensures
// creation of timer
func (nt *Network) FunTimerStart(fun string) {
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Size report

// SizeReport returns a string reporting the size of major network
// structures in human readable form
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	synm := 0
	ring := 0
	for _, rg := range nt.Regions {
		nn := len(rg.Neurons)
		neur += nn * int(unsafe.Sizeof(Neuron{}))
		synm += len(rg.Syns) * int(unsafe.Sizeof(Synapse{}))
		for si := range rg.Syns {
			ring += len(rg.Syns[si].Ring) * 4
		}
		fmt.Fprintf(&b, "%14v:\t Neurons: %v\t Syns: %v (live %v)\n", rg.Nm, nn, len(rg.Syns), rg.LiveSynCount())
	}
	fmt.Fprintf(&b, "%14v:\t Neurons: %v\t Syns: %v\t Rings: %v\n", nt.Nm,
		(datasize.ByteSize)(neur).HumanReadable(),
		(datasize.ByteSize)(synm).HumanReadable(),
		(datasize.ByteSize)(ring).HumanReadable())
	return b.String()
}
