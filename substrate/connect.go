// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// WtInitParams are initial weight distribution parameters: mean, sd and
// distribution shape
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0.25
	wp.Dist = erand.Uniform
}

// ConnectRegions creates synapses for every connected pair produced by the
// given projection pattern (e.g. prjn.NewFull, prjn.NewOneToOne,
// prjn.NewUnifRnd), from the named sending region to the named receiving
// region, all with the given delay and plasticity rule and weights drawn
// from wtInit.  Both regions are treated as one-dimensional for the
// pattern.  Returns the number of synapses created.
func (nt *Network) ConnectRegions(send, recv string, pat prjn.Pattern, wtInit WtInitParams, delay int, rule LearnRule) (int, error) {
	srg, err := nt.RegionByNameTry(send)
	if err != nil {
		return 0, err
	}
	rrg, err := nt.RegionByNameTry(recv)
	if err != nil {
		return 0, err
	}
	if pat == nil {
		return 0, fmt.Errorf("Network %v: ConnectRegions: nil pattern", nt.Nm)
	}
	ssh := etensor.NewShape([]int{len(srg.Neurons)}, nil, nil)
	rsh := etensor.NewShape([]int{len(rrg.Neurons)}, nil, nil)
	_, _, cons := pat.Connect(ssh, rsh, srg == rrg)
	slen := ssh.Len()
	rlen := rsh.Len()
	cbits := cons.Values
	n := 0
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) {
				continue
			}
			wt := float32(wtInit.Gen(-1))
			if _, err := srg.ConnectNeurons(si, rrg, ri, wt, delay, rule); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
