// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"log"
	"os"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Snapshots capture the full observable state of the network between
// ticks as tables, one row per neuron or per live synapse.  Take them
// only when the network is not stepping.

// SnapshotNeurons returns a table of all neuron state: region name,
// neuron index, spike timing, and every named neuron variable
func (nt *Network) SnapshotNeurons() *etable.Table {
	sch := etable.Schema{
		{"Region", etensor.STRING, nil, nil},
		{"Neuron", etensor.INT64, nil, nil},
		{"LastSpike", etensor.INT64, nil, nil},
	}
	for _, vn := range NeuronVars {
		sch = append(sch, etable.Column{vn, etensor.FLOAT32, nil, nil})
	}
	rows := 0
	for _, rg := range nt.Regions {
		rows += len(rg.Neurons)
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, rows)
	row := 0
	for _, rg := range nt.Regions {
		for ni := range rg.Neurons {
			nrn := &rg.Neurons[ni]
			dt.SetCellString("Region", row, rg.Nm)
			dt.SetCellFloat("Neuron", row, float64(ni))
			dt.SetCellFloat("LastSpike", row, float64(nrn.LastSpike))
			for vi, vn := range NeuronVars {
				dt.SetCellFloat(vn, row, float64(nrn.VarByIndex(vi)))
			}
			row++
		}
	}
	return dt
}

// SnapshotSynapses returns a table of all live synapse state: owning
// region, endpoints, delay, rule, and every named synapse variable
func (nt *Network) SnapshotSynapses() *etable.Table {
	sch := etable.Schema{
		{"Region", etensor.STRING, nil, nil},
		{"Send", etensor.INT64, nil, nil},
		{"RecvRegion", etensor.STRING, nil, nil},
		{"Recv", etensor.INT64, nil, nil},
		{"Delay", etensor.INT64, nil, nil},
		{"Rule", etensor.STRING, nil, nil},
	}
	for _, vn := range SynapseVars {
		sch = append(sch, etable.Column{vn, etensor.FLOAT32, nil, nil})
	}
	rows := 0
	for _, rg := range nt.Regions {
		rows += rg.LiveSynCount()
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, rows)
	row := 0
	for _, rg := range nt.Regions {
		for si := range rg.Syns {
			sy := &rg.Syns[si]
			if sy.IsDead() {
				continue
			}
			dt.SetCellString("Region", row, rg.Nm)
			dt.SetCellFloat("Send", row, float64(sy.SendID))
			dt.SetCellString("RecvRegion", row, rg.recvRegion(sy).Nm)
			dt.SetCellFloat("Recv", row, float64(sy.RecvID))
			dt.SetCellFloat("Delay", row, float64(sy.Delay))
			dt.SetCellString("Rule", row, sy.Rule.String())
			for vi, vn := range SynapseVars {
				dt.SetCellFloat(vn, row, float64(sy.VarByIndex(vi)))
			}
			row++
		}
	}
	return dt
}

// SaveSnapshotCSV writes both snapshot tables as CSV files, using the
// given filename with .neurons.csv and .synapses.csv suffixes
func (nt *Network) SaveSnapshotCSV(filename string) error {
	nf, err := os.Create(filename + ".neurons.csv")
	if err != nil {
		log.Println(err)
		return err
	}
	defer nf.Close()
	if err = nt.SnapshotNeurons().WriteCSV(nf, etable.Comma, etable.Headers); err != nil {
		log.Println(err)
		return err
	}
	sf, err := os.Create(filename + ".synapses.csv")
	if err != nil {
		log.Println(err)
		return err
	}
	defer sf.Close()
	if err = nt.SnapshotSynapses().WriteCSV(sf, etable.Comma, etable.Headers); err != nil {
		log.Println(err)
		return err
	}
	return nil
}
