// Copyright (c) 2024, The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fffb

import "testing"

func TestInhibOff(t *testing.T) {
	fb := Params{}
	fb.Defaults()
	inh := Inhib{}
	inh.Init()
	inh.Ge.Avg = 0.5
	inh.Act.Avg = 0.5
	fb.Inhib(&inh)
	if inh.Gi != 0 {
		t.Errorf("inhibition off must produce zero Gi: got %v", inh.Gi)
	}
}

func TestInhibOn(t *testing.T) {
	fb := Params{}
	fb.Defaults()
	fb.On = true
	inh := Inhib{}
	inh.Init()

	// below the feedforward zero point, no ff inhibition
	inh.Ge.Avg = 0.05
	fb.Inhib(&inh)
	if inh.FFi != 0 {
		t.Errorf("below FF0 must give zero FFi: got %v", inh.FFi)
	}

	inh.Ge.Avg = 0.5
	inh.Act.Avg = 0.3
	fb.Inhib(&inh)
	if inh.FFi <= 0 || inh.Gi <= 0 {
		t.Errorf("expected positive inhibition: FFi %v, Gi %v", inh.FFi, inh.Gi)
	}

	// feedback is time-integrated: repeated steps converge toward FB*act
	for i := 0; i < 100; i++ {
		fb.Inhib(&inh)
	}
	trg := fb.FB * inh.Act.Avg
	dif := inh.FBi - trg
	if dif < -1e-5 || dif > 1e-5 {
		t.Errorf("FBi must converge to %v: got %v", trg, inh.FBi)
	}
}

func TestInhibDecay(t *testing.T) {
	inh := Inhib{}
	inh.Gi = 1
	inh.FFi = 1
	inh.FBi = 1
	inh.Decay(0.5)
	if inh.Gi != 0.5 || inh.FFi != 0.5 || inh.FBi != 0.5 {
		t.Errorf("decay by half: got %v %v %v", inh.Gi, inh.FFi, inh.FBi)
	}
}
