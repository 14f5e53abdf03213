// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sfr

import "testing"

func TestSetClear(t *testing.T) {
	var w Words
	Set(&w, I2CCON, ON|SEN)
	if got := w.Load(I2CCON); got != ON|SEN {
		t.Fatalf("I2CCON = %#x, want %#x", got, ON|SEN)
	}
	Clear(&w, I2CCON, SEN)
	if got := w.Load(I2CCON); got != ON {
		t.Fatalf("I2CCON = %#x, want %#x", got, ON)
	}
	if !IsSet(&w, I2CCON, ON) {
		t.Fatal("ON should be set")
	}
	if IsSet(&w, I2CSTAT, ACKSTAT|TRSTAT) {
		t.Fatal("I2CSTAT should be untouched")
	}
}

func TestRegistersAreDistinct(t *testing.T) {
	var w Words
	regs := []Reg{I2CCON, I2CSTAT, I2CADD, I2CMSK, I2CBRG, I2CTRN, I2CRCV}
	for i, r := range regs {
		w.Store(r, uint32(i+1))
	}
	for i, r := range regs {
		if got := w.Load(r); got != uint32(i+1) {
			t.Errorf("reg %#x = %d, want %d", r, got, i+1)
		}
	}
}
