// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2csim

import (
	"testing"

	"github.com/GermanBionicSystems/pic32lab/sfr"
	"github.com/google/go-cmp/cmp"
)

func on(s *Sim, bits uint32) {
	s.Store(sfr.I2CCON, s.Load(sfr.I2CCON)|sfr.ON|bits)
}

func TestTransmitAck(t *testing.T) {
	s := New(nil)
	regs := NewRegisters(nil)
	s.Attach(0x20, regs)

	on(s, sfr.SEN)
	if s.Load(sfr.I2CCON)&sfr.SEN != 0 {
		t.Fatal("SEN not cleared")
	}
	s.Store(sfr.I2CTRN, 0x40)
	if st := s.Load(sfr.I2CSTAT); st&(sfr.ACKSTAT|sfr.TRSTAT) != 0 {
		t.Fatalf("STAT = %#x after acknowledged address", st)
	}
	s.Store(sfr.I2CTRN, 0x14)
	s.Store(sfr.I2CTRN, 0xA5)
	on(s, sfr.PEN)
	if regs.Get(0x14) != 0xA5 {
		t.Errorf("register 0x14 = %#x, want 0xa5", regs.Get(0x14))
	}

	want := []Event{
		{Op: OpStart},
		{Op: OpWrite, Byte: 0x40},
		{Op: OpWrite, Byte: 0x14},
		{Op: OpWrite, Byte: 0xA5},
		{Op: OpStop},
	}
	if diff := cmp.Diff(want, s.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	s.Reset()
	if len(s.Events()) != 0 {
		t.Fatal("log not cleared")
	}
}

func TestTransmitNoDevice(t *testing.T) {
	s := New(nil)
	on(s, sfr.SEN)
	s.Store(sfr.I2CTRN, 0x42)
	if s.Load(sfr.I2CSTAT)&sfr.ACKSTAT == 0 {
		t.Fatal("missing device acknowledged")
	}
}

func TestReceive(t *testing.T) {
	s := New(nil)
	s.Attach(0x6B, NewRegisters(map[byte]byte{0x0F: 0x69, 0x10: 0x82}))
	on(s, sfr.SEN)
	s.Store(sfr.I2CTRN, 0x6B<<1)
	s.Store(sfr.I2CTRN, 0x0F)
	on(s, sfr.RSEN)
	s.Store(sfr.I2CTRN, 0x6B<<1|1)
	for _, want := range []byte{0x69, 0x82} {
		on(s, sfr.RCEN)
		if s.Load(sfr.I2CSTAT)&sfr.RBF == 0 {
			t.Fatal("RBF not set")
		}
		if got := byte(s.Load(sfr.I2CRCV)); got != want {
			t.Errorf("received %#x, want %#x", got, want)
		}
		if s.Load(sfr.I2CSTAT)&sfr.RBF != 0 {
			t.Fatal("RBF not cleared by reading I2CRCV")
		}
		on(s, sfr.ACKEN)
	}
	if got := s.Events()[len(s.Events())-1]; got.Op != OpAck {
		t.Errorf("last event = %s", got)
	}
}

func TestLatency(t *testing.T) {
	s := New(&Opts{Latency: 2})
	on(s, sfr.SEN)
	if s.Load(sfr.I2CCON)&sfr.SEN == 0 {
		t.Fatal("SEN cleared on the first poll")
	}
	if s.Load(sfr.I2CCON)&sfr.SEN != 0 {
		t.Fatal("SEN not cleared on the second poll")
	}
}

func TestStuck(t *testing.T) {
	s := New(&Opts{Stuck: sfr.PEN, StuckTransmit: true})
	on(s, sfr.SEN)
	s.Store(sfr.I2CTRN, 0x40)
	for i := 0; i < 10; i++ {
		if s.Load(sfr.I2CSTAT)&sfr.TRSTAT == 0 {
			t.Fatal("transmit completed")
		}
	}
	on(s, sfr.PEN)
	if s.Load(sfr.I2CCON)&sfr.PEN == 0 {
		t.Fatal("stop completed")
	}
}

func TestOff(t *testing.T) {
	s := New(nil)
	s.Store(sfr.I2CCON, sfr.SEN)
	s.Store(sfr.I2CTRN, 0x40)
	if len(s.Events()) != 0 {
		t.Fatalf("module off generated %v", s.Events())
	}
}

func TestPanel(t *testing.T) {
	p := NewPanel()
	if p.On() || p.Contrast() != 0x7F {
		t.Fatal("unexpected reset state")
	}
	send := func(b ...byte) {
		p.Begin(false)
		for _, c := range b {
			p.Write(c)
		}
		p.End()
	}
	// Multi byte commands split across transactions.
	for _, c := range []byte{0xA8, 0x1F, 0x81, 0x10, 0xAF} {
		send(0x00, c)
	}
	if !p.On() || p.Contrast() != 0x10 {
		t.Fatalf("on=%t contrast=%#x", p.On(), p.Contrast())
	}
	send(0x00, 0x21, 0x02, 0x03, 0x22, 0x01, 0x01)
	send(0x40, 0xFF, 0x01, 0x80)
	ram := p.RAM()
	if len(ram) != 512 {
		t.Fatalf("RAM is %d bytes", len(ram))
	}
	// The column window wraps back to its start.
	if ram[128+2] != 0x80 || ram[128+3] != 0x01 {
		t.Errorf("RAM = % x", ram[128:132])
	}
	img := p.Image()
	if img.GrayAt(2, 15).Y != 0xFF || img.GrayAt(2, 8).Y != 0 {
		t.Error("image does not follow RAM")
	}
	send(0x00, 0xA7)
	if p.Image().GrayAt(2, 8).Y != 0xFF {
		t.Error("inverted display not rendered")
	}
	p.Begin(true)
	if p.Read() != 0x03 {
		t.Error("status byte")
	}
	if got := p.Commands(); len(got) != 12 {
		t.Errorf("Commands() = % x", got)
	}
}
