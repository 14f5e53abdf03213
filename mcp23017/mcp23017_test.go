// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"testing"

	"github.com/GermanBionicSystems/pic32lab/pic32i2c"
	"github.com/GermanBionicSystems/pic32lab/pic32i2c/i2csim"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr = 0x20

func probeOps() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: addr, W: []byte{0x00}, R: []byte{0xFF}},
		{Addr: addr, W: []byte{0x01}, R: []byte{0xFF}},
	}
}

func TestNewI2C(t *testing.T) {
	if _, err := NewI2C(&i2ctest.Playback{DontPanic: true}, 0x30); err == nil {
		t.Fatal("expected an error for address 0x30")
	}
	if _, err := NewI2C(&i2ctest.Playback{DontPanic: true}, 0); err == nil {
		t.Fatal("expected an error without a device")
	}
	bus := &i2ctest.Playback{Ops: probeOps(), DontPanic: true}
	d, err := NewI2C(bus, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
	if n := d.Pins[B][7].Name(); n != "MCP23017_20_GPB7" {
		t.Errorf("Name() = %q", n)
	}
}

func TestPortAccess(t *testing.T) {
	ops := append(probeOps(),
		i2ctest.IO{Addr: addr, W: []byte{0x00, 0x00}},
		i2ctest.IO{Addr: addr, W: []byte{0x01, 0xFF}},
		i2ctest.IO{Addr: addr, W: []byte{0x0D, 0x01}},
		i2ctest.IO{Addr: addr, W: []byte{0x14, 0x80}},
		i2ctest.IO{Addr: addr, W: []byte{0x13}, R: []byte{0x01}},
		// SetPin reads OLATB once, then only writes.
		i2ctest.IO{Addr: addr, W: []byte{0x15}, R: []byte{0x00}},
		i2ctest.IO{Addr: addr, W: []byte{0x15, 0x04}},
		i2ctest.IO{Addr: addr, W: []byte{0x15, 0x00}},
		i2ctest.IO{Addr: addr, W: []byte{0x12}, R: []byte{0x40}},
	)
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}
	d, err := NewI2C(bus, addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetDir(A, 0x00); err != nil {
		t.Fatal(err)
	}
	if err := d.SetDir(B, 0xFF); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPullUp(B, 0x01); err != nil {
		t.Fatal(err)
	}
	if err := d.Write(A, 0x80); err != nil {
		t.Fatal(err)
	}
	if v, err := d.Read(B); err != nil || v != 0x01 {
		t.Fatalf("Read(B) = %#x, %v", v, err)
	}
	if err := d.SetPin(B, 2, true); err != nil {
		t.Fatal(err)
	}
	// No change, no transaction.
	if err := d.SetPin(B, 2, true); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPin(B, 2, false); err != nil {
		t.Fatal(err)
	}
	if v, err := d.Pin(A, 6); err != nil || !v {
		t.Fatalf("Pin(A, 6) = %t, %v", v, err)
	}
	if v, err := d.Dir(B); err != nil || v != 0xFF {
		t.Fatalf("Dir(B) = %#x, %v", v, err)
	}
	if v, err := d.Latch(A); err != nil || v != 0x80 {
		t.Fatalf("Latch(A) = %#x, %v", v, err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}

	if err := d.Write(Port(2), 0); err == nil {
		t.Error("expected an error for port 2")
	}
	if err := d.SetPin(A, 8, true); err == nil {
		t.Error("expected an error for pin 8")
	}
}

// TestButtonLED runs the lab exercise on the register level master: GPA7
// drives a LED that follows the button on GPB0.
func TestButtonLED(t *testing.T) {
	sim := i2csim.New(&i2csim.Opts{Latency: 2})
	chip := i2csim.NewRegisters(map[byte]byte{0x00: 0xFF, 0x01: 0xFF})
	sim.Attach(addr, chip)
	bus := pic32i2c.New(sim, nil)
	if err := bus.Setup(); err != nil {
		t.Fatal(err)
	}
	d, err := NewI2C(bus, addr)
	if err != nil {
		t.Fatal(err)
	}
	led := d.Pins[A][7]
	button := d.Pins[B][0]
	if err := button.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if chip.Get(0x0D) != 0x01 {
		t.Errorf("GPPUB = %#x", chip.Get(0x0D))
	}
	if button.Pull() != gpio.PullUp || button.Func() != gpio.IN {
		t.Errorf("button is %s %s", button.Pull(), button.Func())
	}
	for _, pressed := range []bool{false, true, false} {
		if pressed {
			chip.Set(0x13, 0x00)
		} else {
			chip.Set(0x13, 0x01)
		}
		if err := led.Out(!button.Read()); err != nil {
			t.Fatal(err)
		}
		if got := chip.Get(0x14)&0x80 != 0; got != pressed {
			t.Errorf("pressed=%t: LED is %t", pressed, got)
		}
	}
	if chip.Get(0x00) != 0x7F {
		t.Errorf("IODIRA = %#x, want 0x7f", chip.Get(0x00))
	}
	if led.Func() != gpio.OUT {
		t.Error("LED pin is not an output")
	}
	if err := led.SetPolarityInverted(true); err != nil {
		t.Fatal(err)
	}
	if inv, err := led.IsPolarityInverted(); err != nil || !inv || chip.Get(0x02) != 0x80 {
		t.Errorf("IPOLA = %#x", chip.Get(0x02))
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if chip.Get(0x00) != 0xFF || chip.Get(0x01) != 0xFF {
		t.Error("Halt did not make every pin an input")
	}
	if err := led.PWM(gpio.DutyHalf, 0); err == nil {
		t.Error("PWM should fail")
	}
	if err := button.In(gpio.PullDown, gpio.NoEdge); err == nil {
		t.Error("PullDown should fail")
	}
}
