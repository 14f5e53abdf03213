// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the address with A2, A1 and A0 tied low.
const DefaultAddr = 0x20

// Port selects one of the two 8 bit ports.
type Port int

// Ports of the chip.
const (
	A Port = iota
	B
)

func (p Port) String() string {
	switch p {
	case A:
		return "A"
	case B:
		return "B"
	}
	return fmt.Sprintf("Port(%d)", int(p))
}

type port struct {
	name  string
	iodir register
	ipol  register
	gppu  register
	gpio  register
	olat  register
}

func newPort(c *i2c.Dev, name string, offset byte) *port {
	return &port{
		name:  name,
		iodir: register{c: c, addr: regIODIR + offset},
		ipol:  register{c: c, addr: regIPOL + offset},
		gppu:  register{c: c, addr: regGPPU + offset},
		gpio:  register{c: c, addr: regGPIO + offset},
		olat:  register{c: c, addr: regOLAT + offset},
	}
}

// Dev is a handle to a MCP23017.
type Dev struct {
	// Pins is indexed by [Port][bit].
	Pins [2][]Pin

	mu    sync.Mutex
	c     i2c.Dev
	ports [2]*port
}

// NewI2C returns a handle to the expander at addr, 0x20 to 0x27. Use 0 for
// DefaultAddr.
//
// The direction registers are read once to check the chip answers.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	if addr == 0 {
		addr = DefaultAddr
	}
	if addr < 0x20 || addr > 0x27 {
		return nil, fmt.Errorf("mcp23017: invalid address 0x%02x; expected 0x20 to 0x27", addr)
	}
	d := &Dev{c: i2c.Dev{Bus: b, Addr: addr}}
	name := fmt.Sprintf("MCP23017_%02x", addr)
	for i := range d.ports {
		p := Port(i)
		d.ports[i] = newPort(&d.c, name+"_GP"+p.String(), byte(i))
		if _, err := d.ports[i].iodir.read(false); err != nil {
			return nil, fmt.Errorf("mcp23017: %w", err)
		}
		d.Pins[i] = make([]Pin, 8)
		for n := range d.Pins[i] {
			d.Pins[i][n] = &portpin{d: d, port: d.ports[i], bit: uint8(n)}
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mcp23017.Dev{%s}", &d.c)
}

// SetDir sets the direction of the pins of p. A 1 bit makes the pin an input,
// 0 an output.
func (d *Dev) SetDir(p Port, inputs byte) error {
	r, err := d.port(p)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.iodir.write(inputs, false)
}

// Dir returns the direction of the pins of p, 1 bits being inputs.
func (d *Dev) Dir(p Port) (byte, error) {
	r, err := d.port(p)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.iodir.read(true)
}

// SetPullUp enables the 100kΩ pull up of the input pins set in mask.
func (d *Dev) SetPullUp(p Port, mask byte) error {
	r, err := d.port(p)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.gppu.write(mask, false)
}

// SetPolarity inverts the value read from the input pins set in mask.
func (d *Dev) SetPolarity(p Port, mask byte) error {
	r, err := d.port(p)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.ipol.write(mask, false)
}

// Write sets the output latch of p.
func (d *Dev) Write(p Port, v byte) error {
	r, err := d.port(p)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.olat.write(v, false)
}

// Latch returns the output latch of p.
func (d *Dev) Latch(p Port) (byte, error) {
	r, err := d.port(p)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.olat.read(true)
}

// Read returns the level of the pins of p.
func (d *Dev) Read(p Port) (byte, error) {
	r, err := d.port(p)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.gpio.read(false)
}

// SetPin changes bit n of the output latch of p, leaving the other pins
// untouched.
func (d *Dev) SetPin(p Port, n uint8, high bool) error {
	r, err := d.port(p)
	if err != nil {
		return err
	}
	if n > 7 {
		return fmt.Errorf("mcp23017: invalid pin %d", n)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.olat.setBits(1<<n, high, true)
}

// Pin returns the level of pin n of p.
func (d *Dev) Pin(p Port, n uint8) (bool, error) {
	r, err := d.port(p)
	if err != nil {
		return false, err
	}
	if n > 7 {
		return false, fmt.Errorf("mcp23017: invalid pin %d", n)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.gpio.bit(n, false)
}

// Halt makes every pin a high impedance input.
func (d *Dev) Halt() error {
	for _, p := range []Port{A, B} {
		if err := d.SetDir(p, 0xFF); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) port(p Port) (*port, error) {
	if p != A && p != B {
		return nil, fmt.Errorf("mcp23017: invalid port %s", p)
	}
	return d.ports[p], nil
}
