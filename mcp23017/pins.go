// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"errors"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is a single expander pin.
type Pin interface {
	gpio.PinIO
	pin.PinFunc
	// SetPolarityInverted inverts the level read from the pin.
	SetPolarityInverted(p bool) error
	// IsPolarityInverted returns true if the level read is inverted.
	IsPolarityInverted() (bool, error)
}

type portpin struct {
	d    *Dev
	port *port
	bit  uint8
}

func (p *portpin) String() string {
	return p.Name()
}

func (p *portpin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

func (p *portpin) Name() string {
	return p.port.name + strconv.Itoa(int(p.bit))
}

func (p *portpin) Number() int {
	return int(p.bit)
}

func (p *portpin) Function() string {
	return string(p.Func())
}

func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		// INTA and INTB are not wired to the bus.
		return errors.New("mcp23017: edge detection not supported")
	}
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	switch pull {
	case gpio.PullDown:
		return errors.New("mcp23017: PullDown is not supported")
	case gpio.PullUp, gpio.Float:
		if err := p.port.gppu.setBits(p.mask(), pull == gpio.PullUp, true); err != nil {
			return err
		}
	case gpio.PullNoChange:
	}
	return p.port.iodir.setBits(p.mask(), true, true)
}

func (p *portpin) Read() gpio.Level {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	v, _ := p.port.gpio.bit(p.bit, false)
	return gpio.Level(v)
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	v, err := p.port.gppu.bit(p.bit, true)
	if err != nil {
		return gpio.PullNoChange
	}
	if v {
		return gpio.PullUp
	}
	return gpio.Float
}

func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) Out(l gpio.Level) error {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	if err := p.port.iodir.setBits(p.mask(), false, true); err != nil {
		return err
	}
	return p.port.olat.setBits(p.mask(), bool(l), true)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("mcp23017: PWM is not supported")
}

func (p *portpin) Func() pin.Func {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	v, _ := p.port.iodir.bit(p.bit, true)
	if v {
		return gpio.IN
	}
	return gpio.OUT
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

func (p *portpin) SetFunc(f pin.Func) error {
	var in bool
	switch f {
	case gpio.IN:
		in = true
	case gpio.OUT:
	default:
		return errors.New("mcp23017: function not supported: " + string(f))
	}
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.port.iodir.setBits(p.mask(), in, true)
}

func (p *portpin) SetPolarityInverted(pol bool) error {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.port.ipol.setBits(p.mask(), pol, true)
}

func (p *portpin) IsPolarityInverted() (bool, error) {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.port.ipol.bit(p.bit, true)
}

func (p *portpin) mask() byte {
	return 1 << p.bit
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

var _ Pin = &portpin{}
var _ pin.PinFunc = &portpin{}
