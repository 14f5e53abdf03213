// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2csim simulates a PIC32 I²C module register file with slave
// devices attached to the bus.
//
// It reacts to register writes the way the peripheral does: setting SEN
// generates a START, writing I2CTRN clocks a byte out and reports the slave
// acknowledgment in ACKSTAT, and so on. Every bus condition is appended to an
// event log that tests compare against the expected transaction shape.
package i2csim

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/pic32lab/sfr"
)

// Op is a bus condition or byte transfer.
type Op int

// Bus operations, in the order they typically appear.
const (
	OpStart Op = iota
	OpRestart
	OpWrite
	OpRead
	OpAck
	OpNack
	OpStop
)

func (o Op) String() string {
	switch o {
	case OpStart:
		return "START"
	case OpRestart:
		return "RESTART"
	case OpWrite:
		return "WRITE"
	case OpRead:
		return "READ"
	case OpAck:
		return "ACK"
	case OpNack:
		return "NACK"
	case OpStop:
		return "STOP"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Event is one entry of the bus log. Byte is only meaningful for OpWrite and
// OpRead.
type Event struct {
	Op   Op
	Byte byte
}

func (e Event) String() string {
	if e.Op == OpWrite || e.Op == OpRead {
		return fmt.Sprintf("%s(0x%02x)", e.Op, e.Byte)
	}
	return e.Op.String()
}

// Device is a slave attached to the simulated bus.
//
// Methods are called with the bus lock held, one at a time.
type Device interface {
	// Begin is called when the device is addressed. It returns false to NACK
	// the address byte.
	Begin(read bool) bool
	// Write receives one byte from the master and returns the ACK bit.
	Write(b byte) bool
	// Read returns the next byte to send to the master.
	Read() byte
	// End is called on STOP.
	End()
}

// Opts configures the simulation.
type Opts struct {
	// Latency is the number of register polls before an operation completes.
	Latency int
	// Stuck lists I2CxCON control bits (SEN, RSEN, PEN, RCEN, ACKEN) whose
	// operation never completes.
	Stuck uint32
	// StuckTransmit keeps TRSTAT set forever after a write to I2CTRN.
	StuckTransmit bool
}

type completion struct {
	polls int
	apply func()
}

// Sim is a simulated I²C module. It implements sfr.File.
type Sim struct {
	mu      sync.Mutex
	opts    Opts
	regs    map[sfr.Reg]uint32
	devices map[uint16]Device

	// Transaction state.
	cur        Device
	expectAddr bool
	reading    bool
	pending    *completion
	log        []Event
}

// New returns a simulated module with no device attached. opts can be nil.
func New(opts *Opts) *Sim {
	s := &Sim{regs: map[sfr.Reg]uint32{}, devices: map[uint16]Device{}}
	if opts != nil {
		s.opts = *opts
	}
	return s
}

func (s *Sim) String() string {
	return "i2csim"
}

// Attach connects d at the 7 bit address addr, replacing any device there.
func (s *Sim) Attach(addr uint16, d Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[addr] = d
}

// Events returns a copy of the bus log.
func (s *Sim) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.log...)
}

// Reset clears the bus log.
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
}

// Load implements sfr.File.
func (s *Sim) Load(r sfr.Reg) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == sfr.I2CCON || r == sfr.I2CSTAT {
		s.poll()
	}
	v := s.regs[r]
	if r == sfr.I2CRCV {
		s.regs[sfr.I2CSTAT] &^= sfr.RBF
	}
	return v
}

// Store implements sfr.File.
func (s *Sim) Store(r sfr.Reg, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch r {
	case sfr.I2CCON:
		old := s.regs[r]
		s.regs[r] = v
		if v&sfr.ON != 0 {
			s.control(v &^ old)
		}
	case sfr.I2CTRN:
		s.regs[r] = v & 0xFF
		if s.regs[sfr.I2CCON]&sfr.ON != 0 {
			s.transmit(byte(v))
		}
	case sfr.I2CRCV:
		// Read only.
	default:
		s.regs[r] = v
	}
}

// control starts the operations whose enable bit just rose.
func (s *Sim) control(rising uint32) {
	switch {
	case rising&sfr.SEN != 0:
		s.record(Event{Op: OpStart})
		s.cur = nil
		s.expectAddr = true
		s.schedule(sfr.SEN, func() { s.regs[sfr.I2CCON] &^= sfr.SEN })
	case rising&sfr.RSEN != 0:
		s.record(Event{Op: OpRestart})
		s.expectAddr = true
		s.schedule(sfr.RSEN, func() { s.regs[sfr.I2CCON] &^= sfr.RSEN })
	case rising&sfr.PEN != 0:
		s.record(Event{Op: OpStop})
		if s.cur != nil {
			s.cur.End()
			s.cur = nil
		}
		s.expectAddr = false
		s.schedule(sfr.PEN, func() { s.regs[sfr.I2CCON] &^= sfr.PEN })
	case rising&sfr.RCEN != 0:
		b := byte(0xFF)
		if s.cur != nil && s.reading {
			b = s.cur.Read()
		}
		s.record(Event{Op: OpRead, Byte: b})
		s.schedule(sfr.RCEN, func() {
			s.regs[sfr.I2CRCV] = uint32(b)
			s.regs[sfr.I2CSTAT] |= sfr.RBF
			s.regs[sfr.I2CCON] &^= sfr.RCEN
		})
	case rising&sfr.ACKEN != 0:
		if s.regs[sfr.I2CCON]&sfr.ACKDT != 0 {
			s.record(Event{Op: OpNack})
		} else {
			s.record(Event{Op: OpAck})
		}
		s.schedule(sfr.ACKEN, func() { s.regs[sfr.I2CCON] &^= sfr.ACKEN })
	}
}

func (s *Sim) transmit(b byte) {
	s.record(Event{Op: OpWrite, Byte: b})
	s.regs[sfr.I2CSTAT] |= sfr.TRSTAT | sfr.TBF
	ack := false
	if s.expectAddr {
		s.expectAddr = false
		s.reading = b&1 != 0
		s.cur = nil
		if d := s.devices[uint16(b>>1)]; d != nil && d.Begin(s.reading) {
			s.cur = d
			ack = true
		}
	} else if s.cur != nil && !s.reading {
		ack = s.cur.Write(b)
	}
	if s.opts.StuckTransmit {
		return
	}
	s.complete(func() {
		s.regs[sfr.I2CSTAT] &^= sfr.TRSTAT | sfr.TBF
		if ack {
			s.regs[sfr.I2CSTAT] &^= sfr.ACKSTAT
		} else {
			s.regs[sfr.I2CSTAT] |= sfr.ACKSTAT
		}
	})
}

func (s *Sim) schedule(bit uint32, apply func()) {
	if s.opts.Stuck&bit != 0 {
		return
	}
	s.complete(apply)
}

func (s *Sim) complete(apply func()) {
	if s.pending != nil {
		s.pending.apply()
		s.pending = nil
	}
	if s.opts.Latency <= 0 {
		apply()
		return
	}
	s.pending = &completion{polls: s.opts.Latency, apply: apply}
}

func (s *Sim) poll() {
	if s.pending == nil {
		return
	}
	if s.pending.polls--; s.pending.polls <= 0 {
		s.pending.apply()
		s.pending = nil
	}
}

func (s *Sim) record(e Event) {
	s.log = append(s.log, e)
}

var _ sfr.File = &Sim{}
