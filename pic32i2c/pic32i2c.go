// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pic32i2c

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/GermanBionicSystems/pic32lab/sfr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Opts holds the configuration of the engine.
type Opts struct {
	// BRG is the baud rate generator reload value written by Setup. It must be
	// in [2, 0xFFF].
	BRG uint16
	// PeripheralClock is PBCLK, used by SetSpeed to compute BRG.
	PeripheralClock physic.Frequency
	// Timeout bounds every status poll. 0 means poll forever.
	Timeout time.Duration
	// HangOnNack spins forever when a slave does not acknowledge a byte,
	// instead of returning a *NackError.
	HangOnNack bool
}

// DefaultOpts runs the bus at 100kHz from a 48MHz PBCLK.
var DefaultOpts = Opts{
	BRG:             233,
	PeripheralClock: 48 * physic.MegaHertz,
	Timeout:         10 * time.Millisecond,
}

// LegacyOpts reproduces the lab firmware: a slow bus, unbounded polling and a
// hang when a byte is not acknowledged.
var LegacyOpts = Opts{
	BRG:             1000,
	PeripheralClock: 48 * physic.MegaHertz,
	HangOnNack:      true,
}

// pulseGobblerDelay is TPGD from the datasheet.
const pulseGobblerDelay = 104 * time.Nanosecond

type state int

const (
	idle    state = iota
	started       // START or RESTART sent, address byte expected
	writing
	reading
)

func (s state) String() string {
	switch s {
	case idle:
		return "idle"
	case started:
		return "started"
	case writing:
		return "writing"
	case reading:
		return "reading"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Engine is an I²C master on one PIC32 I²C module.
//
// The primitives (Start, Send, ...) are not safe for concurrent use. Tx and
// the register helpers hold the bus for the whole transaction.
type Engine struct {
	r    sfr.File
	opts Opts

	mu    sync.Mutex
	state state
	hang  func()
}

// New returns an Engine driving the registers r. Setup must be called before
// the first transaction. opts can be nil to use DefaultOpts.
func New(r sfr.File, opts *Opts) *Engine {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Engine{r: r, opts: *opts, hang: spin}
}

func spin() {
	for {
		runtime.Gosched()
	}
}

func (e *Engine) String() string {
	return "pic32i2c"
}

// Setup programs the baud rate generator and turns the module on.
func (e *Engine) Setup() error {
	if e.opts.BRG < 2 || e.opts.BRG > 0xFFF {
		return fmt.Errorf("pic32i2c: invalid BRG %d", e.opts.BRG)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.r.Store(sfr.I2CBRG, uint32(e.opts.BRG))
	sfr.Set(e.r, sfr.I2CCON, sfr.ON)
	e.state = idle
	return nil
}

// Start asserts a START condition.
func (e *Engine) Start() error {
	if e.state != idle {
		return fmt.Errorf("%w: start while %s", ErrBusState, e.state)
	}
	e.state = started
	sfr.Set(e.r, sfr.I2CCON, sfr.SEN)
	return e.wait("start", func() bool { return !sfr.IsSet(e.r, sfr.I2CCON, sfr.SEN) })
}

// Restart asserts a repeated START, keeping the bus.
func (e *Engine) Restart() error {
	if e.state == idle {
		return fmt.Errorf("%w: restart while idle", ErrBusState)
	}
	e.state = started
	sfr.Set(e.r, sfr.I2CCON, sfr.RSEN)
	return e.wait("restart", func() bool { return !sfr.IsSet(e.r, sfr.I2CCON, sfr.RSEN) })
}

// Send transmits one byte. The first byte after a START or a RESTART is the
// address byte; its bit 0 selects a read (1) or a write (0).
func (e *Engine) Send(b byte) error {
	if e.state == idle || e.state == reading {
		return fmt.Errorf("%w: send while %s", ErrBusState, e.state)
	}
	e.r.Store(sfr.I2CTRN, uint32(b))
	if err := e.wait("send", func() bool { return !sfr.IsSet(e.r, sfr.I2CSTAT, sfr.TRSTAT) }); err != nil {
		return err
	}
	if sfr.IsSet(e.r, sfr.I2CSTAT, sfr.ACKSTAT) {
		if e.opts.HangOnNack {
			e.hang()
		}
		return &NackError{Byte: b, Address: e.state == started}
	}
	if e.state == started {
		if b&1 != 0 {
			e.state = reading
		} else {
			e.state = writing
		}
	}
	return nil
}

// Recv clocks in one byte from the slave. It must be followed by Ack.
func (e *Engine) Recv() (byte, error) {
	if e.state != reading {
		return 0, fmt.Errorf("%w: receive while %s", ErrBusState, e.state)
	}
	sfr.Set(e.r, sfr.I2CCON, sfr.RCEN)
	if err := e.wait("receive", func() bool { return sfr.IsSet(e.r, sfr.I2CSTAT, sfr.RBF) }); err != nil {
		return 0, err
	}
	return byte(e.r.Load(sfr.I2CRCV)), nil
}

// Ack acknowledges the byte just received. Use nack=false to request more
// bytes and nack=true after the last one.
func (e *Engine) Ack(nack bool) error {
	if e.state != reading {
		return fmt.Errorf("%w: ack while %s", ErrBusState, e.state)
	}
	if nack {
		sfr.Set(e.r, sfr.I2CCON, sfr.ACKDT)
	} else {
		sfr.Clear(e.r, sfr.I2CCON, sfr.ACKDT)
	}
	sfr.Set(e.r, sfr.I2CCON, sfr.ACKEN)
	return e.wait("ack", func() bool { return !sfr.IsSet(e.r, sfr.I2CCON, sfr.ACKEN) })
}

// Stop asserts a STOP condition and releases the bus.
func (e *Engine) Stop() error {
	if e.state == idle {
		return fmt.Errorf("%w: stop while idle", ErrBusState)
	}
	e.state = idle
	sfr.Set(e.r, sfr.I2CCON, sfr.PEN)
	return e.wait("stop", func() bool { return !sfr.IsSet(e.r, sfr.I2CCON, sfr.PEN) })
}

// WriteRegister writes v to register reg of the device at addr.
//
// The transaction is START, addr+W, reg, v, STOP.
func (e *Engine) WriteRegister(addr uint16, reg, v byte) error {
	return e.Tx(addr, []byte{reg, v}, nil)
}

// ReadRegister reads register reg of the device at addr.
//
// The transaction is START, addr+W, reg, RESTART, addr+R, receive, NACK, STOP.
func (e *Engine) ReadRegister(addr uint16, reg byte) (byte, error) {
	var r [1]byte
	err := e.Tx(addr, []byte{reg}, r[:])
	return r[0], err
}

// ReadMultiple reads n consecutive registers starting at reg. Every byte but
// the last is acknowledged; the device is expected to auto-increment.
func (e *Engine) ReadMultiple(addr uint16, reg byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pic32i2c: invalid read length %d", n)
	}
	r := make([]byte, n)
	if err := e.Tx(addr, []byte{reg}, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Tx implements i2c.Bus.
//
// w is written first, then r is read after a repeated START. With both empty,
// only the address is sent, which probes for a device.
func (e *Engine) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("pic32i2c: invalid address 0x%x; 10 bit addressing is not supported", addr)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.tx(byte(addr<<1), w, r); err != nil {
		if e.state != idle {
			if err2 := e.Stop(); err2 != nil {
				return errors.Join(err, err2)
			}
		}
		return err
	}
	return nil
}

func (e *Engine) tx(a byte, w, r []byte) error {
	if err := e.Start(); err != nil {
		return err
	}
	if len(w) != 0 || len(r) == 0 {
		if err := e.Send(a); err != nil {
			return err
		}
		for _, b := range w {
			if err := e.Send(b); err != nil {
				return err
			}
		}
		if len(r) != 0 {
			if err := e.Restart(); err != nil {
				return err
			}
		}
	}
	if len(r) != 0 {
		if err := e.Send(a | 1); err != nil {
			return err
		}
		for i := range r {
			b, err := e.Recv()
			if err != nil {
				return err
			}
			r[i] = b
			if err := e.Ack(i == len(r)-1); err != nil {
				return err
			}
		}
	}
	return e.Stop()
}

// SetSpeed implements i2c.Bus.
//
// BRG = PBCLK/(2*f) - PBCLK*TPGD - 2.
func (e *Engine) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("pic32i2c: invalid speed %s", f)
	}
	pb := float64(e.opts.PeripheralClock) / float64(physic.Hertz)
	fs := float64(f) / float64(physic.Hertz)
	brg := pb/(2*fs) - pb*pulseGobblerDelay.Seconds() - 2
	if brg < 2 || brg > 0xFFF {
		return fmt.Errorf("pic32i2c: speed %s is out of range for PBCLK %s", f, e.opts.PeripheralClock)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.BRG = uint16(brg)
	e.r.Store(sfr.I2CBRG, uint32(e.opts.BRG))
	return nil
}

// Halt implements conn.Resource. There is no pending operation to abort.
func (e *Engine) Halt() error {
	return nil
}

// Close turns the module off.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sfr.Clear(e.r, sfr.I2CCON, sfr.ON)
	e.state = idle
	return nil
}

func (e *Engine) wait(op string, done func() bool) error {
	if done() {
		return nil
	}
	if e.opts.Timeout <= 0 {
		for !done() {
		}
		return nil
	}
	end := time.Now().Add(e.opts.Timeout)
	for !done() {
		if time.Now().After(end) {
			return &TimeoutError{Op: op, Timeout: e.opts.Timeout}
		}
	}
	return nil
}

var _ i2c.BusCloser = &Engine{}
