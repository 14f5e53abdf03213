// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sfr

import (
	"fmt"
	"sync"

	"periph.io/x/host/v3/pmem"
)

// Reg names one register of an I²C peripheral block.
//
// The value is the byte offset of the register from the start of the block.
type Reg uint16

// I²C module registers. Each one is followed by its CLR, SET and INV aliases
// at +4, +8 and +C.
const (
	I2CCON  Reg = 0x00
	I2CSTAT Reg = 0x10
	I2CADD  Reg = 0x20
	I2CMSK  Reg = 0x30
	I2CBRG  Reg = 0x40
	I2CTRN  Reg = 0x50
	I2CRCV  Reg = 0x60

	// blockSize covers I2CRCV and its aliases.
	blockSize = 0x70
)

// I2CxCON bits.
const (
	SEN   uint32 = 1 << 0 // Start condition enable
	RSEN  uint32 = 1 << 1 // Repeated start condition enable
	PEN   uint32 = 1 << 2 // Stop condition enable
	RCEN  uint32 = 1 << 3 // Receive enable
	ACKEN uint32 = 1 << 4 // Acknowledge sequence enable
	ACKDT uint32 = 1 << 5 // Acknowledge data bit; 1 is NACK
	ON    uint32 = 1 << 15
)

// I2CxSTAT bits.
const (
	TBF     uint32 = 1 << 0 // Transmit buffer full
	RBF     uint32 = 1 << 1 // Receive buffer full
	I2COV   uint32 = 1 << 6 // Receive overflow
	IWCOL   uint32 = 1 << 7 // Write collision
	BCL     uint32 = 1 << 10
	TRSTAT  uint32 = 1 << 14 // Master transmit in progress
	ACKSTAT uint32 = 1 << 15 // Slave did not acknowledge
)

// Physical base addresses of the I²C blocks on PIC32MX1xx/2xx.
const (
	I2C1Base uint64 = 0x1F805000
	I2C2Base uint64 = 0x1F805100
)

// File is a register file.
//
// Load and Store access the whole 32 bit register. Implementations that model
// hardware react to Store the way the peripheral would.
type File interface {
	Load(r Reg) uint32
	Store(r Reg, v uint32)
}

// Set sets the bits in mask with a read-modify-write cycle.
func Set(f File, r Reg, mask uint32) {
	f.Store(r, f.Load(r)|mask)
}

// Clear clears the bits in mask with a read-modify-write cycle.
func Clear(f File, r Reg, mask uint32) {
	f.Store(r, f.Load(r)&^mask)
}

// IsSet returns true if any bit of mask is set in r.
func IsSet(f File, r Reg, mask uint32) bool {
	return f.Load(r)&mask != 0
}

// Words is a register file backed by plain memory. It has no side effects and
// is mostly useful to inspect what a driver wrote.
type Words struct {
	mu sync.Mutex
	w  [blockSize / 4]uint32
}

// Load implements File.
func (w *Words) Load(r Reg) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w[r/4]
}

// Store implements File.
func (w *Words) Store(r Reg, v uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.w[r/4] = v
}

// Mapped is a register file mapped from physical memory.
type Mapped struct {
	base uint64
	view *pmem.View
	w    []uint32
}

// Map maps the I²C block at physical address base, typically I2C1Base or
// I2C2Base. It requires access to /dev/mem.
func Map(base uint64) (*Mapped, error) {
	v, err := pmem.Map(base, blockSize)
	if err != nil {
		return nil, fmt.Errorf("sfr: failed to map 0x%08x: %w", base, err)
	}
	return &Mapped{base: base, view: v, w: v.Uint32()}, nil
}

func (m *Mapped) String() string {
	return fmt.Sprintf("sfr.Mapped{0x%08x}", m.base)
}

// Load implements File.
func (m *Mapped) Load(r Reg) uint32 {
	return m.w[r/4]
}

// Store implements File.
func (m *Mapped) Store(r Reg, v uint32) {
	m.w[r/4] = v
}

// Close unmaps the memory.
func (m *Mapped) Close() error {
	m.w = nil
	return m.view.Close()
}

var _ File = &Words{}
var _ File = &Mapped{}
