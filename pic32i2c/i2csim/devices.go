// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2csim

import (
	"image"
	"image/color"
	"sync"
)

// Registers is a device exposing 256 byte wide registers.
//
// The first byte written after the address selects the register; following
// writes and reads auto-increment the register pointer, like most sensors and
// GPIO expanders.
type Registers struct {
	mu      sync.Mutex
	regs    [256]byte
	ptr     byte
	pointer bool
}

// NewRegisters returns a device with the initial register values init.
func NewRegisters(init map[byte]byte) *Registers {
	r := &Registers{}
	for k, v := range init {
		r.regs[k] = v
	}
	return r
}

// Get returns the value of register reg.
func (r *Registers) Get(reg byte) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs[reg]
}

// Set changes the value of register reg.
func (r *Registers) Set(reg, v byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs[reg] = v
}

// Begin implements Device.
func (r *Registers) Begin(read bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer = !read
	return true
}

// Write implements Device.
func (r *Registers) Write(b byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pointer {
		r.ptr = b
		r.pointer = false
		return true
	}
	r.regs[r.ptr] = b
	r.ptr++
	return true
}

// Read implements Device.
func (r *Registers) Read() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.regs[r.ptr]
	r.ptr++
	return b
}

// End implements Device.
func (r *Registers) End() {}

// SSD1306 commands the panel decodes. Others are recorded and their
// parameters skipped.
const (
	cmdMemoryMode  = 0x20
	cmdColumnAddr  = 0x21
	cmdPageAddr    = 0x22
	cmdContrast    = 0x81
	cmdNormal      = 0xA6
	cmdInvert      = 0xA7
	cmdMultiplex   = 0xA8
	cmdDisplayOff  = 0xAE
	cmdDisplayOn   = 0xAF
	panelWidth     = 128
	panelPages     = 8
	controlDataBit = 0x40
)

// commandParams is the number of parameter bytes following each opcode.
var commandParams = map[byte]int{
	cmdMemoryMode: 1,
	cmdColumnAddr: 2,
	cmdPageAddr:   2,
	0x26:          6, // Right horizontal scroll
	0x27:          6, // Left horizontal scroll
	0x29:          5, // Vertical and right scroll
	0x2A:          5, // Vertical and left scroll
	cmdContrast:   1,
	0x8D:          1, // Charge pump
	0xA3:          2, // Vertical scroll area
	cmdMultiplex:  1,
	0xD3:          1, // Display offset
	0xD5:          1, // Clock divide
	0xD9:          1, // Precharge
	0xDA:          1, // COM pins
	0xDB:          1, // VCOMH deselect
}

// Panel simulates a SSD1306 OLED controller in horizontal addressing mode.
//
// Command parameters may arrive in separate transactions, as the controller
// keeps its decoder state across STOP conditions.
type Panel struct {
	mu  sync.Mutex
	ram [panelPages * panelWidth]byte

	on       bool
	inverted bool
	contrast byte
	rows     int

	colStart, colEnd, col    int
	pageStart, pageEnd, page int

	control  bool // Next byte is a control byte.
	data     bool
	cmd      []byte
	expected int
	commands []byte
}

// NewPanel returns a panel in its power on reset state.
func NewPanel() *Panel {
	return &Panel{
		contrast: 0x7F,
		rows:     64,
		colEnd:   panelWidth - 1,
		pageEnd:  panelPages - 1,
	}
}

// Begin implements Device.
func (p *Panel) Begin(read bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.control = !read
	return true
}

// Write implements Device.
func (p *Panel) Write(b byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.control {
		p.control = false
		p.data = b&controlDataBit != 0
		return true
	}
	if p.data {
		p.ram[p.page*panelWidth+p.col] = b
		if p.col++; p.col > p.colEnd {
			p.col = p.colStart
			if p.page++; p.page > p.pageEnd {
				p.page = p.pageStart
			}
		}
		return true
	}
	p.command(b)
	return true
}

func (p *Panel) command(b byte) {
	p.commands = append(p.commands, b)
	if p.expected == 0 {
		p.cmd = append(p.cmd[:0], b)
		p.expected = commandParams[b]
	} else {
		p.cmd = append(p.cmd, b)
		p.expected--
	}
	if p.expected != 0 {
		return
	}
	switch p.cmd[0] {
	case cmdDisplayOff:
		p.on = false
	case cmdDisplayOn:
		p.on = true
	case cmdNormal:
		p.inverted = false
	case cmdInvert:
		p.inverted = true
	case cmdContrast:
		p.contrast = p.cmd[1]
	case cmdMultiplex:
		p.rows = int(p.cmd[1]&0x3F) + 1
	case cmdColumnAddr:
		p.colStart, p.colEnd = int(p.cmd[1]&0x7F), int(p.cmd[2]&0x7F)
		p.col = p.colStart
	case cmdPageAddr:
		p.pageStart, p.pageEnd = int(p.cmd[1]&7), int(p.cmd[2]&7)
		p.page = p.pageStart
	}
}

// Read implements Device. It returns the status byte: bit 6 is set while the
// display is off and the low bits identify a 128x32 panel.
func (p *Panel) Read() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.on {
		return 0x03
	}
	return 0x43
}

// End implements Device.
func (p *Panel) End() {}

// On reports whether the display is on.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Contrast returns the last contrast set.
func (p *Panel) Contrast() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.contrast
}

// Commands returns every command and parameter byte received so far.
func (p *Panel) Commands() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.commands...)
}

// RAM returns a copy of the pages shown with the current multiplex ratio.
func (p *Panel) RAM() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := (p.rows + 7) / 8 * panelWidth
	return append([]byte(nil), p.ram[:n]...)
}

// Image renders what the panel shows. Lit pixels are white.
func (p *Panel) Image() *image.Gray {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := image.NewGray(image.Rect(0, 0, panelWidth, p.rows))
	if !p.on {
		return img
	}
	for y := 0; y < p.rows; y++ {
		for x := 0; x < panelWidth; x++ {
			lit := p.ram[x+y/8*panelWidth]&(1<<uint(y&7)) != 0
			if lit != p.inverted {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

var _ Device = &Registers{}
var _ Device = &Panel{}
