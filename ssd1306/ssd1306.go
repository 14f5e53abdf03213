// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// The SSD1306 is an OLED controller. This driver handles the 128x32 I²C
// modules used in the PIC32 labs.
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/GermanBionicSystems/pic32lab/coretimer"
	"github.com/GermanBionicSystems/pic32lab/ssd1306/font5x8"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

const (
	_CHARGEPUMP         = 0x8D
	_COLUMNADDR         = 0x21
	_COMSCANDEC         = 0xC8
	_COMSCANINC         = 0xC0
	_DEACTIVATE_SCROLL  = 0x2E
	_DISPLAYOFF         = 0xAE
	_DISPLAYON          = 0xAF
	_INVERTDISPLAY      = 0xA7
	_MEMORYMODE         = 0x20
	_NORMALDISPLAY      = 0xA6
	_PAGEADDR           = 0x22
	_SEGREMAP           = 0xA0
	_SETCOMPINS         = 0xDA
	_SETCONTRAST        = 0x81
	_SETDISPLAYCLOCKDIV = 0xD5
	_SETDISPLAYOFFSET   = 0xD3
	_SETMULTIPLEX       = 0xA8
	_SETPRECHARGE       = 0xD9
	_SETSTARTLINE       = 0x40
	_SETVCOMDETECT      = 0xDB
)

// Panel size.
const (
	Width  = 128
	Height = 32
)

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left  Orientation = 0x27
	Right Orientation = 0x26
)

// DefaultOpts is the configuration of the lab modules.
var DefaultOpts = Opts{
	Addr:     0x3C,
	Contrast: 0x8F,
	Settle:   20 * time.Millisecond,
}

// Opts defines the options for the device.
type Opts struct {
	// The I²C address of the display.
	Addr uint16
	// Contrast is written during Setup.
	Contrast byte
	// MirrorVertical selects the COM scan direction. Try toggling this if the
	// display is flipped vertically.
	MirrorVertical bool
	// MirrorHorizontal selects the segment remap. Try toggling this if the
	// display is flipped horizontally.
	MirrorHorizontal bool
	// Settle is the power up delay before the first command. 0 skips it.
	Settle time.Duration
	// Counter times the settle delay. Defaults to the host clock.
	Counter coretimer.Counter
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 display
// controller. The display is initialized and cleared.
//
// opts can be nil to use DefaultOpts.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0x00 {
		o.Addr = DefaultOpts.Addr
	}
	if o.Counter == nil {
		o.Counter = &coretimer.Host{}
	}
	d := &Dev{c: &i2c.Dev{Bus: b, Addr: o.Addr}, opts: o}
	if err := d.Setup(); err != nil {
		return nil, err
	}
	return d, nil
}

// Dev is an open handle to the display controller.
//
// Drawing methods only change the frame in memory; Update sends it.
type Dev struct {
	c      conn.Conn
	opts   Opts
	frame  Frame
	halted bool
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.c, d.frame.Bounds().Max)
}

// Setup waits for the controller to power up, configures it, then clears the
// display.
//
// Every command and parameter byte is sent in its own transaction.
func (d *Dev) Setup() error {
	if d.opts.Settle > 0 {
		coretimer.Delay(d.opts.Counter, d.opts.Settle)
	}
	for _, c := range initCommands(&d.opts) {
		if err := d.Command(c); err != nil {
			return fmt.Errorf("ssd1306: setup failed: %w", err)
		}
	}
	d.Clear()
	return d.Update()
}

func initCommands(opts *Opts) []byte {
	segRemap := byte(_SEGREMAP | 0x01)
	if opts.MirrorHorizontal {
		segRemap = _SEGREMAP
	}
	comScan := byte(_COMSCANDEC)
	if opts.MirrorVertical {
		comScan = _COMSCANINC
	}
	return []byte{
		_DISPLAYOFF,
		_SETDISPLAYCLOCKDIV, 0x80, // Power on reset value
		_SETMULTIPLEX, Height - 1,
		_SETDISPLAYOFFSET, 0x00,
		_SETSTARTLINE,
		_CHARGEPUMP, 0x14, // Enable charge pump regulator; page 62
		_MEMORYMODE, 0x00, // Horizontal addressing
		segRemap,
		comScan,
		_SETCOMPINS, 0x02, // Sequential COM pins, needed for 32 rows
		_SETCONTRAST, opts.Contrast,
		_SETPRECHARGE, 0xF1,
		_SETVCOMDETECT, 0x40,
		_DISPLAYON,
	}
}

// Command sends a single command or parameter byte.
func (d *Dev) Command(c byte) error {
	if d.halted {
		// Transparently enable the display.
		d.halted = false
		if err := d.c.Tx([]byte{i2cCmd, _DISPLAYON}, nil); err != nil {
			return err
		}
	}
	return d.c.Tx([]byte{i2cCmd, c}, nil)
}

func (d *Dev) commands(c ...byte) error {
	for _, b := range c {
		if err := d.Command(b); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the frame being drawn. It can be used with image/draw and
// golang.org/x/image/font; call Update afterward.
func (d *Dev) Frame() *Frame {
	return &d.frame
}

// DrawPixel sets the pixel at (x, y). Coordinates outside the display are
// ignored.
func (d *Dev) DrawPixel(x, y int, c Bit) {
	d.frame.SetBit(x, y, c)
}

// Pixel returns the pixel at (x, y) in the frame.
func (d *Dev) Pixel(x, y int) Bit {
	return d.frame.BitAt(x, y)
}

// Clear turns every pixel of the frame off.
func (d *Dev) Clear() {
	d.frame.Clear()
}

// DrawLetter draws the glyph of c with its top left corner at (x, y). Both
// lit and unlit pixels of the 5x8 cell are written.
func (d *Dev) DrawLetter(x, y int, c byte) {
	g := font5x8.Glyph(c)
	for i, col := range g {
		for k := 0; k < font5x8.Height; k++ {
			d.frame.SetBit(x+i, y+k, col&(1<<uint(k)) != 0)
		}
	}
}

// DrawMessage draws s starting at (x, y), one glyph every 5 pixels.
//
// When the next glyph would reach the right edge, drawing continues at the
// start of the next text line, 8 pixels lower.
func (d *Dev) DrawMessage(x, y int, s string) {
	for i := 0; i < len(s); i++ {
		d.DrawLetter(x, y, s[i])
		x += font5x8.Width
		if x+font5x8.Width >= Width {
			x = 0
			y += font5x8.Height
		}
	}
}

// Update sends the whole frame to the display.
//
// The address window is reset to the full display with single byte command
// transactions, then the 512 bytes of pixels go in one data transaction.
func (d *Dev) Update() error {
	if err := d.commands(_PAGEADDR, 0, 0xFF, _COLUMNADDR, 0, Width-1); err != nil {
		return err
	}
	return d.sendData(d.frame[:])
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer.
//
// It draws synchronously, once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(&d.frame, r, src, sp)
	return d.Update()
}

// Write writes a buffer of pixels to the display.
//
// The format is the one of Frame: horizontal bands of 8 pixels high, one byte
// per column.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.frame) {
		return 0, fmt.Errorf("ssd1306: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.frame), len(pixels))
	}
	copy(d.frame[:], pixels)
	if err := d.Update(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Scroll scrolls an horizontal band.
//
// Only one scrolling operation can happen at a time.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	if endLine == -1 {
		endLine = Height
	}
	if startLine >= endLine {
		return fmt.Errorf("ssd1306: startLine (%d) must be lower than endLine (%d)", startLine, endLine)
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= Height {
		return fmt.Errorf("ssd1306: invalid startLine %d", startLine)
	}
	if endLine&7 != 0 || endLine < 0 || endLine > Height {
		return fmt.Errorf("ssd1306: invalid endLine %d", endLine)
	}
	if o != Left && o != Right {
		return fmt.Errorf("ssd1306: invalid orientation 0x%02x", byte(o))
	}
	startPage := byte(startLine / 8)
	endPage := byte(endLine / 8)
	// page 28
	// <op>, dummy, <start page>, <rate>,  <end page>, <dummy>, <dummy>, <ENABLE>
	return d.commands(byte(o), 0x00, startPage, byte(rate), endPage-1, 0x00, 0xFF, 0x2F)
}

// StopScroll stops any scrolling previously set. The frame must be sent
// again with Update.
func (d *Dev) StopScroll() error {
	return d.Command(_DEACTIVATE_SCROLL)
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) error {
	return d.commands(_SETCONTRAST, level)
}

// Halt turns off the display.
//
// Sending any other command afterward reenables the display.
func (d *Dev) Halt() error {
	d.halted = false
	err := d.Command(_DISPLAYOFF)
	if err == nil {
		d.halted = true
	}
	return err
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	if blackOnWhite {
		return d.Command(_INVERTDISPLAY)
	}
	return d.Command(_NORMALDISPLAY)
}

func (d *Dev) sendData(c []byte) error {
	return d.c.Tx(append([]byte{i2cData}, c...), nil)
}

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)

var _ display.Drawer = &Dev{}
