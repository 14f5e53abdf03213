// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"image"
	"image/color"
)

// Bit is a monochrome pixel.
type Bit bool

// Pixel values.
const (
	On  Bit = true
	Off Bit = false
)

// RGBA implements color.Color.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 65535, 65535, 65535, 65535
	}
	return 0, 0, 0, 65535
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// BitModel converts colors to Bit using their luminance.
var BitModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Same weights as color.GrayModel.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return Bit(y >= 0x8000)
}

// Frame is the display memory of a 128x32 panel.
//
// It is organized as 4 pages of 8 rows. Byte x+page*Width holds column x of
// the page, bit y%8 being row y. This is the order in which the controller
// expects the pixels.
type Frame [Width * Height / 8]byte

// SetBit sets the pixel at (x, y). Coordinates outside the panel are ignored.
func (f *Frame) SetBit(x, y int, b Bit) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := x + y/8*Width
	m := byte(1) << uint(y&7)
	if b {
		f[i] |= m
	} else {
		f[i] &^= m
	}
}

// BitAt returns the pixel at (x, y), Off outside the panel.
func (f *Frame) BitAt(x, y int) Bit {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Off
	}
	return f[x+y/8*Width]&(1<<uint(y&7)) != 0
}

// Clear turns all the pixels off.
func (f *Frame) Clear() {
	*f = Frame{}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetBit(x, y, convert(c).(Bit))
}
