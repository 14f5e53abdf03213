// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termscreen implements a 2D display.Drawer that outputs to the
// terminal using ANSI color codes.
//
// It shows what a panel would, one character cell per pixel, so drawing code
// can be tried without the lab board.
package termscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	X, Y    int
	Palette *ansi256.Palette
	// W receives the output. Defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	img     *image.NRGBA
	drawn   bool
	buf     bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.X <= 0 || opts.Y <= 0 {
		return nil, fmt.Errorf("termscreen: invalid size %dx%d", opts.X, opts.Y)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		palette: *p,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.X, opts.Y)),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermScreen{%dx%d}", d.img.Rect.Dx(), d.img.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a stream of raw RGB pixels, row by row, and writes it to the
// console.
func (d *Dev) Write(pixels []byte) (int, error) {
	n := d.img.Rect.Dx() * d.img.Rect.Dy()
	if len(pixels) != 3*n {
		return 0, errors.New("termscreen: invalid RGB stream length")
	}
	for i := 0; i < n; i++ {
		copy(d.img.Pix[4*i:], pixels[3*i:3*i+3])
		d.img.Pix[4*i+3] = 255
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.refresh()
}

// At returns the color shown at (x, y).
func (d *Dev) At(x, y int) color.Color {
	return d.img.At(x, y)
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	if d.drawn {
		// Redraw in place.
		fmt.Fprintf(&d.buf, "\033[%dA", d.img.Rect.Dy())
	}
	for y := d.img.Rect.Min.Y; y < d.img.Rect.Max.Y; y++ {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := d.img.Rect.Min.X; x < d.img.Rect.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.img.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
