// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termscreen

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestNew(t *testing.T) {
	if _, err := New(&Opts{X: 0, Y: 4}); err == nil {
		t.Fatal("expected an error for an empty screen")
	}
	d, err := New(&Opts{X: 4, Y: 2, W: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "TermScreen{4x2}" {
		t.Errorf("String() = %q", s)
	}
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d, err := New(&Opts{X: 4, Y: 2, W: &out})
	if err != nil {
		t.Fatal(err)
	}
	white := color.NRGBA{255, 255, 255, 255}
	if err := d.Draw(image.Rect(1, 0, 2, 2), image.NewUniform(white), image.Point{}); err != nil {
		t.Fatal(err)
	}
	if got := d.At(1, 1); got != white {
		t.Errorf("At(1, 1) = %v", got)
	}
	if got := d.At(0, 0); got != (color.NRGBA{}) {
		t.Errorf("At(0, 0) = %v", got)
	}
	first := out.String()
	if n := strings.Count(first, "\n"); n != 2 {
		t.Errorf("%d lines, want 2", n)
	}
	if !strings.Contains(first, ansi256.Default.Block(white)) {
		t.Error("white pixel not rendered")
	}
	out.Reset()
	if err := d.Draw(d.Bounds(), image.NewUniform(white), image.Point{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[2A") {
		t.Error("second frame not drawn in place")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestWrite(t *testing.T) {
	d, err := New(&Opts{X: 2, Y: 1, W: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a short stream")
	}
	n, err := d.Write([]byte{1, 2, 3, 4, 5, 6})
	if err != nil || n != 6 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if got := d.At(1, 0); got != (color.NRGBA{4, 5, 6, 255}) {
		t.Errorf("At(1, 0) = %v", got)
	}
}
