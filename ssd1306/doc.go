// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls the 128x32 monochrome OLED modules of the PIC32
// lab boards via their SSD1306 controller over I²C.
//
// Drawing happens in a Frame kept in memory: pixels, 5x8 letters and
// messages, or anything image/draw can render. Update sends the whole frame
// to the display, 512 bytes in a single data transaction.
//
// Every command byte goes in its own I²C transaction, each prefixed with the
// command control byte. The controller keeps its command decoder state across
// STOP conditions so multi byte commands work this way.
//
// The bus is any periph.io i2c.Bus. On a PIC32 it is the register level
// polling master of package pic32i2c.
//
// # Datasheets
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
//
// Adafruit "Monochrome 128x32 I2C OLED graphic display"
//
// https://www.adafruit.com/product/931
package ssd1306
