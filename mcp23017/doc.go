// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23017 drives the Microchip MCP23017 16-bit I²C GPIO expander.
//
// The chip is used with IOCON.BANK cleared, its power on default, where the A
// and B registers of each function are paired.
//
// Ports can be driven a byte at a time through Dev, or per pin through the
// gpio.PinIO values in Dev.Pins.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/devicedoc/20001952c.pdf
package mcp23017
