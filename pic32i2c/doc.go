// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pic32i2c drives the PIC32 I²C module in master mode by polling its
// registers, without interrupts.
//
// The Engine exposes the bus primitives (start, restart, send, receive,
// acknowledge, stop) and the usual register helpers. It also implements
// i2c.Bus so any periph I²C device driver can run on it.
//
// Every primitive blocks until the peripheral reports completion. Polling is
// bounded by Opts.Timeout; a slave that does not acknowledge a byte yields a
// *NackError. Opts.HangOnNack restores the behavior of the original lab
// firmware, which spins forever on a NACK.
//
// # Wiring
//
// Both SDA and SCL need pull-up resistors, 2kΩ to 10kΩ.
package pic32i2c
