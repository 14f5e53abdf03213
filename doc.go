// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pic32lab is a container for the PIC32 lab board drivers.
//
// pic32i2c is a polling I²C master on the PIC32 I²C module registers. It
// implements the periph.io i2c.Bus interface so the device drivers here,
// ssd1306, mcp23017 and lsm6ds33, run on it or on any other periph bus.
// pic32i2c/i2csim simulates the module and the lab board devices.
package pic32lab
