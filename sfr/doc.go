// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sfr is a small typed layer over PIC32 special function registers.
//
// Protocol code manipulates a File instead of raw memory, so the same code
// runs against mapped hardware (Map) or a simulated register file.
//
// # Datasheets
//
// PIC32MX1XX/2XX family, section 19 (Inter-Integrated Circuit):
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/PIC32MX1XX2XX283644-PIN_Datasheet_DS60001168L.pdf
package sfr
