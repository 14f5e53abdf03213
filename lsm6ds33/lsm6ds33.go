// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lsm6ds33

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	regWhoAmI   = 0x0F
	regCtrl1XL  = 0x10
	regCtrl2G   = 0x11
	regCtrl3C   = 0x12
	regOutTempL = 0x20

	chipID     = 0x69
	sampleSize = 14
)

// DefaultAddr is the address with SA0 high.
const DefaultAddr = 0x6B

// DefaultOpts runs both sensors at 1.66kHz, the accelerometer at ±2g with a
// 100Hz filter and the gyroscope at ±1000dps.
var DefaultOpts = Opts{
	Addr:  DefaultAddr,
	Accel: 0x82,
	Gyro:  0x88,
}

// Opts holds the configuration of the sensor.
type Opts struct {
	Addr uint16
	// Accel is written to CTRL1_XL: ODR_XL[7:4], FS_XL[3:2], BW_XL[1:0].
	Accel byte
	// Gyro is written to CTRL2_G: ODR_G[7:4], FS_G[3:2].
	Gyro byte
}

// Sample is one reading, in raw sensor counts.
type Sample struct {
	// Temp is 16 counts per °C, 0 being 25°C.
	Temp  int16
	Gyro  [3]int16
	Accel [3]int16
}

// Temperature converts Temp.
func (s *Sample) Temperature() physic.Temperature {
	return physic.ZeroCelsius + 25*physic.Kelvin + physic.Temperature(s.Temp)*physic.Kelvin/16
}

// Decode parses the output registers from OUT_TEMP_L to OUTZ_H_XL. Each value
// is little endian.
func Decode(raw []byte) (Sample, error) {
	var s Sample
	if len(raw) != sampleSize {
		return s, fmt.Errorf("lsm6ds33: expected %d bytes, got %d", sampleSize, len(raw))
	}
	var v [7]int16
	for i := range v {
		v[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	s.Temp = v[0]
	copy(s.Gyro[:], v[1:4])
	copy(s.Accel[:], v[4:7])
	return s, nil
}

// Dev is a handle to a LSM6DS33.
type Dev struct {
	c    i2c.Dev
	opts Opts
}

// NewI2C checks the chip identity and configures both sensors.
//
// opts can be nil to use DefaultOpts.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{opts: *opts}
	if d.opts.Addr == 0 {
		d.opts.Addr = DefaultAddr
	}
	d.c = i2c.Dev{Bus: b, Addr: d.opts.Addr}
	var id [1]byte
	if err := d.c.Tx([]byte{regWhoAmI}, id[:]); err != nil {
		return nil, fmt.Errorf("lsm6ds33: %w", err)
	}
	if id[0] != chipID {
		return nil, &WrongDeviceError{Got: id[0]}
	}
	config := [][]byte{
		{regCtrl1XL, d.opts.Accel},
		{regCtrl2G, d.opts.Gyro},
		{regCtrl3C, 0x04}, // IF_INC
	}
	for _, w := range config {
		if err := d.c.Tx(w, nil); err != nil {
			return nil, fmt.Errorf("lsm6ds33: %w", err)
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("lsm6ds33.Dev{%s}", &d.c)
}

// Sense reads a sample.
func (d *Dev) Sense() (Sample, error) {
	var raw [sampleSize]byte
	if err := d.c.Tx([]byte{regOutTempL}, raw[:]); err != nil {
		return Sample{}, fmt.Errorf("lsm6ds33: %w", err)
	}
	return Decode(raw[:])
}

// Halt powers both sensors down.
func (d *Dev) Halt() error {
	for _, reg := range []byte{regCtrl1XL, regCtrl2G} {
		if err := d.c.Tx([]byte{reg, 0x00}, nil); err != nil {
			return fmt.Errorf("lsm6ds33: %w", err)
		}
	}
	return nil
}
