// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import "periph.io/x/conn/v3/i2c"

// Register addresses with IOCON.BANK = 0. Add 1 for port B.
const (
	regIODIR = 0x00
	regIPOL  = 0x02
	regGPPU  = 0x0C
	regGPIO  = 0x12
	regOLAT  = 0x14
)

// register is one 8 bit register of a port, optionally cached so read,
// modify, write cycles cost a single transaction.
type register struct {
	c     *i2c.Dev
	addr  byte
	valid bool
	cache byte
}

func (r *register) read(cached bool) (byte, error) {
	if cached && r.valid {
		return r.cache, nil
	}
	var rx [1]byte
	if err := r.c.Tx([]byte{r.addr}, rx[:]); err != nil {
		return 0, err
	}
	r.valid = true
	r.cache = rx[0]
	return rx[0], nil
}

func (r *register) write(v byte, cached bool) error {
	if cached && r.valid && v == r.cache {
		return nil
	}
	if err := r.c.Tx([]byte{r.addr, v}, nil); err != nil {
		return err
	}
	r.valid = true
	r.cache = v
	return nil
}

func (r *register) setBits(mask byte, set bool, cached bool) error {
	v, err := r.read(cached)
	if err != nil {
		return err
	}
	if set {
		v |= mask
	} else {
		v &^= mask
	}
	return r.write(v, cached)
}

func (r *register) bit(n uint8, cached bool) (bool, error) {
	v, err := r.read(cached)
	return v&(1<<n) != 0, err
}
