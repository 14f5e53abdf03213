// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pic32i2c

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoDevice matches a *NackError on an address byte: no slave answered.
var ErrNoDevice = errors.New("pic32i2c: no such device")

// ErrBusState is returned when a primitive is called out of order, for
// example Recv on a write transaction or Start while the bus is held.
var ErrBusState = errors.New("pic32i2c: invalid bus state")

// NackError is returned when the slave did not acknowledge a byte.
type NackError struct {
	// Byte is the value that was not acknowledged.
	Byte byte
	// Address is true when Byte was the address byte of a transaction.
	Address bool
}

func (e *NackError) Error() string {
	if e.Address {
		return fmt.Sprintf("pic32i2c: no ACK for address 0x%02x", e.Byte>>1)
	}
	return fmt.Sprintf("pic32i2c: no ACK for byte 0x%02x", e.Byte)
}

// Is lets errors.Is(err, ErrNoDevice) match address NACKs.
func (e *NackError) Is(target error) bool {
	return target == ErrNoDevice && e.Address
}

// TimeoutError is returned when a status bit did not settle in time.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pic32i2c: %s did not complete within %s", e.Op, e.Timeout)
}
