// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lsm6ds33

import "fmt"

// WrongDeviceError is returned when WHO_AM_I does not identify a LSM6DS33.
type WrongDeviceError struct {
	Got byte
}

func (e *WrongDeviceError) Error() string {
	return fmt.Sprintf("lsm6ds33: unexpected WHO_AM_I 0x%02x; expected 0x%02x", e.Got, chipID)
}
