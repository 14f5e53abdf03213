// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lsm6ds33 reads the ST LSM6DS33 accelerometer and gyroscope over I²C.
//
// A sample is read in a single burst of 14 bytes starting at OUT_TEMP_L, the
// register address auto incrementing between bytes.
//
// # Datasheet
//
// https://www.pololu.com/file/0J1087/LSM6DS33.pdf
package lsm6ds33
