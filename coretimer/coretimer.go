// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package coretimer provides the tick counter used for fixed delays.
//
// On a PIC32 the CP0 core timer increments at half the system clock, 24MHz
// for the usual 48MHz configuration. Drivers wait on a Counter so that the
// delay can be reproduced on a host or faked in tests.
package coretimer

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Frequency is the core timer rate with a 48MHz SYSCLK.
const Frequency = 24 * physic.MegaHertz

// Counter is a free running tick counter.
type Counter interface {
	// Count returns the ticks elapsed since the last Reset. It wraps around.
	Count() uint32
	// Reset sets the count back to 0.
	Reset()
}

// Ticks converts d to core timer ticks.
func Ticks(d time.Duration) uint32 {
	return uint32(int64(d) * int64(Frequency/physic.Hertz) / int64(time.Second))
}

// Delay resets c and busy waits until d has elapsed.
func Delay(c Counter, d time.Duration) {
	n := Ticks(d)
	c.Reset()
	for c.Count() < n {
	}
}

// Host is a Counter derived from the host monotonic clock.
type Host struct {
	mu    sync.Mutex
	start time.Time
}

// Count implements Counter.
func (h *Host) Count() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.start.IsZero() {
		h.start = time.Now()
	}
	return Ticks(time.Since(h.start))
}

// Reset implements Counter.
func (h *Host) Reset() {
	h.mu.Lock()
	h.start = time.Now()
	h.mu.Unlock()
}

// Step is a deterministic Counter that advances by Inc on every Count call.
type Step struct {
	Inc   uint32
	count uint32
	// Calls is the number of times Count was called.
	Calls int
}

// Count implements Counter.
func (s *Step) Count() uint32 {
	s.Calls++
	s.count += s.Inc
	return s.count
}

// Reset implements Counter.
func (s *Step) Reset() {
	s.count = 0
}

var _ Counter = &Host{}
var _ Counter = &Step{}
