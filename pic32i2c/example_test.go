// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pic32i2c_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/GermanBionicSystems/pic32lab/pic32i2c"
	"github.com/GermanBionicSystems/pic32lab/pic32i2c/i2csim"
	"github.com/GermanBionicSystems/pic32lab/sfr"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	regs, err := sfr.Map(sfr.I2C1Base)
	if err != nil {
		log.Fatal(err)
	}
	defer regs.Close()

	bus := pic32i2c.New(regs, nil)
	if err := bus.Setup(); err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	// Drive GPA7 of a MCP23017 high.
	if err := bus.WriteRegister(0x20, 0x00, 0x7F); err != nil {
		log.Fatal(err)
	}
	if err := bus.WriteRegister(0x20, 0x14, 0x80); err != nil {
		log.Fatal(err)
	}
}

func ExampleEngine_ReadMultiple() {
	sim := i2csim.New(nil)
	sim.Attach(0x6B, i2csim.NewRegisters(map[byte]byte{0x20: 0x50, 0x21: 0x00}))
	bus := pic32i2c.New(sim, nil)
	if err := bus.Setup(); err != nil {
		log.Fatal(err)
	}
	b, err := bus.ReadMultiple(0x6B, 0x20, 2)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", b)
	var events []string
	for _, e := range sim.Events() {
		events = append(events, e.String())
	}
	fmt.Println(strings.Join(events, " "))
	// Output:
	// 50 00
	// START WRITE(0xd6) WRITE(0x20) RESTART WRITE(0xd7) READ(0x50) ACK READ(0x00) NACK STOP
}
