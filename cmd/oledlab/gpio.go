// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/pic32lab/mcp23017"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
)

func newGPIOCmd(a *app) *cobra.Command {
	var (
		addr     uint16
		count    int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "gpio",
		Short: "Light the LED on GPA7 while the button on GPB0 is pressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := mcp23017.NewI2C(a.s.bus, addr)
			if err != nil {
				return err
			}
			led := d.Pins[mcp23017.A][7]
			button := d.Pins[mcp23017.B][0]
			if err := button.In(gpio.PullUp, gpio.NoEdge); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				if i != 0 {
					time.Sleep(interval)
				}
				// The button pulls the pin low.
				pressed := button.Read() == gpio.Low
				if err := led.Out(gpio.Level(pressed)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pressed=%t\n", pressed)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&addr, "addr", mcp23017.DefaultAddr, "expander address")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of polls")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "time between polls")
	return cmd
}
