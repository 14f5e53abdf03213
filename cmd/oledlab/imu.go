// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/pic32lab/lsm6ds33"
	"github.com/GermanBionicSystems/pic32lab/ssd1306"
	"github.com/spf13/cobra"
)

func newIMUCmd(a *app) *cobra.Command {
	var (
		count    int
		interval time.Duration
		text     bool
	)
	cmd := &cobra.Command{
		Use:   "imu",
		Short: "Show the IMU tilt or readings on the OLED",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			imu, err := lsm6ds33.NewI2C(a.s.bus, nil)
			if err != nil {
				return err
			}
			d, err := a.display()
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				if i != 0 {
					time.Sleep(interval)
				}
				s, err := imu.Sense()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s g=%v a=%v\n", s.Temperature(), s.Gyro, s.Accel)
				if text {
					d.Clear()
					d.DrawMessage(0, 0, fmt.Sprintf("g: %d %d %d", s.Gyro[0], s.Gyro[1], s.Gyro[2]))
					d.DrawMessage(0, 8, fmt.Sprintf("a: %d %d %d", s.Accel[0], s.Accel[1], s.Accel[2]))
					d.DrawMessage(0, 16, fmt.Sprintf("t: %s", s.Temperature()))
				} else {
					drawTilt(d, s.Accel[0], s.Accel[1])
				}
				if err := d.Update(); err != nil {
					return err
				}
			}
			return imu.Halt()
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of samples")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Millisecond, "time between samples")
	cmd.Flags().BoolVar(&text, "text", false, "print the readings instead of the tilt bars")
	return cmd
}

const (
	tiltScale = 500 // counts per pixel
	tiltReach = 16
)

// drawTilt draws two bars from the center of the panel, horizontal for the Y
// axis and vertical for the X axis, proportional to the acceleration.
func drawTilt(d *ssd1306.Dev, ax, ay int16) {
	cx, cy := ssd1306.Width/2, ssd1306.Height/2
	bar(-int(ay)/tiltScale, func(i int, c ssd1306.Bit) { d.DrawPixel(cx+i, cy, c) })
	bar(int(ax)/tiltScale, func(i int, c ssd1306.Bit) { d.DrawPixel(cx, cy+i, c) })
}

func bar(length int, set func(i int, c ssd1306.Bit)) {
	for i := -tiltReach; i <= tiltReach; i++ {
		var lit bool
		if length >= 0 {
			lit = i >= 0 && i <= length
		} else {
			lit = i <= 0 && i >= length
		}
		set(i, ssd1306.Bit(lit))
	}
}
