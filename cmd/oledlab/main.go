// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledlab drives the PIC32 lab board peripherals through the register level
// I²C master, either on the board itself or against a simulated bus.
package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"github.com/GermanBionicSystems/pic32lab/termscreen"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	config   string
	hardware bool
	show     bool
	trace    bool
}

// app holds the state shared by the subcommands.
type app struct {
	opts rootOpts
	cfg  *labConfig
	s    *session
}

func (a *app) open() error {
	cfg, err := loadConfig(a.opts.config)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.opts.hardware {
		a.s, err = openHardware(cfg)
	} else {
		a.s, err = openSim(cfg)
	}
	return err
}

// finish reports what the simulated bus did, then closes it.
func (a *app) finish(cmd *cobra.Command) error {
	if a.s == nil {
		return nil
	}
	w := cmd.OutOrStdout()
	if a.s.sim != nil {
		if a.opts.trace {
			for _, e := range a.s.sim.Events() {
				fmt.Fprintln(w, e)
			}
		}
		if a.opts.show && a.s.panel != nil {
			if err := show(w, a.s.panel.Image()); err != nil {
				return err
			}
		}
	}
	err := a.s.Close()
	a.s = nil
	return err
}

// show renders img in the terminal.
func show(w io.Writer, img image.Image) error {
	opts := termscreen.Opts{X: img.Bounds().Dx(), Y: img.Bounds().Dy()}
	if w != os.Stdout {
		opts.W = w
	}
	d, err := termscreen.New(&opts)
	if err != nil {
		return err
	}
	if err := d.Draw(d.Bounds(), img, img.Bounds().Min); err != nil {
		return err
	}
	return d.Halt()
}

// execute runs root. The bus is closed even when a subcommand fails, since
// cobra skips PersistentPostRunE after a RunE error.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if a.s != nil {
		err = errors.Join(err, a.finish(root))
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "oledlab",
		Short: "Drive the PIC32 lab board I²C peripherals",
		Long: "oledlab runs the OLED, GPIO expander and IMU drivers on the PIC32 I²C " +
			"master. Without --hw the bus and its devices are simulated.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVarP(&a.opts.config, "config", "c", "", "YAML bus description")
	f.BoolVar(&a.opts.hardware, "hw", false, "use the memory mapped I²C module instead of the simulator")
	f.BoolVar(&a.opts.show, "show", false, "render the simulated OLED in the terminal when done")
	f.BoolVar(&a.opts.trace, "trace", false, "print the simulated bus events when done")

	root.AddCommand(
		newMessageCmd(a),
		newRenderCmd(a),
		newRegCmd(a),
		newIMUCmd(a),
		newGPIOCmd(a),
	)
	return root
}

func main() {
	log.SetFlags(0)
	a := &app{}
	if err := a.execute(newRootCmd(a)); err != nil {
		log.Fatal(err)
	}
}
