// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRegCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Read or write slave registers",
	}
	var n int
	read := &cobra.Command{
		Use:   "read ADDR REG",
		Short: "Read one or more consecutive registers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, reg, err := parseAddrReg(args)
			if err != nil {
				return err
			}
			var b []byte
			if n == 1 {
				var v byte
				v, err = a.s.bus.ReadRegister(addr, reg)
				b = []byte{v}
			} else {
				b, err = a.s.bus.ReadMultiple(addr, reg, n)
			}
			if err != nil {
				return err
			}
			for i, v := range b {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%02x: 0x%02x\n", int(reg)+i, v)
			}
			return nil
		},
	}
	read.Flags().IntVarP(&n, "count", "n", 1, "number of registers")
	write := &cobra.Command{
		Use:   "write ADDR REG VALUE",
		Short: "Write a register",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, reg, err := parseAddrReg(args)
			if err != nil {
				return err
			}
			v, err := parseByte(args[2])
			if err != nil {
				return err
			}
			return a.s.bus.WriteRegister(addr, reg, v)
		},
	}
	cmd.AddCommand(read, write)
	return cmd
}

func parseAddrReg(args []string) (uint16, byte, error) {
	addr, err := strconv.ParseUint(args[0], 0, 7)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid 7 bit address %q", args[0])
	}
	reg, err := parseByte(args[1])
	return uint16(addr), reg, err
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}
