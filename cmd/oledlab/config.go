// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/pic32lab/pic32i2c"
	"github.com/GermanBionicSystems/pic32lab/pic32i2c/i2csim"
	"github.com/GermanBionicSystems/pic32lab/sfr"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// labConfig describes the bus and, for the simulator, what is attached to it.
type labConfig struct {
	Module  int            `yaml:"module"`
	BRG     uint16         `yaml:"brg"`
	Timeout time.Duration  `yaml:"timeout"`
	Latency int            `yaml:"latency"`
	Devices []deviceConfig `yaml:"devices"`
}

type deviceConfig struct {
	Type      string          `yaml:"type"`
	Addr      uint16          `yaml:"addr"`
	Registers map[uint8]uint8 `yaml:"registers"`
}

// defaultConfig is the lab board: the OLED, the GPIO expander with the button
// released and the IMU lying flat.
func defaultConfig() *labConfig {
	return &labConfig{
		Module:  1,
		BRG:     pic32i2c.DefaultOpts.BRG,
		Timeout: pic32i2c.DefaultOpts.Timeout,
		Devices: []deviceConfig{
			{Type: "ssd1306", Addr: 0x3C},
			{Type: "mcp23017", Addr: 0x20, Registers: map[uint8]uint8{0x13: 0x01}},
			{Type: "lsm6ds33", Addr: 0x6B, Registers: map[uint8]uint8{
				0x20: 0x50, 0x21: 0x00, // 30°C
				0x2C: 0x00, 0x2D: 0x40, // 1g on Z
			}},
		},
	}
}

func loadConfig(path string) (*labConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Devices = nil
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// presets are the power on register values of the simulated chips.
var presets = map[string]map[uint8]uint8{
	"mcp23017": {0x00: 0xFF, 0x01: 0xFF},
	"lsm6ds33": {0x0F: 0x69},
}

func (c *deviceConfig) device() (i2csim.Device, error) {
	switch c.Type {
	case "ssd1306":
		return i2csim.NewPanel(), nil
	case "mcp23017", "lsm6ds33", "registers":
		regs := map[byte]byte{}
		for k, v := range presets[c.Type] {
			regs[k] = v
		}
		for k, v := range c.Registers {
			regs[k] = v
		}
		return i2csim.NewRegisters(regs), nil
	}
	return nil, fmt.Errorf("unknown device type %q", c.Type)
}

// session is an open bus, simulated or real.
type session struct {
	bus   *pic32i2c.Engine
	sim   *i2csim.Sim
	panel *i2csim.Panel
	regs  *sfr.Mapped
}

func (c *labConfig) engineOpts() *pic32i2c.Opts {
	opts := pic32i2c.DefaultOpts
	if c.BRG != 0 {
		opts.BRG = c.BRG
	}
	opts.Timeout = c.Timeout
	opts.PeripheralClock = 48 * physic.MegaHertz
	return &opts
}

func openSim(cfg *labConfig) (*session, error) {
	s := &session{sim: i2csim.New(&i2csim.Opts{Latency: cfg.Latency})}
	for i := range cfg.Devices {
		d, err := cfg.Devices[i].device()
		if err != nil {
			return nil, err
		}
		if p, ok := d.(*i2csim.Panel); ok && s.panel == nil {
			s.panel = p
		}
		s.sim.Attach(cfg.Devices[i].Addr, d)
	}
	s.bus = pic32i2c.New(s.sim, cfg.engineOpts())
	if err := s.bus.Setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func openHardware(cfg *labConfig) (*session, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	var base uint64
	switch cfg.Module {
	case 1:
		base = sfr.I2C1Base
	case 2:
		base = sfr.I2C2Base
	default:
		return nil, fmt.Errorf("invalid I²C module %d", cfg.Module)
	}
	regs, err := sfr.Map(base)
	if err != nil {
		return nil, err
	}
	s := &session{regs: regs, bus: pic32i2c.New(regs, cfg.engineOpts())}
	if err := s.bus.Setup(); err != nil {
		return nil, errors.Join(err, regs.Close())
	}
	return s, nil
}

func (s *session) Close() error {
	err := s.bus.Close()
	if s.regs != nil {
		err = errors.Join(err, s.regs.Close())
	}
	return err
}
