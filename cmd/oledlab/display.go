// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/GermanBionicSystems/pic32lab/ssd1306"
	"github.com/GermanBionicSystems/pic32lab/ssd1306/font5x8"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func (a *app) display() (*ssd1306.Dev, error) {
	return ssd1306.NewI2C(a.s.bus, nil)
}

func newMessageCmd(a *app) *cobra.Command {
	var x, y int
	cmd := &cobra.Command{
		Use:   "message TEXT...",
		Short: "Print a message on the OLED with the 5x8 font",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.display()
			if err != nil {
				return err
			}
			d.DrawMessage(x, y, strings.Join(args, " "))
			return d.Update()
		},
	}
	cmd.Flags().IntVarP(&x, "x", "x", 0, "column of the first letter")
	cmd.Flags().IntVarP(&y, "y", "y", 0, "row of the first letter")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		size float64
		face string
		png  string
	)
	cmd := &cobra.Command{
		Use:   "render TEXT...",
		Short: "Render framed text with a vector font and push it to the OLED",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFace(face, size)
			if err != nil {
				return err
			}
			img := renderText(strings.Join(args, " "), f)
			if png != "" {
				if err := gg.SavePNG(png, img); err != nil {
					return err
				}
			}
			d, err := a.display()
			if err != nil {
				return err
			}
			return d.Draw(d.Bounds(), img, image.Point{})
		},
	}
	cmd.Flags().Float64Var(&size, "size", 14, "font size in points")
	cmd.Flags().StringVar(&face, "face", "go", "font face: go or 5x8")
	cmd.Flags().StringVar(&png, "png", "", "also save the rendered image to this PNG file")
	return cmd
}

func loadFace(name string, size float64) (font.Face, error) {
	switch name {
	case "5x8":
		return font5x8.Face(), nil
	case "go":
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		return truetype.NewFace(f, &truetype.Options{Size: size}), nil
	}
	return nil, fmt.Errorf("unknown font face %q", name)
}

// renderText draws text centered in a rounded frame the size of the panel.
func renderText(text string, f font.Face) image.Image {
	dc := gg.NewContext(ssd1306.Width, ssd1306.Height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(0.5, 0.5, ssd1306.Width-1, ssd1306.Height-1, 6)
	dc.Stroke()
	dc.SetFontFace(f)
	dc.DrawStringAnchored(text, ssd1306.Width/2, ssd1306.Height/2, 0.5, 0.5)
	return dc.Image()
}
