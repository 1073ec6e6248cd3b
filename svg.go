package main

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgUnitsPerInch is the CSS pixel density that SVG user units are
// expressed in.
const svgUnitsPerInch = 96.0

// rasterizeSVG renders an SVG document onto a white canvas at dpi, so the
// drawing keeps its physical size whatever resolution it is sampled at.
func rasterizeSVG(r io.Reader, dpi float64) (image.Image, error) {
	svgIcon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}

	scale := dpi / svgUnitsPerInch
	width := int(math.Ceil(svgIcon.ViewBox.W * scale))
	height := int(math.Ceil(svgIcon.ViewBox.H * scale))
	if width <= 0 || height <= 0 {
		return nil, errors.New("svg has an empty view box")
	}

	svgIcon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)

	svgIcon.Draw(raster, 1.0)
	return img, nil
}
