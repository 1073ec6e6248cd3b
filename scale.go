package main

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

const mmPerInch = 25.4

// Layout is the physical interpretation of a bitmap under a set of Params:
// how big it is on the machine and how many output lines and columns the
// engraving is made of.
type Layout struct {
	DotsPerMM float64
	WidthMM   float64
	HeightMM  float64

	StepsPerLine uint64
	StepsX       uint64
	StepsY       uint64

	// LineCount is the number of output rows. A partial final line is
	// dropped, not padded.
	LineCount int
	// Width is the number of output columns.
	Width int

	// LinePitch is the height of one output line in mm, PixelPitch the
	// width of one output column in mm.
	LinePitch  float64
	PixelPitch float64
}

// ComputeLayout maps a width × height pixel grid onto machine space.
func ComputeLayout(width, height int, p Params) (Layout, error) {
	if err := p.Validate(); err != nil {
		return Layout{}, err
	}

	var l Layout
	l.DotsPerMM = p.DPI / mmPerInch
	l.WidthMM = float64(width) / l.DotsPerMM
	l.HeightMM = float64(height) / l.DotsPerMM

	l.StepsPerLine = uint64(p.StepsPerLine())
	l.StepsX = uint64(math.Ceil(l.WidthMM * float64(p.StepsPerMM)))
	l.StepsY = uint64(math.Ceil(l.HeightMM * float64(p.StepsPerMM)))

	l.LineCount = int(l.StepsY / l.StepsPerLine)
	l.LinePitch = 1 / float64(p.LinesPerMM)

	if p.QuantizeHorizontal {
		l.Width = int(l.StepsX / l.StepsPerLine)
		l.PixelPitch = l.LinePitch
	} else {
		l.Width = width
		l.PixelPitch = 1 / l.DotsPerMM
	}
	return l, nil
}

// PixelsPerLine is how many input pixel rows fold into one output line.
func (l Layout) PixelsPerLine() float64 {
	return l.DotsPerMM * l.LinePitch
}

// gaussian is a σ = 0.5 Gaussian truncated at 3 pixels. The normalization
// constant is omitted; x/image/draw normalizes the weights itself.
var gaussian = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		return math.Exp(-2 * t * t)
	},
}

// Resample scales img to w × h using the filter selected by k.
func Resample(img *image.Gray, w, h int, k Interp) *image.Gray {
	if w <= 0 || h <= 0 {
		return image.NewGray(image.Rect(0, 0, max(w, 0), max(h, 0)))
	}

	if w == img.Rect.Dx() && h == img.Rect.Dy() {
		return img
	}

	if k == InterpLanczos3 {
		out := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
		if g, ok := out.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
			return g
		}
		return toLuminance(out)
	}

	var scaler draw.Scaler
	switch k {
	case InterpNearest:
		scaler = draw.NearestNeighbor
	case InterpCubic:
		scaler = draw.CatmullRom
	default:
		scaler = gaussian
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
