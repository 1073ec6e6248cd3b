package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage reads an image file and converts it to 8-bit luminance. The
// format is detected from the file contents; SVG documents are rasterized
// at dpi.
func LoadImage(filePath string, dpi float64) (*image.Gray, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &IOError{Op: "loading image file", Path: filePath, Err: err}
	}

	var img image.Image
	if isSVG(data) {
		img, err = rasterizeSVG(bytes.NewReader(data), dpi)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, &IOError{Op: "decoding image file", Path: filePath, Err: err}
	}

	return toLuminance(img), nil
}

// isSVG reports whether data looks like an SVG document. None of the
// raster formats can start with '<', so a cheap look at the head is enough.
func isSVG(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(data, []byte("<")) {
		return false
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	return bytes.Contains(data, []byte("<svg"))
}

// toLuminance composites src over white and converts it to Rec. 601 luma.
// The result always has its origin at (0, 0).
func toLuminance(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := dst.Pix[(y-bounds.Min.Y)*dst.Stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// RGBA is alpha-premultiplied, so adding the missing coverage
			// is the same as painting onto a white background.
			r, g, b, a := src.At(x, y).RGBA()
			lum := (299*r+587*g+114*b)/1000 + (0xffff - a)
			row[x-bounds.Min.X] = uint8(lum >> 8)
		}
	}

	return dst
}

// SaveImage writes img to filePath, choosing the encoder from the file
// extension.
func SaveImage(filePath string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	var buf bytes.Buffer
	var err error
	switch ext {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
	case ".gif":
		err = gif.Encode(&buf, grayPaletted(img), nil)
	case ".bmp":
		err = bmp.Encode(&buf, img)
	case ".tif", ".tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = errors.New("unsupported image format: " + ext)
	}
	if err != nil {
		return &IOError{Op: "writing intermediate output to", Path: filePath, Err: err}
	}

	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return &IOError{Op: "writing intermediate output to", Path: filePath, Err: err}
	}
	return nil
}

func grayPaletted(img image.Image) *image.Paletted {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}

	bounds := img.Bounds()
	dst := image.NewPaletted(bounds, pal)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			dst.SetColorIndex(x, y, g.Y)
		}
	}
	return dst
}

func describeImage(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}
