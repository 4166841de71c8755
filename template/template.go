/*
Package template implements decoding of pxls template images.

A template is an image of an intended design placed at an offset on the
canvas. Template images are usually published scaled up, with every canvas
pixel drawn as a square block of pixels, sometimes with grid lines or
anti-aliasing at the block edges. Build collapses each block back to a single
pixel by taking the maximum of every channel across the block, then makes any
pixel that is not fully opaque fully transparent.
*/
package template

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

var (
	// ErrShapeMismatch is returned when the image dimensions are not a
	// whole number of blocks.
	ErrShapeMismatch = errors.New("template: shape mismatch")

	// ErrMissingField is returned when a template link lacks a required
	// parameter.
	ErrMissingField = errors.New("template: missing field")

	// ErrParse is returned when a template link or one of its numeric
	// parameters is malformed.
	ErrParse = errors.New("template: parse error")
)

// Template is a decoded template image, one pixel per canvas pixel, with the
// canvas coordinates of its top-left corner. Every pixel is either fully
// opaque or fully transparent.
type Template struct {
	Image *image.RGBA
	X, Y  int
}

// ColorModel implements image.Image.
func (t *Template) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds returns the area of the canvas covered by the template.
func (t *Template) Bounds() image.Rectangle {
	return t.Image.Bounds().Add(image.Pt(t.X, t.Y))
}

// At returns the template color at canvas coordinates x, y.
func (t *Template) At(x, y int) color.Color {
	return t.Image.At(x-t.X, y-t.Y)
}

// toNRGBA returns m as non-premultiplied RGBA with its origin at (0, 0).
func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), m, b.Min, draw.Src)
	return n
}

// BlockSize returns the size of the square blocks in an image w pixels wide
// holding a template width canvas pixels wide.
func BlockSize(w, h, width int) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("%w: invalid template width %d", ErrShapeMismatch, width)
	}
	if w%width != 0 || w < width {
		return 0, fmt.Errorf("%w: image width %d is not a multiple of %d", ErrShapeMismatch, w, width)
	}
	size := w / width
	if h%size != 0 {
		return 0, fmt.Errorf("%w: image height %d is not a multiple of block size %d", ErrShapeMismatch, h, size)
	}
	return size, nil
}

// Build reduces m, drawn with blocks of pixels, to a template width canvas
// pixels wide placed at x, y.
func Build(m image.Image, width, x, y int) (*Template, error) {
	b := m.Bounds()
	size, err := BlockSize(b.Dx(), b.Dy(), width)
	if err != nil {
		return nil, err
	}

	src := toNRGBA(m)
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/size, b.Dy()/size))

	// Max of every channel across each block
	for sy := 0; sy < b.Dy(); sy++ {
		s := src.Pix[sy*src.Stride : sy*src.Stride+b.Dx()<<2]
		d := dst.Pix[sy/size*dst.Stride:]
		for sx := 0; sx < b.Dx(); sx++ {
			i, j := sx<<2, sx/size<<2
			for c := 0; c < 4; c++ {
				if s[i+c] > d[j+c] {
					d[j+c] = s[i+c]
				}
			}
		}
	}

	// Anything not fully opaque becomes fully transparent
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] < 0xff {
			dst.Pix[i+0] = 0
			dst.Pix[i+1] = 0
			dst.Pix[i+2] = 0
			dst.Pix[i+3] = 0
		}
	}

	return &Template{
		Image: dst,
		X:     x,
		Y:     y,
	}, nil
}
