/*
Package canvas implements a decoder for the raw board data served by a pxls
canvas.

The board is sent as one byte per pixel in row-major order starting at the
top-left pixel. Each byte is an index into the canvas palette, or 255 for a
pixel that has never been placed, which decodes as fully transparent. There is
no header and no compression so the stream is exactly width by height bytes.
*/
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bodgit/pxls/palette"
)

var (
	// ErrShapeMismatch is returned when the amount of pixel data does not
	// match the canvas dimensions.
	ErrShapeMismatch = errors.New("canvas: shape mismatch")

	// ErrInvalidIndex is returned for a byte that is neither a palette
	// index nor the transparent index.
	ErrInvalidIndex = errors.New("canvas: invalid palette index")

	// ErrOutOfBounds is returned when a pixel update lies outside the
	// canvas.
	ErrOutOfBounds = errors.New("canvas: pixel out of bounds")

	errNotEnough = fmt.Errorf("%w: not enough canvas data", ErrShapeMismatch)
	errTooMuch   = fmt.Errorf("%w: too much canvas data", ErrShapeMismatch)
)

// Pixel is a single pixel placement as reported by the live feed. A Color of
// -1 or palette.Transparent clears the pixel.
type Pixel struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Color int `json:"color"`
}

// lookup maps every possible byte to its color. Entries beyond the palette,
// other than the transparent index, are left invalid.
type lookup struct {
	colors [256][4]uint8
	valid  [256]bool
}

func newLookup(p palette.Palette) (*lookup, error) {
	if p.Len() > palette.MaxColors {
		return nil, fmt.Errorf("canvas: palette has %d colors, at most %d supported", p.Len(), palette.MaxColors)
	}

	rgba, err := p.RGBA()
	if err != nil {
		return nil, err
	}

	l := new(lookup)
	for i, c := range rgba {
		l.colors[i] = [4]uint8{c.R, c.G, c.B, c.A}
		l.valid[i] = true
	}
	// Transparent is zeroed already
	l.valid[palette.Transparent] = true

	return l, nil
}

// check finds the first byte with no color, so that nothing is written when
// the data is bad.
func (l *lookup) check(b []byte) error {
	for i, v := range b {
		if !l.valid[v] {
			return fmt.Errorf("%w: %d at offset %d", ErrInvalidIndex, v, i)
		}
	}
	return nil
}

func (l *lookup) gather(pix, b []byte) {
	for i, v := range b {
		*(*[4]uint8)(pix[i<<2 : i<<2+4]) = l.colors[v]
	}
}

// Decoder turns raw board data into images using a fixed palette. It holds
// no other state and is safe for concurrent use.
type Decoder struct {
	lut *lookup
}

// NewDecoder returns a Decoder for boards using palette p.
func NewDecoder(p palette.Palette) (*Decoder, error) {
	lut, err := newLookup(p)
	if err != nil {
		return nil, err
	}
	return &Decoder{lut: lut}, nil
}

func checkShape(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrShapeMismatch, width, height)
	}
	// Four bytes per pixel once decoded
	if height > 0 && width > math.MaxInt/4/height {
		return fmt.Errorf("%w: dimensions %dx%d too large", ErrShapeMismatch, width, height)
	}
	return nil
}

// Decode converts b into a width by height image. The returned image is
// always freshly allocated.
func (d *Decoder) Decode(b []byte, width, height int) (*image.RGBA, error) {
	if err := checkShape(width, height); err != nil {
		return nil, err
	}
	if len(b) != width*height {
		return nil, fmt.Errorf("%w: %d bytes for a %dx%d canvas", ErrShapeMismatch, len(b), width, height)
	}
	if err := d.lut.check(b); err != nil {
		return nil, err
	}

	m := image.NewRGBA(image.Rect(0, 0, width, height))
	d.lut.gather(m.Pix, b)

	return m, nil
}

// Apply sets a single pixel of m, which should have been produced by Decode
// with the same palette.
func (d *Decoder) Apply(m *image.RGBA, px Pixel) error {
	if !image.Pt(px.X, px.Y).In(m.Bounds()) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, px.X, px.Y)
	}

	idx := px.Color
	if idx == -1 {
		idx = palette.Transparent
	}
	if idx < 0 || idx > palette.Transparent || !d.lut.valid[idx] {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, px.Color)
	}

	c := d.lut.colors[idx]
	m.SetRGBA(px.X, px.Y, color.RGBA{c[0], c[1], c[2], c[3]})

	return nil
}

// Decode converts raw board data b into a width by height image using
// palette p.
func Decode(b []byte, width, height int, p palette.Palette) (*image.RGBA, error) {
	d, err := NewDecoder(p)
	if err != nil {
		return nil, err
	}
	return d.Decode(b, width, height)
}
