package canvas

import (
	"bytes"
	"image"
	"io"

	"github.com/bodgit/pxls/palette"
)

// DecodeReader reads exactly width by height bytes of board data from r and
// decodes them. Trailing data is an error.
func (d *Decoder) DecodeReader(r io.Reader, width, height int) (*image.RGBA, error) {
	if err := checkShape(width, height); err != nil {
		return nil, err
	}

	// Grow with the data rather than trusting the dimensions up front, and
	// read one byte too many to spot trailing data
	n := width * height
	b := new(bytes.Buffer)
	if _, err := b.ReadFrom(io.LimitReader(r, int64(n)+1)); err != nil {
		return nil, err
	}

	switch {
	case b.Len() < n:
		return nil, errNotEnough
	case b.Len() > n:
		return nil, errTooMuch
	}

	return d.Decode(b.Bytes(), width, height)
}

// DecodeReader reads and decodes board data from r using palette p.
func DecodeReader(r io.Reader, width, height int, p palette.Palette) (*image.RGBA, error) {
	d, err := NewDecoder(p)
	if err != nil {
		return nil, err
	}
	return d.DecodeReader(r, width, height)
}
