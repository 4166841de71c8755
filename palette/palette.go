/*
Package palette implements the ordered color palette published by a pxls
canvas.

Each entry has a display name and a color written as six hex digits with no
leading marker. The position of an entry is the index used by the raw canvas
encoding; index 255 is reserved to mean an unset pixel and is never part of a
palette.
*/
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

// Transparent is the reserved index of an unset canvas pixel.
const Transparent = 0xff

// MaxColors is the largest palette that can be addressed without colliding
// with Transparent.
const MaxColors = Transparent

var (
	errEmpty    = errors.New("palette: no colors")
	errTooLarge = fmt.Errorf("palette: more than %d colors", MaxColors)

	// ErrInvalidFormat is returned when a requested output format is not
	// one of the recognized formats.
	ErrInvalidFormat = errors.New("palette: invalid format")

	// ErrInvalidColor is returned when a color value is not six hex digits.
	ErrInvalidColor = errors.New("palette: invalid color")
)

// Format selects how Colors renders each entry.
type Format string

// Recognized formats.
const (
	FormatName Format = "name"
	FormatHex  Format = "hex"
	FormatRGB  Format = "rgb"
	FormatRGBA Format = "rgba"
)

// Entry is a single named palette color.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Palette is an ordered list of colors. It should be treated as read-only;
// every accessor returns a fresh slice.
type Palette struct {
	entries []Entry
}

// New returns a palette holding a copy of entries.
func New(entries []Entry) Palette {
	return Palette{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of colors in the palette.
func (p Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the palette entries.
func (p Palette) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// MarshalJSON encodes the palette as a list of name/value objects.
func (p Palette) MarshalJSON() ([]byte, error) {
	if p.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.entries)
}

// UnmarshalJSON decodes a list of name/value objects, as served by the
// canvas info endpoint.
func (p *Palette) UnmarshalJSON(b []byte) error {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	p.entries = entries
	return nil
}

// Validate checks the palette is non-empty, small enough to leave the
// transparent index free and that every color parses.
func (p Palette) Validate() error {
	switch {
	case len(p.entries) == 0:
		return errEmpty
	case len(p.entries) > MaxColors:
		return errTooLarge
	}
	for _, e := range p.entries {
		if _, err := HexToRGB(e.Value); err != nil {
			return err
		}
	}
	return nil
}

// HexToRGB converts a six digit hex string such as "ff0080" into its red,
// green and blue components.
func HexToRGB(s string) ([3]uint8, error) {
	var rgb [3]uint8
	if len(s) != 6 {
		return rgb, fmt.Errorf("%w: %q is not 6 hex digits", ErrInvalidColor, s)
	}
	for i := range rgb {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}

// Names returns the display name of each color.
func (p Palette) Names() []string {
	s := make([]string, len(p.entries))
	for i, e := range p.entries {
		s[i] = e.Name
	}
	return s
}

// Hex returns the raw hex value of each color.
func (p Palette) Hex() []string {
	s := make([]string, len(p.entries))
	for i, e := range p.entries {
		s[i] = e.Value
	}
	return s
}

// RGB returns the red, green and blue components of each color.
func (p Palette) RGB() ([][3]uint8, error) {
	s := make([][3]uint8, len(p.entries))
	for i, e := range p.entries {
		rgb, err := HexToRGB(e.Value)
		if err != nil {
			return nil, err
		}
		s[i] = rgb
	}
	return s, nil
}

// RGBA returns each color as an opaque color.RGBA.
func (p Palette) RGBA() ([]color.RGBA, error) {
	rgb, err := p.RGB()
	if err != nil {
		return nil, err
	}
	s := make([]color.RGBA, len(rgb))
	for i, c := range rgb {
		s[i] = color.RGBA{c[0], c[1], c[2], 0xff}
	}
	return s, nil
}

// Color returns the palette as a color.Palette suitable for image.Paletted.
func (p Palette) Color() (color.Palette, error) {
	rgba, err := p.RGBA()
	if err != nil {
		return nil, err
	}
	cp := make(color.Palette, len(rgba))
	for i, c := range rgba {
		cp[i] = c
	}
	return cp, nil
}

// Colors returns every color rendered in the requested format. Names and hex
// values are returned as strings, rgb as [3]uint8 and rgba as [4]uint8.
func (p Palette) Colors(f Format) ([]interface{}, error) {
	var render func(Entry) (interface{}, error)
	switch f {
	case FormatName:
		render = func(e Entry) (interface{}, error) { return e.Name, nil }
	case FormatHex:
		render = func(e Entry) (interface{}, error) { return e.Value, nil }
	case FormatRGB:
		render = func(e Entry) (interface{}, error) { return HexToRGB(e.Value) }
	case FormatRGBA:
		render = func(e Entry) (interface{}, error) {
			rgb, err := HexToRGB(e.Value)
			return [4]uint8{rgb[0], rgb[1], rgb[2], 0xff}, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, f)
	}

	s := make([]interface{}, len(p.entries))
	for i, e := range p.entries {
		c, err := render(e)
		if err != nil {
			return nil, err
		}
		s[i] = c
	}
	return s, nil
}
