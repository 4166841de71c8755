/*
Package export writes decoded canvases and templates to common image formats.

GIF output needs a palette of at most 256 colors. Images that already fit use
their exact colors, anything else is reduced with a median cut quantizer.
Index 0 is kept for transparency whenever the image has a transparent pixel.
*/
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Format is an output image format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

const maxColors = 256

// FormatFromPath picks the output format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
		}
		return enc.Encode(w, m)
	case GIF:
		return gif.Encode(w, paletted(m), nil)
	case BMP:
		return bmp.Encode(w, m)
	case TIFF:
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Collect the distinct opaque colors of m, giving up once there are more than
// limit, and note whether any pixel is transparent.
func uniqueColors(m image.Image, limit int) (color.Palette, bool, bool) {
	colors := make(map[color.RGBA]struct{})
	p := make(color.Palette, 0, limit)
	var transparent bool

	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
			if c.A == 0 {
				transparent = true
				continue
			}
			if _, ok := colors[c]; ok {
				continue
			}
			if len(colors) == limit {
				return nil, transparent, false
			}
			colors[c] = struct{}{}
			p = append(p, c)
		}
	}

	return p, transparent, true
}

func paletted(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= maxColors {
		return pm
	}

	// Pessimistically reserve a slot for transparency
	p, transparent, ok := uniqueColors(m, maxColors-1)
	if transparent {
		p = append(color.Palette{color.RGBA{}}, p...)
	}

	if !ok {
		q := quantize.MedianCutQuantizer{}
		p = make(color.Palette, 0, maxColors)
		if transparent {
			p = append(p, color.RGBA{})
		}
		p = q.Quantize(p, m)
	}

	if len(p) == 0 {
		p = append(p, color.RGBA{})
	}

	b := m.Bounds()
	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}
