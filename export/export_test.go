package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, 3, 2))
	m.SetRGBA(0, 0, color.RGBA{0xff, 0x00, 0x80, 0xff})
	m.SetRGBA(1, 0, color.RGBA{0x00, 0x00, 0x00, 0xff})
	m.SetRGBA(2, 0, color.RGBA{0xff, 0xff, 0xff, 0xff})
	m.SetRGBA(0, 1, color.RGBA{0x22, 0x22, 0x22, 0xff})
	// (1, 1) and (2, 1) left transparent
	return m
}

func TestFormatFromPath(t *testing.T) {
	tables := []struct {
		path string
		want Format
	}{
		{"canvas.png", PNG},
		{"/tmp/CANVAS.GIF", GIF},
		{"a.b.bmp", BMP},
		{"x.tif", TIFF},
		{"x.tiff", TIFF},
	}

	for _, table := range tables {
		got, err := FormatFromPath(table.path)
		require.NoError(t, err)
		assert.Equal(t, table.want, got)
	}

	_, err := FormatFromPath("canvas.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromPath("canvas")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func assertSamePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds(), got.Bounds())
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			assert.Equal(t, color.RGBAModel.Convert(want.At(x, y)), color.RGBAModel.Convert(got.At(x, y)), "pixel (%d, %d)", x, y)
		}
	}
}

func TestEncode(t *testing.T) {
	m := testImage()

	// BMP has no reliable alpha so only opaque pixels are compared
	opaque := image.NewRGBA(image.Rect(0, 0, 3, 1))
	copy(opaque.Pix, m.Pix[:opaque.Stride])

	tables := []struct {
		format Format
		m      image.Image
		decode func(*bytes.Buffer) (image.Image, error)
	}{
		{PNG, m, func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{GIF, m, func(b *bytes.Buffer) (image.Image, error) { return gif.Decode(b) }},
		{BMP, opaque, func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
		{TIFF, opaque, func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
	}

	for _, table := range tables {
		t.Run(string(table.format), func(t *testing.T) {
			m := table.m
			b := new(bytes.Buffer)
			require.NoError(t, Encode(b, m, table.format))
			got, err := table.decode(b)
			require.NoError(t, err)
			assertSamePixels(t, m, got)
		})
	}

	assert.ErrorIs(t, Encode(new(bytes.Buffer), m, "jpeg"), ErrUnsupportedFormat)
}

func TestPaletted(t *testing.T) {
	pm := paletted(testImage())
	assert.Len(t, pm.Palette, 5)
	assert.Equal(t, color.RGBA{}, pm.Palette[0])

	// Opaque images get no transparent slot
	opaque := image.NewRGBA(image.Rect(0, 0, 1, 1))
	opaque.SetRGBA(0, 0, color.RGBA{0x10, 0x20, 0x30, 0xff})
	assert.Equal(t, color.Palette{color.RGBA{0x10, 0x20, 0x30, 0xff}}, paletted(opaque).Palette)

	assert.Len(t, paletted(image.NewRGBA(image.Rect(0, 0, 0, 0))).Palette, 1)
}

func TestPalettedQuantized(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 0x80, 0xff})
		}
	}
	m.SetRGBA(0, 0, color.RGBA{})

	pm := paletted(m)
	assert.LessOrEqual(t, len(pm.Palette), maxColors)
	assert.Equal(t, color.RGBA{}, pm.Palette[0])
	assert.Equal(t, uint8(0), pm.ColorIndexAt(0, 0))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, GIF))
	got, err := gif.Decode(b)
	require.NoError(t, err)
	_, _, _, a := got.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}
