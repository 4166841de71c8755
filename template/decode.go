package template

import (
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode reads a template image in any registered format from r and builds a
// template d.Width canvas pixels wide placed at d.X, d.Y.
func Decode(r io.Reader, d Descriptor) (*Template, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return Build(m, d.Width, d.X, d.Y)
}
