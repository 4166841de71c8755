package pxls

import (
	"context"
	"encoding/json"
	"image"

	"github.com/bodgit/pxls/canvas"
	"github.com/bodgit/pxls/palette"
	"github.com/bodgit/pxls/template"
	"github.com/sirupsen/logrus"
)

// Info is the canvas metadata served from /info.
type Info struct {
	CanvasCode string          `json:"canvasCode"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Palette    palette.Palette `json:"palette"`
	MaxStacked int             `json:"maxStacked"`
}

func (c *Connector) getJSON(ctx context.Context, route string, v interface{}) error {
	body, err := c.get(ctx, route)
	if err != nil {
		return err
	}
	defer body.Close()

	return json.NewDecoder(body).Decode(v)
}

// Info fetches the canvas metadata.
func (c *Connector) Info(ctx context.Context) (*Info, error) {
	info := new(Info)
	if err := c.getJSON(ctx, "info", info); err != nil {
		return nil, err
	}
	if err := info.Palette.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// Palette fetches the current canvas palette.
func (c *Connector) Palette(ctx context.Context) (palette.Palette, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return palette.Palette{}, err
	}
	return info.Palette, nil
}

// Shape fetches the current canvas width and height.
func (c *Connector) Shape(ctx context.Context) (int, int, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return 0, 0, err
	}
	return info.Width, info.Height, nil
}

// Stats fetches the raw canvas statistics.
func (c *Connector) Stats(ctx context.Context) (map[string]interface{}, error) {
	var stats map[string]interface{}
	if err := c.getJSON(ctx, "stats/stats.json", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Canvas fetches and decodes the current canvas. If info is nil the canvas
// metadata is fetched first.
func (c *Connector) Canvas(ctx context.Context, info *Info) (*image.RGBA, error) {
	if info == nil {
		var err error
		if info, err = c.Info(ctx); err != nil {
			return nil, err
		}
	}

	body, err := c.get(ctx, "boarddata?")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	m, err := canvas.DecodeReader(body, info.Width, info.Height, info.Palette)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"width":  info.Width,
		"height": info.Height,
		"colors": info.Palette.Len(),
	}).Debug("decoded canvas")

	return m, nil
}

// Template fetches the image named by a template link and decodes it.
func (c *Connector) Template(ctx context.Context, link string) (*template.Template, error) {
	d, err := template.ParseDescriptor(link)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, d.Template)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	t, err := template.Decode(body, d)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"template": d.Template,
		"width":    d.Width,
		"x":        d.X,
		"y":        d.Y,
	}).Debug("decoded template")

	return t, nil
}
