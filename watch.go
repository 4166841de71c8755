package pxls

import (
	"context"
	"net/http"

	"github.com/bodgit/pxls/canvas"
)

type message struct {
	Type   string         `json:"type"`
	Pixels []canvas.Pixel `json:"pixels"`
}

func (c *Connector) wsURL() (string, error) {
	u, err := c.resolve("ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// Watch connects to the live feed of the canvas and sends every pixel
// placement on the returned channel until ctx is cancelled or the connection
// fails. Messages other than pixel placements are ignored. Both channels are
// closed when the feed stops; a nil error follows cancellation.
func (c *Connector) Watch(ctx context.Context) (<-chan canvas.Pixel, <-chan error, error) {
	u, err := c.wsURL()
	if err != nil {
		return nil, nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)

	conn, _, err := c.dialer.DialContext(ctx, u, header)
	if err != nil {
		return nil, nil, err
	}

	log := c.logger.WithField("url", u)
	log.Debug("connected to live feed")

	// Unblock the read loop on cancellation
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	out := make(chan canvas.Pixel)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		defer close(done)
		for {
			var msg message
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() != nil {
					log.Debug("live feed cancelled")
					errc <- nil
					return
				}
				errc <- err
				return
			}

			if msg.Type != "pixel" {
				log.WithField("type", msg.Type).Debug("ignoring message")
				continue
			}

			for _, px := range msg.Pixels {
				select {
				case out <- px:
				case <-ctx.Done():
					errc <- nil
					return
				}
			}
		}
	}()

	return out, errc, nil
}
