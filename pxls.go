/*
Package pxls is a library for fetching the state of a pxls.space-like
collaborative canvas and the templates drawn for it.
*/
package pxls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// DefaultURL is the canvas used when none is configured.
const DefaultURL = "https://pxls.space/"

// StatusError is returned when the canvas responds with anything other than
// a 2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pxls: %s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Connector fetches data from a single canvas. It is safe for concurrent use.
type Connector struct {
	base      *url.URL
	client    *http.Client
	dialer    *websocket.Dialer
	logger    *logrus.Logger
	userAgent string
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient sets the client used for every HTTP request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		c.client = client
	}
}

// WithDialer sets the dialer used by Watch.
func WithDialer(dialer *websocket.Dialer) Option {
	return func(c *Connector) {
		c.dialer = dialer
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Connector) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Connector) {
		c.userAgent = userAgent
	}
}

// New returns a Connector for the canvas at baseURL.
func New(baseURL string, opts ...Option) (*Connector, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("pxls: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("pxls: no host in URL")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := &Connector{
		base:      u,
		client:    http.DefaultClient,
		dialer:    websocket.DefaultDialer,
		logger:    logger,
		userAgent: "pxls-go",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Connector) resolve(route string) (*url.URL, error) {
	ref, err := url.Parse(route)
	if err != nil {
		return nil, err
	}
	return c.base.ResolveReference(ref), nil
}

// get fetches route, relative to the canvas, and fails on any non-2xx
// status. The caller must close the body.
func (c *Connector) get(ctx context.Context, route string) (io.ReadCloser, error) {
	u, err := c.resolve(route)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	log := c.logger.WithField("url", u.String())
	log.Debug("fetching")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		log.WithField("status", resp.StatusCode).Debug("unexpected status")
		return nil, &StatusError{
			URL:        u.String(),
			StatusCode: resp.StatusCode,
		}
	}

	return resp.Body, nil
}
