package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/bodgit/pxls"
	"github.com/bodgit/pxls/canvas"
	"github.com/bodgit/pxls/export"
	"github.com/bodgit/pxls/palette"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if c.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newConnector(c *cli.Context, logger *logrus.Logger) (*pxls.Connector, error) {
	return pxls.New(c.String("url"), pxls.WithLogger(logger), pxls.WithUserAgent(c.App.Name+"/"+c.App.Version))
}

func writeImage(file string, m image.Image) (err error) {
	format, err := export.FormatFromPath(file)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return export.Encode(f, m, format)
}

func paletteAction(c *cli.Context) error {
	logger := newLogger(c)
	conn, err := newConnector(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	p, err := conn.Palette(c.Context)
	if err != nil {
		return cli.Exit(err, 1)
	}

	colors, err := p.Colors(palette.Format(c.String("format")))
	if err != nil {
		return cli.Exit(err, 1)
	}

	for i, color := range colors {
		switch v := color.(type) {
		case [3]uint8:
			fmt.Fprintf(c.App.Writer, "%d\t%d %d %d\n", i, v[0], v[1], v[2])
		case [4]uint8:
			fmt.Fprintf(c.App.Writer, "%d\t%d %d %d %d\n", i, v[0], v[1], v[2], v[3])
		default:
			fmt.Fprintf(c.App.Writer, "%d\t%v\n", i, v)
		}
	}

	return nil
}

func canvasAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)
	conn, err := newConnector(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := conn.Canvas(c.Context, nil)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(c.Args().First(), m); err != nil {
		return cli.Exit(err, 1)
	}

	logger.WithField("file", c.Args().First()).Info("wrote canvas")

	return nil
}

func templateAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)
	conn, err := newConnector(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	t, err := conn.Template(c.Context, c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeImage(c.Args().Get(1), t.Image); err != nil {
		return cli.Exit(err, 1)
	}

	logger.WithFields(logrus.Fields{
		"file":   c.Args().Get(1),
		"x":      t.X,
		"y":      t.Y,
		"width":  t.Image.Bounds().Dx(),
		"height": t.Image.Bounds().Dy(),
	}).Info("wrote template")

	return nil
}

func statsAction(c *cli.Context) error {
	logger := newLogger(c)
	conn, err := newConnector(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	stats, err := conn.Stats(c.Context)
	if err != nil {
		return cli.Exit(err, 1)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func watchAction(c *cli.Context) error {
	logger := newLogger(c)
	conn, err := newConnector(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	info, err := conn.Info(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}

	d, err := canvas.NewDecoder(info.Palette)
	if err != nil {
		return cli.Exit(err, 1)
	}

	// Only keep a copy of the canvas if it's going to be written out
	var m *image.RGBA
	if c.NArg() > 0 {
		if m, err = conn.Canvas(ctx, info); err != nil {
			return cli.Exit(err, 1)
		}
	}

	pixels, errc, err := conn.Watch(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}

	names := info.Palette.Names()
	for px := range pixels {
		name := "transparent"
		if px.Color >= 0 && px.Color < len(names) {
			name = names[px.Color]
		}
		logger.WithFields(logrus.Fields{
			"x":     px.X,
			"y":     px.Y,
			"color": name,
		}).Info("pixel placed")

		if m != nil {
			if err := d.Apply(m, px); err != nil {
				logger.WithError(err).Warn("could not apply pixel")
			}
		}
	}

	if err := <-errc; err != nil {
		return cli.Exit(err, 1)
	}

	if m != nil {
		if err := writeImage(c.Args().First(), m); err != nil {
			return cli.Exit(err, 1)
		}
		logger.WithField("file", c.Args().First()).Info("wrote canvas")
	}

	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	app := cli.NewApp()

	app.Name = "pxls"
	app.Usage = "pxls canvas and template utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			EnvVars: []string{"PXLS_URL"},
			Value:   pxls.DefaultURL,
			Usage:   "base URL of the canvas",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "palette",
			Usage: "Print the canvas palette",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   string(palette.FormatHex),
					Usage:   "one of name, hex, rgb or rgba",
				},
			},
			Action: paletteAction,
		},
		{
			Name:      "canvas",
			Usage:     "Download the canvas as an image",
			ArgsUsage: "FILE",
			Action:    canvasAction,
		},
		{
			Name:        "template",
			Usage:       "Download and decode a template",
			Description: "LINK is a template link such as https://pxls.space/#template=...&tw=...&ox=...&oy=...",
			ArgsUsage:   "LINK FILE",
			Action:      templateAction,
		},
		{
			Name:   "stats",
			Usage:  "Print the canvas statistics",
			Action: statsAction,
		},
		{
			Name:        "watch",
			Usage:       "Log live pixel placements",
			Description: "If FILE is given the canvas is kept up to date and written there on interrupt",
			ArgsUsage:   "[FILE]",
			Action:      watchAction,
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}
