package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/elizagamedev/monocle"
	"github.com/elizagamedev/monocle/frame"
	"github.com/nfnt/resize"
	"github.com/urfave/cli/v2"
)

const defaultDB = "monocle.db"

var interpolations = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var encodeFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "colors",
		Usage: "reduce the image to at most this many colors, 0 to disable",
	},
	&cli.StringFlag{
		Name:  "interpolation",
		Value: "lanczos3",
		Usage: "resampling used for images that are not 640x400 (nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3)",
	},
	&cli.BoolFlag{
		Name:  "average-chroma",
		Usage: "average the chroma of each column pair instead of using the first pixel",
	},
}

func encodeOptions(c *cli.Context) ([]monocle.Option, error) {
	interp, ok := interpolations[strings.ToLower(c.String("interpolation"))]
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q", c.String("interpolation"))
	}

	opts := []monocle.Option{
		monocle.WithColors(c.Int("colors")),
		monocle.WithInterpolation(interp),
	}
	if c.Bool("average-chroma") {
		opts = append(opts, monocle.WithChroma(frame.ChromaAverage))
	}
	return opts, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func main() {
	app := cli.NewApp()

	app.Name = "monocle"
	app.Usage = "Monocle display image encoder and transfer utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MONOCLE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to transfer session database, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode an image as a .mci file",
			ArgsUsage: "IMAGE OUTPUT",
			Flags:     encodeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				opts, err := encodeOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := monocle.New("", newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Encode(c.Args().Get(0), c.Args().Get(1), opts...); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Render a .mci file as PNG",
			ArgsUsage: "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				m, err := monocle.New("", newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Decode(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "stats",
			Usage:     "Print the encoded size of an image or .mci file",
			ArgsUsage: "INPUT",
			Flags:     encodeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				opts, err := encodeOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := monocle.New("", newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				s, err := m.Stats(c.Args().First(), opts...)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("luma rows = %d, chroma rows = %d\n", s.LumaRows, s.ChromaRows)
				fmt.Printf("approximately %d bytes (luma = %d, chroma = %d)\n", s.Bytes(), s.LumaBytes, s.ChromaBytes)

				return nil
			},
		},
		{
			Name:        "transfer",
			Usage:       "Simulate sending an image over a lossy link",
			Description: "Encodes INPUT, sends it through an in-process link that loses messages and writes what was received to OUTPUT as PNG. Aborted transfers can be resumed with --session.",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "mtu",
					Value: monocle.DefaultMTU,
					Usage: "maximum payload size in bytes",
				},
				&cli.IntFlag{
					Name:  "drop",
					Usage: "lose every nth message, 0 for a perfect link",
				},
				&cli.IntFlag{
					Name:  "max-messages",
					Usage: "abort after this many messages, 0 for no limit",
				},
				&cli.StringFlag{
					Name:  "session",
					Usage: "resume an earlier transfer session",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				opts, err := encodeOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := monocle.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				id, stats, err := m.Transfer(ctx, c.Args().Get(0), c.Args().Get(1), monocle.TransferOptions{
					MTU:         c.Int("mtu"),
					DropEvery:   c.Int("drop"),
					MaxMessages: c.Int("max-messages"),
					Session:     c.String("session"),
				}, opts...)
				fmt.Printf("%d messages, %d dropped, %d confirmation rounds\n", stats.Messages, stats.Dropped, stats.Confirmations)
				if err != nil {
					if id != "" {
						return cli.Exit(fmt.Sprintf("%v (resume with --session %s)", err, id), 1)
					}
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Encode every image below a directory as .mci files",
			ArgsUsage: "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of images encoded concurrently",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				opts, err := encodeOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := monocle.New("", newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Batch(context.Background(), c.Args().First(), c.Int("workers"), opts...); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
