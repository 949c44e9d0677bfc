package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X main.version=..."
var (
	version = "v0.3.0"
	commit  = "unknown"
	builtBy = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:                   "imagetomap",
		Usage:                  "turn images into tile maps for grid worlds.",
		Description:            "imagetomap shrinks an image to whole 64x64 chunks, reduces it to the colors of the\nselected tiles and writes the run-length encoded tile layout plus a preview image.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"IMAGETOMAP_CONFIG"},
				Usage:   "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "path to a YAML tile catalog, the built-in one is used if unset",
			},
			&cli.StringFlag{
				Name:    "tiles",
				Aliases: []string{"t"},
				Usage:   "tile ids to use, separated by spaces or commas. Default is every tile",
			},
			&cli.BoolFlag{
				Name:  "no-dither",
				Usage: "snap each pixel to its closest tile color without error diffusion",
			},
			&cli.BoolFlag{
				Name:    "weighted",
				Aliases: []string{"w"},
				Usage:   "weight color channels by perceived luminance when comparing",
			},
			&cli.StringFlag{
				Name:    "matrix",
				Aliases: []string{"m"},
				Usage:   "error diffusion matrix name",
			},
			&cli.StringFlag{
				Name:    "strength",
				Aliases: []string{"s"},
				Usage:   "error diffusion strength, like 0.8 or 80%",
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "preview image format, png or gif",
			},
			&cli.StringFlag{
				Name:    "compression",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:    "in",
				Aliases: []string{"i"},
				Usage:   "input image, - for stdin",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file or directory, - for stdout",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "map name stored in the world document",
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "also log to this file, rotated",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:                   "convert",
				Usage:                  "write the world map and its preview image into the output directory",
				UseShortOptionHandling: true,
				Action:                 convertImage,
			},
			{
				Name:                   "preview",
				Usage:                  "write only the tile-colored preview image",
				UseShortOptionHandling: true,
				Action:                 preview,
			},
			{
				Name:  "suggest",
				Usage: "print the tiles closest to the dominant colors of the input image",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "colors",
						Aliases: []string{"n"},
						Value:   8,
					},
					&cli.StringFlag{
						Name:  "method",
						Value: "kmeans",
						Usage: "kmeans or mediancut",
					},
				},
				UseShortOptionHandling: true,
				Action:                 suggest,
			},
			{
				Name:   "tiles",
				Usage:  "list the catalog tile ids and colors",
				Action: listTiles,
			},
			{
				Name:   "matrices",
				Usage:  "list the error diffusion matrix names",
				Action: listMatrices,
			},
		},
		Before: preProcess,
		After:  postProcess,
		Action: func(c *cli.Context) error {
			return errors.New("no command specified")
		},
	}
}

func main() {
	app := newApp()

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("imagetomap", version)
		fmt.Println("Commit:", commit)
		fmt.Println("Built by:", builtBy)
		return
	}

	err := app.Run(os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Just ran the command with no flags
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
