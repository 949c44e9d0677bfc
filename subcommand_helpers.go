package main

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apexlite/imagetomap/internal/config"
	"github.com/apexlite/imagetomap/quantize"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// globalFlag returns the value of flag at the top level of the command.
// For example, with the command:
//
//	imagetomap --in a.png suggest -n 4
//
// "in" is a global flag, and "n" is a flag local to the suggest subcommand.
func globalFlag(flag string, c *cli.Context) interface{} {
	ancestor := c.Lineage()[len(c.Lineage())-1]
	if len(ancestor.Args().Slice()) == 0 {
		// When the global context calls this func, the last in the lineage
		// has no args for some reason. So return the second-last instead.
		return c.Lineage()[len(c.Lineage())-2].Value(flag)
	}
	return ancestor.Value(flag)
}

// parseArgs takes arguments and splits them using the provided split characters.
func parseArgs(args []string, splitRunes string) []string {
	finalArgs := make([]string, 0)
	for _, arg := range args {
		finalArgs = append(finalArgs, strings.FieldsFunc(arg, func(c rune) bool {
			for _, c2 := range splitRunes {
				if c == c2 {
					return true
				}
			}
			return false
		})...)
	}
	return finalArgs
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(cfg *config.Config, c *cli.Context) error {
	if c.IsSet("catalog") {
		cfg.Catalog = c.String("catalog")
	}
	if c.IsSet("tiles") {
		cfg.Convert.Tiles = parseArgs([]string{c.String("tiles")}, " ,")
		if len(cfg.Convert.Tiles) == 0 {
			return errors.New("--tiles is set but names no tiles")
		}
	}
	if c.Bool("no-dither") {
		cfg.Convert.Dithering = false
	}
	if c.IsSet("weighted") {
		cfg.Convert.Weighted = c.Bool("weighted")
	}
	if c.IsSet("matrix") {
		cfg.Convert.Matrix = c.String("matrix")
	}
	if c.IsSet("strength") {
		tmp, err := parsePercentArg(c.String("strength"), true)
		if err != nil {
			return fmt.Errorf("strength: %w", err)
		}
		if tmp < -1 || tmp > 1 {
			return errors.New("strength must be in the range -1 to 1")
		}
		cfg.Convert.Strength = float32(tmp)
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("compression") {
		cfg.Output.Compression = c.String("compression")
	}
	if c.IsSet("name") {
		cfg.Output.Name = c.String("name")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Logging.LogFile = c.String("log-file")
	}
	return nil
}

// inOut returns the input and output flags, which are both required by
// the commands that write images.
func inOut(c *cli.Context) (string, string, error) {
	inPath := globalFlag("in", c).(string)
	outPath := globalFlag("out", c).(string)
	if inPath == "" {
		return "", "", errors.New("no input image, set --in")
	}
	if outPath == "" {
		return "", "", errors.New("no output, set --out")
	}
	return inPath, outPath, nil
}

// getInputImage loads an image from a path, or stdin for "-".
func getInputImage(arg string) (image.Image, error) {
	if arg == "-" {
		return imaging.Decode(os.Stdin, autoOrientation)
	}
	return imaging.Open(arg, autoOrientation)
}

// writeImage encodes a quantized image in the output format.
func writeImage(w io.Writer, img image.Image) error {
	if outFormat == "png" {
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(compLevel))
	}

	// Every pixel is already a palette color, so the ditherer only has to
	// map colors to indices here.
	d := &quantize.Ditherer{
		Palette:  tiles.Colors(opts.Tiles),
		Weighted: opts.Weighted,
	}
	return gif.Encode(
		w, img,
		&gif.Options{
			NumColors: len(d.Palette),
			Quantizer: d,
			Drawer:    d,
		},
	)
}

// writeImageFile writes img to path, or stdout for "-".
func writeImageFile(path string, img image.Image) error {
	if path == "-" {
		if err := writeImage(os.Stdout, img); err != nil {
			return fmt.Errorf("error writing %s to stdout: %w", strings.ToUpper(outFormat), err)
		}
		return nil
	}

	file, err := os.OpenFile(path, outFileFlags, 0644)
	if err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}
	if err := writeImage(file, img); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s to '%s': %w", strings.ToUpper(outFormat), path, err)
	}
	return file.Close()
}
