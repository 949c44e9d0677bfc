package main

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/apexlite/imagetomap/catalog"
	"github.com/apexlite/imagetomap/convert"
	"github.com/apexlite/imagetomap/internal/config"
	"github.com/apexlite/imagetomap/internal/logger"
	"github.com/apexlite/imagetomap/quantize"
	"github.com/apexlite/imagetomap/world"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only 'png' or 'gif' are accepted"

	mapFilename     = "map.json"
	previewBasename = "preview"
)

var (
	cfg *config.Config

	log *zap.Logger

	// tiles is built once in preProcess and only read afterwards.
	tiles *catalog.Catalog

	converter *convert.Converter

	// opts holds the resolved conversion settings. opts.Tiles is never empty.
	opts convert.Options

	autoOrientation imaging.DecodeOption

	outFormat string // "png" or "gif"

	compLevel png.CompressionLevel

	outFileFlags int // For os.OpenFile
)

// preProcess is automatically called by the app before anything else.
// It's run in the global context.
func preProcess(c *cli.Context) error {
	var err error

	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, c); err != nil {
		return err
	}

	log = logger.New(cfg.Logging.Level, cfg.Logging.LogFile)

	lazy := catalog.NewLazy(catalog.FileSource(cfg.Catalog))
	tiles, err = lazy.Catalog()
	if err != nil {
		return fmt.Errorf("loading tile catalog: %w", err)
	}
	if tiles.Len() == 0 {
		return errors.New("the tile catalog is empty")
	}
	log.Debug("catalog loaded", zap.Int("tiles", tiles.Len()), zap.String("path", cfg.Catalog))

	converter = convert.New(lazy, log)

	opts = convert.Options{
		Tiles:     cfg.Convert.Tiles,
		Dithering: cfg.Convert.Dithering,
		Weighted:  cfg.Convert.Weighted,
	}
	if len(opts.Tiles) == 0 {
		opts.Tiles = tiles.IDs()
	}
	opts.Matrix, err = quantize.Matrix(cfg.Convert.Matrix, cfg.Convert.Strength)
	if err != nil {
		return err
	}

	autoOrientation = imaging.AutoOrientation(!c.Bool("no-exif-rotation"))

	outFormat = cfg.Output.Format
	if outFormat != "png" && outFormat != "gif" {
		return fmt.Errorf(unsupportedFormat, outFormat)
	}
	if outFormat == "gif" && len(tiles.Colors(opts.Tiles)) > 256 {
		return errors.New("the GIF format only supports 256 colors or less in the palette")
	}

	// Set PNG compression type

	switch cfg.Output.Compression {
	case "default", "":
		compLevel = png.DefaultCompression
	case "no":
		compLevel = png.NoCompression
	case "speed":
		compLevel = png.BestSpeed
	case "size":
		compLevel = png.BestCompression
	default:
		return fmt.Errorf("invalid compression type '%s'", cfg.Output.Compression)
	}

	if c.Bool("no-overwrite") {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	} else {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	return nil
}

// postProcess flushes the logger.
func postProcess(c *cli.Context) error {
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

// convertImage writes the world map and the preview image. With an output
// of "-" only the map is written, to stdout.
func convertImage(c *cli.Context) error {
	inPath, outPath, err := inOut(c)
	if err != nil {
		return err
	}

	img, err := getInputImage(inPath)
	if err != nil {
		return fmt.Errorf("error loading '%s': %w", inPath, err)
	}

	res, err := converter.Convert(img, opts)
	if err != nil {
		return err
	}
	m := world.FromResult(res, cfg.Output.Name)

	if outPath == "-" {
		return m.Encode(os.Stdout)
	}

	if fi, err := os.Stat(outPath); err == nil && !fi.IsDir() {
		return fmt.Errorf("'%s' is a file, convert needs an output directory", outPath)
	}

	mapPath := filepath.Join(outPath, mapFilename)
	if err := m.Save(mapPath, outFileFlags); err != nil {
		return fmt.Errorf("error writing map to '%s': %w", mapPath, err)
	}

	previewPath := filepath.Join(outPath, previewBasename+"."+outFormat)
	if err := writeImageFile(previewPath, res.Image); err != nil {
		return err
	}

	log.Info("map written",
		zap.String("map", mapPath),
		zap.String("preview", previewPath),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("legend", len(m.TileMap)),
	)
	return nil
}

// preview writes the quantized image only.
func preview(c *cli.Context) error {
	inPath, outPath, err := inOut(c)
	if err != nil {
		return err
	}

	img, err := getInputImage(inPath)
	if err != nil {
		return fmt.Errorf("error loading '%s': %w", inPath, err)
	}

	q, err := converter.Preview(img, opts)
	if err != nil {
		return err
	}

	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		// Same name as input file but potentially different extension
		outPath = filepath.Join(
			outPath,
			strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))+"."+outFormat,
		)
	}
	return writeImageFile(outPath, q)
}

func suggest(c *cli.Context) error {
	inPath := globalFlag("in", c).(string)
	if inPath == "" {
		return errors.New("no input image, set --in")
	}

	method, err := convert.ParseMethod(strings.ToLower(c.String("method")))
	if err != nil {
		return err
	}

	img, err := getInputImage(inPath)
	if err != nil {
		return fmt.Errorf("error loading '%s': %w", inPath, err)
	}

	ids, err := converter.Suggest(img, c.Int("colors"), method, opts.Weighted)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(ids, " "))
	return nil
}

func listTiles(c *cli.Context) error {
	for _, id := range tiles.IDs() {
		col, _ := tiles.Color(id)
		fmt.Printf("%s\t%s\n", id, catalog.Hex(col))
	}
	return nil
}

func listMatrices(c *cli.Context) error {
	for _, name := range quantize.MatrixNames() {
		fmt.Println(name)
	}
	return nil
}
