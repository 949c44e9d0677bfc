/*
Package convert turns an image into a tile layout.

The image is shrunk to a multiple of TileSize on both axes with Lanczos-3
resampling, reduced to the colors of the selected tiles and run-length
encoded with the tilemap package.
*/
package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/apexlite/imagetomap/catalog"
	"github.com/apexlite/imagetomap/quantize"
	"github.com/apexlite/imagetomap/tilemap"
	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"go.uber.org/zap"
)

// TileSize is the edge of a world chunk in pixels.
const TileSize = 64

var (
	// ErrEmptyPalette means the selected tiles matched no catalog colors.
	ErrEmptyPalette = errors.New("convert: selected tiles match no catalog colors")

	// ErrImageTooSmall means a side of the image is shorter than TileSize.
	ErrImageTooSmall = errors.New("convert: image is smaller than one tile")
)

// Options control a conversion.
type Options struct {
	// Tiles is the tile selection. Catalog order decides palette order.
	Tiles []string

	Dithering bool
	Weighted  bool

	// Matrix overrides the diffusion kernel, nil means Floyd-Steinberg.
	Matrix dither.ErrorDiffusionMatrix
}

// DefaultOptions selects every tile in c, with dithering and unweighted
// distances.
func DefaultOptions(c *catalog.Catalog) Options {
	return Options{
		Tiles:     c.IDs(),
		Dithering: true,
	}
}

// Result is a finished conversion.
type Result struct {
	// Image is the quantized image, every pixel a selected tile color.
	Image *image.NRGBA

	// Width and Height are in tiles.
	Width  int
	Height int

	Legend  []string
	Tiles   [][]int
	Amounts [][]int
}

// Converter runs conversions against a catalog.
type Converter struct {
	catalogs catalog.Provider
	logger   *zap.Logger
}

// New returns a Converter. A nil logger discards everything.
func New(p catalog.Provider, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		catalogs: p,
		logger:   logger,
	}
}

// Resize shrinks img so both sides are multiples of TileSize, truncating.
// An already aligned image is copied as is.
func Resize(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := b.Dx()/TileSize*TileSize, b.Dy()/TileSize*TileSize
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, b.Dx(), b.Dy())
	}
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

func (c *Converter) palette(cat *catalog.Catalog, ids []string) ([]color.NRGBA, error) {
	p := cat.Colors(ids)
	if len(p) != len(ids) {
		for _, id := range ids {
			if _, ok := cat.Color(id); !ok {
				c.logger.Warn("selected tile not in catalog", zap.String("tile", id))
			}
		}
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return p, nil
}

// Preview resizes img and reduces it to the selected tile colors.
func (c *Converter) Preview(img image.Image, opts Options) (*image.NRGBA, error) {
	cat, err := c.catalogs.Catalog()
	if err != nil {
		return nil, fmt.Errorf("convert: catalog: %w", err)
	}
	return c.preview(cat, img, opts)
}

func (c *Converter) preview(cat *catalog.Catalog, img image.Image, opts Options) (*image.NRGBA, error) {
	p, err := c.palette(cat, opts.Tiles)
	if err != nil {
		return nil, err
	}

	resized, err := Resize(img)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("resized",
		zap.Int("fromWidth", img.Bounds().Dx()),
		zap.Int("fromHeight", img.Bounds().Dy()),
		zap.Int("width", resized.Rect.Dx()),
		zap.Int("height", resized.Rect.Dy()),
	)

	c.logger.Debug("quantizing",
		zap.Int("colors", len(p)),
		zap.Bool("dithering", opts.Dithering),
		zap.Bool("weighted", opts.Weighted),
	)
	if !opts.Dithering {
		return quantize.ToPalette(resized, p, opts.Weighted), nil
	}
	d := &quantize.Ditherer{
		Palette:  p,
		Weighted: opts.Weighted,
		Matrix:   opts.Matrix,
	}
	return d.Dither(resized), nil
}

// Convert produces the tile layout of img. Either the whole Result is
// returned or an error.
func (c *Converter) Convert(img image.Image, opts Options) (*Result, error) {
	cat, err := c.catalogs.Catalog()
	if err != nil {
		return nil, fmt.Errorf("convert: catalog: %w", err)
	}

	q, err := c.preview(cat, img, opts)
	if err != nil {
		return nil, err
	}

	layout, err := tilemap.Encode(q, cat)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Image:   q,
		Width:   q.Rect.Dx() / TileSize,
		Height:  q.Rect.Dy() / TileSize,
		Legend:  layout.Legend,
		Tiles:   layout.Tiles,
		Amounts: layout.Amounts,
	}
	c.logger.Info("converted",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Strings("legend", res.Legend),
	)
	return res, nil
}
