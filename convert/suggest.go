package convert

import (
	"fmt"
	"image"
	"image/color"

	tilequant "github.com/apexlite/imagetomap/quantize"
	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/mccutchen/palettor"
	"go.uber.org/zap"
)

// Method picks how dominant colors are extracted.
type Method int

const (
	// KMeans clusters colors with palettor.
	KMeans Method = iota
	// MedianCut splits the color space with go-quantize.
	MedianCut
)

// ParseMethod accepts "kmeans" or "mediancut".
func ParseMethod(s string) (Method, error) {
	switch s {
	case "kmeans", "k-means":
		return KMeans, nil
	case "mediancut", "median-cut":
		return MedianCut, nil
	}
	return 0, fmt.Errorf("unknown suggestion method '%s', use kmeans or mediancut", s)
}

func (m Method) String() string {
	if m == MedianCut {
		return "mediancut"
	}
	return "kmeans"
}

func dominantColors(img image.Image, n int, m Method) ([]color.Color, error) {
	// Keep extraction fast, a thumbnail holds the same dominant colors
	thumbnail := imaging.Resize(img, 200, 200, imaging.NearestNeighbor)

	switch m {
	case MedianCut:
		q := quantize.MedianCutQuantizer{}
		return q.Quantize(make(color.Palette, 0, n), thumbnail), nil
	default:
		p, err := palettor.Extract(n, 500, thumbnail)
		if err != nil {
			return nil, err
		}
		return p.Colors(), nil
	}
}

// Suggest picks up to n tiles whose colors are closest to the dominant colors
// of img. The ids are returned in catalog order.
func (c *Converter) Suggest(img image.Image, n int, m Method, weighted bool) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("convert: cannot suggest %d tiles", n)
	}
	cat, err := c.catalogs.Catalog()
	if err != nil {
		return nil, fmt.Errorf("convert: catalog: %w", err)
	}

	colors, err := dominantColors(img, n, m)
	if err != nil {
		return nil, fmt.Errorf("convert: extracting colors: %w", err)
	}

	all := cat.All()
	picked := make(map[string]struct{})
	for _, dc := range colors {
		nc := color.NRGBAModel.Convert(dc).(color.NRGBA)
		id, err := cat.ID(tilequant.Closest(nc, all, weighted))
		if err != nil {
			return nil, err
		}
		picked[id] = struct{}{}
	}

	ids := make([]string, 0, len(picked))
	for _, id := range cat.IDs() {
		if _, ok := picked[id]; ok {
			ids = append(ids, id)
		}
	}
	c.logger.Debug("suggested tiles",
		zap.Stringer("method", m),
		zap.Int("colors", len(colors)),
		zap.Strings("tiles", ids),
	)
	return ids, nil
}
