/*
Package quantize reduces images to a fixed palette of tile colors, either pixel
by pixel or with error diffusion.

Distances are squared RGB differences. When weighted, the channel differences
are scaled by 0.3, 0.59 and 0.11 before squaring. Alpha is ignored and every
output pixel is opaque. The palette must not be empty.
*/
package quantize

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	redWeight   = 0.3
	greenWeight = 0.59
	blueWeight  = 0.11
)

func distance(a, b color.NRGBA, weighted bool) float64 {
	dr := float64(int(a.R) - int(b.R))
	dg := float64(int(a.G) - int(b.G))
	db := float64(int(a.B) - int(b.B))
	if weighted {
		dr *= redWeight
		dg *= greenWeight
		db *= blueWeight
	}
	return dr*dr + dg*dg + db*db
}

// Closest returns the palette color nearest to c. On equal distances the
// earliest palette entry wins.
func Closest(c color.NRGBA, palette []color.NRGBA, weighted bool) color.NRGBA {
	var best color.NRGBA
	bestDist := math.Inf(1)
	for _, p := range palette {
		if d := distance(c, p, weighted); d < bestDist {
			best, bestDist = p, d
		}
	}
	best.A = 0xff
	return best
}

// ToPalette returns a copy of img with every pixel replaced by its closest
// palette color. The copy's bounds start at (0, 0).
func ToPalette(img image.Image, palette []color.NRGBA, weighted bool) *image.NRGBA {
	out := imaging.Clone(img)

	// Flat images hit the same few colors over and over
	seen := make(map[color.NRGBA]color.NRGBA)

	for i := 0; i+3 < len(out.Pix); i += 4 {
		px := out.Pix[i : i+4 : i+4]
		c := color.NRGBA{px[0], px[1], px[2], 0xff}
		q, ok := seen[c]
		if !ok {
			q = Closest(c, palette, weighted)
			seen[c] = q
		}
		px[0], px[1], px[2], px[3] = q.R, q.G, q.B, q.A
	}
	return out
}
