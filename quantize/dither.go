package quantize

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
)

// Ditherer quantizes images to Palette with error diffusion.
//
// Pixels are visited row by row, left to right. Each pixel is snapped to its
// closest palette color using its current value, and the signed difference
// is spread onto unvisited neighbors according to Matrix. Neighbors outside
// the image are skipped. A neighbor channel becomes the old value plus the
// weighted error, clamped to 0-255 and truncated toward zero.
//
// Ditherer implements draw.Quantizer and draw.Drawer so it can be handed to
// image/gif.
type Ditherer struct {
	Palette  []color.NRGBA
	Weighted bool

	// Matrix is the diffusion kernel. The current pixel sits in the first row,
	// just before the first non-zero entry. nil means dither.FloydSteinberg.
	Matrix dither.ErrorDiffusionMatrix
}

// Dither applies Floyd-Steinberg error diffusion to a copy of img.
func Dither(img image.Image, palette []color.NRGBA, weighted bool) *image.NRGBA {
	d := &Ditherer{Palette: palette, Weighted: weighted}
	return d.Dither(img)
}

// currentPixel returns the column of the first matrix row that holds the
// pixel being processed.
func currentPixel(m dither.ErrorDiffusionMatrix) int {
	for i, v := range m[0] {
		if v != 0 {
			return i - 1
		}
	}
	return 0
}

func clampToByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Dither returns a dithered copy of img whose bounds start at (0, 0).
func (d *Ditherer) Dither(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)

	matrix := d.Matrix
	if len(matrix) == 0 {
		matrix = dither.FloydSteinberg
	}
	cur := currentPixel(matrix)

	w, h := out.Rect.Dx(), out.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			px := out.Pix[i : i+4 : i+4]

			old := color.NRGBA{px[0], px[1], px[2], 0xff}
			c := Closest(old, d.Palette, d.Weighted)
			qerr := [3]float64{
				float64(int(old.R) - int(c.R)),
				float64(int(old.G) - int(c.G)),
				float64(int(old.B) - int(c.B)),
			}
			px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A

			if qerr == [3]float64{} {
				continue
			}

			for my, row := range matrix {
				ny := y + my
				if ny >= h {
					break
				}
				for mx, k := range row {
					if k == 0 {
						continue
					}
					nx := x + mx - cur
					if nx < 0 || nx >= w {
						continue
					}
					j := out.PixOffset(nx, ny)
					for ch := 0; ch < 3; ch++ {
						out.Pix[j+ch] = clampToByte(float64(out.Pix[j+ch]) + qerr[ch]*float64(k))
					}
				}
			}
		}
	}
	return out
}

// Quantize implements draw.Quantizer. It ignores m and appends the palette
// to p.
func (d *Ditherer) Quantize(p color.Palette, m image.Image) color.Palette {
	for _, c := range d.Palette {
		c.A = 0xff
		p = append(p, c)
	}
	return p
}

// Draw implements draw.Drawer by dithering src and drawing the result.
func (d *Ditherer) Draw(dst draw.Image, r image.Rectangle, src image.Image, sp image.Point) {
	out := d.Dither(src)
	draw.Draw(dst, r, out, sp.Sub(src.Bounds().Min), draw.Src)
}
