/*
Package tilemap run-length encodes a quantized image into a tile layout.

The layout is a legend of tile ids plus, per image row, a list of legend
indices and a parallel list of run lengths. Rows are stored bottom-up: source
row y lands in output row height-1-y. Legend indices are handed out in the
order tiles are first met while scanning the source top to bottom, left to
right.
*/
package tilemap

import (
	"fmt"
	"image"
	"image/color"
)

// Lookup resolves a pixel color to a tile id.
type Lookup interface {
	ID(c color.Color) (string, error)
}

// Layout is an encoded image.
type Layout struct {
	Legend  []string
	Tiles   [][]int
	Amounts [][]int
}

type encoder struct {
	tiles  Lookup
	layout *Layout
	index  map[string]int
}

// indexOf returns the legend index for the color, growing the legend on first
// sight.
func (e *encoder) indexOf(c color.Color) (int, error) {
	id, err := e.tiles.ID(c)
	if err != nil {
		return 0, err
	}
	if i, ok := e.index[id]; ok {
		return i, nil
	}
	i := len(e.layout.Legend)
	e.layout.Legend = append(e.layout.Legend, id)
	e.index[id] = i
	return i, nil
}

func (e *encoder) encodeRow(m image.Image, y, out int) error {
	b := m.Bounds()

	var tiles, amounts []int
	run, count := -1, 0
	for x := b.Min.X; x < b.Max.X; x++ {
		i, err := e.indexOf(m.At(x, y))
		if err != nil {
			return fmt.Errorf("tilemap: pixel (%d, %d): %w", x-b.Min.X, y-b.Min.Y, err)
		}
		switch {
		case x == b.Min.X || i == run:
			count++
		default:
			tiles = append(tiles, run)
			amounts = append(amounts, count)
			count = 1
		}
		run = i
	}
	tiles = append(tiles, run)
	amounts = append(amounts, count)

	e.layout.Tiles[out] = tiles
	e.layout.Amounts[out] = amounts
	return nil
}

// Encode builds the layout of m. Every pixel color must resolve through
// tiles; the first that does not aborts the encoding with its error.
func Encode(m image.Image, tiles Lookup) (*Layout, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("tilemap: empty image %v", b)
	}
	h := b.Dy()

	e := encoder{
		tiles: tiles,
		layout: &Layout{
			Tiles:   make([][]int, h),
			Amounts: make([][]int, h),
		},
		index: make(map[string]int),
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		if err := e.encodeRow(m, y, h-1-(y-b.Min.Y)); err != nil {
			return nil, err
		}
	}
	return e.layout, nil
}

// Width returns the pixel width covered by the layout's rows.
func (l *Layout) Width() int {
	if len(l.Amounts) == 0 {
		return 0
	}
	w := 0
	for _, n := range l.Amounts[0] {
		w += n
	}
	return w
}

// Validate checks that every row covers width pixels, that both arrays have
// the same shape, that indices are inside the legend and that neighboring
// runs differ.
func (l *Layout) Validate(width int) error {
	if len(l.Tiles) != len(l.Amounts) {
		return fmt.Errorf("tilemap: %d tile rows but %d amount rows", len(l.Tiles), len(l.Amounts))
	}
	for r := range l.Tiles {
		if len(l.Tiles[r]) != len(l.Amounts[r]) {
			return fmt.Errorf("tilemap: row %d has %d tiles but %d amounts", r, len(l.Tiles[r]), len(l.Amounts[r]))
		}
		sum := 0
		for i, t := range l.Tiles[r] {
			if t < 0 || t >= len(l.Legend) {
				return fmt.Errorf("tilemap: row %d run %d: index %d outside legend", r, i, t)
			}
			if i > 0 && l.Tiles[r][i-1] == t {
				return fmt.Errorf("tilemap: row %d runs %d and %d share index %d", r, i-1, i, t)
			}
			if l.Amounts[r][i] <= 0 {
				return fmt.Errorf("tilemap: row %d run %d has length %d", r, i, l.Amounts[r][i])
			}
			sum += l.Amounts[r][i]
		}
		if sum != width {
			return fmt.Errorf("tilemap: row %d covers %d pixels, want %d", r, sum, width)
		}
	}
	return nil
}

// Palette resolves a tile id to its color.
type Palette interface {
	Color(id string) (color.NRGBA, bool)
}

// Render draws the layout back into an image, undoing the vertical flip.
func Render(l *Layout, p Palette) (*image.NRGBA, error) {
	w, h := l.Width(), len(l.Tiles)
	if err := l.Validate(w); err != nil {
		return nil, err
	}

	colors := make([]color.NRGBA, len(l.Legend))
	for i, id := range l.Legend {
		c, ok := p.Color(id)
		if !ok {
			return nil, fmt.Errorf("tilemap: legend entry %d: unknown tile %s", i, id)
		}
		colors[i] = c
	}

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for r := range l.Tiles {
		y := h - 1 - r
		x := 0
		for i, t := range l.Tiles[r] {
			for n := 0; n < l.Amounts[r][i]; n++ {
				m.SetNRGBA(x, y, colors[t])
				x++
			}
		}
	}
	return m, nil
}
