/*
Package catalog holds the one-to-one mapping between tile ids and the colors
that stand for them in an image.

A catalog is built from two ordered lists, ground tiles and then top tiles.
Top tile ids are namespaced with "soil_high:" or "soil_low:". An entry is only
added if neither its id nor its color is already present, so the first writer
wins and later duplicates are dropped without error. Alpha is never compared.
*/
package catalog

import (
	"fmt"
	"image/color"
	"strings"
)

const (
	highPrefix = "soil_high:"
	lowPrefix  = "soil_low:"
)

// Tile is a raw catalog entry.
type Tile struct {
	ID    string
	Color color.NRGBA
}

// rgb is the comparison key for a color. Alpha is left out on purpose.
type rgb struct {
	r, g, b uint8
}

func keyOf(c color.NRGBA) rgb {
	return rgb{c.R, c.G, c.B}
}

// LookupError is returned when a color has no tile id in the catalog.
type LookupError struct {
	Color color.NRGBA
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("catalog: no tile for color #%02x%02x%02x", e.Color.R, e.Color.G, e.Color.B)
}

// Catalog maps tile ids to colors and back. It is read-only once built.
type Catalog struct {
	ids    []string // insertion order
	colors map[string]color.NRGBA
	tiles  map[rgb]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		colors: make(map[string]color.NRGBA),
		tiles:  make(map[rgb]string),
	}
}

// Build returns a catalog holding the ground tiles followed by the namespaced
// top tiles.
func Build(ground, top []Tile) *Catalog {
	c := New()
	for _, t := range ground {
		c.Add(t.ID, t.Color)
	}
	for _, t := range top {
		c.Add(TopID(t.ID), t.Color)
	}
	return c
}

// TopID returns the namespaced id of a top tile.
func TopID(id string) string {
	if strings.Contains(id, "high") {
		return highPrefix + id
	}
	return lowPrefix + id
}

// Add inserts the pair if neither id nor color is known yet. It reports
// whether the pair was added.
func (c *Catalog) Add(id string, col color.NRGBA) bool {
	if _, ok := c.colors[id]; ok {
		return false
	}
	k := keyOf(col)
	if _, ok := c.tiles[k]; ok {
		return false
	}
	col.A = 0xff
	c.ids = append(c.ids, id)
	c.colors[id] = col
	c.tiles[k] = id
	return true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns the tile ids in insertion order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Color returns the color of a tile id.
func (c *Catalog) Color(id string) (color.NRGBA, bool) {
	col, ok := c.colors[id]
	return col, ok
}

// ID returns the tile id for a color. A *LookupError is returned if the
// color is not in the catalog.
func (c *Catalog) ID(col color.Color) (string, error) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	id, ok := c.tiles[keyOf(n)]
	if !ok {
		return "", &LookupError{Color: n}
	}
	return id, nil
}

// Colors returns the colors of the given ids, in catalog order. Ids that are
// not in the catalog are ignored, as is the order of ids.
func (c *Catalog) Colors(ids []string) []color.NRGBA {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	p := make([]color.NRGBA, 0, len(want))
	for _, id := range c.ids {
		if _, ok := want[id]; ok {
			p = append(p, c.colors[id])
		}
	}
	return p
}

// All returns every color in catalog order.
func (c *Catalog) All() []color.NRGBA {
	return c.Colors(c.ids)
}

// Catalog makes *Catalog a Provider.
func (c *Catalog) Catalog() (*Catalog, error) {
	return c, nil
}
