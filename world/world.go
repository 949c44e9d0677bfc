// Package world assembles converted layouts into a world map document.
package world

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apexlite/imagetomap/convert"
	"github.com/apexlite/imagetomap/tilemap"
)

const (
	// SaveVersion is the document version written to every map.
	SaveVersion = 13

	// DefaultName is used when a map is given no name.
	DefaultName = "BigBot's Inauspicious Kingdom"
)

// Stats holds map metadata.
type Stats struct {
	Name string `json:"name"`
}

// Map is the world document. Width and Height are in tiles, the run arrays
// are in pixels, one row per pixel row, bottom row first.
type Map struct {
	SaveVersion int      `json:"saveVersion"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	MapStats    Stats    `json:"mapStats"`
	TileMap     []string `json:"tileMap"`
	TileArray   [][]int  `json:"tileArray"`
	TileAmounts [][]int  `json:"tileAmounts"`
}

// FromResult builds a Map from a conversion.
func FromResult(r *convert.Result, name string) *Map {
	if name == "" {
		name = DefaultName
	}
	return &Map{
		SaveVersion: SaveVersion,
		Width:       r.Width,
		Height:      r.Height,
		MapStats:    Stats{Name: name},
		TileMap:     r.Legend,
		TileArray:   r.Tiles,
		TileAmounts: r.Amounts,
	}
}

// Layout returns the run-length layout of the map.
func (m *Map) Layout() *tilemap.Layout {
	return &tilemap.Layout{
		Legend:  m.TileMap,
		Tiles:   m.TileArray,
		Amounts: m.TileAmounts,
	}
}

// Validate checks the run arrays against the map size.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("world: bad size %dx%d", m.Width, m.Height)
	}
	if rows := m.Height * convert.TileSize; len(m.TileArray) != rows {
		return fmt.Errorf("world: %d rows, want %d", len(m.TileArray), rows)
	}
	if err := m.Layout().Validate(m.Width * convert.TileSize); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	return nil
}

// Encode writes m to w as JSON.
func (m *Map) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

// Save writes m to path, creating parent directories.
func (m *Map) Save(path string, flags int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a Map from r.
func Decode(r io.Reader) (*Map, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	return &m, nil
}
