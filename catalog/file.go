package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type fileEntry struct {
	ID    string `yaml:"id"`
	Color string `yaml:"color"`
}

type file struct {
	Ground []fileEntry `yaml:"ground"`
	Top    []fileEntry `yaml:"top"`
}

func (e fileEntry) tile() (Tile, error) {
	if e.ID == "" {
		return Tile{}, fmt.Errorf("entry with color %q has no id", e.Color)
	}
	c, err := ParseColor(e.Color)
	if err != nil {
		return Tile{}, fmt.Errorf("tile %s: %w", e.ID, err)
	}
	return Tile{ID: e.ID, Color: c}, nil
}

func tiles(entries []fileEntry) ([]Tile, error) {
	ts := make([]Tile, 0, len(entries))
	for _, e := range entries {
		t, err := e.tile()
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// Decode reads ground and top tile lists from YAML.
func Decode(r io.Reader) (ground, top []Tile, err error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	if ground, err = tiles(f.Ground); err != nil {
		return nil, nil, fmt.Errorf("catalog: ground: %w", err)
	}
	if top, err = tiles(f.Top); err != nil {
		return nil, nil, fmt.Errorf("catalog: top: %w", err)
	}
	return ground, top, nil
}

// FileSource returns a Source reading the YAML catalog at path. An empty path
// selects the built-in catalog.
func FileSource(path string) Source {
	return func() ([]Tile, []Tile, error) {
		if path == "" {
			return DefaultSource()
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return Decode(f)
	}
}

// DefaultSource reads the built-in catalog.
func DefaultSource() ([]Tile, []Tile, error) {
	var f file
	if err := yaml.Unmarshal(defaultCatalog, &f); err != nil {
		return nil, nil, fmt.Errorf("catalog: built-in: %w", err)
	}
	ground, err := tiles(f.Ground)
	if err != nil {
		return nil, nil, err
	}
	top, err := tiles(f.Top)
	if err != nil {
		return nil, nil, err
	}
	return ground, top, nil
}
