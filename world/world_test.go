package world

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apexlite/imagetomap/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatResult is a one tile map covered by a single tile.
func flatResult() *convert.Result {
	tiles := make([][]int, convert.TileSize)
	amounts := make([][]int, convert.TileSize)
	for i := range tiles {
		tiles[i] = []int{0}
		amounts[i] = []int{convert.TileSize}
	}
	return &convert.Result{
		Width:   1,
		Height:  1,
		Legend:  []string{"sand"},
		Tiles:   tiles,
		Amounts: amounts,
	}
}

func TestFromResult(t *testing.T) {
	m := FromResult(flatResult(), "")
	assert.Equal(t, SaveVersion, m.SaveVersion)
	assert.Equal(t, DefaultName, m.MapStats.Name)
	assert.Equal(t, []string{"sand"}, m.TileMap)
	assert.NoError(t, m.Validate())

	assert.Equal(t, "Pangaea", FromResult(flatResult(), "Pangaea").MapStats.Name)
}

func TestEncodeDecode(t *testing.T) {
	m := FromResult(flatResult(), "Pangaea")

	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf))

	js := buf.String()
	for _, key := range []string{`"saveVersion":13`, `"tileMap":["sand"]`, `"tileArray":[[0]`, `"tileAmounts":[[64]`, `"mapStats":{"name":"Pangaea"}`} {
		assert.Contains(t, js, key)
	}

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tables := map[string]func(m *Map){
		"no size":    func(m *Map) { m.Width = 0 },
		"rows":       func(m *Map) { m.TileArray = m.TileArray[1:]; m.TileAmounts = m.TileAmounts[1:] },
		"row width":  func(m *Map) { m.TileAmounts[3] = []int{63} },
		"bad index":  func(m *Map) { m.TileArray[5] = []int{1} },
		"wider map":  func(m *Map) { m.Width = 2 },
		"taller map": func(m *Map) { m.Height = 2 },
	}

	for name, mutate := range tables {
		t.Run(name, func(t *testing.T) {
			m := FromResult(flatResult(), "")
			mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot", "map.json")
	m := FromResult(flatResult(), "")

	require.NoError(t, m.Save(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC))
	assert.Error(t, m.Save(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}
