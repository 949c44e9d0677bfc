package main

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/apexlite/imagetomap/world"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, imaging.Save(m, path))
	return path
}

func run(args ...string) error {
	return newApp().Run(append([]string{"imagetomap", "--log-level", "error"}, args...))
}

func TestConvertCommand(t *testing.T) {
	in := writeTestImage(t, 150, 140)
	out := t.TempDir()

	require.NoError(t, run("--in", in, "--out", out, "--tiles", "deep_ocean,sand soil_low", "--name", "Test", "convert"))

	f, err := os.Open(filepath.Join(out, mapFilename))
	require.NoError(t, err)
	defer f.Close()
	m, err := world.Decode(f)
	require.NoError(t, err)

	require.NoError(t, m.Validate())
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, "Test", m.MapStats.Name)
	assert.Equal(t, world.SaveVersion, m.SaveVersion)
	for _, id := range m.TileMap {
		assert.Contains(t, []string{"deep_ocean", "sand", "soil_low"}, id)
	}

	p, err := imaging.Open(filepath.Join(out, "preview.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), p.Bounds())
}

func TestConvertCommandNoOverwrite(t *testing.T) {
	in := writeTestImage(t, 64, 64)
	out := t.TempDir()

	require.NoError(t, run("--in", in, "--out", out, "convert"))
	assert.Error(t, run("--in", in, "--out", out, "--no-overwrite", "convert"))
}

func TestPreviewCommandGIF(t *testing.T) {
	in := writeTestImage(t, 70, 130)
	out := filepath.Join(t.TempDir(), "preview.gif")

	require.NoError(t, run("--in", in, "--out", out, "--format", "gif", "--weighted", "--no-dither", "preview"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 128), g.Bounds())
}

func TestCommandErrors(t *testing.T) {
	in := writeTestImage(t, 64, 64)
	small := writeTestImage(t, 32, 32)
	out := t.TempDir()

	tables := map[string][]string{
		"no input":     {"--out", out, "convert"},
		"no output":    {"--in", in, "convert"},
		"missing file": {"--in", filepath.Join(out, "nope.png"), "--out", out, "convert"},
		"too small":    {"--in", small, "--out", out, "convert"},
		"bad tiles":    {"--in", in, "--out", out, "--tiles", "lava", "convert"},
		"bad format":   {"--in", in, "--out", out, "--format", "bmp", "preview"},
		"bad matrix":   {"--in", in, "--out", out, "--matrix", "nope", "preview"},
		"bad strength": {"--in", in, "--out", out, "--strength", "150%", "preview"},
		"bad method":   {"--in", in, "suggest", "--method", "octree"},
		"no command":   {"--in", in},
	}

	for name, args := range tables {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args...))
		})
	}
}

func TestConfigFile(t *testing.T) {
	in := writeTestImage(t, 64, 64)
	out := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("convert:\n  tiles: [sand]\n  dithering: false\n"), 0644))

	require.NoError(t, run("--config", cfgPath, "--in", in, "--out", out, "convert"))
	assert.Equal(t, []string{"sand"}, opts.Tiles)
	assert.False(t, opts.Dithering)

	f, err := os.Open(filepath.Join(out, mapFilename))
	require.NoError(t, err)
	defer f.Close()
	m, err := world.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand"}, m.TileMap)
}

func TestListCommands(t *testing.T) {
	assert.NoError(t, run("tiles"))
	assert.NoError(t, run("matrices"))
}

func TestParsePercentArg(t *testing.T) {
	tables := []struct {
		arg    string
		maxOne bool
		want   float64
	}{
		{"", true, 0},
		{"50%", true, 0.5},
		{"50%", false, 50},
		{"0.5", true, 0.5},
		{"0.5", false, 50},
	}
	for _, table := range tables {
		got, err := parsePercentArg(table.arg, table.maxOne)
		require.NoError(t, err)
		assert.InDelta(t, table.want, got, 1e-9)
	}

	_, err := parsePercentArg("abc%", true)
	assert.Error(t, err)
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"sand", "deep_ocean", "soil_low:grass_low"},
		parseArgs([]string{"sand, deep_ocean  soil_low:grass_low"}, " ,"),
	)
	assert.Empty(t, parseArgs([]string{" , "}, " ,"))
}
