package catalog

import (
	"errors"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ground = []Tile{
		{"deep_ocean", color.NRGBA{0x3e, 0x62, 0xa3, 0xff}},
		{"sand", color.NRGBA{0xf7, 0xe8, 0x98, 0xff}},
		{"mountains", color.NRGBA{0x3d, 0x3d, 0x3d, 0xff}},
	}
	top = []Tile{
		{"grass_low", color.NRGBA{0x5a, 0xb0, 0x36, 0xff}},
		{"grass_high", color.NRGBA{0x3d, 0x8a, 0x23, 0xff}},
	}
)

func TestBuild(t *testing.T) {
	c := Build(ground, top)
	require.Equal(t, len(ground)+len(top), c.Len())

	assert.Equal(t, []string{
		"deep_ocean",
		"sand",
		"mountains",
		"soil_low:grass_low",
		"soil_high:grass_high",
	}, c.IDs())

	for _, id := range c.IDs() {
		col, ok := c.Color(id)
		require.True(t, ok)
		got, err := c.ID(col)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestTopID(t *testing.T) {
	tables := []struct {
		id, want string
	}{
		{"grass_high", "soil_high:grass_high"},
		{"highlands", "soil_high:highlands"},
		{"grass_low", "soil_low:grass_low"},
		{"swamp", "soil_low:swamp"},
		{"HIGH", "soil_low:HIGH"},
	}

	for _, table := range tables {
		t.Run(table.id, func(t *testing.T) {
			assert.Equal(t, table.want, TopID(table.id))
		})
	}
}

func TestAddSkipsDuplicates(t *testing.T) {
	c := Build(ground, nil)
	n := c.Len()

	// Same id, new color
	assert.False(t, c.Add("sand", color.NRGBA{1, 2, 3, 0xff}))
	// New id, same color
	assert.False(t, c.Add("beach", ground[1].Color))
	// New id, same color but different alpha
	assert.False(t, c.Add("beach", color.NRGBA{0xf7, 0xe8, 0x98, 0x10}))

	assert.Equal(t, n, c.Len())
	col, ok := c.Color("sand")
	require.True(t, ok)
	assert.Equal(t, ground[1].Color, col)
	_, ok = c.Color("beach")
	assert.False(t, ok)
	_, err := c.ID(color.NRGBA{1, 2, 3, 0xff})
	assert.Error(t, err)

	assert.True(t, c.Add("beach", color.NRGBA{1, 2, 3, 0xff}))
	assert.Equal(t, n+1, c.Len())
}

func TestBuildFirstWriterWins(t *testing.T) {
	c := Build(
		[]Tile{{"sand", color.NRGBA{10, 10, 10, 0xff}}},
		[]Tile{
			{"dune_low", color.NRGBA{10, 10, 10, 0xff}},
			{"dune_low", color.NRGBA{20, 20, 20, 0xff}},
			{"dune_low", color.NRGBA{30, 30, 30, 0xff}},
		},
	)
	assert.Equal(t, []string{"sand", "soil_low:dune_low"}, c.IDs())
	col, _ := c.Color("soil_low:dune_low")
	assert.Equal(t, color.NRGBA{20, 20, 20, 0xff}, col)
}

func TestColors(t *testing.T) {
	c := Build(ground, top)

	got := c.Colors([]string{"soil_low:grass_low", "nothing", "deep_ocean"})
	assert.Equal(t, []color.NRGBA{ground[0].Color, top[0].Color}, got)

	assert.Empty(t, c.Colors(nil))
	assert.Empty(t, c.Colors([]string{"nothing"}))
	assert.Len(t, c.All(), c.Len())
}

func TestIDIgnoresAlpha(t *testing.T) {
	c := Build(ground, nil)
	id, err := c.ID(color.NRGBA{0xf7, 0xe8, 0x98, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "sand", id)
}

func TestLookupError(t *testing.T) {
	c := Build(ground, top)

	_, err := c.ID(color.NRGBA{1, 2, 3, 0xff})
	require.Error(t, err)

	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, uint8(1), lerr.Color.R)
	assert.Equal(t, "catalog: no tile for color #010203", err.Error())
}

func TestLazyBuildsOnce(t *testing.T) {
	var calls int32
	l := NewLazy(func() ([]Tile, []Tile, error) {
		atomic.AddInt32(&calls, 1)
		return ground, top, nil
	})

	var wg sync.WaitGroup
	cats := make([]*Catalog, 16)
	for i := range cats {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := l.Catalog()
			assert.NoError(t, err)
			cats[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, c := range cats {
		assert.Same(t, cats[0], c)
	}
	assert.Equal(t, len(ground)+len(top), cats[0].Len())
}

func TestLazyKeepsError(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	l := NewLazy(func() ([]Tile, []Tile, error) {
		calls++
		return nil, nil, boom
	})

	for i := 0; i < 3; i++ {
		c, err := l.Catalog()
		assert.Nil(t, c)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 1, calls)
}

func TestCatalogIsProvider(t *testing.T) {
	var p Provider = Build(ground, top)
	c, err := p.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
}
