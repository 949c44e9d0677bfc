package quantize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/makeworld-the-better-one/dither/v2"
)

var matrices = map[string]dither.ErrorDiffusionMatrix{
	"simple2d":            dither.Simple2D,
	"floydsteinberg":      dither.FloydSteinberg,
	"falsefloydsteinberg": dither.FalseFloydSteinberg,
	"jarvisjudiceninke":   dither.JarvisJudiceNinke,
	"atkinson":            dither.Atkinson,
	"stucki":              dither.Stucki,
	"burkes":              dither.Burkes,
	"sierra":              dither.Sierra,
	"sierra3":             dither.Sierra3,
	"tworowsierra":        dither.TwoRowSierra,
	"sierralite":          dither.SierraLite,
	"sierra24a":           dither.Sierra2_4A,
	"stevenpigeon":        dither.StevenPigeon,
}

func normalizeName(name string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
}

// Matrix returns the named error diffusion matrix scaled by strength. Names
// are case-insensitive and ignore '-' and '_'. A strength of 0 or 1 leaves
// the matrix unchanged.
func Matrix(name string, strength float32) (dither.ErrorDiffusionMatrix, error) {
	m, ok := matrices[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("unknown error diffusion matrix '%s'", name)
	}
	if strength == 0 || strength == 1 {
		return m, nil
	}
	return dither.ErrorDiffusionStrength(m, strength), nil
}

// MatrixNames returns the accepted matrix names, sorted.
func MatrixNames() []string {
	names := make([]string, 0, len(matrices))
	for n := range matrices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
