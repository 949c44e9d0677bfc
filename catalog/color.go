package catalog

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

func hexToColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

func rgbToColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

func rgbaToColor(s string) (color.NRGBA, error) {
	var r, g, b, a uint8
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r, &g, &b, &a)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 4 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGBA tuple", s)
	}
	return color.NRGBA{r, g, b, a}, nil
}

// ParseColor parses an RGB tuple like "25,200,150", an RGBA tuple, a hex code
// with or without '#', a single gray level 0-255 or an SVG color name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", ""))

	switch strings.Count(s, ",") {
	case 2:
		c, err := rgbToColor(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%s is not a valid RGB tuple. Example: 25,200,150", s)
		}
		return c, nil
	case 3:
		c, err := rgbaToColor(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%s is not a valid RGBA tuple. Example: 25,200,150,255", s)
		}
		return c, nil
	}

	if c, err := hexToColor(s); err == nil {
		return c, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n > 255 || n < 0 {
			return color.NRGBA{}, fmt.Errorf("single numbers like %d must be in the range 0-255", n)
		}
		return color.NRGBA{uint8(n), uint8(n), uint8(n), 255}, nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBAModel.Convert(c).(color.NRGBA), nil
	}

	return color.NRGBA{}, fmt.Errorf("%s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", s)
}

// Hex formats a color as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
