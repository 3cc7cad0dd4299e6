package utils

import (
	"fmt"
	"strconv"
	"strings"
)

type ColorFloat [4]float32

func (c *ColorFloat) RGBA() (r, g, b, a uint32) {
	const mf = float32(256*256 - 1)
	r = uint32(c[0] * mf)
	g = uint32(c[1] * mf)
	b = uint32(c[2] * mf)
	a = uint32(c[3] * mf)
	return
}

func (c *ColorFloat) Vec3() [3]float32 {
	return [3]float32{c[0], c[1], c[2]}
}

func (c *ColorFloat) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x",
		uint8(c[0]*255.0), uint8(c[1]*255.0), uint8(c[2]*255.0))
}

func NewColorFloatA(c []float32) ColorFloat {
	return ColorFloat{c[0], c[1], c[2], c[3]}
}

func NewColorFloat(c []float32) ColorFloat {
	return ColorFloat{c[0], c[1], c[2], 1.0}
}

// NewColorFloatFromHex parses "#rrggbb" or "rrggbb" as exported in
// manifest color fields.
func NewColorFloatFromHex(s string) (ColorFloat, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return ColorFloat{}, fmt.Errorf("[utils] Invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorFloat{}, fmt.Errorf("[utils] Invalid hex color %q: %v", s, err)
	}
	return ColorFloat{
		float32((v>>16)&0xff) / 255.0,
		float32((v>>8)&0xff) / 255.0,
		float32(v&0xff) / 255.0,
		1.0,
	}, nil
}
