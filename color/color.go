// Package color provides the colour types used by border keys and GPU blocks.
//
// [ColorF] is the computation form (straight alpha, float32), [ColorU] the
// quantized 8-bit form stored in keys, and [PremultipliedColorF] the form
// written into GPU cache blocks.
package color

import (
	"errors"
	"fmt"
)

// ErrInvalidHex is returned by Hex for malformed colour strings.
var ErrInvalidHex = errors.New("color: invalid hex colour")

// ColorF is a straight-alpha colour with float32 components in [0,1].
type ColorF struct {
	R, G, B, A float32
}

// ColorU is a straight-alpha colour with 8-bit components.
type ColorU struct {
	R, G, B, A uint8
}

// PremultipliedColorF is a colour whose RGB components are already
// multiplied by alpha.
type PremultipliedColorF struct {
	R, G, B, A float32
}

// Common colours.
var (
	Transparent = ColorF{}
	Black       = ColorF{A: 1}
	White       = ColorF{R: 1, G: 1, B: 1, A: 1}

	// PremultipliedWhite is opaque white in premultiplied form.
	PremultipliedWhite = PremultipliedColorF{R: 1, G: 1, B: 1, A: 1}
)

// RGBA creates a colour from float components.
func RGBA(r, g, b, a float32) ColorF {
	return ColorF{R: r, G: g, B: b, A: a}
}

// Premultiplied returns c with RGB multiplied by alpha.
func (c ColorF) Premultiplied() PremultipliedColorF {
	return PremultipliedColorF{
		R: c.R * c.A,
		G: c.G * c.A,
		B: c.B * c.A,
		A: c.A,
	}
}

// IsOpaque reports whether alpha is 1.
func (c ColorF) IsOpaque() bool {
	return c.A >= 1
}

// ToU quantizes the colour to 8 bits per channel with rounding.
func (c ColorF) ToU() ColorU {
	return ColorU{
		R: clampAndRound(c.R),
		G: clampAndRound(c.G),
		B: clampAndRound(c.B),
		A: clampAndRound(c.A),
	}
}

// ToF expands the colour to float components.
func (c ColorU) ToF() ColorF {
	return ColorF{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// Array returns the premultiplied colour as a four-component array in
// RGBA order, the layout of one GPU block.
func (c PremultipliedColorF) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// clampAndRound clamps v to [0,1] and converts to uint8 with rounding.
func clampAndRound(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA", with or without a
// leading '#'.
func Hex(s string) (ColorF, error) {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	a := uint32(255)
	var err error

	switch len(hex) {
	case 3, 4:
		if r, err = parseHex(hex[0:1]); err == nil {
			if g, err = parseHex(hex[1:2]); err == nil {
				b, err = parseHex(hex[2:3])
			}
		}
		if err == nil && len(hex) == 4 {
			a, err = parseHex(hex[3:4])
			a *= 17
		}
		r, g, b = r*17, g*17, b*17
	case 6, 8:
		if r, err = parseHex(hex[0:2]); err == nil {
			if g, err = parseHex(hex[2:4]); err == nil {
				b, err = parseHex(hex[4:6])
			}
		}
		if err == nil && len(hex) == 8 {
			a, err = parseHex(hex[6:8])
		}
	default:
		return ColorF{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if err != nil {
		return ColorF{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return ColorU{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}.ToF(), nil
}

func parseHex(s string) (uint32, error) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, ErrInvalidHex
		}
	}
	return val, nil
}
