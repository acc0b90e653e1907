package sprite

import (
	"errors"
	"fmt"
	"strconv"
)

// Color is a packed 16-bit RGB565 value: rrrrrggggggbbbbb.
type Color uint16

// Transparent marks unset sprite cells. Blit skips it; Render copies it
// verbatim.
const Transparent Color = 0xDEAD

// ErrInvalidColor is returned for color strings that are neither #RGB nor
// #RRGGBB.
var ErrInvalidColor = errors.New("sprite: invalid color")

// RGB packs 8-bit channels into RGB565.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// ParseWebColor parses "#RGB" (each nibble doubled) or "#RRGGBB"; strings
// of 7 or more characters use the six hex digits after the leading byte
// and ignore the rest. The leading byte is not checked.
//
// A channel whose digits are not hex parses as 0, matching stream-based
// hex extraction that stops at the first invalid digit.
//
// Colors that would pack to Transparent (e.g. "#d8d468") come back one
// blue step lower so that a parsed color is always drawn.
func ParseWebColor(s string) (Color, error) {
	var rs, gs, bs string
	switch {
	case len(s) == 4:
		rs = s[1:2] + s[1:2]
		gs = s[2:3] + s[2:3]
		bs = s[3:4] + s[3:4]
	case len(s) >= 7:
		rs = s[1:3]
		gs = s[3:5]
		bs = s[5:7]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c := RGB(hexByte(rs), hexByte(gs), hexByte(bs))
	if c == Transparent {
		c--
	}
	return c, nil
}

// hexByte parses the longest valid hex prefix of s.
func hexByte(s string) uint8 {
	n := 0
	for n < len(s) && isHex(s[n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseUint(s[:n], 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
