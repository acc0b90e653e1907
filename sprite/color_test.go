package sprite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#f00", 0xF800},
		{"#ff0000", 0xF800},
		{"#0f0", 0x07E0},
		{"#00f", 0x001F},
		{"#000", 0x0000},
		{"#fff", 0xFFFF},
		{"#FFFFFF", 0xFFFF},
		{"#808080", 0x8410},
		{"#ff0000ff", 0xF800},
		{"#zz0000", 0x0000},
	}
	for _, tt := range tests {
		got, err := ParseWebColor(tt.in)
		require.NoError(t, err, "ParseWebColor(%q)", tt.in)
		assert.Equalf(t, tt.want, got, "ParseWebColor(%q) = %#04x", tt.in, uint16(got))
	}
}

func TestParseWebColorInvalid(t *testing.T) {
	for _, in := range []string{"", "bad", "#f", "#ff", "#ff00", "#ff000"} {
		_, err := ParseWebColor(in)
		assert.Truef(t, errors.Is(err, ErrInvalidColor), "ParseWebColor(%q) err = %v", in, err)
	}
}

func TestParseWebColorNeverTransparent(t *testing.T) {
	assert.Equal(t, Transparent, RGB(0xd8, 0xd4, 0x68))

	c, err := ParseWebColor("#d8d468")
	require.NoError(t, err)
	assert.NotEqual(t, Transparent, c)
	assert.Equal(t, Color(0xDEAC), c)
}
