// Package sprite implements the sprite store and the compositing
// operations that draw sprites onto each other and onto a framebuffer.
//
// A sprite is a row-major RGB565 buffer that only ever grows. Cells that
// were never drawn hold Transparent.
package sprite

import (
	"errors"
	"fmt"
)

// MaxCells bounds the number of cells a single sprite may hold, 16M cells
// or 32 MiB of pixels. Creating or growing past it fails with ErrTooLarge.
const MaxCells = 1 << 24

// ErrTooLarge is returned when a sprite would exceed MaxCells.
var ErrTooLarge = errors.New("sprite: too large")

// checkSize fails with ErrTooLarge unless width×height fits in MaxCells. Both
// dimensions must be non-negative.
func checkSize(width, height int) error {
	if width > MaxCells || height > MaxCells ||
		(width > 0 && height > MaxCells/width) {
		return fmt.Errorf("%w: %d×%d exceeds %d cells", ErrTooLarge, width, height, MaxCells)
	}
	return nil
}

// Sprite is a width×height grid of colors; len(Pix) == Width*Height.
type Sprite struct {
	Width  int
	Height int
	Pix    []Color
}

func newSprite(width, height int) (*Sprite, error) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	pix := make([]Color, width*height)
	for i := range pix {
		pix[i] = Transparent
	}
	return &Sprite{Width: width, Height: height, Pix: pix}, nil
}

// At returns the color at (x, y), or Transparent outside the sprite.
func (s *Sprite) At(x, y int) Color {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return Transparent
	}
	return s.Pix[y*s.Width+x]
}

func (s *Sprite) clone() *Sprite {
	pix := make([]Color, len(s.Pix))
	copy(pix, s.Pix)
	return &Sprite{Width: s.Width, Height: s.Height, Pix: pix}
}

// grow reallocates to at least width×height, keeping every existing cell at
// its (x, y) position. The sprite is left unchanged on error.
func (s *Sprite) grow(width, height int) error {
	if width <= s.Width && height <= s.Height {
		return nil
	}
	width = max(width, s.Width)
	height = max(height, s.Height)
	if err := checkSize(width, height); err != nil {
		return err
	}

	pix := make([]Color, width*height)
	for i := range pix {
		pix[i] = Transparent
	}
	for y := 0; y < s.Height; y++ {
		copy(pix[y*width:y*width+s.Width], s.Pix[y*s.Width:(y+1)*s.Width])
	}
	s.Width = width
	s.Height = height
	s.Pix = pix
	return nil
}

// fillRect clamps the origin into the sprite, expands -1 extents to the
// edge, grows the sprite when the rectangle runs past it and then paints
// the rectangle. Other negative extents are kept as given: they still take
// part in the growth check but paint nothing. An extent past MaxCells
// fails before any arithmetic on it can overflow.
func (s *Sprite) fillRect(c Color, x, y, w, h int) error {
	if w > MaxCells || h > MaxCells {
		return fmt.Errorf("%w: fill %d×%d", ErrTooLarge, w, h)
	}
	x = min(max(x, 0), s.Width)
	y = min(max(y, 0), s.Height)
	if w == -1 {
		w = s.Width - x
	}
	if h == -1 {
		h = s.Height - y
	}
	if x+w > s.Width || y+h > s.Height {
		if err := s.grow(x+w, y+h); err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	for row := y; row < y+h; row++ {
		line := s.Pix[row*s.Width+x : row*s.Width+x+w]
		for i := range line {
			line[i] = c
		}
	}
	return nil
}
