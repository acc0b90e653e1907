package sprite

import (
	"errors"
	"fmt"
	"sync"
)

// Handle addresses a sprite in a Store. It is the sprite's insertion index
// and stays valid until the next ClearAll.
type Handle int

// ErrInvalidHandle is returned by compositing operations given a handle
// that does not name a live sprite.
var ErrInvalidHandle = errors.New("sprite: invalid handle")

// Store is an append-only collection of sprites guarded by one lock. Every
// operation, including Blit and Render, holds the lock for its whole
// duration.
type Store struct {
	mu      sync.Mutex
	sprites []*Sprite
}

func NewStore() *Store {
	return &Store{}
}

// Create appends a Transparent-filled sprite and returns its handle.
// Negative dimensions are treated as 0. Sprites larger than MaxCells are
// refused with ErrTooLarge and take no handle.
func (s *Store) Create(width, height int) (Handle, error) {
	sp, err := newSprite(width, height)
	if err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sprites = append(s.sprites, sp)
	return Handle(len(s.sprites) - 1), nil
}

// ClearAll removes every sprite; all handles become invalid.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sprites = nil
}

// Len returns the number of live sprites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sprites)
}

// FillRect paints a solid rectangle, growing the sprite if the rectangle
// extends past it. x and y are clamped into [0, size]; w or h of -1 means
// "to the edge". An invalid handle is silently ignored. Growth past
// MaxCells fails with ErrTooLarge and leaves the sprite as it was.
func (s *Store) FillRect(h Handle, c Color, x, y, w, hgt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.lookup(h)
	if !ok {
		return nil
	}
	return sp.fillRect(c, x, y, w, hgt)
}

// Size reports the current dimensions of a sprite.
func (s *Store) Size(h Handle) (width, height int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.lookup(h)
	if !ok {
		return 0, 0, false
	}
	return sp.Width, sp.Height, true
}

// At returns one pixel of a sprite.
func (s *Store) At(h Handle, x, y int) (Color, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.lookup(h)
	if !ok {
		return 0, false
	}
	return sp.At(x, y), true
}

// Snapshot returns a copy of a sprite that the caller may keep.
func (s *Store) Snapshot(h Handle) (*Sprite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.lookup(h)
	if !ok {
		return nil, false
	}
	return sp.clone(), true
}

// lookup requires s.mu.
func (s *Store) lookup(h Handle) (*Sprite, bool) {
	if h < 0 || int(h) >= len(s.sprites) {
		return nil, false
	}
	return s.sprites[h], true
}

func (s *Store) mustLookup(h Handle) (*Sprite, error) {
	sp, ok := s.lookup(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return sp, nil
}
